// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulestore

// Compiler turns rule list source text into artifact segments. The
// store treats it as a black box: it only requires that a successful
// Compile has written every segment to sink, in order, and called
// [Sink.Finalize] exactly once.
//
// Compile runs on a store worker goroutine and may be called
// concurrently for different identifiers; implementations must not
// share mutable state across calls without synchronization.
type Compiler interface {
	// Compile parses source and writes the result to sink. A non-nil
	// error (malformed source, Finalize failure) is reported to the
	// caller as CompileFailed.
	Compile(source string, sink *Sink) error
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(source string, sink *Sink) error

// Compile calls f(source, sink).
func (f CompilerFunc) Compile(source string, sink *Sink) error { return f(source, sink) }
