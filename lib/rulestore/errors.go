// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulestore

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the store reports. The set is
// closed: callers can switch over it exhaustively.
type ErrorKind int

const (
	// LookupFailed means the artifact file is missing, unreadable, or
	// its header cannot be decoded or does not match the file size.
	LookupFailed ErrorKind = iota + 1

	// VersionMismatch means the header decoded but declares a format
	// version other than CurrentVersion. The file is left on disk.
	VersionMismatch

	// CompileFailed means the compiler rejected the source or writing,
	// mapping, or publishing the artifact failed. Any previously
	// published artifact for the identifier is untouched.
	CompileFailed

	// RemoveFailed means the artifact file could not be deleted.
	RemoveFailed
)

// String returns the kind's human-readable name.
func (kind ErrorKind) String() string {
	switch kind {
	case LookupFailed:
		return "lookup failed"
	case VersionMismatch:
		return "version mismatch"
	case CompileFailed:
		return "compile failed"
	case RemoveFailed:
		return "remove failed"
	default:
		return fmt.Sprintf("unknown error kind (%d)", int(kind))
	}
}

// Error lets an ErrorKind serve as its own sentinel:
//
//	if errors.Is(err, rulestore.VersionMismatch) { ... }
func (kind ErrorKind) Error() string { return kind.String() }

// ErrStoreClosed is wrapped by errors delivered for operations
// submitted after [Store.Close].
var ErrStoreClosed = errors.New("store is closed")

// Error is the error type delivered to every completion callback. It
// wraps the underlying cause, preserving the chain for errors.Is and
// errors.As, and adds the failure category and the identifier the
// operation was about.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// Identifier is the rule list the operation targeted. Empty for
	// operations that are not about a single identifier.
	Identifier string

	// Err is the underlying cause with the human-readable detail.
	Err error
}

func (e *Error) Error() string {
	if e.Identifier == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s for %q: %v", e.Kind, e.Identifier, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is the ErrorKind of e.
func (e *Error) Is(target error) bool {
	kind, ok := target.(ErrorKind)
	return ok && kind == e.Kind
}

func newError(kind ErrorKind, identifier string, format string, args ...any) *Error {
	return &Error{Kind: kind, Identifier: identifier, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the ErrorKind carried by err, if err is or wraps an
// [*Error].
func KindOf(err error) (ErrorKind, bool) {
	var storeError *Error
	if errors.As(err, &storeError) {
		return storeError.Kind, true
	}
	return 0, false
}

// NeedsRecompile reports whether err means the caller should compile
// the rule list from source: the artifact is missing, damaged, or
// written by a different format version.
func NeedsRecompile(err error) bool {
	return errors.Is(err, LookupFailed) || errors.Is(err, VersionMismatch)
}
