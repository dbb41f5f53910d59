// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package rulestore persists compiled content-filter rule lists on
// disk so they are compiled once and then memory-mapped on every
// later use, including by other processes.
//
// Each rule list is stored under a caller-chosen identifier as one
// file in the store directory. The file is a fixed 36-byte header
// ([Metadata]: format version plus four segment sizes) followed by
// four segments in a fixed order:
//
//	[header][actions][filters-without-domains][filters-with-domain][domain-filters]
//
// Segments are produced by a [Compiler], which the store treats as a
// black box. The compiler writes them to a [Sink] in that order; the
// sink streams them into a temporary file, rewrites the header with
// the real sizes, and maps the file. Only when the compiler returns
// without error does the store atomically rename it into place, so a
// failed compile never disturbs a previously published artifact.
//
// The [Store] exposes four operations. Lookup, Compile, and Remove
// are asynchronous: they are queued onto background work queues and
// deliver a result to a callback through a [Dispatcher]. RemoveAll is
// a synchronous sweep. Every failure is an [*Error] carrying one of
// four kinds (LookupFailed, VersionMismatch, CompileFailed,
// RemoveFailed); callers treat LookupFailed and VersionMismatch alike
// as "recompile from source" (see [NeedsRecompile]).
//
// Looked-up and compiled artifacts are [Artifact] handles over a
// read-only shared mapping. Segments are addressed by role, never by
// scanning. [Artifact.Share] hands the mapping's file to another
// process as [SharedMemory].
//
// Identifiers map to file names by percent-encoding (see [FileName]),
// so names stay human-readable in a directory listing and distinct
// identifiers never share a file.
package rulestore
