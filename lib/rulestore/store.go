// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulestore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync/atomic"
)

// Options configures [Open].
type Options struct {
	// Directory holds one artifact file per identifier. Created if it
	// does not exist. Defaults to [DefaultDirectory].
	Directory string

	// Compiler compiles source text for [Store.Compile]. A store
	// without a compiler can still look up, list, and remove
	// artifacts; Compile fails with CompileFailed.
	Compiler Compiler

	// Dispatcher receives every completion callback. Defaults to a
	// [Loop] owned and closed by the store.
	Dispatcher Dispatcher

	// Logger receives operational logs. Defaults to slog.Default().
	Logger *slog.Logger

	// CompileConcurrency bounds how many compiles run at once.
	// Defaults to runtime.GOMAXPROCS(0).
	CompileConcurrency int
}

// Store persists compiled rule lists, one file per identifier, and
// maps them back into memory on demand.
//
// Every operation except RemoveAll and Close is asynchronous: it is
// queued and returns immediately, and its result is delivered to a
// callback through the store's Dispatcher. Compiles run on a
// concurrent queue; lookups (and Identifiers) run on a serial queue,
// which bounds the number of files being opened and mapped at once;
// removals run on their own serial queue. Lookups only ever open
// files that were atomically renamed into place, so they never wait
// on or observe an in-progress compile.
//
// The store keeps no per-identifier state. Two compiles of the same
// identifier race to rename onto the same path and the later rename
// wins; a compile racing a remove of the same identifier may
// resurrect the file. Callers that need ordering for one identifier
// must wait for one operation's callback before starting the next.
type Store struct {
	directory  string
	compiler   Compiler
	dispatcher Dispatcher
	ownedLoop  *Loop
	logger     *slog.Logger

	compileQueue *WorkQueue
	lookupQueue  *WorkQueue
	removeQueue  *WorkQueue

	closed atomic.Bool
}

// DefaultDirectory returns the platform cache directory's "rulestore"
// subdirectory.
func DefaultDirectory() (string, error) {
	cacheDirectory, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating user cache directory: %w", err)
	}
	return filepath.Join(cacheDirectory, "rulestore"), nil
}

// Open creates the store directory if needed and starts the store's
// work queues. Close the store to stop them.
func Open(options Options) (*Store, error) {
	directory := options.Directory
	if directory == "" {
		var err error
		if directory, err = DefaultDirectory(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory %s: %w", directory, err)
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	concurrency := options.CompileConcurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}

	store := &Store{
		directory:    directory,
		compiler:     options.Compiler,
		dispatcher:   options.Dispatcher,
		logger:       logger.With("store", directory),
		compileQueue: NewWorkQueue("compile", concurrency),
		lookupQueue:  NewSerialQueue("lookup"),
		removeQueue:  NewSerialQueue("remove"),
	}
	if store.dispatcher == nil {
		store.ownedLoop = NewLoop()
		store.dispatcher = store.ownedLoop
	}
	return store, nil
}

// Directory returns the directory artifacts are stored in.
func (s *Store) Directory() string { return s.directory }

// Lookup maps the artifact for identifier and passes it to callback.
// The callback owns the returned Artifact and must Close it. Fails
// with LookupFailed if the file is absent or damaged and with
// VersionMismatch if it was written by a different format version.
func (s *Store) Lookup(identifier string, callback func(*Artifact, error)) {
	submit(s, s.lookupQueue, LookupFailed, identifier, func() (*Artifact, error) {
		return s.lookup(identifier)
	}, callback)
}

// Compile compiles source and publishes the result as identifier's
// artifact, replacing any earlier one. The callback owns the returned
// Artifact and must Close it. Any failure is CompileFailed and leaves
// an earlier artifact for identifier in place.
func (s *Store) Compile(identifier, source string, callback func(*Artifact, error)) {
	submit(s, s.compileQueue, CompileFailed, identifier, func() (*Artifact, error) {
		return s.compile(identifier, source)
	}, callback)
}

// Remove deletes identifier's artifact. Fails with RemoveFailed if
// the file cannot be deleted, including when it does not exist.
// Artifacts already mapped stay valid until closed.
func (s *Store) Remove(identifier string, callback func(error)) {
	submit(s, s.removeQueue, RemoveFailed, identifier, func() (struct{}, error) {
		return struct{}{}, s.remove(identifier)
	}, func(_ struct{}, err error) {
		callback(err)
	})
}

// Identifiers lists the identifiers that currently have an artifact
// file, sorted. It runs on the lookup queue. Files of any format
// version are listed; temporary files and files the store did not
// name are skipped.
func (s *Store) Identifiers(callback func([]string, error)) {
	submit(s, s.lookupQueue, LookupFailed, "", s.identifiers, callback)
}

// RemoveAll synchronously deletes every file in the store directory,
// bypassing the work queues. It must not run while any other
// operation on this store is in flight: a compile that finishes
// after the sweep republishes its artifact. Errors for individual
// files are joined into one RemoveFailed error; the sweep continues
// past them.
func (s *Store) RemoveAll() error {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &Error{Kind: RemoveFailed, Err: fmt.Errorf("listing %s: %w", s.directory, err)}
	}

	var failures []error
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(s.directory, entry.Name())
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			failures = append(failures, err)
			continue
		}
		removed++
	}
	s.logger.Info("removed all content rule lists", "files", removed, "failures", len(failures))

	if len(failures) > 0 {
		return &Error{Kind: RemoveFailed, Err: errors.Join(failures...)}
	}
	return nil
}

// Close stops accepting operations, waits for every queued operation
// to finish, and then delivers their remaining callbacks. Operations
// submitted after Close fail with an error wrapping ErrStoreClosed.
// Artifacts returned earlier remain valid.
func (s *Store) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.compileQueue.Close()
	s.lookupQueue.Close()
	s.removeQueue.Close()
	if s.ownedLoop != nil {
		s.ownedLoop.Close()
	}
}

// submit runs work on queue and delivers its result through the
// dispatcher. Errors that are not themselves an *Error are wrapped
// with kind.
func submit[T any](s *Store, queue *WorkQueue, kind ErrorKind, identifier string, work func() (T, error), callback func(T, error)) {
	deliver := func(value T, err error) {
		if _, categorized := err.(*Error); err != nil && !categorized {
			err = &Error{Kind: kind, Identifier: identifier, Err: err}
		}
		s.dispatcher.Dispatch(func() { callback(value, err) })
	}

	rejected := s.closed.Load() || !queue.Submit(func() {
		deliver(work())
	})
	if rejected {
		var zero T
		deliver(zero, ErrStoreClosed)
	}
}

func (s *Store) lookup(identifier string) (*Artifact, error) {
	path, err := s.Path(identifier)
	if err != nil {
		return nil, err
	}

	m, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	artifact, err := newArtifact(identifier, m)
	if err != nil {
		m.release()
		s.logger.Debug("content rule list lookup rejected",
			"identifier", identifier,
			"path", path,
			"error", err,
		)
		return nil, err
	}
	return artifact, nil
}

func (s *Store) compile(identifier, source string) (*Artifact, error) {
	if s.compiler == nil {
		return nil, fmt.Errorf("store has no compiler")
	}
	path, err := s.Path(identifier)
	if err != nil {
		return nil, err
	}

	sink, err := newSink(s.directory, path, identifier, s.logger)
	if err != nil {
		return nil, err
	}
	// Also covers a compiler that panics on a sink-order violation.
	defer sink.Abort()

	if err := s.compiler.Compile(source, sink); err != nil {
		// A Finalize that already succeeded is undone by Abort: the
		// file never left its temporary path.
		s.logger.Info("content rule list compile failed",
			"identifier", identifier,
			"error", err,
		)
		return nil, err
	}

	artifact, err := sink.publish()
	if err != nil {
		s.logger.Warn("publishing content rule list failed",
			"identifier", identifier,
			"error", err,
		)
		return nil, err
	}

	metadata := artifact.Metadata()
	s.logger.Info("compiled content rule list",
		"identifier", identifier,
		"path", path,
		"bytes", artifact.Size(),
		"actions", metadata.ActionsSize,
		"filters_without_domains", metadata.FiltersWithoutDomainsSize,
		"filters_with_domain", metadata.FiltersWithDomainSize,
		"domain_filters", metadata.DomainFiltersSize,
	)
	return artifact, nil
}

func (s *Store) remove(identifier string) error {
	path, err := s.Path(identifier)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return err
	}
	s.logger.Info("removed content rule list", "identifier", identifier, "path", path)
	return nil
}

func (s *Store) identifiers() ([]string, error) {
	entries, err := os.ReadDir(s.directory)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", s.directory, err)
	}

	var identifiers []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !strings.HasPrefix(entry.Name(), fileNamePrefix) {
			continue
		}
		if identifier, ok := IdentifierFromFileName(entry.Name()); ok {
			identifiers = append(identifiers, identifier)
		}
	}
	slices.Sort(identifiers)
	return identifiers, nil
}
