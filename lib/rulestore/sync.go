// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulestore

// The Sync variants block the calling goroutine until the operation's
// callback has been dispatched and run. They suit command-line tools
// and tests that have no event loop of their own. They must not be
// called from inside a callback running on the store's own Loop: the
// loop would wait on itself.

type result[T any] struct {
	value T
	err   error
}

func await[T any](start func(callback func(T, error))) (T, error) {
	done := make(chan result[T], 1)
	start(func(value T, err error) {
		done <- result[T]{value: value, err: err}
	})
	outcome := <-done
	return outcome.value, outcome.err
}

// LookupSync is the blocking form of [Store.Lookup].
func (s *Store) LookupSync(identifier string) (*Artifact, error) {
	return await(func(callback func(*Artifact, error)) {
		s.Lookup(identifier, callback)
	})
}

// CompileSync is the blocking form of [Store.Compile].
func (s *Store) CompileSync(identifier, source string) (*Artifact, error) {
	return await(func(callback func(*Artifact, error)) {
		s.Compile(identifier, source, callback)
	})
}

// RemoveSync is the blocking form of [Store.Remove].
func (s *Store) RemoveSync(identifier string) error {
	_, err := await(func(callback func(struct{}, error)) {
		s.Remove(identifier, func(err error) { callback(struct{}{}, err) })
	})
	return err
}

// IdentifiersSync is the blocking form of [Store.Identifiers].
func (s *Store) IdentifiersSync() ([]string, error) {
	return await(s.Identifiers)
}
