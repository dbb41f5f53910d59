// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"sync/atomic"
	"time"
)

// TestingT is the subset of testing.TB the helpers need.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Outcome is one completion callback invocation.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Capture returns a callback that sends each invocation to the
// returned channel. The channel is buffered so the callback never
// blocks the goroutine that runs it.
func Capture[T any]() (func(T, error), <-chan Outcome[T]) {
	results := make(chan Outcome[T], 16)
	return func(value T, err error) {
		results <- Outcome[T]{Value: value, Err: err}
	}, results
}

// CaptureError is [Capture] for callbacks that receive only an error.
func CaptureError() (func(error), <-chan error) {
	results := make(chan error, 16)
	return func(err error) { results <- err }, results
}

// RequireReceive reads one value from ch within timeout, or fails the
// test.
func RequireReceive[T any](t TestingT, ch <-chan T, timeout time.Duration, msgAndArgs ...any) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed without sending a value: %s", formatMessage(msgAndArgs))
		}
		return v
	case <-time.After(timeout):
		t.Fatalf("timed out after %v: %s", timeout, formatMessage(msgAndArgs))
	}
	panic("unreachable")
}

var uniqueCounter atomic.Uint64

// UniqueID returns "prefix-N" with N increasing across the test
// binary.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, uniqueCounter.Add(1))
}

func formatMessage(msgAndArgs []any) string {
	switch {
	case len(msgAndArgs) == 0:
		return "(no message)"
	case len(msgAndArgs) == 1:
		return fmt.Sprint(msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}
