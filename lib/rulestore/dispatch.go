// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulestore

// Dispatcher delivers completion callbacks onto the caller's execution
// context. Store workers never invoke callbacks directly; they hand
// each one to the Dispatcher, so an embedder with its own event loop
// (a UI thread, a reactor goroutine) can run callbacks there and
// needs no locking around state the callbacks touch.
type Dispatcher interface {
	Dispatch(callback func())
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(callback func())

// Dispatch calls f(callback).
func (f DispatcherFunc) Dispatch(callback func()) { f(callback) }

// Loop is a Dispatcher that runs callbacks one at a time, in order, on
// a single dedicated goroutine. It is the default when [Options] does
// not supply a Dispatcher: callbacks never run concurrently with each
// other, though they do run concurrently with code outside the loop.
type Loop struct {
	queue *WorkQueue
}

// NewLoop starts a Loop.
func NewLoop() *Loop {
	return &Loop{queue: NewSerialQueue("callbacks")}
}

// Dispatch enqueues callback. After Close, callback runs immediately
// on the calling goroutine: the loop no longer has a goroutine of its
// own, so nothing can run concurrently with it there.
func (l *Loop) Dispatch(callback func()) {
	if !l.queue.Submit(callback) {
		callback()
	}
}

// Close runs every callback already dispatched and stops the loop.
func (l *Loop) Close() {
	l.queue.Close()
}
