// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package rulestore

import "sync"

// WorkQueue runs submitted tasks on a fixed set of worker goroutines
// in submission order. With one worker it is a serial queue; with
// more, tasks start in order but run in parallel.
//
// Submit never blocks: the backlog is unbounded. Close stops
// accepting tasks, lets the workers drain everything already
// submitted, and waits for them to exit. There is no cancellation.
type WorkQueue struct {
	name string

	mutex   sync.Mutex
	ready   *sync.Cond
	pending []func()
	closed  bool

	workers sync.WaitGroup
}

// NewSerialQueue returns a queue that runs one task at a time.
func NewSerialQueue(name string) *WorkQueue {
	return NewWorkQueue(name, 1)
}

// NewWorkQueue returns a queue with the given number of workers.
// Values below 1 are treated as 1.
func NewWorkQueue(name string, workers int) *WorkQueue {
	if workers < 1 {
		workers = 1
	}
	queue := &WorkQueue{name: name}
	queue.ready = sync.NewCond(&queue.mutex)
	queue.workers.Add(workers)
	for range workers {
		go queue.work()
	}
	return queue
}

// Name returns the name the queue was created with.
func (q *WorkQueue) Name() string { return q.name }

// Submit enqueues task. It returns false, without running task, if
// the queue has been closed.
func (q *WorkQueue) Submit(task func()) bool {
	q.mutex.Lock()
	defer q.mutex.Unlock()
	if q.closed {
		return false
	}
	q.pending = append(q.pending, task)
	q.ready.Signal()
	return true
}

// Close drains the queue and waits for every worker to exit. Tasks
// submitted before Close still run. Safe to call more than once.
func (q *WorkQueue) Close() {
	q.mutex.Lock()
	q.closed = true
	q.ready.Broadcast()
	q.mutex.Unlock()
	q.workers.Wait()
}

func (q *WorkQueue) work() {
	defer q.workers.Done()
	for {
		q.mutex.Lock()
		for len(q.pending) == 0 && !q.closed {
			q.ready.Wait()
		}
		if len(q.pending) == 0 {
			q.mutex.Unlock()
			return
		}
		task := q.pending[0]
		q.pending[0] = nil
		q.pending = q.pending[1:]
		q.mutex.Unlock()

		task()
	}
}
