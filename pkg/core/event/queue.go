// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package event provides the change notification bus. Notifications
// are delivered asynchronously with respect to the code which fires
// them, by posting tasks to a Queue. A Queue runs its tasks one at a
// time in a single worker goroutine, strictly in their posting order.
// Listeners are registered in Listeners instances which fan out each
// fired event by posting one task to a Queue.
package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/momeni/carrent/pkg/core/log"
)

// ErrClosed is returned when posting to (or flushing) a closed Queue.
var ErrClosed = errors.New("queue is closed")

// Queue is an unbounded FIFO queue of tasks which are executed by one
// worker goroutine. Tasks never overlap and run in their posting order.
type Queue struct {
	mu     sync.Mutex
	tasks  []func()
	closed bool

	wake chan struct{}
	done chan struct{}
}

// NewQueue instantiates a Queue and starts its worker goroutine.
// The Close method must be called in order to stop the worker.
func NewQueue() *Queue {
	q := &Queue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

// Post appends task to the q queue and returns without waiting for its
// execution. The ErrClosed is returned if q is already closed.
func (q *Queue) Post(task func()) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()
	q.signal()
	return nil
}

// Flush waits until all tasks which were posted before calling Flush
// are executed. Tasks which are posted concurrently may or may not be
// executed before Flush returns.
func (q *Queue) Flush(ctx context.Context) error {
	reached := make(chan struct{})
	if err := q.Post(func() { close(reached) }); err != nil {
		return err
	}
	select {
	case <-reached:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("flushing event queue: %w", ctx.Err())
	}
}

// Close stops accepting new tasks and waits until the already posted
// tasks are executed and the worker goroutine is stopped, or ctx is
// done. Calling Close more than once is harmless.
func (q *Queue) Close(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("closing event queue: %w", ctx.Err())
	}
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default: // a wake up is already pending
	}
}

func (q *Queue) run() {
	defer close(q.done)
	for {
		q.mu.Lock()
		for len(q.tasks) == 0 {
			if q.closed {
				q.mu.Unlock()
				return
			}
			q.mu.Unlock()
			<-q.wake
			q.mu.Lock()
		}
		task := q.tasks[0]
		q.tasks[0] = nil
		q.tasks = q.tasks[1:]
		q.mu.Unlock()
		execute(task)
	}
}

// execute runs task, logging its panic (if any) so one faulty listener
// may not stop the delivery of later events.
func execute(task func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error(
				context.Background(), "event task panicked",
				log.Err("err", fmt.Errorf("%v", r)),
			)
		}
	}()
	task()
}
