// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package event

import "sync"

// Listener consumes events of the E type.
type Listener[E any] func(E)

type subscription[E any] struct {
	id int
	fn Listener[E]
}

// Listeners is a registry of E event listeners. The zero value is ready
// to use and it is safe for concurrent use.
type Listeners[E any] struct {
	mu     sync.Mutex
	lastID int
	subs   []subscription[E]
}

// Subscribe registers l and returns a function which unregisters it.
// Listeners are called in their registration order.
func (ls *Listeners[E]) Subscribe(l Listener[E]) (unsubscribe func()) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.lastID++
	id := ls.lastID
	ls.subs = append(ls.subs, subscription[E]{id: id, fn: l})
	return func() {
		ls.mu.Lock()
		defer ls.mu.Unlock()
		for i, s := range ls.subs {
			if s.id == id {
				ls.subs = append(ls.subs[:i:i], ls.subs[i+1:]...)
				return
			}
		}
	}
}

// Len returns the number of registered listeners.
func (ls *Listeners[E]) Len() int {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return len(ls.subs)
}

// Fire posts one task to q which delivers e to all listeners which are
// registered at the time of calling Fire.
func (ls *Listeners[E]) Fire(q *Queue, e E) error {
	ls.mu.Lock()
	subs := ls.subs
	ls.mu.Unlock()
	if len(subs) == 0 {
		return nil
	}
	return q.Post(func() {
		for _, s := range subs {
			s.fn(e)
		}
	})
}
