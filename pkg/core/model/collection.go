// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"iter"
)

// ErrNotRegistered indicates that no entity with the requested display
// ID is registered in a collection.
var ErrNotRegistered = errors.New("not registered")

// Collection keeps entities of one family in their insertion order.
// Entities are identified by their display IDs. All readers obtain
// copies of the kept entities and modifications are only possible
// through the Register, Unregister, and Modify methods.
// A Collection is not safe for concurrent use.
type Collection[T Record] struct {
	items []T
}

// Register appends item to the end of the c collection.
func (c *Collection[T]) Register(item T) {
	c.items = append(c.items, item)
}

// Unregister removes the entity with the given display ID, preserving
// the order of other entities. It returns false if no such entity was
// registered.
func (c *Collection[T]) Unregister(id string) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return true
}

// Modify calls f with a pointer to a copy of the entity with the given
// display ID and stores the modified copy back if f returns nil.
// So a failing f may not partially modify the entity.
// The ErrNotRegistered is returned if id is not registered.
func (c *Collection[T]) Modify(id string, f func(*T) error) error {
	i := c.index(id)
	if i < 0 {
		return ErrNotRegistered
	}
	item := c.items[i]
	if err := f(&item); err != nil {
		return err
	}
	c.items[i] = item
	return nil
}

// Lookup returns a copy of the entity with the given display ID.
func (c *Collection[T]) Lookup(id string) (item T, ok bool) {
	i := c.index(id)
	if i < 0 {
		return item, false
	}
	return c.items[i], true
}

// Contains reports if an entity with the given display ID exists.
func (c *Collection[T]) Contains(id string) bool {
	return c.index(id) >= 0
}

// At returns a copy of the i-th entity in the insertion order.
// It panics if i is out of the [0, Len()) range.
func (c *Collection[T]) At(i int) T {
	return c.items[i]
}

// Len returns the number of registered entities.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// All returns an iterator over copies of the registered entities in
// their insertion order. The iterator reads the collection lazily,
// so it observes modifications which happen during the iteration.
func (c *Collection[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < len(c.items); i++ {
			if !yield(c.items[i]) {
				return
			}
		}
	}
}

func (c *Collection[T]) index(id string) int {
	for i, item := range c.items {
		if item.Base().ID == id {
			return i
		}
	}
	return -1
}
