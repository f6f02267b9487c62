// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memdb implements the repo.Store interface, keeping the live
// database in memory and serializing its accesses with a read/write
// lock.
package memdb

import (
	"sync"

	"github.com/momeni/carrent/pkg/core/model"
	"github.com/momeni/carrent/pkg/core/repo"
)

// Store is the repo.Store implementation.
type Store struct {
	mu sync.RWMutex
	db *model.Database
}

var _ repo.Store = (*Store)(nil)

// New instantiates a Store which initially owns an empty database.
func New() *Store {
	return &Store{db: model.NewDatabase()}
}

// View calls f with the current database, holding the read lock.
func (s *Store) View(f repo.ViewHandler) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f(s.db)
}

// Update calls f with the current database, holding the write lock.
func (s *Store) Update(f repo.UpdateHandler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f(s.db)
}

// Replace swaps the current database with db. A nil db is replaced by
// an empty database.
func (s *Store) Replace(db *model.Database) *model.Database {
	if db == nil {
		db = model.NewDatabase()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.db
	s.db = db
	return prev
}
