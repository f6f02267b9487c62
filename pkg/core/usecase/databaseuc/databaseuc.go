// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package databaseuc contains the database UseCase which loads and
// saves the whole database, tracks the unsaved changes, and remembers
// the active file which should be used for later saves.
//
// The entity use cases should be instantiated with the Observe method
// of this use case as their observer (e.g., clientsuc.WithObserver),
// so their changes mark the database as modified.
package databaseuc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/momeni/carrent/pkg/core/event"
	"github.com/momeni/carrent/pkg/core/log"
	"github.com/momeni/carrent/pkg/core/model"
	"github.com/momeni/carrent/pkg/core/repo"
)

// ErrNoActiveFile is returned by SaveActive if no file is loaded or
// saved yet.
var ErrNoActiveFile = errors.New("no active database file")

// UseCase represents the database use case.
type UseCase struct {
	store     repo.Store
	handlers  repo.Handlers
	queue     *event.Queue
	listeners event.Listeners[event.DatabaseEvent]

	modified atomic.Bool

	mu     sync.Mutex
	active string
}

// New instantiates a database use case. The s store is replaced on
// each load and saved by handlers which are chosen from h. The
// database events are posted to q.
func New(s repo.Store, h repo.Handlers, q *event.Queue) (*UseCase, error) {
	if s == nil || h == nil || q == nil {
		return nil, errors.New("store, handlers, and queue are required")
	}
	return &UseCase{store: s, handlers: h, queue: q}, nil
}

// Observe marks the database as modified and posts a Changed event.
// It must be called synchronously by the entity use cases, while they
// hold the store for update, as an event.Observer.
func (uc *UseCase) Observe(e event.ModelEvent) {
	uc.modified.Store(true)
	uc.fire(context.Background(), event.DatabaseEvent{
		Kind: event.Changed, Cause: &e,
	})
}

// Load replaces the current database by the content of the path file.
// The file format is chosen by its extension. On failure, the current
// database and the active file are kept unchanged. The unsaved changes
// flag is not changed by loading.
func (uc *UseCase) Load(ctx context.Context, path string) error {
	uc.fire(ctx, event.DatabaseEvent{Kind: event.Loading, Path: path})
	h, err := uc.handlers.ForFile(path)
	if err != nil {
		log.Error(ctx, "no loader", log.Path(path), log.Err("err", err))
		return fmt.Errorf("loading %q: %w", path, err)
	}
	db, err := h.Load(ctx, path)
	if err != nil {
		log.Error(ctx, "loading failed", log.Path(path), log.Err("err", err))
		return fmt.Errorf("loading %q: %w", path, err)
	}
	uc.store.Replace(db)
	uc.fire(ctx, event.DatabaseEvent{Kind: event.Loaded, Path: path})
	uc.setActive(path)
	log.Info(ctx, "database loaded", log.Path(path))
	return nil
}

// Save writes the current database to the path file, using the format
// which is chosen by its extension, and clears the unsaved changes
// flag. The path file becomes the active file. On failure, the unsaved
// changes flag is kept unchanged.
func (uc *UseCase) Save(ctx context.Context, path string) error {
	h, err := uc.handlers.ForFile(path)
	if err != nil {
		log.Error(ctx, "no writer", log.Path(path), log.Err("err", err))
		return fmt.Errorf("saving %q: %w", path, err)
	}
	uc.store.View(func(db *model.Database) {
		if err = h.Save(ctx, db, path); err == nil {
			// changes need the store for update, so none is missed
			uc.modified.Store(false)
		}
	})
	if err != nil {
		log.Error(ctx, "saving failed", log.Path(path), log.Err("err", err))
		return fmt.Errorf("saving %q: %w", path, err)
	}
	uc.fire(ctx, event.DatabaseEvent{Kind: event.Saved, Path: path})
	uc.setActive(path)
	log.Info(ctx, "database saved", log.Path(path))
	return nil
}

// SaveActive saves the database to the active file.
func (uc *UseCase) SaveActive(ctx context.Context) error {
	path := uc.ActiveFile()
	if path == "" {
		return ErrNoActiveFile
	}
	return uc.Save(ctx, path)
}

// HasUnsavedChanges reports whether any entity was added, edited, or
// removed after the last successful save.
func (uc *UseCase) HasUnsavedChanges() bool {
	return uc.modified.Load()
}

// ActiveFile returns the last successfully loaded or saved file path,
// or an empty string if there is none.
func (uc *UseCase) ActiveFile() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.active
}

func (uc *UseCase) setActive(path string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.active = path
}

// Extensions returns the supported file extensions.
func (uc *UseCase) Extensions() []string {
	return uc.handlers.Extensions()
}

// Subscribe registers l in order to be notified about the database
// events, asynchronously. The returned function unregisters l.
func (uc *UseCase) Subscribe(l event.Listener[event.DatabaseEvent]) (unsubscribe func()) {
	return uc.listeners.Subscribe(l)
}

func (uc *UseCase) fire(ctx context.Context, e event.DatabaseEvent) {
	if err := uc.listeners.Fire(uc.queue, e); err != nil {
		log.Warn(ctx, "dropping database event",
			log.Valuer("event", e), log.Err("err", err))
	}
}
