// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo contains the interfaces which are required by the use
// cases layer and must be implemented by the adapters layer. The use
// cases only depend on these interfaces, so they can be tested without
// touching the file system.
package repo

import "github.com/momeni/carrent/pkg/core/model"

// ViewHandler reads a database. It must not keep db, or any of its
// collections, after returning.
type ViewHandler func(db *model.Database)

// UpdateHandler reads and modifies a database. It must not keep db
// after returning. A non-nil returned error is passed to the caller
// of Update.
type UpdateHandler func(db *model.Database) error

// Store is the single owner of the live in-memory database.
// All accesses to the database are serialized by a Store, so use cases
// may be called from multiple goroutines. Handlers must not call the
// Store methods recursively.
type Store interface {
	// View calls handler with the current database, allowing other
	// View calls to run concurrently.
	View(handler ViewHandler)

	// Update calls handler with the current database exclusively.
	Update(handler UpdateHandler) error

	// Replace swaps the current database with db and returns the
	// previous database instance. All later View and Update calls
	// observe db.
	Replace(db *model.Database) (previous *model.Database)
}
