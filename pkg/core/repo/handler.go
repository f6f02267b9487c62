// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/momeni/carrent/pkg/core/model"
)

// Handler persists a whole database in one file format.
type Handler interface {
	// Load parses the path file as a whole and returns a new database
	// instance. Failures are reported as cerr.LoadingFailed errors.
	Load(ctx context.Context, path string) (*model.Database, error)

	// Save serializes db to the path file as a whole. Failures are
	// reported as cerr.WritingFailed errors. The db must not be
	// modified during Save.
	Save(ctx context.Context, db *model.Database, path string) error
}

// Handlers resolves the Handler of a file based on its extension.
type Handlers interface {
	// ForFile returns the Handler which supports the path file.
	// For unknown extensions, a cerr.LoaderNotFound error is returned.
	ForFile(path string) (Handler, error)

	// Extensions returns the supported extensions (without the dot).
	Extensions() []string
}
