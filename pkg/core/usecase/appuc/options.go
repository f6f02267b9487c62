// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"errors"
	"time"

	"github.com/momeni/carrent/pkg/core/usecase/clientsuc"
	"github.com/momeni/carrent/pkg/core/usecase/contractsuc"
)

// Option represents an optional setting for the application use case.
type Option func(app *UseCase) error

// WithClock sets the current time provider of the use cases which
// embed the creation day in their display IDs.
func WithClock(now func() time.Time) Option {
	return func(app *UseCase) error {
		if now == nil {
			return errors.New("clock function is nil")
		}
		app.clientOpts = append(app.clientOpts, clientsuc.WithClock(now))
		app.contractOpts = append(app.contractOpts, contractsuc.WithClock(now))
		return nil
	}
}
