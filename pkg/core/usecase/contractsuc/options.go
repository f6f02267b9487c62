// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package contractsuc

import (
	"errors"
	"time"

	"github.com/momeni/carrent/pkg/core/event"
)

// Option is a functional option for the contracts use case.
type Option func(uc *UseCase) error

// WithClock option configures a contracts UseCase instance in order to
// take the current date from now when generating display IDs.
// This option may be passed to the New() function.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		if uc.now != nil {
			return errors.New("clock is already configured")
		}
		uc.now = now
		return nil
	}
}

// WithObserver option registers o in order to be called synchronously
// for each change which is made by the contracts UseCase. It may be
// passed several times.
func WithObserver(o event.Observer) Option {
	return func(uc *UseCase) error {
		if o == nil {
			return errors.New("observer is nil")
		}
		uc.observers = append(uc.observers, o)
		return nil
	}
}
