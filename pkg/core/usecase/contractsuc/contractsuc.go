// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package contractsuc contains the contracts UseCase which supports
// the rental related use cases:
//  1. Pricing a rental (Quote),
//  2. Renting a vehicle with a computed price (Rent),
//  3. Adding, editing, and removing contracts directly.
//
// A vehicle may be referenced by at most one contract. The referenced
// client and vehicle must exist when a contract is added, but later
// removing them does not affect their contracts.
package contractsuc

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/momeni/carrent/pkg/core/cerr"
	"github.com/momeni/carrent/pkg/core/event"
	"github.com/momeni/carrent/pkg/core/log"
	"github.com/momeni/carrent/pkg/core/model"
	"github.com/momeni/carrent/pkg/core/repo"
	"github.com/momeni/carrent/pkg/core/validation"
)

// UseCase represents the contracts use case.
type UseCase struct {
	store    repo.Store
	notifier *event.Notifier

	now       func() time.Time
	observers []event.Observer
}

// New instantiates a contracts use case.
func New(s repo.Store, q *event.Queue, opts ...Option) (*UseCase, error) {
	uc := &UseCase{store: s}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	uc.notifier = event.NewNotifier(model.FamilyContract, q, uc.observers...)
	return uc, nil
}

// ContractInput contains the raw fields of a new contract.
type ContractInput struct {
	ClientID       string `validate:"nonempty" label:"Client ID"`
	VehicleID      string `validate:"nonempty" label:"Vehicle ID"`
	Begin          string `validate:"date" label:"Start date"`
	End            string `validate:"date" label:"End date"`
	PlannedMileage string `validate:"nonneg" label:"Planned mileage"`
	PlannedPrice   string `validate:"nonneg" label:"Planned price"`
}

// checkReferences ensures that the clientID client and the vehicleID
// vehicle exist and the vehicle is not rented already.
func checkReferences(db *model.Database, clientID, vehicleID string) error {
	if !db.Clients.Contains(clientID) {
		return cerr.NotFound(model.FamilyClient.Title(), clientID)
	}
	if !db.Vehicles.Contains(vehicleID) {
		return cerr.NotFound(model.FamilyVehicle.Title(), vehicleID)
	}
	if isRented(db, vehicleID) {
		return cerr.InvalidInputf(
			"The vehicle '%s' is already rented.", vehicleID,
		)
	}
	return nil
}

func isRented(db *model.Database, vehicleID string) bool {
	for c := range db.Contracts.All() {
		if c.VehicleID == vehicleID {
			return true
		}
	}
	return false
}

// AddContract validates the in raw fields and registers a new contract.
// The planned price is taken as is, see Rent for computing it.
func (uc *UseCase) AddContract(ctx context.Context, in ContractInput) (c model.Contract, err error) {
	if err = validation.Struct(in); err != nil {
		return c, fmt.Errorf("adding contract: %w", err)
	}
	c = model.Contract{
		ClientID:  strings.TrimSpace(in.ClientID),
		VehicleID: strings.TrimSpace(in.VehicleID),
	}
	c.Begin, _ = validation.Date(in.Begin)
	c.End, _ = validation.Date(in.End)
	c.PlannedMileage, _ = validation.NonNegativeNumber(in.PlannedMileage)
	c.PlannedPrice, _ = validation.NonNegativeNumber(in.PlannedPrice)
	if !c.End.After(c.Begin) {
		return model.Contract{}, fmt.Errorf(
			"adding contract: %w", cerr.InvalidInputf(
				"The end date (%s) must be after the begin date (%s).",
				in.End, in.Begin,
			),
		)
	}
	err = uc.store.Update(func(db *model.Database) error {
		if err := checkReferences(db, c.ClientID, c.VehicleID); err != nil {
			return err
		}
		c.Seq = db.Sequencer().Next(model.FamilyContract)
		c.ID = DisplayID(uc.now(), c.Seq)
		db.Contracts.Register(c)
		uc.notifier.Notify(ctx, event.Added, c)
		return nil
	})
	if err != nil {
		return model.Contract{}, fmt.Errorf("adding contract: %w", err)
	}
	log.Debug(ctx, "contract added", log.ID(c.ID))
	return c, nil
}

// DisplayID generates the display ID of a contract which is created
// at the given day with the given sequence number.
func DisplayID(day time.Time, seq int) string {
	return fmt.Sprintf("CTR-%s-%d", day.Format("060102"), seq)
}

// EditBegin replaces the begin date of the id contract.
// Only the date itself is validated.
func (uc *UseCase) EditBegin(ctx context.Context, id, value string) error {
	d, err := validation.Date(value)
	if err != nil {
		return fmt.Errorf("editing contract %q: %w", id, err)
	}
	return uc.edit(ctx, id, func(c *model.Contract) { c.Begin = d })
}

// EditEnd replaces the end date of the id contract.
func (uc *UseCase) EditEnd(ctx context.Context, id, value string) error {
	d, err := validation.Date(value)
	if err != nil {
		return fmt.Errorf("editing contract %q: %w", id, err)
	}
	return uc.edit(ctx, id, func(c *model.Contract) { c.End = d })
}

// EditPlannedMileage replaces the planned mileage of the id contract.
// The planned price is not recomputed.
func (uc *UseCase) EditPlannedMileage(ctx context.Context, id, value string) error {
	n, err := validation.NonNegativeNumber(value)
	if err != nil {
		return fmt.Errorf("editing contract %q: %w", id, err)
	}
	return uc.edit(ctx, id, func(c *model.Contract) { c.PlannedMileage = n })
}

// EditPlannedPrice replaces the planned price of the id contract.
func (uc *UseCase) EditPlannedPrice(ctx context.Context, id, value string) error {
	n, err := validation.NonNegativeNumber(value)
	if err != nil {
		return fmt.Errorf("editing contract %q: %w", id, err)
	}
	return uc.edit(ctx, id, func(c *model.Contract) { c.PlannedPrice = n })
}

func (uc *UseCase) edit(ctx context.Context, id string, set func(*model.Contract)) error {
	err := uc.store.Update(func(db *model.Database) error {
		err := db.Contracts.Modify(id, func(c *model.Contract) error {
			set(c)
			return nil
		})
		if errors.Is(err, model.ErrNotRegistered) {
			return cerr.NotFound(model.FamilyContract.Title(), id)
		}
		c, _ := db.Contracts.Lookup(id)
		uc.notifier.Notify(ctx, event.Edited, c)
		return nil
	})
	if err != nil {
		return fmt.Errorf("editing contract: %w", err)
	}
	log.Debug(ctx, "contract edited", log.ID(id))
	return nil
}

// Remove unregisters the id contract, so its vehicle may be rented
// again.
func (uc *UseCase) Remove(ctx context.Context, id string) error {
	err := uc.store.Update(func(db *model.Database) error {
		c, ok := db.Contracts.Lookup(id)
		if !ok {
			return cerr.NotFound(model.FamilyContract.Title(), id)
		}
		uc.notifier.Notify(ctx, event.Removing, c)
		db.Contracts.Unregister(id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("removing contract: %w", err)
	}
	log.Debug(ctx, "contract removed", log.ID(id))
	return nil
}

// HasContract reports whether any contract references the clientID
// client.
func (uc *UseCase) HasContract(clientID string) (found bool) {
	uc.store.View(func(db *model.Database) {
		for c := range db.Contracts.All() {
			if c.ClientID == clientID {
				found = true
				return
			}
		}
	})
	return
}

// IsRented reports whether any contract references the vehicleID
// vehicle.
func (uc *UseCase) IsRented(vehicleID string) (rented bool) {
	uc.store.View(func(db *model.Database) {
		rented = isRented(db, vehicleID)
	})
	return
}

// Exists reports whether the id contract exists.
func (uc *UseCase) Exists(id string) (ok bool) {
	uc.store.View(func(db *model.Database) {
		ok = db.Contracts.Contains(id)
	})
	return
}

// Count returns the number of contracts.
func (uc *UseCase) Count() (n int) {
	uc.store.View(func(db *model.Database) {
		n = db.Contracts.Len()
	})
	return
}

// Find returns a copy of the id contract.
func (uc *UseCase) Find(id string) (c model.Contract, ok bool) {
	uc.store.View(func(db *model.Database) {
		c, ok = db.Contracts.Lookup(id)
	})
	return
}

// Query returns a lazy and restartable iterator over copies of the
// contracts in their insertion order.
func (uc *UseCase) Query() iter.Seq[model.Contract] {
	return func(yield func(model.Contract) bool) {
		for i := 0; ; i++ {
			var c model.Contract
			ok := false
			uc.store.View(func(db *model.Database) {
				if i < db.Contracts.Len() {
					c, ok = db.Contracts.At(i), true
				}
			})
			if !ok || !yield(c) {
				return
			}
		}
	}
}

// Search returns the contracts which match all of the given criteria.
func (uc *UseCase) Search(criteria ...model.Criterion[model.Contract]) []model.Contract {
	var res []model.Contract
	for c := range uc.Query() {
		if model.Match(c, criteria...) {
			res = append(res, c)
		}
	}
	return res
}

// Subscribe registers l in order to be notified about the contract
// changes, asynchronously. The returned function unregisters l.
func (uc *UseCase) Subscribe(l event.Listener[event.ModelEvent]) (unsubscribe func()) {
	return uc.notifier.Subscribe(l)
}
