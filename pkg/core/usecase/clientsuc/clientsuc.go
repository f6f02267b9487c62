// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package clientsuc contains the clients UseCase which validates the
// raw user input, creates and modifies clients, and notifies listeners
// about those changes. Clients are identified by their display IDs.
package clientsuc

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

// UseCase represents the clients use case. It holds the database
// store, the clients change notifier, and the clock which is used for
// generating display IDs.
type UseCase struct {
	store    repo.Store
	notifier *event.Notifier

	now       func() time.Time
	observers []event.Observer
}

// New instantiates a clients use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(s repo.Store, q *event.Queue, opts ...Option) (*UseCase, error) {
	uc := &UseCase{store: s}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.now == nil {
		uc.now = time.Now
	}
	uc.notifier = event.NewNotifier(model.FamilyClient, q, uc.observers...)
	return uc, nil
}

// ClientInput contains the raw fields of a new client.
type ClientInput struct {
	LastName     string `validate:"nonempty" label:"Last name"`
	FirstName    string `validate:"nonempty" label:"First name"`
	BirthDate    string `validate:"date" label:"Date of birth"`
	Address      string `validate:"nonempty" label:"Address"`
	PostalCode   string `validate:"postalcode" label:"Postal code"`
	City         string `validate:"nonempty" label:"City"`
	Licenses     string `validate:"nonempty" label:"Licenses"`
	EmailAddress string `validate:"mail" label:"Mail address"`
	PhoneNumber  string `validate:"phone" label:"Phone number"`
}

// AddClient validates the in raw fields and registers a new client
// with a fresh display ID. The created client is returned.
func (uc *UseCase) AddClient(ctx context.Context, in ClientInput) (c model.Client, err error) {
	if err = validation.Struct(in); err != nil {
		return c, fmt.Errorf("adding client: %w", err)
	}
	birth, _ := validation.Date(in.BirthDate)
	c = model.Client{
		LastName:     strings.TrimSpace(in.LastName),
		FirstName:    strings.TrimSpace(in.FirstName),
		BirthDate:    birth,
		Address:      strings.TrimSpace(in.Address),
		PostalCode:   strings.TrimSpace(in.PostalCode),
		City:         strings.TrimSpace(in.City),
		Licenses:     strings.TrimSpace(in.Licenses),
		EmailAddress: strings.TrimSpace(in.EmailAddress),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
	}
	err = uc.store.Update(func(db *model.Database) error {
		c.Seq = db.Sequencer().Next(model.FamilyClient)
		c.ID = DisplayID(uc.now(), c.LastName, c.Seq)
		db.Clients.Register(c)
		uc.notifier.Notify(ctx, event.Added, c)
		return nil
	})
	if err != nil {
		return model.Client{}, fmt.Errorf("adding client: %w", err)
	}
	log.Debug(ctx, "client added", log.ID(c.ID))
	return c, nil
}

// DisplayID generates the display ID of a client which is created at
// the given day with the given last name and sequence number.
func DisplayID(day time.Time, lastName string, seq int) string {
	prefix := []rune(lastName)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf(
		"CLI-%s-%s-%d", day.Format("060102"),
		strings.ToUpper(string(prefix)), seq,
	)
}

// EditLastName replaces the last name of the id client.
// The display ID is not regenerated.
func (uc *UseCase) EditLastName(ctx context.Context, id, value string) error {
	return uc.editText(ctx, id, value, func(c *model.Client, v string) {
		c.LastName = v
	})
}

// EditFirstName replaces the first name of the id client.
func (uc *UseCase) EditFirstName(ctx context.Context, id, value string) error {
	return uc.editText(ctx, id, value, func(c *model.Client, v string) {
		c.FirstName = v
	})
}

// EditBirthDate replaces the birth date of the id client.
func (uc *UseCase) EditBirthDate(ctx context.Context, id, value string) error {
	d, err := validation.Date(value)
	if err != nil {
		return fmt.Errorf("editing client %q: %w", id, err)
	}
	return uc.edit(ctx, id, func(c *model.Client) {
		c.BirthDate = d
	})
}

// EditAddress replaces the address of the id client.
func (uc *UseCase) EditAddress(ctx context.Context, id, value string) error {
	return uc.editText(ctx, id, value, func(c *model.Client, v string) {
		c.Address = v
	})
}

// EditPostalCode replaces the postal code of the id client.
func (uc *UseCase) EditPostalCode(ctx context.Context, id, value string) error {
	if err := validation.PostalCode(value); err != nil {
		return fmt.Errorf("editing client %q: %w", id, err)
	}
	return uc.edit(ctx, id, func(c *model.Client) {
		c.PostalCode = strings.TrimSpace(value)
	})
}

// EditCity replaces the city of the id client.
func (uc *UseCase) EditCity(ctx context.Context, id, value string) error {
	return uc.editText(ctx, id, value, func(c *model.Client, v string) {
		c.City = v
	})
}

// EditLicenses replaces the licenses of the id client.
func (uc *UseCase) EditLicenses(ctx context.Context, id, value string) error {
	return uc.editText(ctx, id, value, func(c *model.Client, v string) {
		c.Licenses = v
	})
}

// EditEmailAddress replaces the e-mail address of the id client.
func (uc *UseCase) EditEmailAddress(ctx context.Context, id, value string) error {
	if err := validation.MailAddress(value); err != nil {
		return fmt.Errorf("editing client %q: %w", id, err)
	}
	return uc.edit(ctx, id, func(c *model.Client) {
		c.EmailAddress = strings.TrimSpace(value)
	})
}

// EditPhoneNumber replaces the phone number of the id client.
func (uc *UseCase) EditPhoneNumber(ctx context.Context, id, value string) error {
	if err := validation.PhoneNumber(value); err != nil {
		return fmt.Errorf("editing client %q: %w", id, err)
	}
	return uc.edit(ctx, id, func(c *model.Client) {
		c.PhoneNumber = strings.TrimSpace(value)
	})
}

func (uc *UseCase) editText(
	ctx context.Context, id, value string,
	set func(c *model.Client, v string),
) error {
	if err := validation.NonEmpty(value); err != nil {
		return fmt.Errorf("editing client %q: %w", id, err)
	}
	v := strings.TrimSpace(value)
	return uc.edit(ctx, id, func(c *model.Client) { set(c, v) })
}

// edit applies the already validated set modification to the id client
// and notifies the listeners.
func (uc *UseCase) edit(ctx context.Context, id string, set func(*model.Client)) error {
	err := uc.store.Update(func(db *model.Database) error {
		err := db.Clients.Modify(id, func(c *model.Client) error {
			set(c)
			return nil
		})
		if errors.Is(err, model.ErrNotRegistered) {
			return cerr.NotFound(model.FamilyClient.Title(), id)
		}
		c, _ := db.Clients.Lookup(id)
		uc.notifier.Notify(ctx, event.Edited, c)
		return nil
	})
	if err != nil {
		return fmt.Errorf("editing client: %w", err)
	}
	log.Debug(ctx, "client edited", log.ID(id))
	return nil
}

// Remove unregisters the id client. Contracts of the removed client
// are kept as is. Listeners are notified before the actual removal.
func (uc *UseCase) Remove(ctx context.Context, id string) error {
	err := uc.store.Update(func(db *model.Database) error {
		c, ok := db.Clients.Lookup(id)
		if !ok {
			return cerr.NotFound(model.FamilyClient.Title(), id)
		}
		uc.notifier.Notify(ctx, event.Removing, c)
		db.Clients.Unregister(id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("removing client: %w", err)
	}
	log.Debug(ctx, "client removed", log.ID(id))
	return nil
}

// Exists reports whether the id client exists.
func (uc *UseCase) Exists(id string) (ok bool) {
	uc.store.View(func(db *model.Database) {
		ok = db.Clients.Contains(id)
	})
	return
}

// Count returns the number of clients.
func (uc *UseCase) Count() (n int) {
	uc.store.View(func(db *model.Database) {
		n = db.Clients.Len()
	})
	return
}

// Find returns a copy of the id client.
func (uc *UseCase) Find(id string) (c model.Client, ok bool) {
	uc.store.View(func(db *model.Database) {
		c, ok = db.Clients.Lookup(id)
	})
	return
}

// Query returns a lazy and restartable iterator over copies of the
// clients in their insertion order. Each step reads the live database,
// so changes (and database loads) which happen during an iteration are
// observed by its later steps.
func (uc *UseCase) Query() iter.Seq[model.Client] {
	return func(yield func(model.Client) bool) {
		for i := 0; ; i++ {
			var c model.Client
			ok := false
			uc.store.View(func(db *model.Database) {
				if i < db.Clients.Len() {
					c, ok = db.Clients.At(i), true
				}
			})
			if !ok || !yield(c) {
				return
			}
		}
	}
}

// Search returns the clients which match all of the given criteria.
func (uc *UseCase) Search(criteria ...model.Criterion[model.Client]) []model.Client {
	var res []model.Client
	for c := range uc.Query() {
		if model.Match(c, criteria...) {
			res = append(res, c)
		}
	}
	return res
}

// Subscribe registers l in order to be notified about the added,
// edited, and removing clients, asynchronously. The returned function
// unregisters l.
func (uc *UseCase) Subscribe(l event.Listener[event.ModelEvent]) (unsubscribe func()) {
	return uc.notifier.Subscribe(l)
}
