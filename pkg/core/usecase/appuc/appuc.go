// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package appuc contains the application UseCase which instantiates
// the entity and database use cases over one shared store and one
// events queue, wires them together so entity changes mark the
// database as modified, and provides them to the presentation layer.
package appuc

import (
	"context"
	"fmt"

	"github.com/momeni/carrent/pkg/core/event"
	"github.com/momeni/carrent/pkg/core/repo"
	"github.com/momeni/carrent/pkg/core/usecase/clientsuc"
	"github.com/momeni/carrent/pkg/core/usecase/contractsuc"
	"github.com/momeni/carrent/pkg/core/usecase/databaseuc"
	"github.com/momeni/carrent/pkg/core/usecase/vehiclesuc"
)

// UseCase represents an application use case. It owns the events
// queue which must be closed by the Close method.
type UseCase struct {
	queue *event.Queue

	database  *databaseuc.UseCase
	clients   *clientsuc.UseCase
	vehicles  *vehiclesuc.UseCase
	contracts *contractsuc.UseCase

	clientOpts   []clientsuc.Option
	contractOpts []contractsuc.Option
}

// New instantiates an application use case object keeping its entities
// in the s store and persisting them by the h handlers.
// The events queue is closed if New fails.
func New(
	s repo.Store, h repo.Handlers, opts ...Option,
) (_ *UseCase, err error) {
	app := &UseCase{}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	app.queue = event.NewQueue()
	defer func() {
		if err != nil {
			_ = app.queue.Close(context.Background())
		}
	}()
	app.database, err = databaseuc.New(s, h, app.queue)
	if err != nil {
		return nil, fmt.Errorf("databaseuc.New: %w", err)
	}
	observe := app.database.Observe
	app.clients, err = clientsuc.New(s, app.queue, append(
		app.clientOpts, clientsuc.WithObserver(observe),
	)...)
	if err != nil {
		return nil, fmt.Errorf("clientsuc.New: %w", err)
	}
	app.vehicles, err = vehiclesuc.New(
		s, app.queue, vehiclesuc.WithObserver(observe),
	)
	if err != nil {
		return nil, fmt.Errorf("vehiclesuc.New: %w", err)
	}
	app.contracts, err = contractsuc.New(s, app.queue, append(
		app.contractOpts, contractsuc.WithObserver(observe),
	)...)
	if err != nil {
		return nil, fmt.Errorf("contractsuc.New: %w", err)
	}
	return app, nil
}

// DatabaseUseCase returns the database use case.
func (app *UseCase) DatabaseUseCase() *databaseuc.UseCase {
	return app.database
}

// ClientsUseCase returns the clients use case.
func (app *UseCase) ClientsUseCase() *clientsuc.UseCase {
	return app.clients
}

// VehiclesUseCase returns the vehicles use case.
func (app *UseCase) VehiclesUseCase() *vehiclesuc.UseCase {
	return app.vehicles
}

// ContractsUseCase returns the contracts use case.
func (app *UseCase) ContractsUseCase() *contractsuc.UseCase {
	return app.contracts
}

// Summary counts the entities of the current database.
type Summary struct {
	File      string // active file, if any
	Clients   int
	Vehicles  int
	Rented    int // vehicles which appear in some contract
	Contracts int
	Unsaved   bool
}

// Summary returns the current database counts.
func (app *UseCase) Summary() Summary {
	s := Summary{
		File:      app.database.ActiveFile(),
		Clients:   app.clients.Count(),
		Vehicles:  app.vehicles.Count(),
		Contracts: app.contracts.Count(),
		Unsaved:   app.database.HasUnsavedChanges(),
	}
	for v := range app.vehicles.Query() {
		if app.contracts.IsRented(v.ID) {
			s.Rented++
		}
	}
	return s
}

// Flush waits until all events which are posted so far are delivered
// to their listeners.
func (app *UseCase) Flush(ctx context.Context) error {
	return app.queue.Flush(ctx)
}

// Close delivers the pending events and stops the events queue.
func (app *UseCase) Close(ctx context.Context) error {
	return app.queue.Close(ctx)
}
