// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vehiclesuc contains the vehicles UseCase which supports
// adding cars, bikes, and planes, editing their common and kind
// specific fields, and removing them.
package vehiclesuc

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strconv"
	"strings"

	"github.com/momeni/carrent/pkg/core/cerr"
	"github.com/momeni/carrent/pkg/core/event"
	"github.com/momeni/carrent/pkg/core/log"
	"github.com/momeni/carrent/pkg/core/model"
	"github.com/momeni/carrent/pkg/core/repo"
	"github.com/momeni/carrent/pkg/core/validation"
)

// UseCase represents the vehicles use case. It holds the database
// store and the vehicles change notifier.
type UseCase struct {
	store    repo.Store
	notifier *event.Notifier

	observers []event.Observer
}

// New instantiates a vehicles use case.
func New(s repo.Store, q *event.Queue, opts ...Option) (*UseCase, error) {
	uc := &UseCase{store: s}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	uc.notifier = event.NewNotifier(model.FamilyVehicle, q, uc.observers...)
	return uc, nil
}

// VehicleInput contains the raw fields which are common among all
// vehicle kinds.
type VehicleInput struct {
	Brand           string `validate:"nonempty" label:"Brand"`
	Model           string `validate:"nonempty" label:"Model"`
	Condition       string `validate:"nonempty" label:"Condition"`
	RentPricePerDay string `validate:"nonneg" label:"Rent price per day"`
	MaxSpeed        string `validate:"nonneg" label:"Max speed"`
}

// CarInput contains the raw fields of a new car.
type CarInput struct {
	VehicleInput
	Mileage   string `validate:"nonneg" label:"Mileage"`
	Power     string `validate:"nonneg" label:"Power"`
	SeatCount string `validate:"nonneg" label:"Seat count"`
}

// BikeInput contains the raw fields of a new bike.
type BikeInput struct {
	VehicleInput
	Mileage string `validate:"nonneg" label:"Mileage"`
	Power   string `validate:"nonneg" label:"Power"`
}

// PlaneInput contains the raw fields of a new plane.
type PlaneInput struct {
	VehicleInput
	HoursFlown  string `validate:"nonneg" label:"Hours flown"`
	EngineCount string `validate:"nonneg" label:"Engine count"`
}

// atoi converts an already validated non-negative number.
func atoi(raw string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(raw))
	return n
}

func common(in VehicleInput) (v model.Vehicle, err error) {
	c, err := model.ParseCondition(in.Condition)
	if err != nil {
		return v, cerr.InvalidInputf(
			"'%s' is not a valid condition: %w", in.Condition, err,
		)
	}
	return model.Vehicle{
		Brand:           strings.TrimSpace(in.Brand),
		Model:           strings.TrimSpace(in.Model),
		Condition:       c,
		RentPricePerDay: atoi(in.RentPricePerDay),
		MaxSpeed:        atoi(in.MaxSpeed),
	}, nil
}

// AddCar validates the in raw fields and registers a new car.
func (uc *UseCase) AddCar(ctx context.Context, in CarInput) (model.Vehicle, error) {
	if err := validation.Struct(in); err != nil {
		return model.Vehicle{}, fmt.Errorf("adding car: %w", err)
	}
	v, err := common(in.VehicleInput)
	if err != nil {
		return v, fmt.Errorf("adding car: %w", err)
	}
	v.Spec = model.Car{
		Mileage:   atoi(in.Mileage),
		Power:     atoi(in.Power),
		SeatCount: atoi(in.SeatCount),
	}
	return uc.register(ctx, v)
}

// AddBike validates the in raw fields and registers a new bike.
func (uc *UseCase) AddBike(ctx context.Context, in BikeInput) (model.Vehicle, error) {
	if err := validation.Struct(in); err != nil {
		return model.Vehicle{}, fmt.Errorf("adding bike: %w", err)
	}
	v, err := common(in.VehicleInput)
	if err != nil {
		return v, fmt.Errorf("adding bike: %w", err)
	}
	v.Spec = model.Bike{
		Mileage: atoi(in.Mileage),
		Power:   atoi(in.Power),
	}
	return uc.register(ctx, v)
}

// AddPlane validates the in raw fields and registers a new plane.
func (uc *UseCase) AddPlane(ctx context.Context, in PlaneInput) (model.Vehicle, error) {
	if err := validation.Struct(in); err != nil {
		return model.Vehicle{}, fmt.Errorf("adding plane: %w", err)
	}
	v, err := common(in.VehicleInput)
	if err != nil {
		return v, fmt.Errorf("adding plane: %w", err)
	}
	v.Spec = model.Plane{
		HoursFlown:  atoi(in.HoursFlown),
		EngineCount: atoi(in.EngineCount),
	}
	return uc.register(ctx, v)
}

func (uc *UseCase) register(ctx context.Context, v model.Vehicle) (model.Vehicle, error) {
	err := uc.store.Update(func(db *model.Database) error {
		v.Seq = db.Sequencer().Next(model.FamilyVehicle)
		v.ID = DisplayID(v.Brand, v.Seq)
		db.Vehicles.Register(v)
		uc.notifier.Notify(ctx, event.Added, v)
		return nil
	})
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("adding %s: %w", v.Kind(), err)
	}
	log.Debug(ctx, "vehicle added", log.ID(v.ID),
		log.Valuer("kind", kindValuer(v.Kind())))
	return v, nil
}

type kindValuer model.VehicleKind

func (k kindValuer) LogValue() slog.Value {
	return slog.StringValue(model.VehicleKind(k).String())
}

// DisplayID generates the display ID of a vehicle with the given brand
// and sequence number. Only the first word of brand is used.
func DisplayID(brand string, seq int) string {
	word := ""
	if f := strings.Fields(brand); len(f) > 0 {
		word = f[0]
	}
	return fmt.Sprintf("V-%s-%d", strings.ToUpper(word), seq)
}

// EditBrand replaces the brand of the id vehicle.
// The display ID is not regenerated.
func (uc *UseCase) EditBrand(ctx context.Context, id, value string) error {
	if err := validation.NonEmpty(value); err != nil {
		return fmt.Errorf("editing vehicle %q: %w", id, err)
	}
	return uc.edit(ctx, id, func(v *model.Vehicle) error {
		v.Brand = strings.TrimSpace(value)
		return nil
	})
}

// EditModel replaces the model name of the id vehicle.
func (uc *UseCase) EditModel(ctx context.Context, id, value string) error {
	if err := validation.NonEmpty(value); err != nil {
		return fmt.Errorf("editing vehicle %q: %w", id, err)
	}
	return uc.edit(ctx, id, func(v *model.Vehicle) error {
		v.Model = strings.TrimSpace(value)
		return nil
	})
}

// EditCondition replaces the condition of the id vehicle. The value
// is parsed ignoring its case, e.g., "verygood" or "VeryGood".
func (uc *UseCase) EditCondition(ctx context.Context, id, value string) error {
	c, err := model.ParseCondition(value)
	if err != nil {
		return fmt.Errorf("editing vehicle %q: %w", id, cerr.InvalidInputf(
			"'%s' is not a valid condition: %w", value, err,
		))
	}
	return uc.edit(ctx, id, func(v *model.Vehicle) error {
		v.Condition = c
		return nil
	})
}

// EditRentPricePerDay replaces the daily rent price of the id vehicle.
func (uc *UseCase) EditRentPricePerDay(ctx context.Context, id, value string) error {
	return uc.editNumber(ctx, id, value, func(v *model.Vehicle, n int) error {
		v.RentPricePerDay = n
		return nil
	})
}

// EditMaxSpeed replaces the maximum speed of the id vehicle.
func (uc *UseCase) EditMaxSpeed(ctx context.Context, id, value string) error {
	return uc.editNumber(ctx, id, value, func(v *model.Vehicle, n int) error {
		v.MaxSpeed = n
		return nil
	})
}

// EditCarMileage replaces the mileage of the id car.
// Editing a vehicle of another kind fails with an invalid input error.
func (uc *UseCase) EditCarMileage(ctx context.Context, id, value string) error {
	return editSpec(ctx, uc, id, value, "mileage", func(c *model.Car, n int) {
		c.Mileage = n
	})
}

// EditCarPower replaces the power of the id car.
func (uc *UseCase) EditCarPower(ctx context.Context, id, value string) error {
	return editSpec(ctx, uc, id, value, "power", func(c *model.Car, n int) {
		c.Power = n
	})
}

// EditCarSeatCount replaces the number of seats of the id car.
func (uc *UseCase) EditCarSeatCount(ctx context.Context, id, value string) error {
	return editSpec(ctx, uc, id, value, "seat count", func(c *model.Car, n int) {
		c.SeatCount = n
	})
}

// EditBikeMileage replaces the mileage of the id bike.
func (uc *UseCase) EditBikeMileage(ctx context.Context, id, value string) error {
	return editSpec(ctx, uc, id, value, "mileage", func(b *model.Bike, n int) {
		b.Mileage = n
	})
}

// EditBikePower replaces the power of the id bike.
func (uc *UseCase) EditBikePower(ctx context.Context, id, value string) error {
	return editSpec(ctx, uc, id, value, "power", func(b *model.Bike, n int) {
		b.Power = n
	})
}

// EditPlaneHoursFlown replaces the flown hours of the id plane.
func (uc *UseCase) EditPlaneHoursFlown(ctx context.Context, id, value string) error {
	return editSpec(ctx, uc, id, value, "hours flown", func(p *model.Plane, n int) {
		p.HoursFlown = n
	})
}

// EditPlaneEngineCount replaces the number of engines of the id plane.
func (uc *UseCase) EditPlaneEngineCount(ctx context.Context, id, value string) error {
	return editSpec(ctx, uc, id, value, "engine count", func(p *model.Plane, n int) {
		p.EngineCount = n
	})
}

func editSpec[S model.Spec](
	ctx context.Context, uc *UseCase, id, value, field string,
	set func(s *S, n int),
) error {
	return uc.editNumber(ctx, id, value, func(v *model.Vehicle, n int) error {
		s, ok := v.Spec.(S)
		if !ok {
			var want S
			return cerr.InvalidInputf(
				"Vehicle '%s' is not a %s and has no %s.",
				id, want.Kind(), field,
			)
		}
		set(&s, n)
		v.Spec = s
		return nil
	})
}

func (uc *UseCase) editNumber(
	ctx context.Context, id, value string,
	set func(v *model.Vehicle, n int) error,
) error {
	n, err := validation.NonNegativeNumber(value)
	if err != nil {
		return fmt.Errorf("editing vehicle %q: %w", id, err)
	}
	return uc.edit(ctx, id, func(v *model.Vehicle) error {
		return set(v, n)
	})
}

// edit applies the set modification to the id vehicle and notifies
// the listeners. The vehicle is kept unchanged if set fails.
func (uc *UseCase) edit(ctx context.Context, id string, set func(*model.Vehicle) error) error {
	err := uc.store.Update(func(db *model.Database) error {
		err := db.Vehicles.Modify(id, set)
		switch {
		case errors.Is(err, model.ErrNotRegistered):
			return cerr.NotFound(model.FamilyVehicle.Title(), id)
		case err != nil:
			return err
		}
		v, _ := db.Vehicles.Lookup(id)
		uc.notifier.Notify(ctx, event.Edited, v)
		return nil
	})
	if err != nil {
		return fmt.Errorf("editing vehicle: %w", err)
	}
	log.Debug(ctx, "vehicle edited", log.ID(id))
	return nil
}

// Remove unregisters the id vehicle. Contracts which reference the
// removed vehicle are kept as is.
func (uc *UseCase) Remove(ctx context.Context, id string) error {
	err := uc.store.Update(func(db *model.Database) error {
		v, ok := db.Vehicles.Lookup(id)
		if !ok {
			return cerr.NotFound(model.FamilyVehicle.Title(), id)
		}
		uc.notifier.Notify(ctx, event.Removing, v)
		db.Vehicles.Unregister(id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("removing vehicle: %w", err)
	}
	log.Debug(ctx, "vehicle removed", log.ID(id))
	return nil
}

// Exists reports whether the id vehicle exists.
func (uc *UseCase) Exists(id string) (ok bool) {
	uc.store.View(func(db *model.Database) {
		ok = db.Vehicles.Contains(id)
	})
	return
}

// Count returns the number of vehicles of all kinds.
func (uc *UseCase) Count() (n int) {
	uc.store.View(func(db *model.Database) {
		n = db.Vehicles.Len()
	})
	return
}

// Find returns a copy of the id vehicle.
func (uc *UseCase) Find(id string) (v model.Vehicle, ok bool) {
	uc.store.View(func(db *model.Database) {
		v, ok = db.Vehicles.Lookup(id)
	})
	return
}

// Query returns a lazy and restartable iterator over copies of all
// vehicles in their insertion order, reading the live database at
// each step.
func (uc *UseCase) Query() iter.Seq[model.Vehicle] {
	return func(yield func(model.Vehicle) bool) {
		for i := 0; ; i++ {
			var v model.Vehicle
			ok := false
			uc.store.View(func(db *model.Database) {
				if i < db.Vehicles.Len() {
					v, ok = db.Vehicles.At(i), true
				}
			})
			if !ok || !yield(v) {
				return
			}
		}
	}
}

// QueryKind is similar to Query, but only yields vehicles of the k
// kind.
func (uc *UseCase) QueryKind(k model.VehicleKind) iter.Seq[model.Vehicle] {
	return func(yield func(model.Vehicle) bool) {
		for v := range uc.Query() {
			if v.Kind() == k && !yield(v) {
				return
			}
		}
	}
}

// Search returns the vehicles which match all of the given criteria.
func (uc *UseCase) Search(criteria ...model.Criterion[model.Vehicle]) []model.Vehicle {
	var res []model.Vehicle
	for v := range uc.Query() {
		if model.Match(v, criteria...) {
			res = append(res, v)
		}
	}
	return res
}

// Subscribe registers l in order to be notified about the vehicle
// changes, asynchronously. The returned function unregisters l.
func (uc *UseCase) Subscribe(l event.Listener[event.ModelEvent]) (unsubscribe func()) {
	return uc.notifier.Subscribe(l)
}
