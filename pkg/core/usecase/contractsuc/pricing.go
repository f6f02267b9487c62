// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package contractsuc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/momeni/carrent/pkg/core/cerr"
	"github.com/momeni/carrent/pkg/core/log"
	"github.com/momeni/carrent/pkg/core/model"
	"github.com/momeni/carrent/pkg/core/validation"
)

// Rentals which are longer than DiscountThreshold days may receive
// a ten percent discount.
const DiscountThreshold = 7

const day = 24 * time.Hour

// ErrAborted is returned by Rent when the discount question is
// answered by DiscountAbort.
var ErrAborted = errors.New("contract creation aborted")

// ErrNoConfirmer is returned by Rent when a discount is available but
// no DiscountConfirmer is given to ask about it.
var ErrNoConfirmer = errors.New("no discount confirmer is given")

// surchargeBrackets lists the mileage brackets by their inclusive upper
// bounds and their surcharge rates in tenths. Mileages above the last
// bound use the overflowRate.
var surchargeBrackets = []struct {
	upTo int
	rate int
}{
	{50, 0},
	{100, 5},
	{200, 3},
	{300, 2},
}

const overflowRate = 1

// roundTenths returns round(n * tenths / 10), rounding halves up, for
// non-negative n and tenths values.
func roundTenths(n, tenths int) int {
	return (2*n*tenths + 10) / 20
}

// Surcharge computes the mileage surcharge of a rental. Brackets are
// not cumulative: the rate of the matching bracket is applied to the
// whole mileage and the result is rounded to the nearest integer.
func Surcharge(mileage int) int {
	for _, b := range surchargeBrackets {
		if mileage <= b.upTo {
			return roundTenths(mileage, b.rate)
		}
	}
	return roundTenths(mileage, overflowRate)
}

// Discount returns total with a ten percent discount, rounded to the
// nearest integer.
func Discount(total int) int {
	return roundTenths(total, 9)
}

// Quote is the price computation of a rental.
type Quote struct {
	Days              int  // whole days between begin and end dates
	Base              int  // daily price times Days
	Surcharge         int  // mileage surcharge
	Total             int  // Base plus Surcharge
	DiscountAvailable bool // Days is greater than DiscountThreshold
	Discounted        int  // Total after the discount, if available
}

// Price computes the quote of renting a vehicle whose daily price is
// pricePerDay during the [begin, end) range with the planned mileage.
// The end date must be after the begin date.
func Price(pricePerDay int, begin, end time.Time, mileage int) (Quote, error) {
	days := int(end.Sub(begin) / day)
	if days <= 0 {
		return Quote{}, cerr.InvalidInputf(
			"The end date (%s) must be at least one day after the begin date (%s).",
			end.Format(model.DateLayout), begin.Format(model.DateLayout),
		)
	}
	q := Quote{
		Days:      days,
		Base:      pricePerDay * days,
		Surcharge: Surcharge(mileage),
	}
	q.Total = q.Base + q.Surcharge
	if days > DiscountThreshold {
		q.DiscountAvailable = true
		q.Discounted = Discount(q.Total)
	}
	return q, nil
}

// QuoteInput contains the raw fields which are required for computing
// a rental price.
type QuoteInput struct {
	VehicleID      string `validate:"nonempty" label:"Vehicle ID"`
	Begin          string `validate:"date" label:"Start date"`
	End            string `validate:"date" label:"End date"`
	PlannedMileage string `validate:"nonneg" label:"Planned mileage"`
}

// Quote computes the price of renting the in.VehicleID vehicle.
func (uc *UseCase) Quote(ctx context.Context, in QuoteInput) (Quote, error) {
	if err := validation.Struct(in); err != nil {
		return Quote{}, fmt.Errorf("quoting: %w", err)
	}
	begin, _ := validation.Date(in.Begin)
	end, _ := validation.Date(in.End)
	mileage, _ := validation.NonNegativeNumber(in.PlannedMileage)
	v, ok := uc.vehicles(in.VehicleID)
	if !ok {
		return Quote{}, fmt.Errorf("quoting: %w", cerr.NotFound(
			model.FamilyVehicle.Title(), in.VehicleID,
		))
	}
	q, err := Price(v.RentPricePerDay, begin, end, mileage)
	if err != nil {
		return Quote{}, fmt.Errorf("quoting: %w", err)
	}
	return q, nil
}

func (uc *UseCase) vehicles(id string) (v model.Vehicle, ok bool) {
	uc.store.View(func(db *model.Database) {
		v, ok = db.Vehicles.Lookup(id)
	})
	return
}

// DiscountAnswer enumerates the answers to the discount question.
type DiscountAnswer int

// Valid values for the DiscountAnswer enum.
const (
	DiscountApply DiscountAnswer = iota + 1 // use the discounted price
	DiscountKeep                            // use the full price
	DiscountAbort                           // cancel the contract creation
)

func (a DiscountAnswer) String() string {
	switch a {
	case DiscountApply:
		return "apply"
	case DiscountKeep:
		return "keep"
	case DiscountAbort:
		return "abort"
	default:
		return "invalid"
	}
}

// ParseDiscountAnswer parses "apply", "keep", or "abort" strings.
func ParseDiscountAnswer(s string) (DiscountAnswer, error) {
	for _, a := range []DiscountAnswer{DiscountApply, DiscountKeep, DiscountAbort} {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown discount answer %q", s)
}

// DiscountConfirmer asks whether the discount of a quote should be
// applied. It is only consulted when a discount is available.
type DiscountConfirmer interface {
	ConfirmDiscount(ctx context.Context, q Quote) (DiscountAnswer, error)
}

// DiscountConfirmerFunc adapts a function to the DiscountConfirmer
// interface.
type DiscountConfirmerFunc func(ctx context.Context, q Quote) (DiscountAnswer, error)

// ConfirmDiscount calls f(ctx, q).
func (f DiscountConfirmerFunc) ConfirmDiscount(ctx context.Context, q Quote) (DiscountAnswer, error) {
	return f(ctx, q)
}

// Answer returns a DiscountConfirmer which always answers a.
func Answer(a DiscountAnswer) DiscountConfirmer {
	return DiscountConfirmerFunc(func(context.Context, Quote) (DiscountAnswer, error) {
		return a, nil
	})
}

// RentInput contains the raw fields of a new rental whose price should
// be computed.
type RentInput struct {
	ClientID       string
	VehicleID      string
	Begin          string
	End            string
	PlannedMileage string
}

// Rent quotes the rental, asks confirm about the discount (if it is
// available), and adds a contract with the computed planned price.
// If the discount question is answered by DiscountAbort, no contract
// is added and ErrAborted is returned. The confirm may be nil for
// rentals which have no discount.
func (uc *UseCase) Rent(
	ctx context.Context, in RentInput, confirm DiscountConfirmer,
) (model.Contract, *Quote, error) {
	q, err := uc.Quote(ctx, QuoteInput{
		VehicleID:      in.VehicleID,
		Begin:          in.Begin,
		End:            in.End,
		PlannedMileage: in.PlannedMileage,
	})
	if err != nil {
		return model.Contract{}, nil, fmt.Errorf("renting: %w", err)
	}
	var refErr error
	uc.store.View(func(db *model.Database) {
		refErr = checkReferences(db, in.ClientID, in.VehicleID)
	})
	if refErr != nil {
		return model.Contract{}, &q, fmt.Errorf("renting: %w", refErr)
	}
	price := q.Total
	if q.DiscountAvailable {
		if confirm == nil {
			return model.Contract{}, &q, ErrNoConfirmer
		}
		a, err := confirm.ConfirmDiscount(ctx, q)
		if err != nil {
			return model.Contract{}, &q, fmt.Errorf("confirming discount: %w", err)
		}
		switch a {
		case DiscountApply:
			price = q.Discounted
		case DiscountKeep:
		case DiscountAbort:
			log.Info(ctx, "contract creation aborted",
				log.ID(in.VehicleID))
			return model.Contract{}, &q, ErrAborted
		default:
			return model.Contract{}, &q, fmt.Errorf(
				"invalid discount answer: %d", int(a),
			)
		}
	}
	c, err := uc.AddContract(ctx, ContractInput{
		ClientID:       in.ClientID,
		VehicleID:      in.VehicleID,
		Begin:          in.Begin,
		End:            in.End,
		PlannedMileage: in.PlannedMileage,
		PlannedPrice:   strconv.Itoa(price),
	})
	return c, &q, err
}
