// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"fmt"
)

// Vehicle models a rentable vehicle. Fields which are common among all
// vehicle kinds are kept directly and the kind specific fields are kept
// by the Spec field which must be one of Car, Bike, or Plane values.
type Vehicle struct {
	Entity
	Brand           string
	Model           string
	Condition       Condition
	RentPricePerDay int
	MaxSpeed        int
	Spec            Spec
}

// Kind returns the kind of vehicle v, as indicated by its Spec field.
// A vehicle with no Spec has the VehicleKindInvalid kind.
func (v Vehicle) Kind() VehicleKind {
	if v.Spec == nil {
		return VehicleKindInvalid
	}
	return v.Spec.Kind()
}

// Spec is the closed set of vehicle kind specific fields.
// Only the Car, Bike, and Plane types of this package implement it.
// Consumers are expected to use a type switch on the Spec values.
type Spec interface {
	Kind() VehicleKind
	isSpec()
}

// Car contains the car specific fields.
type Car struct {
	Mileage   int
	Power     int
	SeatCount int
}

// Bike contains the bike specific fields.
type Bike struct {
	Mileage int
	Power   int
}

// Plane contains the plane specific fields.
type Plane struct {
	HoursFlown  int
	EngineCount int
}

func (Car) Kind() VehicleKind   { return VehicleKindCar }
func (Bike) Kind() VehicleKind  { return VehicleKindBike }
func (Plane) Kind() VehicleKind { return VehicleKindPlane }

func (Car) isSpec()   {}
func (Bike) isSpec()  {}
func (Plane) isSpec() {}

// VehicleKind is the discriminator of the vehicle kinds. It is used as
// the "type" of vehicles when they are serialized.
type VehicleKind int

// Valid values for the VehicleKind enum.
const (
	VehicleKindInvalid VehicleKind = iota // zero value is invalid

	VehicleKindCar
	VehicleKindBike
	VehicleKindPlane
)

// ErrUnknownVehicleKind indicates that a given string may not be parsed
// as a known vehicle kind. Similar to ErrUnknownCondition, it does not
// include the string itself.
var ErrUnknownVehicleKind = errors.New("unknown vehicle kind")

// VehicleKindError indicates an invalid vehicle kind as an integer.
type VehicleKindError int

// Error implements the error interface, returning a string
// representation of the VehicleKindError.
func (e VehicleKindError) Error() string {
	return fmt.Sprintf("invalid vehicle kind: %d", e)
}

// Validate returns nil if VehicleKind value is valid. For invalid
// values, an instance of the VehicleKindError will be returned.
func (k VehicleKind) Validate() error {
	switch k {
	case VehicleKindCar, VehicleKindBike, VehicleKindPlane:
		return nil
	default:
		return VehicleKindError(k)
	}
}

// String converts the VehicleKind enum to its serialized name.
// Invalid kinds are converted to "invalid".
func (k VehicleKind) String() string {
	switch k {
	case VehicleKindCar:
		return "car"
	case VehicleKindBike:
		return "bike"
	case VehicleKindPlane:
		return "plane"
	default:
		return "invalid"
	}
}

// ParseVehicleKind parses the given string and returns a VehicleKind.
// For unknown strings, VehicleKindInvalid and ErrUnknownVehicleKind
// will be returned.
func ParseVehicleKind(s string) (VehicleKind, error) {
	switch s {
	case "car":
		return VehicleKindCar, nil
	case "bike":
		return VehicleKindBike, nil
	case "plane":
		return VehicleKindPlane, nil
	default:
		return VehicleKindInvalid, ErrUnknownVehicleKind
	}
}
