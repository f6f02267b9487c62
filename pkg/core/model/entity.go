// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
//
// Three entity families are modeled: clients, vehicles (which may be
// cars, bikes, or planes), and rental contracts which link a client to
// a vehicle. All entities are kept in memory by a Database instance and
// are persisted as a whole by the adapters layer. Entities are plain
// values and readers always obtain copies of them, so mutations are
// only possible through the Database collections.
package model

import "time"

// Entity contains the fields which are common among all entities.
// The ID is the externally visible display ID which is derived from
// the entity fields and its Seq once and never changes thereafter.
// The Seq is the internal sequence number which is assigned when an
// entity is created (or loaded) and is used for stable ordering.
// The Seq is never persisted.
type Entity struct {
	ID  string
	Seq int
}

// Base returns the common entity fields. It makes all entities (which
// embed the Entity struct) to implement the Record interface.
func (e Entity) Base() Entity {
	return e
}

// Record is implemented by all entity types which may be kept by a
// Collection.
type Record interface {
	Base() Entity
}

// Family names one of the entity families. Each family has its own
// sequence of internal sequence numbers.
type Family string

// Known entity families.
const (
	FamilyClient   Family = "client"
	FamilyVehicle  Family = "vehicle"
	FamilyContract Family = "contract"
)

// Title returns the capitalized family name for human readable
// messages, e.g., "Client".
func (f Family) Title() string {
	switch f {
	case FamilyClient:
		return "Client"
	case FamilyVehicle:
		return "Vehicle"
	case FamilyContract:
		return "Contract"
	default:
		return string(f)
	}
}

// Client models a natural person who may rent vehicles.
type Client struct {
	Entity
	LastName     string
	FirstName    string
	BirthDate    time.Time
	Address      string
	PostalCode   string
	City         string
	Licenses     string // free text, e.g., "A, B"
	EmailAddress string
	PhoneNumber  string
}

// Contract models renting the VehicleID vehicle by the ClientID client
// during the [Begin, End) time range. The referenced entities must
// exist when a contract is created, but removing them later does not
// affect the contract.
type Contract struct {
	Entity
	ClientID       string
	VehicleID      string
	Begin          time.Time
	End            time.Time
	PlannedMileage int
	PlannedPrice   int
}
