// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package filedb

import (
	"encoding/xml"
	"fmt"

	"github.com/momeni/carrent/pkg/core/model"
	"github.com/momeni/carrent/pkg/core/validation"
)

// document is the serialized form of a whole database. The same
// struct tags describe the JSON, YAML, and XML formats, so all formats
// carry identical fields. Sequence numbers are not serialized, they
// are reassigned in the file order while loading. Files with no
// version are taken as the current model.FormatVersion.
type document struct {
	XMLName   xml.Name     `json:"-" yaml:"-" xml:"database"`
	Version   model.SemVer `json:"version" yaml:"version" xml:"version,attr"`
	Clients   []client     `json:"clients" yaml:"clients" xml:"clients>client"`
	Vehicles  []vehicle    `json:"vehicles" yaml:"vehicles" xml:"vehicles>vehicle"`
	Contracts []contract   `json:"contracts" yaml:"contracts" xml:"contracts>contract"`
}

type client struct {
	ID           string `json:"id" yaml:"id" xml:"id"`
	LastName     string `json:"lastName" yaml:"lastName" xml:"lastName"`
	FirstName    string `json:"firstName" yaml:"firstName" xml:"firstName"`
	BirthDate    string `json:"birthDate" yaml:"birthDate" xml:"birthDate"`
	Address      string `json:"address" yaml:"address" xml:"address"`
	PostalCode   string `json:"postalCode" yaml:"postalCode" xml:"postalCode"`
	City         string `json:"city" yaml:"city" xml:"city"`
	Licenses     string `json:"licenses" yaml:"licenses" xml:"licenses"`
	EmailAddress string `json:"emailAddress" yaml:"emailAddress" xml:"emailAddress"`
	PhoneNumber  string `json:"phoneNumber" yaml:"phoneNumber" xml:"phoneNumber"`
}

// vehicle flattens the kind specific fields of all vehicle kinds.
// The Type field selects which of them are meaningful.
type vehicle struct {
	ID              string `json:"id" yaml:"id" xml:"id"`
	Type            string `json:"type" yaml:"type" xml:"type"`
	Brand           string `json:"brand" yaml:"brand" xml:"brand"`
	Model           string `json:"model" yaml:"model" xml:"model"`
	Condition       string `json:"condition" yaml:"condition" xml:"condition"`
	RentPricePerDay int    `json:"rentPricePerDay" yaml:"rentPricePerDay" xml:"rentPricePerDay"`
	MaxSpeed        int    `json:"maxSpeed" yaml:"maxSpeed" xml:"maxSpeed"`

	Mileage     int `json:"mileage,omitempty" yaml:"mileage,omitempty" xml:"mileage,omitempty"`
	Power       int `json:"power,omitempty" yaml:"power,omitempty" xml:"power,omitempty"`
	SeatCount   int `json:"seatCount,omitempty" yaml:"seatCount,omitempty" xml:"seatCount,omitempty"`
	HoursFlown  int `json:"hoursFlown,omitempty" yaml:"hoursFlown,omitempty" xml:"hoursFlown,omitempty"`
	EngineCount int `json:"engineCount,omitempty" yaml:"engineCount,omitempty" xml:"engineCount,omitempty"`
}

type contract struct {
	ID             string `json:"id" yaml:"id" xml:"id"`
	ClientID       string `json:"clientId" yaml:"clientId" xml:"clientId"`
	VehicleID      string `json:"vehicleId" yaml:"vehicleId" xml:"vehicleId"`
	BeginDate      string `json:"beginDate" yaml:"beginDate" xml:"beginDate"`
	EndDate        string `json:"endDate" yaml:"endDate" xml:"endDate"`
	PlannedMileage int    `json:"plannedMileage" yaml:"plannedMileage" xml:"plannedMileage"`
	PlannedPrice   int    `json:"plannedPrice" yaml:"plannedPrice" xml:"plannedPrice"`
}

// newDocument captures the current entities of db in their order.
func newDocument(db *model.Database) *document {
	d := &document{
		Version:   model.FormatVersion,
		Clients:   make([]client, 0, db.Clients.Len()),
		Vehicles:  make([]vehicle, 0, db.Vehicles.Len()),
		Contracts: make([]contract, 0, db.Contracts.Len()),
	}
	for c := range db.Clients.All() {
		d.Clients = append(d.Clients, client{
			ID:           c.ID,
			LastName:     c.LastName,
			FirstName:    c.FirstName,
			BirthDate:    validation.FormatDate(c.BirthDate),
			Address:      c.Address,
			PostalCode:   c.PostalCode,
			City:         c.City,
			Licenses:     c.Licenses,
			EmailAddress: c.EmailAddress,
			PhoneNumber:  c.PhoneNumber,
		})
	}
	for v := range db.Vehicles.All() {
		dv := vehicle{
			ID:              v.ID,
			Type:            v.Kind().String(),
			Brand:           v.Brand,
			Model:           v.Model,
			Condition:       v.Condition.String(),
			RentPricePerDay: v.RentPricePerDay,
			MaxSpeed:        v.MaxSpeed,
		}
		switch s := v.Spec.(type) {
		case model.Car:
			dv.Mileage, dv.Power, dv.SeatCount = s.Mileage, s.Power, s.SeatCount
		case model.Bike:
			dv.Mileage, dv.Power = s.Mileage, s.Power
		case model.Plane:
			dv.HoursFlown, dv.EngineCount = s.HoursFlown, s.EngineCount
		}
		d.Vehicles = append(d.Vehicles, dv)
	}
	for c := range db.Contracts.All() {
		d.Contracts = append(d.Contracts, contract{
			ID:             c.ID,
			ClientID:       c.ClientID,
			VehicleID:      c.VehicleID,
			BeginDate:      validation.FormatDate(c.Begin),
			EndDate:        validation.FormatDate(c.End),
			PlannedMileage: c.PlannedMileage,
			PlannedPrice:   c.PlannedPrice,
		})
	}
	return d
}

// restore converts d to a database. Missing IDs, IDs which are
// duplicated in one family,
// unknown vehicle types, unknown conditions, and malformed dates are
// reported as errors.
func (d *document) restore() (*model.Database, error) {
	if d.Version != (model.SemVer{}) && !d.Version.Readable(model.FormatVersion) {
		return nil, fmt.Errorf(
			"unsupported file format version %s, expected %d.x.y",
			d.Version, model.FormatVersion[0],
		)
	}
	type key struct {
		family model.Family
		id     string
	}
	ids := make(map[key]bool)
	unique := func(f model.Family, id string) error {
		if id == "" {
			return fmt.Errorf("%s with no id", f)
		}
		k := key{family: f, id: id}
		if ids[k] {
			return fmt.Errorf("duplicate %s id %q", f, id)
		}
		ids[k] = true
		return nil
	}
	clients := make([]model.Client, 0, len(d.Clients))
	for _, dc := range d.Clients {
		if err := unique(model.FamilyClient, dc.ID); err != nil {
			return nil, err
		}
		bd, err := validation.Date(dc.BirthDate)
		if err != nil {
			return nil, fmt.Errorf("client %q: %w", dc.ID, err)
		}
		clients = append(clients, model.Client{
			Entity:       model.Entity{ID: dc.ID},
			LastName:     dc.LastName,
			FirstName:    dc.FirstName,
			BirthDate:    bd,
			Address:      dc.Address,
			PostalCode:   dc.PostalCode,
			City:         dc.City,
			Licenses:     dc.Licenses,
			EmailAddress: dc.EmailAddress,
			PhoneNumber:  dc.PhoneNumber,
		})
	}
	vehicles := make([]model.Vehicle, 0, len(d.Vehicles))
	for _, dv := range d.Vehicles {
		if err := unique(model.FamilyVehicle, dv.ID); err != nil {
			return nil, err
		}
		v, err := dv.restore()
		if err != nil {
			return nil, fmt.Errorf("vehicle %q: %w", dv.ID, err)
		}
		vehicles = append(vehicles, v)
	}
	contracts := make([]model.Contract, 0, len(d.Contracts))
	for _, dc := range d.Contracts {
		if err := unique(model.FamilyContract, dc.ID); err != nil {
			return nil, err
		}
		begin, err := validation.Date(dc.BeginDate)
		if err != nil {
			return nil, fmt.Errorf("contract %q: %w", dc.ID, err)
		}
		end, err := validation.Date(dc.EndDate)
		if err != nil {
			return nil, fmt.Errorf("contract %q: %w", dc.ID, err)
		}
		contracts = append(contracts, model.Contract{
			Entity:         model.Entity{ID: dc.ID},
			ClientID:       dc.ClientID,
			VehicleID:      dc.VehicleID,
			Begin:          begin,
			End:            end,
			PlannedMileage: dc.PlannedMileage,
			PlannedPrice:   dc.PlannedPrice,
		})
	}
	return model.Restore(clients, vehicles, contracts), nil
}

func (dv vehicle) restore() (model.Vehicle, error) {
	k, err := model.ParseVehicleKind(dv.Type)
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("%w: %q", err, dv.Type)
	}
	c, err := model.ParseCondition(dv.Condition)
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("%w: %q", err, dv.Condition)
	}
	v := model.Vehicle{
		Entity:          model.Entity{ID: dv.ID},
		Brand:           dv.Brand,
		Model:           dv.Model,
		Condition:       c,
		RentPricePerDay: dv.RentPricePerDay,
		MaxSpeed:        dv.MaxSpeed,
	}
	switch k {
	case model.VehicleKindCar:
		v.Spec = model.Car{
			Mileage: dv.Mileage, Power: dv.Power, SeatCount: dv.SeatCount,
		}
	case model.VehicleKindBike:
		v.Spec = model.Bike{Mileage: dv.Mileage, Power: dv.Power}
	case model.VehicleKindPlane:
		v.Spec = model.Plane{
			HoursFlown: dv.HoursFlown, EngineCount: dv.EngineCount,
		}
	}
	return v, nil
}
