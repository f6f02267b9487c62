// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout of dates when they are displayed, entered,
// or persisted (dd/MM/yyyy).
const DateLayout = "02/01/2006"

// ColumnType specifies how values of a column should be presented.
type ColumnType int

// Valid values for the ColumnType enum.
const (
	ColumnText ColumnType = iota
	ColumnNumber
	ColumnDate
)

// Column declares one displayable field of the T entity type.
// Key is a stable machine name (matching the persisted field name),
// Name is the human readable title, and Value formats the field of
// a given entity. Editable columns have a corresponding edit operation
// in the controller of the T entity family.
type Column[T any] struct {
	Key      string
	Name     string
	Type     ColumnType
	Value    func(T) string
	Editable bool
}

// Columns is an ordered list of column declarations.
type Columns[T any] []Column[T]

// Find returns the column whose Key or Name matches s, ignoring case.
func (cs Columns[T]) Find(s string) (Column[T], bool) {
	s = strings.TrimSpace(s)
	for _, c := range cs {
		if strings.EqualFold(c.Key, s) || strings.EqualFold(c.Name, s) {
			return c, true
		}
	}
	return Column[T]{}, false
}

// Names returns the column titles.
func (cs Columns[T]) Names() []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}

// Row formats all columns of item.
func (cs Columns[T]) Row(item T) []string {
	row := make([]string, len(cs))
	for i, c := range cs {
		row[i] = c.Value(item)
	}
	return row
}

// Criterion selects entities whose Column value contains Value,
// ignoring case.
type Criterion[T any] struct {
	Column Column[T]
	Value  string
}

// Match reports whether item matches all of the criteria.
func Match[T any](item T, criteria ...Criterion[T]) bool {
	for _, c := range criteria {
		v := strings.ToLower(c.Column.Value(item))
		if !strings.Contains(v, strings.ToLower(c.Value)) {
			return false
		}
	}
	return true
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func date(t time.Time) string {
	return t.Format(DateLayout)
}

// ClientColumns declares the displayable client fields.
var ClientColumns = Columns[Client]{
	{Key: "id", Name: "ID", Value: func(c Client) string { return c.ID }},
	{
		Key: "lastName", Name: "Last name", Editable: true,
		Value: func(c Client) string { return c.LastName },
	},
	{
		Key: "firstName", Name: "First name", Editable: true,
		Value: func(c Client) string { return c.FirstName },
	},
	{
		Key: "birthDate", Name: "Date of birth", Type: ColumnDate,
		Editable: true,
		Value:    func(c Client) string { return date(c.BirthDate) },
	},
	{
		Key: "address", Name: "Address", Editable: true,
		Value: func(c Client) string { return c.Address },
	},
	{
		Key: "postalCode", Name: "Postal code", Editable: true,
		Value: func(c Client) string { return c.PostalCode },
	},
	{
		Key: "city", Name: "City", Editable: true,
		Value: func(c Client) string { return c.City },
	},
	{
		Key: "licenses", Name: "Licenses", Editable: true,
		Value: func(c Client) string { return c.Licenses },
	},
	{
		Key: "emailAddress", Name: "Mail address", Editable: true,
		Value: func(c Client) string { return c.EmailAddress },
	},
	{
		Key: "phoneNumber", Name: "Phone number", Editable: true,
		Value: func(c Client) string { return c.PhoneNumber },
	},
}

// VehicleColumns declares the displayable fields which are common
// among all vehicle kinds.
var VehicleColumns = Columns[Vehicle]{
	{Key: "id", Name: "ID", Value: func(v Vehicle) string { return v.ID }},
	{
		Key: "type", Name: "Type",
		Value: func(v Vehicle) string { return v.Kind().String() },
	},
	{
		Key: "brand", Name: "Brand", Editable: true,
		Value: func(v Vehicle) string { return v.Brand },
	},
	{
		Key: "model", Name: "Model", Editable: true,
		Value: func(v Vehicle) string { return v.Model },
	},
	{
		Key: "condition", Name: "Condition", Editable: true,
		Value: func(v Vehicle) string { return v.Condition.String() },
	},
	{
		Key: "rentPricePerDay", Name: "Rent price per day",
		Type: ColumnNumber, Editable: true,
		Value: func(v Vehicle) string { return itoa(v.RentPricePerDay) },
	},
	{
		Key: "maxSpeed", Name: "Max speed", Type: ColumnNumber,
		Editable: true,
		Value:    func(v Vehicle) string { return itoa(v.MaxSpeed) },
	},
}

func carColumn(key, name string, f func(Car) int) Column[Vehicle] {
	return Column[Vehicle]{
		Key: key, Name: name, Type: ColumnNumber, Editable: true,
		Value: func(v Vehicle) string {
			if c, ok := v.Spec.(Car); ok {
				return itoa(f(c))
			}
			return ""
		},
	}
}

func bikeColumn(key, name string, f func(Bike) int) Column[Vehicle] {
	return Column[Vehicle]{
		Key: key, Name: name, Type: ColumnNumber, Editable: true,
		Value: func(v Vehicle) string {
			if b, ok := v.Spec.(Bike); ok {
				return itoa(f(b))
			}
			return ""
		},
	}
}

func planeColumn(key, name string, f func(Plane) int) Column[Vehicle] {
	return Column[Vehicle]{
		Key: key, Name: name, Type: ColumnNumber, Editable: true,
		Value: func(v Vehicle) string {
			if p, ok := v.Spec.(Plane); ok {
				return itoa(f(p))
			}
			return ""
		},
	}
}

// CarColumns declares the displayable fields of cars.
var CarColumns = append(VehicleColumns[:len(VehicleColumns):len(VehicleColumns)],
	carColumn("mileage", "Mileage", func(c Car) int { return c.Mileage }),
	carColumn("power", "Power", func(c Car) int { return c.Power }),
	carColumn("seatCount", "Seat count", func(c Car) int { return c.SeatCount }),
)

// BikeColumns declares the displayable fields of bikes.
var BikeColumns = append(VehicleColumns[:len(VehicleColumns):len(VehicleColumns)],
	bikeColumn("mileage", "Mileage", func(b Bike) int { return b.Mileage }),
	bikeColumn("power", "Power", func(b Bike) int { return b.Power }),
)

// PlaneColumns declares the displayable fields of planes.
var PlaneColumns = append(VehicleColumns[:len(VehicleColumns):len(VehicleColumns)],
	planeColumn("hoursFlown", "Hours flown", func(p Plane) int { return p.HoursFlown }),
	planeColumn("engineCount", "Engine count", func(p Plane) int { return p.EngineCount }),
)

// KindColumns returns the column declarations of the k vehicle kind.
// For invalid kinds, the common VehicleColumns are returned.
func KindColumns(k VehicleKind) Columns[Vehicle] {
	switch k {
	case VehicleKindCar:
		return CarColumns
	case VehicleKindBike:
		return BikeColumns
	case VehicleKindPlane:
		return PlaneColumns
	default:
		return VehicleColumns
	}
}

// ContractColumns declares the displayable contract fields.
var ContractColumns = Columns[Contract]{
	{Key: "id", Name: "ID", Value: func(c Contract) string { return c.ID }},
	{
		Key: "clientId", Name: "Client ID",
		Value: func(c Contract) string { return c.ClientID },
	},
	{
		Key: "vehicleId", Name: "Vehicle ID",
		Value: func(c Contract) string { return c.VehicleID },
	},
	{
		Key: "beginDate", Name: "Start date", Type: ColumnDate,
		Editable: true,
		Value:    func(c Contract) string { return date(c.Begin) },
	},
	{
		Key: "endDate", Name: "End date", Type: ColumnDate,
		Editable: true,
		Value:    func(c Contract) string { return date(c.End) },
	},
	{
		Key: "plannedMileage", Name: "Planned mileage",
		Type: ColumnNumber, Editable: true,
		Value: func(c Contract) string { return itoa(c.PlannedMileage) },
	},
	{
		Key: "plannedPrice", Name: "Planned price", Type: ColumnNumber,
		Editable: true,
		Value:    func(c Contract) string { return itoa(c.PlannedPrice) },
	},
}
