// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model_test

import (
	"fmt"
	"slices"
	"testing"

	"github.com/momeni/carrent/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencer(t *testing.T) {
	var s model.Sequencer
	assert.Equal(t, 0, s.Peek(model.FamilyClient))
	assert.Equal(t, 0, s.Next(model.FamilyClient))
	assert.Equal(t, 1, s.Next(model.FamilyClient))
	assert.Equal(t, 0, s.Next(model.FamilyVehicle))

	s.Observe(model.FamilyContract, "CTR-240101-7")
	assert.Equal(t, 8, s.Next(model.FamilyContract))
	s.Observe(model.FamilyContract, "CTR-240101-3")
	assert.Equal(t, 9, s.Next(model.FamilyContract))
	s.Observe(model.FamilyContract, "CTR-240101-x")
	s.Observe(model.FamilyContract, "garbage")
	assert.Equal(t, 10, s.Peek(model.FamilyContract))
}

func ids[T model.Record](c *model.Collection[T]) []string {
	var res []string
	for item := range c.All() {
		res = append(res, item.Base().ID)
	}
	return res
}

func TestCollection(t *testing.T) {
	var c model.Collection[model.Client]
	for _, id := range []string{"a", "b", "c"} {
		c.Register(model.Client{Entity: model.Entity{ID: id}, City: "Paris"})
	}
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"a", "b", "c"}, ids(&c))
	assert.Equal(t, ids(&c), ids(&c), "iteration is restartable")
	assert.True(t, c.Contains("b"))
	assert.False(t, c.Unregister("z"))
	assert.True(t, c.Unregister("b"))
	assert.False(t, c.Contains("b"))
	assert.Equal(t, []string{"a", "c"}, ids(&c))
	assert.Equal(t, "c", c.At(1).ID)

	cp, ok := c.Lookup("a")
	require.True(t, ok)
	cp.City = "Lyon"
	got, _ := c.Lookup("a")
	assert.Equal(t, "Paris", got.City, "lookups return copies")

	err := c.Modify("a", func(cl *model.Client) error {
		cl.City = "Nice"
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
	got, _ = c.Lookup("a")
	assert.Equal(t, "Paris", got.City, "failed modification is dropped")

	require.NoError(t, c.Modify("a", func(cl *model.Client) error {
		cl.City = "Nice"
		return nil
	}))
	got, _ = c.Lookup("a")
	assert.Equal(t, "Nice", got.City)
	assert.ErrorIs(t, c.Modify("z", func(*model.Client) error { return nil }),
		model.ErrNotRegistered)
}

func TestCollectionAllIsLive(t *testing.T) {
	var c model.Collection[model.Contract]
	c.Register(model.Contract{Entity: model.Entity{ID: "1"}})
	seen := 0
	for range c.All() {
		seen++
		if c.Len() < 3 {
			c.Register(model.Contract{Entity: model.Entity{ID: "n"}})
		}
	}
	assert.Equal(t, 3, seen)
}

func TestRestoreReconcilesCounters(t *testing.T) {
	db := model.Restore(
		[]model.Client{
			{Entity: model.Entity{ID: "CLI-240101-SMI-4"}},
			{Entity: model.Entity{ID: "CLI-240101-DOE-1"}},
		},
		[]model.Vehicle{{
			Entity: model.Entity{ID: "V-FIAT-0"},
			Spec:   model.Car{},
		}},
		nil,
	)
	assert.Equal(t, 0, db.Clients.At(0).Seq)
	assert.Equal(t, 1, db.Clients.At(1).Seq)
	assert.Equal(t, 5, db.Sequencer().Peek(model.FamilyClient))
	assert.Equal(t, 1, db.Sequencer().Peek(model.FamilyVehicle))
	assert.Equal(t, 0, db.Sequencer().Peek(model.FamilyContract))
}

func TestCondition(t *testing.T) {
	for _, c := range model.Conditions() {
		assert.NoError(t, c.Validate())
		text, err := c.MarshalText()
		require.NoError(t, err)
		var parsed model.Condition
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, c, parsed)
	}
	c, err := model.ParseCondition(" verygood ")
	require.NoError(t, err)
	assert.Equal(t, model.ConditionVeryGood, c)
	_, err = model.ParseCondition("Broken")
	assert.ErrorIs(t, err, model.ErrUnknownCondition)
	assert.Error(t, model.ConditionInvalid.Validate())
	_, err = model.Condition(42).MarshalText()
	assert.Equal(t, model.ConditionError(42), err)
	assert.Equal(t, "Invalid", model.Condition(42).String())
}

func TestVehicleKinds(t *testing.T) {
	v := model.Vehicle{Spec: model.Plane{HoursFlown: 3}}
	assert.Equal(t, model.VehicleKindPlane, v.Kind())
	assert.Equal(t, model.VehicleKindInvalid, model.Vehicle{}.Kind())
	for _, s := range []string{"car", "bike", "plane"} {
		k, err := model.ParseVehicleKind(s)
		require.NoError(t, err)
		assert.Equal(t, s, k.String())
		assert.NoError(t, k.Validate())
	}
	_, err := model.ParseVehicleKind("boat")
	assert.ErrorIs(t, err, model.ErrUnknownVehicleKind)
}

func TestColumns(t *testing.T) {
	assert.Equal(t, []string{
		"ID", "Type", "Brand", "Model", "Condition", "Rent price per day",
		"Max speed", "Mileage", "Power", "Seat count",
	}, model.CarColumns.Names())
	assert.Len(t, model.VehicleColumns, 7, "kind columns do not alias")

	v := model.Vehicle{
		Entity: model.Entity{ID: "V-FIAT-0"}, Brand: "Fiat",
		Condition: model.ConditionGood, Spec: model.Bike{Mileage: 12},
	}
	row := model.KindColumns(model.VehicleKindBike).Row(v)
	assert.Equal(t, []string{
		"V-FIAT-0", "bike", "Fiat", "", "Good", "0", "0", "12", "0",
	}, row)
	assert.Equal(t, "", model.CarColumns.Row(v)[7])

	col, ok := model.ClientColumns.Find("last NAME")
	require.True(t, ok)
	assert.Equal(t, "lastName", col.Key)
	_, ok = model.ClientColumns.Find("nickname")
	assert.False(t, ok)

	city, _ := model.ClientColumns.Find("city")
	c := model.Client{City: "Saint-Etienne"}
	assert.True(t, model.Match(c, model.Criterion[model.Client]{
		Column: city, Value: "etienne",
	}))
	assert.False(t, model.Match(c, model.Criterion[model.Client]{
		Column: city, Value: "paris",
	}))
	assert.True(t, model.Match(c))
}

func ExampleCollection_All() {
	var c model.Collection[model.Vehicle]
	c.Register(model.Vehicle{Entity: model.Entity{ID: "V-FIAT-0"}})
	c.Register(model.Vehicle{Entity: model.Entity{ID: "V-BMW-1"}})
	fmt.Println(slices.Collect(func(yield func(string) bool) {
		for v := range c.All() {
			if !yield(v.ID) {
				return
			}
		}
	}))
	// Output:
	// [V-FIAT-0 V-BMW-1]
}

func TestSemVer(t *testing.T) {
	var sv model.SemVer
	require.NoError(t, sv.UnmarshalText([]byte("1.2")))
	require.Equal(t, model.SemVer{1, 2, 0}, sv)
	require.Equal(t, "1.2.0", sv.String())
	require.True(t, sv.Readable(model.FormatVersion))
	require.False(t, model.SemVer{2, 0, 0}.Readable(model.FormatVersion))

	require.Error(t, sv.UnmarshalText([]byte("1.x")))
	require.Error(t, sv.UnmarshalText([]byte("1.2.3.4")))
	require.Error(t, sv.UnmarshalText([]byte("-1.0")))
	require.Equal(t, model.SemVer{1, 2, 0}, sv, "left unchanged")
}
