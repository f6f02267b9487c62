// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package filedb_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/momeni/carrent/pkg/adapter/db/filedb"
	"github.com/momeni/carrent/pkg/core/cerr"
	"github.com/momeni/carrent/pkg/core/model"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sample() *model.Database {
	return model.Restore(
		[]model.Client{{
			Entity:       model.Entity{ID: "CLI-240301-SMI-0"},
			LastName:     "Smith",
			FirstName:    "John",
			BirthDate:    day(1990, time.February, 1),
			Address:      "1 rue de la Paix",
			PostalCode:   "75000",
			City:         "Paris",
			Licenses:     "A, B",
			EmailAddress: "john@smith.com",
			PhoneNumber:  "01 23 45 67 89",
		}},
		[]model.Vehicle{{
			Entity:          model.Entity{ID: "V-FIAT-0"},
			Brand:           "Fiat",
			Model:           "Panda",
			Condition:       model.ConditionGood,
			RentPricePerDay: 100,
			MaxSpeed:        150,
			Spec:            model.Car{Mileage: 12000, Power: 70, SeatCount: 4},
		}, {
			Entity:          model.Entity{ID: "V-DUCATI-1"},
			Brand:           "Ducati",
			Model:           "Monster",
			Condition:       model.ConditionNew,
			RentPricePerDay: 80,
			MaxSpeed:        240,
			Spec:            model.Bike{Mileage: 300, Power: 110},
		}, {
			Entity:          model.Entity{ID: "V-CESSNA-2"},
			Brand:           "Cessna",
			Model:           "172",
			Condition:       model.ConditionVeryGood,
			RentPricePerDay: 900,
			MaxSpeed:        300,
			Spec:            model.Plane{HoursFlown: 1200, EngineCount: 1},
		}},
		[]model.Contract{{
			Entity:         model.Entity{ID: "CTR-240301-0"},
			ClientID:       "CLI-240301-SMI-0",
			VehicleID:      "V-FIAT-0",
			Begin:          day(2024, time.March, 1),
			End:            day(2024, time.March, 4),
			PlannedMileage: 150,
			PlannedPrice:   345,
		}},
	)
}

type snapshot struct {
	Clients   []model.Client
	Vehicles  []model.Vehicle
	Contracts []model.Contract
}

func snap(db *model.Database) snapshot {
	return snapshot{
		Clients:   slices.Collect(db.Clients.All()),
		Vehicles:  slices.Collect(db.Vehicles.All()),
		Contracts: slices.Collect(db.Contracts.All()),
	}
}

func roundTrip(t *testing.T, name string, db *model.Database) *model.Database {
	t.Helper()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), name)
	h, err := filedb.Handlers{}.ForFile(path)
	require.NoError(t, err)
	require.NoError(t, h.Save(ctx, db, path))
	loaded, err := h.Load(ctx, path)
	require.NoError(t, err)
	return loaded
}

func TestRoundTrip(t *testing.T) {
	want := snap(sample())
	for _, name := range []string{
		"db.json", "db.xml", "db.yaml", "db.yml", "DB.JSON",
	} {
		t.Run(name, func(t *testing.T) {
			got := snap(roundTrip(t, name, sample()))
			require.Equal(t, want, got)
		})
	}
}

func TestRoundTripEmpty(t *testing.T) {
	for _, name := range []string{"db.json", "db.xml", "db.yaml"} {
		t.Run(name, func(t *testing.T) {
			db := roundTrip(t, name, model.NewDatabase())
			require.Zero(t, db.Clients.Len())
			require.Zero(t, db.Vehicles.Len())
			require.Zero(t, db.Contracts.Len())
		})
	}
}

func TestYAMLMatchesJSON(t *testing.T) {
	require.Equal(t,
		snap(roundTrip(t, "db.json", sample())),
		snap(roundTrip(t, "db.yaml", sample())),
	)
}

func TestLoadedCountersSkipLoadedIDs(t *testing.T) {
	db := roundTrip(t, "db.json", sample())
	seq := db.Sequencer()
	require.Equal(t, 1, seq.Peek(model.FamilyClient))
	require.Equal(t, 3, seq.Peek(model.FamilyVehicle))
	require.Equal(t, 1, seq.Peek(model.FamilyContract))
}

func TestExtensions(t *testing.T) {
	require.Equal(t,
		[]string{"json", "xml", "yaml", "yml"},
		filedb.Handlers{}.Extensions(),
	)
	for _, path := range []string{"db.csv", "db", "json"} {
		_, err := filedb.Handlers{}.ForFile(path)
		require.ErrorIs(t, err, cerr.ErrLoaderNotFound, path)
	}
	h, err := filedb.Handlers{}.ForFile("dir.v2/db.Yml")
	require.NoError(t, err)
	require.Equal(t, "yml", h.(filedb.Handler).Format())
}

func TestLoadFailures(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	h, err := filedb.Handlers{}.ForFile("x.json")
	require.NoError(t, err)

	missing := filepath.Join(dir, "missing.json")
	_, err = h.Load(ctx, missing)
	require.ErrorIs(t, err, cerr.ErrLoadingFailed)
	require.EqualError(t, err, "File '"+missing+"' does not exist")

	cases := map[string]string{
		"malformed": `{"clients": [`,
		"type":      `{"vehicles": [{"id": "V-X-0", "type": "boat", "condition": "New"}]}`,
		"condition": `{"vehicles": [{"id": "V-X-0", "type": "car", "condition": "Rusty"}]}`,
		"date":      `{"clients": [{"id": "CLI-240301-SMI-0", "birthDate": "1990-02-01"}]}`,
		"duplicate": `{"contracts": [` +
			`{"id": "CTR-240301-0", "beginDate": "01/03/2024", "endDate": "02/03/2024"},` +
			`{"id": "CTR-240301-0", "beginDate": "01/03/2024", "endDate": "02/03/2024"}]}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(dir, name+".json")
			require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
			_, err := h.Load(ctx, p)
			require.ErrorIs(t, err, cerr.ErrLoadingFailed)
		})
	}
}

func TestIDsAreUniquePerFamily(t *testing.T) {
	p := filepath.Join(t.TempDir(), "shared.json")
	content := `{
  "clients": [{"id": "ID-0", "lastName": "Smith", "birthDate": "01/02/1990"}],
  "vehicles": [{"id": "ID-0", "type": "bike", "condition": "New"}]
}`
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	h, err := filedb.Handlers{}.ForFile(p)
	require.NoError(t, err)
	db, err := h.Load(context.Background(), p)
	require.NoError(t, err)
	require.True(t, db.Clients.Contains("ID-0"))
	require.True(t, db.Vehicles.Contains("ID-0"))
}

func TestSaveFailureKeepsTarget(t *testing.T) {
	ctx := context.Background()
	h, err := filedb.Handlers{}.ForFile("x.xml")
	require.NoError(t, err)

	err = h.Save(ctx, sample(), filepath.Join(t.TempDir(), "no", "db.xml"))
	require.ErrorIs(t, err, cerr.ErrWritingFailed)

	dir := t.TempDir()
	path := filepath.Join(dir, "db.xml")
	require.NoError(t, h.Save(ctx, sample(), path))
	require.NoError(t, h.Save(ctx, model.NewDatabase(), path))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary file is left behind")
	db, err := h.Load(ctx, path)
	require.NoError(t, err)
	require.Zero(t, db.Clients.Len())
}

func TestFormatVersion(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	h, err := filedb.Handlers{}.ForFile("x.yaml")
	require.NoError(t, err)

	p := filepath.Join(dir, "db.yaml")
	require.NoError(t, h.Save(ctx, sample(), p))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Contains(t, string(b), "version: 1.0.0")

	p = filepath.Join(dir, "v2.yaml")
	require.NoError(t, os.WriteFile(p, []byte("version: 2.0.0\n"), 0o644))
	_, err = h.Load(ctx, p)
	require.ErrorIs(t, err, cerr.ErrLoadingFailed)

	p = filepath.Join(dir, "v1.yaml")
	require.NoError(t, os.WriteFile(p, []byte("version: 1.3.0\nclients: []\n"), 0o644))
	_, err = h.Load(ctx, p)
	require.NoError(t, err)
}
