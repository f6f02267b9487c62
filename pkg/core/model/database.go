// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

// Database owns the three entity collections and the Sequencer which
// allocates their internal sequence numbers. A whole Database is
// loaded or saved at once, and is replaced as a whole on load.
// A Database is not safe for concurrent use, see the repo.Store
// interface for its synchronized owner.
type Database struct {
	Clients   Collection[Client]
	Vehicles  Collection[Vehicle]
	Contracts Collection[Contract]

	seq Sequencer
}

// NewDatabase instantiates an empty database.
func NewDatabase() *Database {
	return &Database{}
}

// Restore instantiates a database holding the given loaded entities in
// the given order. Internal sequence numbers are assigned in the load
// order and the counters are raised past the numeric suffixes of the
// loaded display IDs, so entities which are created after a load will
// never reuse a loaded display ID.
func Restore(clients []Client, vehicles []Vehicle, contracts []Contract) *Database {
	db := NewDatabase()
	for _, c := range clients {
		c.Seq = db.seq.Next(FamilyClient)
		db.Clients.Register(c)
	}
	for _, v := range vehicles {
		v.Seq = db.seq.Next(FamilyVehicle)
		db.Vehicles.Register(v)
	}
	for _, c := range contracts {
		c.Seq = db.seq.Next(FamilyContract)
		db.Contracts.Register(c)
	}
	for c := range db.Clients.All() {
		db.seq.Observe(FamilyClient, c.ID)
	}
	for v := range db.Vehicles.All() {
		db.seq.Observe(FamilyVehicle, v.ID)
	}
	for c := range db.Contracts.All() {
		db.seq.Observe(FamilyContract, c.ID)
	}
	return db
}

// Sequencer returns the sequence numbers allocator of db.
func (db *Database) Sequencer() *Sequencer {
	return &db.seq
}
