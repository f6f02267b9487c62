// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package contractsuc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/momeni/carrent/pkg/adapter/db/memdb"
	"github.com/momeni/carrent/pkg/core/cerr"
	"github.com/momeni/carrent/pkg/core/event"
	"github.com/momeni/carrent/pkg/core/model"
	"github.com/momeni/carrent/pkg/core/usecase/clientsuc"
	"github.com/momeni/carrent/pkg/core/usecase/contractsuc"
	"github.com/momeni/carrent/pkg/core/usecase/vehiclesuc"
	"github.com/stretchr/testify/suite"
)

type ContractsUseCaseTestSuite struct {
	suite.Suite
	Ctx      context.Context
	Queue    *event.Queue
	Clients  *clientsuc.UseCase
	Vehicles *vehiclesuc.UseCase
	UC       *contractsuc.UseCase

	client model.Client
	car    model.Vehicle
	events []event.ModelEvent
}

func TestContractsUseCaseTestSuite(t *testing.T) {
	suite.Run(t, new(ContractsUseCaseTestSuite))
}

var fixedDay = time.Date(2024, time.March, 1, 10, 30, 0, 0, time.UTC)

func (cts *ContractsUseCaseTestSuite) SetupTest() {
	cts.Ctx = context.Background()
	cts.Queue = event.NewQueue()
	cts.events = nil
	s := memdb.New()
	var err error
	cts.Clients, err = clientsuc.New(s, cts.Queue)
	cts.Require().NoError(err)
	cts.Vehicles, err = vehiclesuc.New(s, cts.Queue)
	cts.Require().NoError(err)
	cts.UC, err = contractsuc.New(
		s, cts.Queue,
		contractsuc.WithClock(func() time.Time { return fixedDay }),
		contractsuc.WithObserver(func(e event.ModelEvent) {
			cts.events = append(cts.events, e)
		}),
	)
	cts.Require().NoError(err)

	cts.client, err = cts.Clients.AddClient(cts.Ctx, clientsuc.ClientInput{
		LastName: "Smith", FirstName: "John", BirthDate: "01/02/1990",
		Address: "1 rue de la Paix", PostalCode: "75000", City: "Paris",
		Licenses: "B", EmailAddress: "john@smith.com",
		PhoneNumber: "0123456789",
	})
	cts.Require().NoError(err)
	cts.car = cts.addCar()
}

func (cts *ContractsUseCaseTestSuite) TearDownTest() {
	cts.NoError(cts.Queue.Close(cts.Ctx))
}

func (cts *ContractsUseCaseTestSuite) addCar() model.Vehicle {
	v, err := cts.Vehicles.AddCar(cts.Ctx, vehiclesuc.CarInput{
		VehicleInput: vehiclesuc.VehicleInput{
			Brand: "Fiat", Model: "Panda", Condition: "Good",
			RentPricePerDay: "100", MaxSpeed: "150",
		},
		Mileage: "0", Power: "70", SeatCount: "5",
	})
	cts.Require().NoError(err)
	return v
}

func (cts *ContractsUseCaseTestSuite) input(vehicleID string) contractsuc.ContractInput {
	return contractsuc.ContractInput{
		ClientID: cts.client.ID, VehicleID: vehicleID,
		Begin: "01/03/2024", End: "04/03/2024",
		PlannedMileage: "150", PlannedPrice: "345",
	}
}

func (cts *ContractsUseCaseTestSuite) TestAddContract() {
	c, err := cts.UC.AddContract(cts.Ctx, cts.input(cts.car.ID))
	cts.Require().NoError(err)
	cts.Equal("CTR-240301-0", c.ID)
	cts.Equal(cts.client.ID, c.ClientID)
	cts.Equal(cts.car.ID, c.VehicleID)
	cts.Equal(150, c.PlannedMileage)
	cts.Equal(345, c.PlannedPrice)
	cts.Equal(3*24*time.Hour, c.End.Sub(c.Begin))
	cts.True(cts.UC.IsRented(cts.car.ID))
	cts.True(cts.UC.HasContract(cts.client.ID))
	cts.False(cts.UC.HasContract("CLI-000000-NOB-9"))
	cts.Require().Len(cts.events, 1)
	cts.Equal(event.Added, cts.events[0].Kind)
}

func (cts *ContractsUseCaseTestSuite) TestAddContractChecksReferences() {
	in := cts.input(cts.car.ID)
	in.ClientID = "CLI-240301-NOB-7"
	_, err := cts.UC.AddContract(cts.Ctx, in)
	cts.ErrorIs(err, cerr.ErrInvalidInput)
	cts.Contains(err.Error(), "Client 'CLI-240301-NOB-7' does not exist")

	_, err = cts.UC.AddContract(cts.Ctx, cts.input("V-NONE-3"))
	cts.ErrorIs(err, cerr.ErrInvalidInput)
	cts.Contains(err.Error(), "Vehicle 'V-NONE-3' does not exist")
	cts.Zero(cts.UC.Count())
}

func (cts *ContractsUseCaseTestSuite) TestVehicleMayNotBeRentedTwice() {
	_, err := cts.UC.AddContract(cts.Ctx, cts.input(cts.car.ID))
	cts.Require().NoError(err)
	in := cts.input(cts.car.ID)
	in.Begin, in.End = "01/06/2024", "05/06/2024"
	_, err = cts.UC.AddContract(cts.Ctx, in)
	cts.ErrorIs(err, cerr.ErrInvalidInput)
	cts.Contains(err.Error(), "already rented")
	cts.Equal(1, cts.UC.Count())

	_, _, err = cts.UC.Rent(cts.Ctx, contractsuc.RentInput{
		ClientID: cts.client.ID, VehicleID: cts.car.ID,
		Begin: "01/06/2024", End: "05/06/2024", PlannedMileage: "0",
	}, contractsuc.Answer(contractsuc.DiscountApply))
	cts.ErrorIs(err, cerr.ErrInvalidInput)
}

func (cts *ContractsUseCaseTestSuite) TestEndMustFollowBegin() {
	for _, end := range []string{"01/03/2024", "28/02/2024"} {
		in := cts.input(cts.car.ID)
		in.End = end
		_, err := cts.UC.AddContract(cts.Ctx, in)
		cts.ErrorIs(err, cerr.ErrInvalidInput, end)
	}
	in := cts.input(cts.car.ID)
	in.PlannedPrice = "-1"
	_, err := cts.UC.AddContract(cts.Ctx, in)
	cts.ErrorIs(err, cerr.ErrInvalidInput)
	in = cts.input(cts.car.ID)
	in.Begin = "31/02/2024"
	_, err = cts.UC.AddContract(cts.Ctx, in)
	cts.ErrorIs(err, cerr.ErrInvalidInput)
	cts.Zero(cts.UC.Count())
	cts.False(cts.UC.IsRented(cts.car.ID))
}

func (cts *ContractsUseCaseTestSuite) TestRentComputesPlannedPrice() {
	asked := false
	c, q, err := cts.UC.Rent(cts.Ctx, contractsuc.RentInput{
		ClientID: cts.client.ID, VehicleID: cts.car.ID,
		Begin: "01/03/2024", End: "04/03/2024", PlannedMileage: "150",
	}, contractsuc.DiscountConfirmerFunc(
		func(context.Context, contractsuc.Quote) (contractsuc.DiscountAnswer, error) {
			asked = true
			return contractsuc.DiscountAbort, nil
		},
	))
	cts.Require().NoError(err)
	cts.False(asked, "no discount for short rentals")
	cts.Equal(345, c.PlannedPrice)
	cts.Equal(345, q.Total)
}

func (cts *ContractsUseCaseTestSuite) TestRentDiscountAnswers() {
	rent := func(v model.Vehicle, a contractsuc.DiscountAnswer) (model.Contract, error) {
		c, q, err := cts.UC.Rent(cts.Ctx, contractsuc.RentInput{
			ClientID: cts.client.ID, VehicleID: v.ID,
			Begin: "01/03/2024", End: "11/03/2024", PlannedMileage: "40",
		}, contractsuc.Answer(a))
		if q != nil {
			cts.True(q.DiscountAvailable)
			cts.Equal(1000, q.Total)
		}
		return c, err
	}

	_, err := rent(cts.car, contractsuc.DiscountAbort)
	cts.ErrorIs(err, contractsuc.ErrAborted)
	cts.Zero(cts.UC.Count(), "aborting cancels the creation")

	c, err := rent(cts.car, contractsuc.DiscountApply)
	cts.Require().NoError(err)
	cts.Equal(900, c.PlannedPrice)

	c, err = rent(cts.addCar(), contractsuc.DiscountKeep)
	cts.Require().NoError(err)
	cts.Equal(1000, c.PlannedPrice)

	errAsk := errors.New("stdin closed")
	_, _, err = cts.UC.Rent(cts.Ctx, contractsuc.RentInput{
		ClientID: cts.client.ID, VehicleID: cts.addCar().ID,
		Begin: "01/03/2024", End: "11/03/2024", PlannedMileage: "40",
	}, contractsuc.DiscountConfirmerFunc(
		func(context.Context, contractsuc.Quote) (contractsuc.DiscountAnswer, error) {
			return 0, errAsk
		},
	))
	cts.ErrorIs(err, errAsk)
	cts.Equal(2, cts.UC.Count())

	long := contractsuc.RentInput{
		ClientID: cts.client.ID, VehicleID: cts.addCar().ID,
		Begin: "01/03/2024", End: "11/03/2024", PlannedMileage: "40",
	}
	_, q, err := cts.UC.Rent(cts.Ctx, long, nil)
	cts.ErrorIs(err, contractsuc.ErrNoConfirmer)
	cts.Require().NotNil(q)
	cts.True(q.DiscountAvailable)
	cts.Equal(2, cts.UC.Count())

	short := long
	short.End = "04/03/2024"
	c, _, err = cts.UC.Rent(cts.Ctx, short, nil)
	cts.Require().NoError(err)
	cts.NotEmpty(c.ID)
	cts.Equal(3, cts.UC.Count())
}

func (cts *ContractsUseCaseTestSuite) TestQuote() {
	q, err := cts.UC.Quote(cts.Ctx, contractsuc.QuoteInput{
		VehicleID: cts.car.ID, Begin: "01/03/2024", End: "04/03/2024",
		PlannedMileage: "51",
	})
	cts.Require().NoError(err)
	cts.Equal(326, q.Total)
	_, err = cts.UC.Quote(cts.Ctx, contractsuc.QuoteInput{
		VehicleID: "V-NONE-1", Begin: "01/03/2024", End: "04/03/2024",
		PlannedMileage: "0",
	})
	cts.ErrorIs(err, cerr.ErrInvalidInput)
}

func (cts *ContractsUseCaseTestSuite) TestRemovingClientDoesNotCascade() {
	c, err := cts.UC.AddContract(cts.Ctx, cts.input(cts.car.ID))
	cts.Require().NoError(err)
	cts.Require().NoError(cts.Clients.Remove(cts.Ctx, cts.client.ID))
	cts.Require().NoError(cts.Vehicles.Remove(cts.Ctx, cts.car.ID))
	got, ok := cts.UC.Find(c.ID)
	cts.Require().True(ok)
	cts.Equal(c, got)
	cts.True(cts.UC.HasContract(cts.client.ID))
}

func (cts *ContractsUseCaseTestSuite) TestEditsAndRemove() {
	c, err := cts.UC.AddContract(cts.Ctx, cts.input(cts.car.ID))
	cts.Require().NoError(err)
	cts.Require().NoError(cts.UC.EditBegin(cts.Ctx, c.ID, "02/03/2024"))
	cts.Require().NoError(cts.UC.EditEnd(cts.Ctx, c.ID, "10/03/2024"))
	cts.Require().NoError(cts.UC.EditPlannedMileage(cts.Ctx, c.ID, "10"))
	cts.Require().NoError(cts.UC.EditPlannedPrice(cts.Ctx, c.ID, "800"))
	cts.ErrorIs(cts.UC.EditPlannedPrice(cts.Ctx, c.ID, "-800"), cerr.ErrInvalidInput)
	cts.ErrorIs(cts.UC.EditEnd(cts.Ctx, c.ID, "10-03-2024"), cerr.ErrInvalidInput)
	cts.ErrorIs(cts.UC.EditBegin(cts.Ctx, "CTR-000000-9", "02/03/2024"), cerr.ErrInvalidInput)

	got, _ := cts.UC.Find(c.ID)
	cts.Equal("02/03/2024", got.Begin.Format(model.DateLayout))
	cts.Equal("10/03/2024", got.End.Format(model.DateLayout))
	cts.Equal(10, got.PlannedMileage)
	cts.Equal(800, got.PlannedPrice)

	cts.Require().NoError(cts.UC.Remove(cts.Ctx, c.ID))
	cts.False(cts.UC.IsRented(cts.car.ID), "vehicle may be rented again")
	cts.ErrorIs(cts.UC.Remove(cts.Ctx, c.ID), cerr.ErrInvalidInput)

	kinds := make([]event.ModelEventKind, len(cts.events))
	for i, e := range cts.events {
		kinds[i] = e.Kind
	}
	cts.Equal([]event.ModelEventKind{
		event.Added, event.Edited, event.Edited, event.Edited,
		event.Edited, event.Removing,
	}, kinds)

	again, err := cts.UC.AddContract(cts.Ctx, cts.input(cts.car.ID))
	cts.Require().NoError(err)
	cts.Equal("CTR-240301-1", again.ID)
	cts.Len(cts.UC.Search(), 1)
}
