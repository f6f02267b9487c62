// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/momeni/carrent/pkg/adapter/cli"
	"github.com/momeni/carrent/pkg/core/cerr"
	"github.com/momeni/carrent/pkg/core/model"
	"github.com/momeni/carrent/pkg/core/usecase/vehiclesuc"
	"github.com/spf13/cobra"
)

var vehicleCmd = &cobra.Command{
	Use:   "vehicle",
	Short: "Manage vehicles (cars, bikes, and planes)",
}

var (
	carIn   vehiclesuc.CarInput
	bikeIn  vehiclesuc.BikeInput
	planeIn vehiclesuc.PlaneInput
)

const vehicleAddLong = `Add validates the given fields and adds a new %s whose ID is
derived from the first word of its brand, such as V-FIAT-0.
Conditions are: %s.`

func conditionNames() string {
	cs := model.Conditions()
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

var addCarCmd = &cobra.Command{
	Use:   "add-car",
	Short: "Add a car",
	Long:  fmt.Sprintf(vehicleAddLong, "car", conditionNames()),
	Args:  cobra.NoArgs,
	RunE: withSession(true, func(ctx context.Context, s *session, _ []string) error {
		v, err := s.app.VehiclesUseCase().AddCar(ctx, carIn)
		return vehicleAdded(s, v, err)
	}),
}

var addBikeCmd = &cobra.Command{
	Use:   "add-bike",
	Short: "Add a bike",
	Long:  fmt.Sprintf(vehicleAddLong, "bike", conditionNames()),
	Args:  cobra.NoArgs,
	RunE: withSession(true, func(ctx context.Context, s *session, _ []string) error {
		v, err := s.app.VehiclesUseCase().AddBike(ctx, bikeIn)
		return vehicleAdded(s, v, err)
	}),
}

var addPlaneCmd = &cobra.Command{
	Use:   "add-plane",
	Short: "Add a plane",
	Long:  fmt.Sprintf(vehicleAddLong, "plane", conditionNames()),
	Args:  cobra.NoArgs,
	RunE: withSession(true, func(ctx context.Context, s *session, _ []string) error {
		v, err := s.app.VehiclesUseCase().AddPlane(ctx, planeIn)
		return vehicleAdded(s, v, err)
	}),
}

func vehicleAdded(s *session, v model.Vehicle, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Vehicle %s (%s) added.\n", v.ID, v.Kind())
	return nil
}

var vehicleEditCmd = &cobra.Command{
	Use:   "edit <id> <field> <value>",
	Short: "Edit one field of a vehicle",
	Long: `Edit validates the new value and replaces one field of a vehicle.
The field may be given by its key (e.g., rentPricePerDay) or its title
(e.g., "Rent price per day"). Kind specific fields, such as seatCount,
are only available for vehicles of that kind.`,
	Args: cobra.ExactArgs(3),
	RunE: withSession(true, editVehicle),
}

func editVehicle(ctx context.Context, s *session, args []string) error {
	uc := s.app.VehiclesUseCase()
	v, ok := uc.Find(args[0])
	if !ok {
		return cerr.NotFound(model.FamilyVehicle.Title(), args[0])
	}
	editors := map[string]editor{
		"brand":           uc.EditBrand,
		"model":           uc.EditModel,
		"condition":       uc.EditCondition,
		"rentPricePerDay": uc.EditRentPricePerDay,
		"maxSpeed":        uc.EditMaxSpeed,
	}
	switch v.Kind() {
	case model.VehicleKindCar:
		editors["mileage"] = uc.EditCarMileage
		editors["power"] = uc.EditCarPower
		editors["seatCount"] = uc.EditCarSeatCount
	case model.VehicleKindBike:
		editors["mileage"] = uc.EditBikeMileage
		editors["power"] = uc.EditBikePower
	case model.VehicleKindPlane:
		editors["hoursFlown"] = uc.EditPlaneHoursFlown
		editors["engineCount"] = uc.EditPlaneEngineCount
	}
	err := editField(
		ctx, model.FamilyVehicle, model.KindColumns(v.Kind()), editors,
		args[0], args[1], args[2],
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Vehicle %s edited.\n", args[0])
	return nil
}

var vehicleRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a vehicle",
	Long: `Remove deletes a vehicle. The contracts of the vehicle are kept,
they do not depend on the vehicle after their creation.`,
	Args: cobra.ExactArgs(1),
	RunE: withSession(true, removeVehicle),
}

func removeVehicle(ctx context.Context, s *session, args []string) error {
	if err := s.app.VehiclesUseCase().Remove(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Vehicle %s removed.\n", args[0])
	return nil
}

var vehicleType string

var vehicleListCmd = &cobra.Command{
	Use:   "list [column=value]...",
	Short: "List vehicles",
	Long: `List prints the vehicles in their creation order. With the --type
flag, only vehicles of that kind are listed along with their kind
specific columns. Optional criteria keep vehicles whose column contains
the given value, ignoring case, e.g., brand=fiat.`,
	RunE: withSession(false, listVehicles),
}

func listVehicles(_ context.Context, s *session, args []string) error {
	uc := s.app.VehiclesUseCase()
	cols := model.VehicleColumns
	var items iter.Seq[model.Vehicle]
	if vehicleType == "" {
		items = uc.Query()
	} else {
		k, err := model.ParseVehicleKind(strings.ToLower(vehicleType))
		if err != nil {
			return fmt.Errorf("'%s': %w", vehicleType, err)
		}
		cols = model.KindColumns(k)
		items = uc.QueryKind(k)
	}
	criteria, err := parseCriteria(cols, args)
	if err != nil {
		return err
	}
	_, err = cli.Table(s.out, cols, filtered(items, criteria))
	return err
}

var vehicleFindCmd = &cobra.Command{
	Use:   "find <id>",
	Short: "Show one vehicle",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(false, findVehicle),
}

func findVehicle(_ context.Context, s *session, args []string) error {
	v, ok := s.app.VehiclesUseCase().Find(args[0])
	if !ok {
		return cerr.NotFound(model.FamilyVehicle.Title(), args[0])
	}
	if err := cli.Record(s.out, model.KindColumns(v.Kind()), v); err != nil {
		return err
	}
	if s.app.ContractsUseCase().IsRented(v.ID) {
		fmt.Fprintln(s.out, "The vehicle is rented.")
	}
	return nil
}

func vehicleFlags(cmd *cobra.Command, in *vehiclesuc.VehicleInput) {
	f := cmd.Flags()
	f.StringVar(&in.Brand, "brand", "", "brand, its first word makes the ID")
	f.StringVar(&in.Model, "model", "", "model")
	f.StringVar(&in.Condition, "condition", "", "condition, e.g., Good")
	f.StringVar(&in.RentPricePerDay, "price", "", "rent price per day")
	f.StringVar(&in.MaxSpeed, "max-speed", "", "max speed")
}

func init() {
	vehicleFlags(addCarCmd, &carIn.VehicleInput)
	addCarCmd.Flags().StringVar(&carIn.Mileage, "mileage", "", "mileage")
	addCarCmd.Flags().StringVar(&carIn.Power, "power", "", "power")
	addCarCmd.Flags().StringVar(&carIn.SeatCount, "seats", "", "seat count")

	vehicleFlags(addBikeCmd, &bikeIn.VehicleInput)
	addBikeCmd.Flags().StringVar(&bikeIn.Mileage, "mileage", "", "mileage")
	addBikeCmd.Flags().StringVar(&bikeIn.Power, "power", "", "power")

	vehicleFlags(addPlaneCmd, &planeIn.VehicleInput)
	addPlaneCmd.Flags().StringVar(&planeIn.HoursFlown, "hours-flown", "", "hours flown")
	addPlaneCmd.Flags().StringVar(&planeIn.EngineCount, "engines", "", "engine count")

	vehicleListCmd.Flags().StringVar(
		&vehicleType, "type", "", "vehicle kind: car, bike, or plane",
	)

	rootCmd.AddCommand(vehicleCmd)
	vehicleCmd.AddCommand(
		addCarCmd, addBikeCmd, addPlaneCmd, vehicleEditCmd,
		vehicleRemoveCmd, vehicleListCmd, vehicleFindCmd,
	)
}
