// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/momeni/carrent/pkg/adapter/cli"
	"github.com/momeni/carrent/pkg/core/cerr"
	"github.com/momeni/carrent/pkg/core/model"
	"github.com/momeni/carrent/pkg/core/usecase/contractsuc"
	"github.com/spf13/cobra"
)

var contractCmd = &cobra.Command{
	Use:   "contract",
	Short: "Manage rental contracts",
}

var (
	rentIn   contractsuc.RentInput
	price    string
	discount string
)

var contractAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a rental contract",
	Long: `Add creates a contract renting a vehicle to a client during the
[begin, end) dates, given as dd/MM/yyyy. The client and the vehicle must
exist and the vehicle may not be rented already.
Unless the --price flag is given, the planned price is computed from the
vehicle daily price, the rental days, and the planned mileage. Rentals
longer than 7 days may receive a 10% discount. The discount question is
asked on the standard input, unless the --discount flag answers it by
apply, keep, or abort.`,
	Args: cobra.NoArgs,
	RunE: withSession(true, addContract),
}

func addContract(ctx context.Context, s *session, _ []string) error {
	uc := s.app.ContractsUseCase()
	if price != "" {
		c, err := uc.AddContract(ctx, contractsuc.ContractInput{
			ClientID:       rentIn.ClientID,
			VehicleID:      rentIn.VehicleID,
			Begin:          rentIn.Begin,
			End:            rentIn.End,
			PlannedMileage: rentIn.PlannedMileage,
			PlannedPrice:   price,
		})
		return contractAdded(s, c, err)
	}
	var confirm contractsuc.DiscountConfirmer
	if discount != "" {
		a, err := contractsuc.ParseDiscountAnswer(discount)
		if err != nil {
			return err
		}
		confirm = contractsuc.Answer(a)
	} else {
		confirm = cli.NewDiscountPrompt(s.in, s.out)
	}
	c, _, err := uc.Rent(ctx, rentIn, confirm)
	if errors.Is(err, contractsuc.ErrAborted) {
		fmt.Fprintln(s.out, "Contract creation aborted.")
		return nil
	}
	return contractAdded(s, c, err)
}

func contractAdded(s *session, c model.Contract, err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out,
		"Contract %s added, planned price: %d.\n", c.ID, c.PlannedPrice,
	)
	return nil
}

var contractQuoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute the price of a rental",
	Long: `Quote computes the planned price of renting a vehicle during the
[begin, end) dates with a planned mileage, without adding a contract.`,
	Args: cobra.NoArgs,
	RunE: withSession(false, quoteContract),
}

func quoteContract(ctx context.Context, s *session, _ []string) error {
	q, err := s.app.ContractsUseCase().Quote(ctx, contractsuc.QuoteInput{
		VehicleID:      rentIn.VehicleID,
		Begin:          rentIn.Begin,
		End:            rentIn.End,
		PlannedMileage: rentIn.PlannedMileage,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Days:      %d\n", q.Days)
	fmt.Fprintf(s.out, "Base:      %d\n", q.Base)
	fmt.Fprintf(s.out, "Surcharge: %d\n", q.Surcharge)
	fmt.Fprintf(s.out, "Total:     %d\n", q.Total)
	if q.DiscountAvailable {
		fmt.Fprintf(s.out, "Discounted: %d\n", q.Discounted)
	}
	return nil
}

var contractEditCmd = &cobra.Command{
	Use:   "edit <id> <field> <value>",
	Short: "Edit one field of a contract",
	Long: `Edit validates the new value and replaces one field of a contract.
Only the dates, the planned mileage, and the planned price may be
edited. The planned price is not recomputed.`,
	Args: cobra.ExactArgs(3),
	RunE: withSession(true, editContract),
}

func editContract(ctx context.Context, s *session, args []string) error {
	uc := s.app.ContractsUseCase()
	editors := map[string]editor{
		"beginDate":      uc.EditBegin,
		"endDate":        uc.EditEnd,
		"plannedMileage": uc.EditPlannedMileage,
		"plannedPrice":   uc.EditPlannedPrice,
	}
	err := editField(
		ctx, model.FamilyContract, model.ContractColumns, editors,
		args[0], args[1], args[2],
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Contract %s edited.\n", args[0])
	return nil
}

var contractRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a contract",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(true, removeContract),
}

func removeContract(ctx context.Context, s *session, args []string) error {
	if err := s.app.ContractsUseCase().Remove(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Contract %s removed.\n", args[0])
	return nil
}

var contractListCmd = &cobra.Command{
	Use:   "list [column=value]...",
	Short: "List contracts",
	Long: `List prints the contracts in their creation order. Optional
criteria keep contracts whose column contains the given value, ignoring
case, e.g., vehicleId=V-FIAT.`,
	RunE: withSession(false, listContracts),
}

func listContracts(_ context.Context, s *session, args []string) error {
	criteria, err := parseCriteria(model.ContractColumns, args)
	if err != nil {
		return err
	}
	items := filtered(s.app.ContractsUseCase().Query(), criteria)
	_, err = cli.Table(s.out, model.ContractColumns, items)
	return err
}

var contractFindCmd = &cobra.Command{
	Use:   "find <id>",
	Short: "Show one contract",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(false, findContract),
}

func findContract(_ context.Context, s *session, args []string) error {
	c, ok := s.app.ContractsUseCase().Find(args[0])
	if !ok {
		return cerr.NotFound(model.FamilyContract.Title(), args[0])
	}
	return cli.Record(s.out, model.ContractColumns, c)
}

func rentFlags(cmd *cobra.Command, withClient bool) {
	f := cmd.Flags()
	if withClient {
		f.StringVar(&rentIn.ClientID, "client", "", "client ID")
	}
	f.StringVar(&rentIn.VehicleID, "vehicle", "", "vehicle ID")
	f.StringVar(&rentIn.Begin, "begin", "", "start date (dd/MM/yyyy)")
	f.StringVar(&rentIn.End, "end", "", "end date (dd/MM/yyyy)")
	f.StringVar(&rentIn.PlannedMileage, "mileage", "", "planned mileage")
}

func init() {
	rentFlags(contractAddCmd, true)
	contractAddCmd.Flags().StringVar(
		&price, "price", "", "planned price, skipping its computation",
	)
	contractAddCmd.Flags().StringVar(
		&discount, "discount", "", "discount answer: apply, keep, or abort",
	)
	rentFlags(contractQuoteCmd, false)

	rootCmd.AddCommand(contractCmd)
	contractCmd.AddCommand(
		contractAddCmd, contractQuoteCmd, contractEditCmd,
		contractRemoveCmd, contractListCmd, contractFindCmd,
	)
}
