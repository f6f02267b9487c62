// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"fmt"

	"github.com/momeni/carrent/pkg/adapter/cli"
	"github.com/momeni/carrent/pkg/core/cerr"
	"github.com/momeni/carrent/pkg/core/model"
	"github.com/momeni/carrent/pkg/core/usecase/clientsuc"
	"github.com/spf13/cobra"
)

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Manage clients",
}

var clientIn clientsuc.ClientInput

var clientAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a client",
	Long: `Add validates the given fields and adds a new client whose ID is
derived from the current day and the client last name, such as
CLI-240301-SMI-0. Dates are given as dd/MM/yyyy.`,
	Args: cobra.NoArgs,
	RunE: withSession(true, addClient),
}

func addClient(ctx context.Context, s *session, _ []string) error {
	c, err := s.app.ClientsUseCase().AddClient(ctx, clientIn)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Client %s added.\n", c.ID)
	return nil
}

var clientEditCmd = &cobra.Command{
	Use:   "edit <id> <field> <value>",
	Short: "Edit one field of a client",
	Long: `Edit validates the new value and replaces one field of a client.
The field may be given by its key (e.g., postalCode) or its title
(e.g., "Postal code"). The client ID never changes.`,
	Args: cobra.ExactArgs(3),
	RunE: withSession(true, editClient),
}

func editClient(ctx context.Context, s *session, args []string) error {
	uc := s.app.ClientsUseCase()
	editors := map[string]editor{
		"lastName":     uc.EditLastName,
		"firstName":    uc.EditFirstName,
		"birthDate":    uc.EditBirthDate,
		"address":      uc.EditAddress,
		"postalCode":   uc.EditPostalCode,
		"city":         uc.EditCity,
		"licenses":     uc.EditLicenses,
		"emailAddress": uc.EditEmailAddress,
		"phoneNumber":  uc.EditPhoneNumber,
	}
	err := editField(
		ctx, model.FamilyClient, model.ClientColumns, editors,
		args[0], args[1], args[2],
	)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Client %s edited.\n", args[0])
	return nil
}

var clientRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a client",
	Long: `Remove deletes a client. The contracts of the client are kept,
they do not depend on the client after their creation.`,
	Args: cobra.ExactArgs(1),
	RunE: withSession(true, removeClient),
}

func removeClient(ctx context.Context, s *session, args []string) error {
	if err := s.app.ClientsUseCase().Remove(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Client %s removed.\n", args[0])
	return nil
}

var clientListCmd = &cobra.Command{
	Use:   "list [column=value]...",
	Short: "List clients",
	Long: `List prints the clients in their creation order. Optional criteria
keep clients whose column contains the given value, ignoring case,
e.g., city=paris.`,
	RunE: withSession(false, listClients),
}

func listClients(_ context.Context, s *session, args []string) error {
	criteria, err := parseCriteria(model.ClientColumns, args)
	if err != nil {
		return err
	}
	items := filtered(s.app.ClientsUseCase().Query(), criteria)
	_, err = cli.Table(s.out, model.ClientColumns, items)
	return err
}

var clientFindCmd = &cobra.Command{
	Use:   "find <id>",
	Short: "Show one client",
	Args:  cobra.ExactArgs(1),
	RunE:  withSession(false, findClient),
}

func findClient(_ context.Context, s *session, args []string) error {
	c, ok := s.app.ClientsUseCase().Find(args[0])
	if !ok {
		return cerr.NotFound(model.FamilyClient.Title(), args[0])
	}
	if err := cli.Record(s.out, model.ClientColumns, c); err != nil {
		return err
	}
	if s.app.ContractsUseCase().HasContract(c.ID) {
		fmt.Fprintln(s.out, "The client has rental contracts.")
	}
	return nil
}

func init() {
	f := clientAddCmd.Flags()
	f.StringVar(&clientIn.LastName, "last-name", "", "last name")
	f.StringVar(&clientIn.FirstName, "first-name", "", "first name")
	f.StringVar(&clientIn.BirthDate, "birth-date", "", "date of birth (dd/MM/yyyy)")
	f.StringVar(&clientIn.Address, "address", "", "street address")
	f.StringVar(&clientIn.PostalCode, "postal-code", "", "postal code")
	f.StringVar(&clientIn.City, "city", "", "city")
	f.StringVar(&clientIn.Licenses, "licenses", "", "driving licenses, e.g., A, B")
	f.StringVar(&clientIn.EmailAddress, "email", "", "mail address")
	f.StringVar(&clientIn.PhoneNumber, "phone", "", "phone number (ten digits)")

	rootCmd.AddCommand(clientCmd)
	clientCmd.AddCommand(
		clientAddCmd, clientEditCmd, clientRemoveCmd,
		clientListCmd, clientFindCmd,
	)
}
