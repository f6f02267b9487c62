// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package command provides the root and sub-commands for the carrent
// car rental records management tool. Commands are organized using the
// cobra library. Each command loads the database file, runs one
// operation, and saves the file back if the operation changed it.
//
//	./carrent [-c config.yaml] [rentals.json]     # print a summary
//	./carrent client add --last-name Smith ... -d rentals.json
//	./carrent client edit CLI-240301-SMI-0 city Lyon -d rentals.json
//	./carrent vehicle add-car --brand Fiat ... -d rentals.json
//	./carrent vehicle list --type car -d rentals.json
//	./carrent contract add --client ... --vehicle ... -d rentals.json
//	./carrent contract quote --vehicle V-FIAT-0 ... -d rentals.json
//	./carrent db convert rentals.json rentals.xml
//	./carrent db check rentals.yaml
package command

import (
	"context"
	"fmt"
	"os"

	"github.com/momeni/carrent/pkg/adapter/config"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	dbPath  string
)

var rootCmd = &cobra.Command{
	Use:   "carrent [database-file]",
	Short: "A car rental records management tool",
	Long: `A car rental records management tool which keeps clients,
vehicles (cars, bikes, and planes), and rental contracts in a JSON,
XML, or YAML database file. The file format is chosen by the file
extension.
The database file may be given by the -d flag, the database.file
config setting, or the CARRENT_DATABASE_FILE environment variable.
The config file may be given by the -c flag or the CARRENT_CONFIG
environment variable.
Without a sub-command, a summary of the database file is printed.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         showSummary,
}

func showSummary(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	return withSessionAt(path, false, printSummary)(cmd, nil)
}

func printSummary(_ context.Context, s *session, _ []string) error {
	sum := s.app.Summary()
	fmt.Fprintf(s.out, "Database:  %s\n", s.path)
	fmt.Fprintf(s.out, "Clients:   %d\n", sum.Clients)
	fmt.Fprintf(s.out, "Vehicles:  %d (%d rented)\n", sum.Vehicles, sum.Rented)
	fmt.Fprintf(s.out, "Contracts: %d\n", sum.Contracts)
	return nil
}

// Execute runs the rootCmd which in turn parses CLI arguments and
// flags and runs the most specific cobra command. Failures are printed
// and cause a non-zero exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixConfigPath)
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", "", "config file path",
	)
	rootCmd.PersistentFlags().StringVarP(
		&dbPath, "database", "d", "", "database file path",
	)
}

// fixConfigPath ensures that cfgPath is set by either the CLI args or
// the CARRENT_CONFIG environment variable. A config file is optional,
// so cfgPath may be left empty.
func fixConfigPath() {
	if cfgPath != "" {
		return
	}
	cfgPath = os.Getenv(config.EnvConfigFile)
}
