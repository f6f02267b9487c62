// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"fmt"
	"strings"

	"github.com/momeni/carrent/pkg/adapter/db/filedb"
	"github.com/spf13/cobra"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database file management actions",
	Long: `Database file management actions can be chosen by sub-commands.
The convert action loads a database file in one format and writes it
in another format, and the check action verifies that a database file
can be loaded.
Supported file extensions are: ` + strings.Join(filedb.Handlers{}.Extensions(), ", ") + ".",
}

var convertCmd = &cobra.Command{
	Use:   "convert <src> <dst>",
	Short: "Convert a database file to another format",
	Long: `Convert loads the src database file and writes its entities to
the dst file, choosing both formats by their file extensions.
The dst file is replaced atomically if it exists.`,
	Args: cobra.ExactArgs(2),
	RunE: convert,
}

func convert(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	src, dst := args[0], args[1]
	if _, err = (filedb.Handlers{}).ForFile(dst); err != nil {
		return err
	}
	s, err := openSession(ctx, cmd, src, true)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.app.Close(ctx); err == nil {
			err = closeErr
		}
	}()
	if err = s.app.DatabaseUseCase().Save(ctx, dst); err != nil {
		return err
	}
	if err = s.app.Flush(ctx); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Converted %s to %s.\n", src, dst)
	return nil
}

var checkCmd = &cobra.Command{
	Use:   "check [database-file]",
	Short: "Check that a database file can be loaded",
	Long: `Check loads the given database file (or the file which is given
by the -d flag or the config file) and prints its summary. Loading
failures, such as malformed contents or unknown vehicle types, are
reported as errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: check,
}

func check(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	s, err := openSession(ctx, cmd, path, true)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := s.app.Close(ctx); err == nil {
			err = closeErr
		}
	}()
	if err = printSummary(ctx, s, nil); err != nil {
		return err
	}
	fmt.Fprintln(s.out, "OK")
	return nil
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(convertCmd, checkCmd)
}
