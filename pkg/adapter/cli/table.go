// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cli is the presentation adapter of the carrent command line.
// It renders entities as tables, using their model column declarations,
// and asks the interactive questions of the use cases.
package cli

import (
	"fmt"
	"io"
	"iter"
	"strings"
	"text/tabwriter"

	"github.com/momeni/carrent/pkg/core/model"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// Table writes a header line with the cols titles followed by one line
// per item, aligning the columns. It returns the number of written
// items.
func Table[T any](w io.Writer, cols model.Columns[T], items iter.Seq[T]) (int, error) {
	tw := newTabWriter(w)
	if _, err := fmt.Fprintln(tw, strings.Join(cols.Names(), "\t")); err != nil {
		return 0, err
	}
	n := 0
	for item := range items {
		if _, err := fmt.Fprintln(tw, strings.Join(cols.Row(item), "\t")); err != nil {
			return n, err
		}
		n++
	}
	return n, tw.Flush()
}

// Record writes the cols fields of item, one "title: value" per line.
func Record[T any](w io.Writer, cols model.Columns[T], item T) error {
	tw := newTabWriter(w)
	row := cols.Row(item)
	for i, c := range cols {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", c.Name, row[i]); err != nil {
			return err
		}
	}
	return tw.Flush()
}
