// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"strings"

	"github.com/momeni/carrent/pkg/adapter/config"
	"github.com/momeni/carrent/pkg/adapter/db/filedb"
	"github.com/momeni/carrent/pkg/adapter/db/memdb"
	"github.com/momeni/carrent/pkg/core/event"
	"github.com/momeni/carrent/pkg/core/log"
	"github.com/momeni/carrent/pkg/core/model"
	"github.com/momeni/carrent/pkg/core/usecase/appuc"
	"github.com/spf13/cobra"
)

var errNoDatabase = errors.New(
	"no database file is given (use -d or the database.file setting)",
)

// session holds the application use case which serves one command,
// its database file path, and the command input and output streams.
type session struct {
	app  *appuc.UseCase
	path string
	in   io.Reader
	out  io.Writer
}

// action runs one operation on an opened session.
type action func(ctx context.Context, s *session, args []string) error

// withSession adapts a to the cobra RunE signature. The database file
// is given by the -d flag or the config file. If save is true, the
// database is saved back when a changes its contents.
func withSession(save bool, a action) func(*cobra.Command, []string) error {
	return withSessionAt("", save, a)
}

// withSessionAt is similar to withSession, but path (if not empty)
// takes precedence over the -d flag.
func withSessionAt(
	path string, save bool, a action,
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		s, err := openSession(ctx, cmd, path, false)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := s.app.Close(ctx); err == nil {
				err = closeErr
			}
		}()
		if err = a(ctx, s, args); err != nil {
			return err
		}
		if save && s.app.DatabaseUseCase().HasUnsavedChanges() {
			if err = s.app.DatabaseUseCase().Save(ctx, s.path); err != nil {
				return err
			}
		}
		return s.app.Flush(ctx)
	}
}

// openSession loads the config file, installs the configured logger,
// and loads the database file. A missing database file is only
// accepted if mustExist is false, then an empty database is used
// and the file will be created when it is saved.
func openSession(
	ctx context.Context, cmd *cobra.Command, path string, mustExist bool,
) (*session, error) {
	c, err := config.Load(cfgPath, nil)
	if err != nil {
		return nil, fmt.Errorf("config.Load(%q): %w", cfgPath, err)
	}
	logger, err := c.Logger(cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	slog.SetDefault(logger)
	switch {
	case path != "":
	case dbPath != "":
		path = dbPath
	case c.Database.File != "":
		path = c.Database.File
	default:
		return nil, errNoDatabase
	}
	app, err := appuc.New(memdb.New(), filedb.Handlers{})
	if err != nil {
		return nil, fmt.Errorf("appuc.New: %w", err)
	}
	s := &session{
		app:  app,
		path: path,
		in:   cmd.InOrStdin(),
		out:  cmd.OutOrStdout(),
	}
	s.watch(ctx)
	if err = s.load(ctx, mustExist); err != nil {
		_ = app.Close(ctx)
		return nil, err
	}
	return s, nil
}

// watch subscribes to the database and entity notifications of the
// s session and logs them at the debug level.
func (s *session) watch(ctx context.Context) {
	s.app.DatabaseUseCase().Subscribe(func(e event.DatabaseEvent) {
		log.Debug(ctx, "database notification", log.Valuer("event", e))
	})
	entity := func(e event.ModelEvent) {
		log.Debug(ctx, "entity notification", log.Valuer("event", e))
	}
	s.app.ClientsUseCase().Subscribe(entity)
	s.app.VehiclesUseCase().Subscribe(entity)
	s.app.ContractsUseCase().Subscribe(entity)
}

func (s *session) load(ctx context.Context, mustExist bool) error {
	if _, err := (filedb.Handlers{}).ForFile(s.path); err != nil {
		return err
	}
	_, err := os.Stat(s.path)
	if errors.Is(err, fs.ErrNotExist) && !mustExist {
		log.Info(ctx, "starting with an empty database", log.Path(s.path))
		return nil
	}
	return s.app.DatabaseUseCase().Load(ctx, s.path)
}

// editor edits one field of the id entity.
type editor func(ctx context.Context, id, value string) error

// editField finds the field column among cols (by its key or title)
// and calls its editor from editors.
func editField[T any](
	ctx context.Context,
	f model.Family,
	cols model.Columns[T],
	editors map[string]editor,
	id, field, value string,
) error {
	col, ok := cols.Find(field)
	if !ok || !col.Editable {
		return fmt.Errorf("'%s' is not an editable %s field", field, f)
	}
	e, ok := editors[col.Key]
	if !ok {
		return fmt.Errorf("'%s' is not an editable %s field", field, f)
	}
	return e(ctx, id, value)
}

// parseCriteria parses "column=value" arguments into search criteria.
func parseCriteria[T any](
	cols model.Columns[T], args []string,
) ([]model.Criterion[T], error) {
	criteria := make([]model.Criterion[T], 0, len(args))
	for _, arg := range args {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf(
				"'%s' is not a column=value criterion", arg,
			)
		}
		col, ok := cols.Find(name)
		if !ok {
			return nil, fmt.Errorf("'%s' is not a known column", name)
		}
		criteria = append(criteria, model.Criterion[T]{
			Column: col, Value: value,
		})
	}
	return criteria, nil
}

// filtered yields the items which match all of the criteria.
func filtered[T any](
	items iter.Seq[T], criteria []model.Criterion[T],
) iter.Seq[T] {
	return func(yield func(T) bool) {
		for item := range items {
			if model.Match(item, criteria...) && !yield(item) {
				return
			}
		}
	}
}
