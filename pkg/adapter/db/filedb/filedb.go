// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package filedb implements the repo.Handlers and repo.Handler
// interfaces, reading and writing a whole database as a JSON, XML, or
// YAML file. The file format is chosen by the file extension,
// ignoring its case.
package filedb

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/momeni/carrent/pkg/core/cerr"
	"github.com/momeni/carrent/pkg/core/log"
	"github.com/momeni/carrent/pkg/core/model"
	"github.com/momeni/carrent/pkg/core/repo"
	"gopkg.in/yaml.v3"
)

type codec struct {
	marshal   func(v any) ([]byte, error)
	unmarshal func(data []byte, v any) error
}

var codecs = map[string]codec{
	"json": {
		marshal: func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		},
		unmarshal: json.Unmarshal,
	},
	"xml": {
		marshal: func(v any) ([]byte, error) {
			b, err := xml.MarshalIndent(v, "", "  ")
			if err != nil {
				return nil, err
			}
			return append([]byte(xml.Header), append(b, '\n')...), nil
		},
		unmarshal: xml.Unmarshal,
	},
	"yaml": {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
	"yml":  {marshal: yaml.Marshal, unmarshal: yaml.Unmarshal},
}

// Handlers chooses a Handler for each supported file extension.
// The zero value is ready to be used.
type Handlers struct{}

var _ repo.Handlers = Handlers{}

// ForFile returns the Handler of the path file format, as indicated by
// its extension. A LoaderNotFound error is returned for unsupported
// or missing extensions.
func (Handlers) ForFile(path string) (repo.Handler, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	c, ok := codecs[ext]
	if !ok {
		return nil, cerr.LoaderNotFound(fmt.Errorf(
			"'%s' has no supported extension (%s)",
			path, strings.Join(Handlers{}.Extensions(), ", "),
		))
	}
	return Handler{format: ext, codec: c}, nil
}

// Extensions returns the sorted list of supported file extensions,
// without their leading dots.
func (Handlers) Extensions() []string {
	exts := make([]string, 0, len(codecs))
	for ext := range codecs {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

// Handler reads and writes databases in one file format.
type Handler struct {
	format string
	codec  codec
}

var _ repo.Handler = Handler{}

// Format returns the file extension which selected h, e.g., "json".
func (h Handler) Format() string {
	return h.format
}

// Load reads and decodes the path file. All failures, including
// a missing file, are reported as LoadingFailed errors.
func (h Handler) Load(ctx context.Context, path string) (*model.Database, error) {
	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, cerr.LoadingFailed(
			fmt.Errorf("File '%s' does not exist", path),
		)
	case err != nil:
		return nil, cerr.LoadingFailed(fmt.Errorf("reading: %w", err))
	}
	d := &document{}
	if err = h.codec.unmarshal(b, d); err != nil {
		return nil, cerr.LoadingFailed(
			fmt.Errorf("decoding %s: %w", h.format, err),
		)
	}
	db, err := d.restore()
	if err != nil {
		return nil, cerr.LoadingFailed(err)
	}
	log.Debug(ctx, "decoded database file", log.Path(path),
		slog.Int("clients", db.Clients.Len()),
		slog.Int("vehicles", db.Vehicles.Len()),
		slog.Int("contracts", db.Contracts.Len()),
	)
	return db, nil
}

// Save encodes db and writes it to the path file. The content is
// written to a temporary file in the same directory at first, and then
// is moved over the path file, so the path file is either kept intact
// or is replaced completely. All failures are reported as
// WritingFailed errors.
func (h Handler) Save(ctx context.Context, db *model.Database, path string) error {
	b, err := h.codec.marshal(newDocument(db))
	if err != nil {
		return cerr.WritingFailed(fmt.Errorf("encoding %s: %w", h.format, err))
	}
	if err = writeFile(path, b); err != nil {
		return cerr.WritingFailed(err)
	}
	log.Debug(ctx, "encoded database file", log.Path(path))
	return nil
}

func writeFile(path string, b []byte) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmp)
		}
	}()
	if _, err = f.Write(b); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing to %q file: %w", tmp, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing %q file: %w", tmp, err)
	}
	if err = os.Chmod(tmp, 0o644); err != nil {
		return fmt.Errorf("os.Chmod: %w", err)
	}
	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}
	return nil
}
