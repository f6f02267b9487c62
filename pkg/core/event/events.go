// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package event

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/momeni/carrent/pkg/core/model"
)

// ModelEventKind enumerates the entity changes.
type ModelEventKind int

// Valid values for the ModelEventKind enum.
const (
	Added ModelEventKind = iota + 1
	Edited
	Removing // fired before the entity is actually removed
)

func (k ModelEventKind) String() string {
	switch k {
	case Added:
		return "added"
	case Edited:
		return "edited"
	case Removing:
		return "removing"
	default:
		return "unknown"
	}
}

// ModelEvent describes one successful add, edit, or remove operation.
// Entity holds a copy of the added, edited, or about to be removed
// entity as a model.Client, model.Vehicle, or model.Contract value.
type ModelEvent struct {
	ID       uuid.UUID
	Kind     ModelEventKind
	Family   model.Family
	EntityID string
	Entity   any
}

// NewModelEvent instantiates a ModelEvent with a fresh random ID for
// the given record of the f family.
func NewModelEvent(kind ModelEventKind, f model.Family, r model.Record) ModelEvent {
	return ModelEvent{
		ID:       uuid.New(),
		Kind:     kind,
		Family:   f,
		EntityID: r.Base().ID,
		Entity:   r,
	}
}

// LogValue implements the slog.LogValuer interface, so e can be logged
// by the log.Valuer helper.
func (e ModelEvent) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", e.ID.String()),
		slog.String("kind", e.Kind.String()),
		slog.String("family", string(e.Family)),
		slog.String("entity", e.EntityID),
	)
}

// DatabaseEventKind enumerates the whole database changes.
type DatabaseEventKind int

// Valid values for the DatabaseEventKind enum.
const (
	Loading DatabaseEventKind = iota + 1
	Loaded
	Saved
	Changed // an entity was added, edited, or removed
)

func (k DatabaseEventKind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Saved:
		return "saved"
	case Changed:
		return "changed"
	default:
		return "unknown"
	}
}

// DatabaseEvent describes a database load, save, or change.
// Path is the file which is being loaded, was loaded, or was saved.
// For Changed events, Path is empty and Cause holds the ModelEvent
// which caused the change.
type DatabaseEvent struct {
	Kind  DatabaseEventKind
	Path  string
	Cause *ModelEvent
}

// LogValue implements the slog.LogValuer interface. A Changed event is
// logged with the ID of its causing model event.
func (e DatabaseEvent) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("kind", e.Kind.String())}
	if e.Path != "" {
		attrs = append(attrs, slog.String("path", e.Path))
	}
	if e.Cause != nil {
		attrs = append(attrs, slog.String("cause", e.Cause.ID.String()))
	}
	return slog.GroupValue(attrs...)
}
