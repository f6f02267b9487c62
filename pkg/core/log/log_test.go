// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package log_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/momeni/carrent/pkg/core/log"
	"github.com/stretchr/testify/assert"
)

func TestLevelsAndAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})))
	defer slog.SetDefault(prev)

	ctx := context.Background()
	log.Debug(ctx, "hidden", log.ID("V-FIAT-0"))
	log.Info(ctx, "saved", log.Path("db.json"))
	log.Error(ctx, "failed", log.Err("err", errors.New("boom")),
		log.Err("cause", nil))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `level=INFO msg=saved path=db.json`)
	assert.Contains(t, out, `level=ERROR msg=failed err=boom cause=no-error`)
}
