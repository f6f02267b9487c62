// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package event_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/carrent/pkg/core/event"
	"github.com/momeni/carrent/pkg/core/log"
	"github.com/momeni/carrent/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type QueueTestSuite struct {
	suite.Suite
	Ctx   context.Context
	Queue *event.Queue
}

func TestQueueTestSuite(t *testing.T) {
	suite.Run(t, new(QueueTestSuite))
}

func (qts *QueueTestSuite) SetupTest() {
	qts.Ctx = context.Background()
	qts.Queue = event.NewQueue()
}

func (qts *QueueTestSuite) TearDownTest() {
	ctx, cancel := context.WithTimeout(qts.Ctx, 5*time.Second)
	defer cancel()
	qts.NoError(qts.Queue.Close(ctx))
}

func (qts *QueueTestSuite) TestPostingOrderIsPreserved() {
	var got []int // only touched by the worker until Flush returns
	for i := 0; i < 1000; i++ {
		qts.Require().NoError(qts.Queue.Post(func() { got = append(got, i) }))
	}
	qts.Require().NoError(qts.Queue.Flush(qts.Ctx))
	qts.Len(got, 1000)
	for i, v := range got {
		qts.Equal(i, v)
	}
}

func (qts *QueueTestSuite) TestTasksNeverOverlap() {
	var running, overlaps atomic.Int32
	for i := 0; i < 100; i++ {
		go func() {
			_ = qts.Queue.Post(func() {
				if running.Add(1) > 1 {
					overlaps.Add(1)
				}
				time.Sleep(time.Microsecond)
				running.Add(-1)
			})
		}()
	}
	time.Sleep(10 * time.Millisecond)
	qts.Require().NoError(qts.Queue.Flush(qts.Ctx))
	qts.Zero(overlaps.Load())
}

func (qts *QueueTestSuite) TestPanickingTaskDoesNotStopDelivery() {
	ran := false
	qts.Require().NoError(qts.Queue.Post(func() { panic("faulty listener") }))
	qts.Require().NoError(qts.Queue.Post(func() { ran = true }))
	qts.Require().NoError(qts.Queue.Flush(qts.Ctx))
	qts.True(ran)
}

func (qts *QueueTestSuite) TestFlushHonorsContext() {
	release := make(chan struct{})
	qts.Require().NoError(qts.Queue.Post(func() { <-release }))
	ctx, cancel := context.WithTimeout(qts.Ctx, 10*time.Millisecond)
	defer cancel()
	err := qts.Queue.Flush(ctx)
	qts.ErrorIs(err, context.DeadlineExceeded)
	close(release)
}

func TestCloseDrainsPostedTasks(t *testing.T) {
	q := event.NewQueue()
	count := 0
	for i := 0; i < 10; i++ {
		require.NoError(t, q.Post(func() { count++ }))
	}
	require.NoError(t, q.Close(context.Background()))
	assert.Equal(t, 10, count)
	assert.ErrorIs(t, q.Post(func() {}), event.ErrClosed)
	assert.ErrorIs(t, q.Flush(context.Background()), event.ErrClosed)
	assert.NoError(t, q.Close(context.Background()))
}

func TestListenersFanOut(t *testing.T) {
	ctx := context.Background()
	q := event.NewQueue()
	defer q.Close(ctx)

	var ls event.Listeners[event.ModelEvent]
	var first, second []string
	unsubscribe := ls.Subscribe(func(e event.ModelEvent) {
		first = append(first, e.Kind.String()+" "+e.EntityID)
	})
	ls.Subscribe(func(e event.ModelEvent) {
		second = append(second, e.Kind.String()+" "+e.EntityID)
	})
	assert.Equal(t, 2, ls.Len())

	c := model.Client{Entity: model.Entity{ID: "CLI-240101-SMI-0"}}
	e := event.NewModelEvent(event.Added, model.FamilyClient, c)
	assert.NotEqual(t, uuid.Nil, e.ID)
	assert.Equal(t, c, e.Entity)
	require.NoError(t, ls.Fire(q, e))
	require.NoError(t, q.Flush(ctx))
	unsubscribe()
	unsubscribe()
	assert.Equal(t, 1, ls.Len())
	require.NoError(t, ls.Fire(q, event.NewModelEvent(
		event.Removing, model.FamilyClient, c,
	)))
	require.NoError(t, q.Flush(ctx))

	assert.Equal(t, []string{"added CLI-240101-SMI-0"}, first)
	assert.Equal(t, []string{
		"added CLI-240101-SMI-0", "removing CLI-240101-SMI-0",
	}, second)
}

func TestEventsLogTheirIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	ctx := context.Background()

	c := model.Client{Entity: model.Entity{ID: "CLI-240101-SMI-0"}}
	e := event.NewModelEvent(event.Edited, model.FamilyClient, c)
	logger.LogAttrs(ctx, slog.LevelInfo, "entity", log.Valuer("event", e))
	assert.Contains(t, buf.String(), "event.id="+e.ID.String())
	assert.Contains(t, buf.String(),
		"event.kind=edited event.family=client event.entity=CLI-240101-SMI-0",
	)

	buf.Reset()
	de := event.DatabaseEvent{Kind: event.Changed, Cause: &e}
	logger.LogAttrs(ctx, slog.LevelInfo, "database", log.Valuer("event", de))
	assert.Contains(t, buf.String(),
		"event.kind=changed event.cause="+e.ID.String(),
	)

	buf.Reset()
	de = event.DatabaseEvent{Kind: event.Saved, Path: "db.json"}
	logger.LogAttrs(ctx, slog.LevelInfo, "database", log.Valuer("event", de))
	assert.Contains(t, buf.String(), "event.kind=saved event.path=db.json")
	assert.NotContains(t, buf.String(), "cause")
}
