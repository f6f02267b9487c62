// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package event

import (
	"context"

	"github.com/momeni/carrent/pkg/core/log"
	"github.com/momeni/carrent/pkg/core/model"
)

// Observer is called synchronously for each model event, before the
// event is posted for its asynchronous listeners.
type Observer func(ModelEvent)

// Notifier fires the model events of one entity family. Each event is
// passed to the observers synchronously and is posted to the queue for
// the subscribed listeners.
type Notifier struct {
	family    model.Family
	queue     *Queue
	observers []Observer
	listeners Listeners[ModelEvent]
}

// NewNotifier instantiates a Notifier for the f family which posts its
// events to q.
func NewNotifier(f model.Family, q *Queue, observers ...Observer) *Notifier {
	return &Notifier{family: f, queue: q, observers: observers}
}

// Subscribe registers l and returns a function which unregisters it.
func (n *Notifier) Subscribe(l Listener[ModelEvent]) (unsubscribe func()) {
	return n.listeners.Subscribe(l)
}

// Notify fires a kind event for the r record.
// Since the operation which is reported by the event has succeeded
// already, a closed queue is only logged.
func (n *Notifier) Notify(ctx context.Context, kind ModelEventKind, r model.Record) {
	e := NewModelEvent(kind, n.family, r)
	for _, o := range n.observers {
		o(e)
	}
	if err := n.listeners.Fire(n.queue, e); err != nil {
		log.Warn(
			ctx, "dropping model event",
			log.Valuer("event", e), log.Err("err", err),
		)
	}
}
