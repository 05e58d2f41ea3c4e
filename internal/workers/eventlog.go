// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package workers

import (
	"context"

	"github.com/pocketcrm/go-sync/internal/events"
	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/models"
)

// eventLogBuffer is larger than the bus default so bursts of progress
// events survive a slow log sink without being dropped.
const eventLogBuffer = 64

// EventLog bridges the sync event stream into the structured log. Every run
// leaves a queryable trace of what it did even when no UI is subscribed.
type EventLog struct {
	log *logger.Logger

	ch          <-chan models.SyncEvent
	unsubscribe func()
}

// NewEventLog subscribes to bus immediately, so events published between
// construction and the worker loop starting are buffered, not lost.
func NewEventLog(bus *events.Bus, log *logger.Logger) *EventLog {
	e := &EventLog{log: log}
	e.ch, e.unsubscribe = bus.SubscribeBuffer(eventLogBuffer)

	return e
}

// Run consumes events until ctx ends or the bus closes.
func (e *EventLog) Run(ctx context.Context) error {
	defer e.unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-e.ch:
			if !ok {
				return nil
			}
			e.logEvent(event)
		}
	}
}

func (e *EventLog) logEvent(event models.SyncEvent) {
	entry := e.log.Info()
	if event.Type == models.EventSyncFailed {
		entry = e.log.Error()
	}

	entry = entry.
		Str("event", string(event.Type)).
		Str("run_id", event.RunID).
		Str("source", string(event.Source))

	switch event.Type {
	case models.EventSyncProgress:
		entry = entry.
			Str("entity", event.Entity).
			Int("page", event.Page).
			Int("total_pages", event.TotalPages)
	case models.EventSyncFinished:
		entry = entry.
			Interface("record_counts", event.RecordCounts).
			Dur("took", event.Took)
	case models.EventSyncFailed:
		entry = entry.
			Str("reason", string(event.Reason)).
			Str("error", event.Error)
	}

	entry.Msg("sync event")
}
