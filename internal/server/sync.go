// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/models"
)

// triggerSync starts a sync run. The optional JSON body selects the trigger
// source: "manual" (the default) goes through the scheduler so the periodic
// timer is rescheduled, "status_update" goes straight to the manager and
// queues behind an in-flight run instead of collapsing into it.
func (h *Handler) triggerSync(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	source := models.SourceManual
	if r.ContentLength != 0 {
		var request models.SyncTriggerRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			log.Error().Str("func", "*Handler.triggerSync").Err(err).Msg("invalid JSON was passed")
			http.Error(w, "invalid JSON was passed", http.StatusBadRequest)
			return
		}

		switch request.Source {
		case "", models.SourceManual:
		case models.SourceStatusUpdate:
			source = models.SourceStatusUpdate
		default:
			log.Error().Str("func", "*Handler.triggerSync").
				Str("source", string(request.Source)).Msg("unsupported sync source")
			http.Error(w, "unsupported sync source", http.StatusBadRequest)
			return
		}
	}

	var result models.SyncResult
	if source == models.SourceStatusUpdate {
		result = h.services.Manager.Sync(ctx, models.SourceStatusUpdate)
	} else {
		result = h.services.Scheduler.TriggerManualSync(ctx)
	}

	writeSyncResult(w, result)
}

// triggerFullSync starts a pull-to-refresh sync that skips the throttle
// window. An in-flight run still collapses the request.
func (h *Handler) triggerFullSync(w http.ResponseWriter, r *http.Request) {
	result := h.services.Scheduler.TriggerFullSync(r.Context())

	writeSyncResult(w, result)
}

// cancelSync rejects queued sync requests and interrupts the in-flight run.
// Cancellation is asynchronous: the run unwinds at its next suspension
// point, so the response only acknowledges the request.
func (h *Handler) cancelSync(w http.ResponseWriter, _ *http.Request) {
	h.services.Manager.Cancel()

	writeJSON(w, models.Ack{Accepted: true}, http.StatusAccepted)
}

// writeSyncResult renders a sync disposition with its mapped status code.
// Throttled responses carry a Retry-After hint.
func writeSyncResult(w http.ResponseWriter, result models.SyncResult) {
	if result.Outcome == models.OutcomeThrottled && !result.NextAllowedSyncAt.IsZero() {
		if wait := time.Until(result.NextAllowedSyncAt); wait > 0 {
			w.Header().Set("Retry-After", strconv.Itoa(int(wait.Seconds())+1))
		}
	}

	writeJSON(w, result, statusFromResult(result))
}
