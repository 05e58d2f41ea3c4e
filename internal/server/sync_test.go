// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pocketcrm/go-sync/models"
)

func TestTriggerSync_ManualByDefault(t *testing.T) {
	h := newTestHandler(t)

	h.scheduler.EXPECT().TriggerManualSync(gomock.Any()).Return(models.SyncResult{
		Outcome: models.OutcomeCompleted,
		Run: &models.SyncRun{
			ID:           "run-1",
			Source:       models.SourceManual,
			Success:      true,
			RecordCounts: map[string]int{"leads": 12, "notifications": 4},
		},
	})

	rr := h.do(t, http.MethodPost, "/api/sync", nil)

	require.Equal(t, http.StatusOK, rr.Code)

	var result models.SyncResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.Equal(t, models.OutcomeCompleted, result.Outcome)
	require.NotNil(t, result.Run)
	require.Equal(t, 12, result.Run.RecordCounts["leads"])
}

func TestTriggerSync_ExplicitManualSource(t *testing.T) {
	h := newTestHandler(t)

	h.scheduler.EXPECT().TriggerManualSync(gomock.Any()).
		Return(models.SyncResult{Outcome: models.OutcomeCompleted})

	rr := h.do(t, http.MethodPost, "/api/sync", strings.NewReader(`{"source": "manual"}`))

	require.Equal(t, http.StatusOK, rr.Code)
}

// A status-update sync must reach the manager directly: it queues behind an
// in-flight run instead of collapsing into it, which the scheduler-routed
// manual trigger would do.
func TestTriggerSync_StatusUpdateGoesToManager(t *testing.T) {
	h := newTestHandler(t)

	h.manager.EXPECT().
		Sync(gomock.Any(), models.SourceStatusUpdate).
		Return(models.SyncResult{Outcome: models.OutcomeCompleted})

	rr := h.do(t, http.MethodPost, "/api/sync", strings.NewReader(`{"source": "status_update"}`))

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestTriggerSync_UnsupportedSource(t *testing.T) {
	h := newTestHandler(t)

	rr := h.do(t, http.MethodPost, "/api/sync", strings.NewReader(`{"source": "scheduler"}`))

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTriggerSync_InvalidJSON(t *testing.T) {
	h := newTestHandler(t)

	rr := h.do(t, http.MethodPost, "/api/sync", strings.NewReader(`{"source": `))

	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestTriggerSync_OutcomeStatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		result     models.SyncResult
		wantStatus int
	}{
		{
			name:       "completed",
			result:     models.SyncResult{Outcome: models.OutcomeCompleted},
			wantStatus: http.StatusOK,
		},
		{
			name:       "already running",
			result:     models.SyncResult{Outcome: models.OutcomeAlreadyRunning},
			wantStatus: http.StatusConflict,
		},
		{
			name: "throttled",
			result: models.SyncResult{
				Outcome:           models.OutcomeThrottled,
				NextAllowedSyncAt: time.Now().Add(30 * time.Second),
			},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "offline",
			result:     models.SyncResult{Outcome: models.OutcomeFailed, Reason: models.FailureOffline},
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:       "auth expired",
			result:     models.SyncResult{Outcome: models.OutcomeFailed, Reason: models.FailureAuthExpired},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "network error",
			result:     models.SyncResult{Outcome: models.OutcomeFailed, Reason: models.FailureNetworkError},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "server error",
			result:     models.SyncResult{Outcome: models.OutcomeFailed, Reason: models.FailureServerError},
			wantStatus: http.StatusBadGateway,
		},
		{
			name:       "database error",
			result:     models.SyncResult{Outcome: models.OutcomeFailed, Reason: models.FailureDatabaseError},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "unknown failure",
			result:     models.SyncResult{Outcome: models.OutcomeFailed, Reason: models.FailureUnknown},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)
			h.scheduler.EXPECT().TriggerManualSync(gomock.Any()).Return(tt.result)

			rr := h.do(t, http.MethodPost, "/api/sync", nil)

			require.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestTriggerSync_ThrottledCarriesRetryAfter(t *testing.T) {
	h := newTestHandler(t)

	h.scheduler.EXPECT().TriggerManualSync(gomock.Any()).Return(models.SyncResult{
		Outcome:           models.OutcomeThrottled,
		NextAllowedSyncAt: time.Now().Add(90 * time.Second),
	})

	rr := h.do(t, http.MethodPost, "/api/sync", nil)

	require.Equal(t, http.StatusTooManyRequests, rr.Code)

	retryAfter, err := strconv.Atoi(rr.Header().Get("Retry-After"))
	require.NoError(t, err)
	require.Positive(t, retryAfter)
	require.LessOrEqual(t, retryAfter, 91)
}

func TestTriggerFullSync(t *testing.T) {
	h := newTestHandler(t)

	h.scheduler.EXPECT().
		TriggerFullSync(gomock.Any()).
		Return(models.SyncResult{Outcome: models.OutcomeCompleted})

	rr := h.do(t, http.MethodPost, "/api/sync/force", nil)

	require.Equal(t, http.StatusOK, rr.Code)
}

func TestCancelSync(t *testing.T) {
	h := newTestHandler(t)

	h.manager.EXPECT().Cancel()

	rr := h.do(t, http.MethodPost, "/api/sync/cancel", nil)

	require.Equal(t, http.StatusAccepted, rr.Code)

	var ack models.Ack
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &ack))
	require.True(t, ack.Accepted)
}
