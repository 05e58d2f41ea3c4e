// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package server

import (
	"errors"
	"net/http"

	"github.com/pocketcrm/go-sync/internal/adapter"
	"github.com/pocketcrm/go-sync/internal/store"
	"github.com/pocketcrm/go-sync/models"
)

// errorStatusMap routes known sentinel errors to control API status codes.
// Upstream server failures surface as 502: from the host application's
// point of view the engine is a gateway to the real backend.
var errorStatusMap = map[error]int{
	store.ErrSummaryNotFound:  http.StatusNotFound,
	store.ErrMetadataNotFound: http.StatusNotFound,
	store.ErrStateNotFound:    http.StatusNotFound,

	adapter.ErrAuthExpired:   http.StatusUnauthorized,
	adapter.ErrBadRequest:    http.StatusBadGateway,
	adapter.ErrNotFound:      http.StatusBadGateway,
	adapter.ErrServerError:   http.StatusBadGateway,
	adapter.ErrMalformedPage: http.StatusBadGateway,
	adapter.ErrNetwork:       http.StatusBadGateway,
	adapter.ErrServerBusy:    http.StatusServiceUnavailable,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrPreparingStatement:   http.StatusInternalServerError,
	store.ErrExecutingStatement:   http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

// statusFromError finds the HTTP status code for err, defaulting to 500.
func statusFromError(err error) int {
	for sentinel, status := range errorStatusMap {
		if errors.Is(err, sentinel) {
			return status
		}
	}

	return http.StatusInternalServerError
}

// statusFromResult maps a sync request's disposition to a status code.
// Requests rejected before a run starts keep distinct codes (409, 429, 503)
// so callers can tell "try later" from "broken".
func statusFromResult(result models.SyncResult) int {
	switch result.Outcome {
	case models.OutcomeCompleted:
		return http.StatusOK
	case models.OutcomeAlreadyRunning:
		return http.StatusConflict
	case models.OutcomeThrottled:
		return http.StatusTooManyRequests
	case models.OutcomeFailed:
		switch result.Reason {
		case models.FailureOffline:
			return http.StatusServiceUnavailable
		case models.FailureAuthExpired:
			return http.StatusUnauthorized
		case models.FailureNetworkError, models.FailureServerError:
			return http.StatusBadGateway
		default:
			return http.StatusInternalServerError
		}
	default:
		return http.StatusInternalServerError
	}
}
