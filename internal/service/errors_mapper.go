// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package service

import (
	"context"
	"errors"

	"github.com/pocketcrm/go-sync/internal/adapter"
	"github.com/pocketcrm/go-sync/internal/store"
	"github.com/pocketcrm/go-sync/models"
)

// mapFailureReason translates a pipeline error into the failure taxonomy
// reported to callers and event subscribers. Every known error family maps
// explicitly; anything unrecognised becomes UNKNOWN rather than falling
// through silently.
func mapFailureReason(err error) models.FailureReason {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, adapter.ErrAuthExpired):
		return models.FailureAuthExpired

	case errors.Is(err, adapter.ErrNetwork),
		errors.Is(err, context.DeadlineExceeded):
		return models.FailureNetworkError

	case errors.Is(err, adapter.ErrServerError),
		errors.Is(err, adapter.ErrServerBusy),
		errors.Is(err, adapter.ErrBadRequest),
		errors.Is(err, adapter.ErrNotFound),
		errors.Is(err, adapter.ErrMalformedPage),
		errors.Is(err, ErrShortPage):
		return models.FailureServerError

	case isStorageError(err):
		return models.FailureDatabaseError

	default:
		return models.FailureUnknown
	}
}

// isStorageError matches the persistence layer's sentinel family.
func isStorageError(err error) bool {
	for _, sentinel := range []error{
		store.ErrBuildingSQLQuery,
		store.ErrExecutingQuery,
		store.ErrBeginningTransaction,
		store.ErrCommitingTransaction,
		store.ErrPreparingStatement,
		store.ErrExecutingStatement,
		store.ErrScanningRow,
		store.ErrScanningRows,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
