// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package service

import (
	"context"
	"time"

	"github.com/pocketcrm/go-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// SyncManager runs the pipeline that reconciles the local cache with the
// server. A single instance guards the pipeline with an exclusion lock, so
// concurrent requests collapse onto the in-flight run instead of racing it.
type SyncManager interface {
	// Sync runs the pipeline for the given trigger source and reports the
	// disposition as a value: completed, collapsed into a running sync,
	// throttled, or failed with a classified reason. Requests sourced from
	// a status update queue for the lock instead of collapsing and are
	// exempt from the throttle window.
	Sync(ctx context.Context, source models.SyncSource) models.SyncResult

	// ForceSync is Sync minus the throttle window. The exclusion lock
	// still applies: a forced request during a running sync collapses.
	ForceSync(ctx context.Context, source models.SyncSource) models.SyncResult

	// Cancel rejects every queued sync request, interrupts the in-flight
	// run at its next suspension point and forces the pipeline idle.
	Cancel()

	// Status reports whether a run is in flight plus the last-success and
	// next-allowed-sync timestamps.
	Status(ctx context.Context) models.SyncStatus
}

// ChangeFilter selects the subset of fetched records that actually differ
// from the local cache, so identical server data returned by polling does
// not touch stored rows.
type ChangeFilter interface {
	// FilterChanged returns the records from fetched that are absent from
	// existing or differ on at least one tracked field, in fetched order.
	FilterChanged(fetched []models.RemoteRecord, existing []models.LocalRecord) []models.RemoteRecord
}

// SyncScheduler owns the periodic sync timer and reacts to lifecycle and
// connectivity transitions. It never runs the pipeline itself; every
// trigger goes through the SyncManager.
type SyncScheduler interface {
	// Run drives the timer loop until ctx ends. It always returns nil
	// after a clean shutdown.
	Run(ctx context.Context) error

	// TriggerManualSync runs a user-initiated sync and returns its result.
	TriggerManualSync(ctx context.Context) models.SyncResult

	// TriggerFullSync runs a pull-to-refresh sync that bypasses the
	// throttle window.
	TriggerFullSync(ctx context.Context) models.SyncResult

	// Status snapshots the scheduler and its inputs: timer armed, app
	// state, connectivity and the underlying sync manager status.
	Status(ctx context.Context) models.SchedulerStatus
}

// DashboardService keeps the aggregated dashboard summary fresh on its own
// cadence, outside the sync pipeline: it takes no part in the exclusion
// lock and its failures never fail a sync run.
type DashboardService interface {
	// Refresh returns the cached summary while it is still fresh,
	// otherwise fetches a new one and caches it. force skips the
	// freshness check.
	Refresh(ctx context.Context, force bool) (models.DashboardSummary, error)

	// Cached returns the stored summary without touching the network.
	Cached(ctx context.Context) (models.DashboardSummary, error)

	// IsStale reports whether a summary fetched at the given time is past
	// the configured maximum age. A zero time is always stale.
	IsStale(fetchedAt time.Time) bool
}
