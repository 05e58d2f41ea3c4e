// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/models"
)

// Marker keys persisted in the sync_state table. They survive restarts so
// that throttling and staleness decisions hold across app launches.
const (
	// MarkerLastSuccessAt is the completion time of the last fully
	// successful sync run.
	MarkerLastSuccessAt = "last_success_at"

	// MarkerNextAllowedSyncAt is the earliest time a non-exempt sync may
	// start again.
	MarkerNextAllowedSyncAt = "next_allowed_sync_at"
)

// stateRepository is the SQL-backed implementation of [StateRepository].
type stateRepository struct {
	*DB
	logger *logger.Logger
}

// NewStateRepository constructs a [StateRepository] backed by the provided
// database connection and logger.
func NewStateRepository(db *DB, logger *logger.Logger) StateRepository {
	return &stateRepository{
		DB:     db,
		logger: logger,
	}
}

// GetMarker returns the stored time of one marker key, or [ErrStateNotFound]
// when the marker has never been written.
func (s *stateRepository) GetMarker(ctx context.Context, key string) (time.Time, error) {
	log := logger.FromContext(ctx)

	var at time.Time
	err := s.DB.QueryRowContext(ctx, getStateMarker, key).Scan(&at)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, ErrStateNotFound
		}

		log.Err(err).
			Str("func", "stateRepository.GetMarker").
			Str("key", key).
			Msg("failed to execute query for getting state marker")
		return time.Time{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return at, nil
}

// SetMarker upserts one marker key.
func (s *stateRepository) SetMarker(ctx context.Context, key string, at time.Time) error {
	log := logger.FromContext(ctx)

	if _, err := s.DB.ExecContext(ctx, upsertStateMarker, key, at); err != nil {
		log.Err(err).
			Str("func", "stateRepository.SetMarker").
			Str("key", key).
			Msg("failed to upsert state marker")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// GetSummary returns the cached dashboard summary snapshot, or
// [ErrSummaryNotFound] when nothing has been cached yet.
func (s *stateRepository) GetSummary(ctx context.Context) (models.DashboardSummary, error) {
	log := logger.FromContext(ctx)

	var summary models.DashboardSummary
	err := s.DB.QueryRowContext(ctx, getSummary).Scan(
		&summary.TotalLeads,
		&summary.OpenLeads,
		&summary.FollowUpsDueToday,
		&summary.UnreadNotifications,
		&summary.GeneratedAt,
		&summary.FetchedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.DashboardSummary{}, ErrSummaryNotFound
		}

		log.Err(err).
			Str("func", "stateRepository.GetSummary").
			Msg("failed to execute query for getting dashboard summary")
		return models.DashboardSummary{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return summary, nil
}

// SaveSummary replaces the cached dashboard summary snapshot.
func (s *stateRepository) SaveSummary(ctx context.Context, summary models.DashboardSummary) error {
	log := logger.FromContext(ctx)

	_, err := s.DB.ExecContext(ctx, upsertSummary,
		summary.TotalLeads,
		summary.OpenLeads,
		summary.FollowUpsDueToday,
		summary.UnreadNotifications,
		summary.GeneratedAt,
		summary.FetchedAt,
	)
	if err != nil {
		log.Err(err).
			Str("func", "stateRepository.SaveSummary").
			Msg("failed to upsert dashboard summary")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
