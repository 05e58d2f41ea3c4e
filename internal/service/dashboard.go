// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pocketcrm/go-sync/internal/adapter"
	"github.com/pocketcrm/go-sync/internal/config"
	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/internal/store"
	"github.com/pocketcrm/go-sync/models"
)

type dashboardService struct {
	adapter adapter.ServerAdapter
	state   store.StateRepository
	clock   clockwork.Clock
	maxAge  time.Duration
	log     *logger.Logger
}

// NewDashboardService builds the staleness-gated summary refresher.
func NewDashboardService(
	cfg config.AgentSync,
	serverAdapter adapter.ServerAdapter,
	state store.StateRepository,
	clock clockwork.Clock,
	log *logger.Logger,
) DashboardService {
	return &dashboardService{
		adapter: serverAdapter,
		state:   state,
		clock:   clock,
		maxAge:  cfg.DashboardMaxAge,
		log:     log,
	}
}

// Refresh implements DashboardService.
func (s *dashboardService) Refresh(ctx context.Context, force bool) (models.DashboardSummary, error) {
	cached, err := s.state.GetSummary(ctx)
	switch {
	case err == nil:
		if !force && !s.IsStale(cached.FetchedAt) {
			return cached, nil
		}
	case !errors.Is(err, store.ErrSummaryNotFound):
		// An unreadable cache counts as stale.
		s.log.Warn().
			Str("func", "dashboardService.Refresh").
			Err(err).
			Msg("failed to read cached summary, refreshing")
	}

	summary, err := s.adapter.FetchSummary(ctx)
	if err != nil {
		return models.DashboardSummary{}, fmt.Errorf("fetch dashboard summary: %w", err)
	}
	summary.FetchedAt = s.clock.Now()

	if err = s.state.SaveSummary(ctx, summary); err != nil {
		// The fetched summary is still served this round; staleness will
		// trigger another fetch.
		s.log.Warn().
			Str("func", "dashboardService.Refresh").
			Err(err).
			Msg("failed to cache dashboard summary")
	}

	s.log.Debug().
		Str("func", "dashboardService.Refresh").
		Bool("force", force).
		Int("total_leads", summary.TotalLeads).
		Int("unread_notifications", summary.UnreadNotifications).
		Msg("dashboard summary refreshed")

	return summary, nil
}

// Cached implements DashboardService.
func (s *dashboardService) Cached(ctx context.Context) (models.DashboardSummary, error) {
	summary, err := s.state.GetSummary(ctx)
	if err != nil {
		return models.DashboardSummary{}, fmt.Errorf("load cached summary: %w", err)
	}
	return summary, nil
}

// IsStale implements DashboardService.
func (s *dashboardService) IsStale(fetchedAt time.Time) bool {
	if fetchedAt.IsZero() {
		return true
	}
	return s.clock.Since(fetchedAt) > s.maxAge
}
