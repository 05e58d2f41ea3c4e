// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package service

import (
	"github.com/jonboulle/clockwork"

	"github.com/pocketcrm/go-sync/internal/adapter"
	"github.com/pocketcrm/go-sync/internal/auth"
	"github.com/pocketcrm/go-sync/internal/config"
	"github.com/pocketcrm/go-sync/internal/events"
	"github.com/pocketcrm/go-sync/internal/lifecycle"
	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/internal/netprobe"
	"github.com/pocketcrm/go-sync/internal/store"
)

// Services aggregates the agent's service layer.
type Services struct {
	Manager   SyncManager
	Scheduler SyncScheduler
	Dashboard DashboardService
}

// NewServices wires the service layer from its collaborators.
func NewServices(
	cfg config.AgentSync,
	storages *store.Storages,
	serverAdapter adapter.ServerAdapter,
	probe netprobe.Probe,
	observer *lifecycle.Observer,
	bus *events.Bus,
	reauth auth.ReauthNotifier,
	clock clockwork.Clock,
	log *logger.Logger,
) *Services {
	manager := NewSyncManager(cfg, storages, serverAdapter, probe, bus, reauth, clock, log)

	return &Services{
		Manager:   manager,
		Scheduler: NewSyncScheduler(cfg, manager, observer, probe, clock, log),
		Dashboard: NewDashboardService(cfg, serverAdapter, storages.State, clock, log),
	}
}
