// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package server

import (
	"github.com/pocketcrm/go-sync/internal/auth"
	"github.com/pocketcrm/go-sync/internal/lifecycle"
	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/internal/netprobe"
	"github.com/pocketcrm/go-sync/internal/service"
	"github.com/pocketcrm/go-sync/internal/store"
	"github.com/pocketcrm/go-sync/models"
)

// Handler bundles everything the control API endpoints reach into: the
// service layer for sync and dashboard operations, the record cache for
// reads, and the lifecycle/connectivity inputs the host application signals
// through POST endpoints.
type Handler struct {
	services *service.Services
	records  store.RecordRepository
	observer *lifecycle.Observer
	probe    *netprobe.ManualProbe
	tokens   auth.TokenSource
	build    models.AppBuildInfo

	logger *logger.Logger
}

// NewHandler returns a *Handler ready for Init.
func NewHandler(
	services *service.Services,
	records store.RecordRepository,
	observer *lifecycle.Observer,
	probe *netprobe.ManualProbe,
	tokens auth.TokenSource,
	build models.AppBuildInfo,
	log *logger.Logger,
) *Handler {
	log.Info().Str("func", "NewHandler").Msg("control api handler created")

	return &Handler{
		services: services,
		records:  records,
		observer: observer,
		probe:    probe,
		tokens:   tokens,
		build:    build,
		logger:   log,
	}
}
