// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package server

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Init assembles the control API router.
func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()

	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/api", func(r chi.Router) {
		r.Get("/status", h.getStatus)

		r.Post("/sync", h.triggerSync)
		r.Post("/sync/force", h.triggerFullSync)
		r.Post("/sync/cancel", h.cancelSync)

		r.Post("/lifecycle/{state}", h.setLifecycleState)
		r.Post("/network/{state}", h.setNetworkState)

		r.Get("/records", h.getRecords)

		r.Get("/dashboard", h.getDashboard)
		r.Post("/dashboard/refresh", h.refreshDashboard)
	})

	return router
}
