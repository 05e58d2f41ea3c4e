// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pocketcrm/go-sync/internal/config"
	"github.com/pocketcrm/go-sync/internal/logger"
)

// shutdownTimeout bounds the graceful drain of in-flight control requests.
const shutdownTimeout = 5 * time.Second

// Server runs the control API over HTTP.
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
}

// NewServer wraps an initialised router in an HTTP server bound to the
// configured control address.
func NewServer(router http.Handler, cfg config.AgentServer, log *logger.Logger) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Address,
			Handler:      router,
			ReadTimeout:  cfg.RequestTimeout,
			WriteTimeout: cfg.RequestTimeout,
		},
		logger: log,
	}
}

// Run serves the control API until ctx ends, then drains in-flight requests
// and returns. A listener failure surfaces as the returned error.
func (s *Server) Run(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	s.logger.Info().
		Str("func", "*Server.Run").
		Str("address", s.httpServer.Addr).
		Msg("control api listening")

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("control api server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("control api shutdown: %w", err)
	}

	s.logger.Info().Str("func", "*Server.Run").Msg("control api shut down gracefully")

	return nil
}
