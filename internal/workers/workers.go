// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

// Package workers runs the engine's long-lived loops as one unit: the sync
// scheduler, the connectivity probe, the control API server and the event
// log bridge. The first failure takes the whole group down so the process
// exits instead of limping along half-alive.
package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/pocketcrm/go-sync/internal/logger"
)

// Worker is a long-lived loop that runs until its context ends. Run returns
// nil on clean shutdown and an error when the loop cannot continue.
type Worker interface {
	Run(ctx context.Context) error
}

// Group runs a set of named workers together. The first worker error
// cancels the rest; context cancellation from outside is a clean shutdown.
type Group struct {
	log     *logger.Logger
	workers []namedWorker
}

type namedWorker struct {
	name   string
	worker Worker
}

// NewGroup returns an empty Group.
func NewGroup(log *logger.Logger) *Group {
	return &Group{log: log}
}

// Add registers a worker under a name used in lifecycle log entries.
func (g *Group) Add(name string, worker Worker) {
	g.workers = append(g.workers, namedWorker{name: name, worker: worker})
}

// Run launches every registered worker and blocks until all have returned.
// It reports the first worker error, nil when shutdown was clean.
func (g *Group) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	errs := make(chan error, len(g.workers))

	for _, nw := range g.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			g.log.Info().Str("func", "*Group.Run").Str("worker", nw.name).Msg("worker started")

			if err := nw.worker.Run(ctx); err != nil {
				g.log.Error().Str("func", "*Group.Run").Str("worker", nw.name).Err(err).Msg("worker failed")
				errs <- fmt.Errorf("worker %s: %w", nw.name, err)
				cancel()
				return
			}

			g.log.Info().Str("func", "*Group.Run").Str("worker", nw.name).Msg("worker stopped")
		}()
	}

	wg.Wait()
	close(errs)

	// the first buffered error, or nil when the channel drained empty
	return <-errs
}
