// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package service

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pocketcrm/go-sync/internal/config"
	"github.com/pocketcrm/go-sync/internal/lifecycle"
	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/internal/netprobe"
	"github.com/pocketcrm/go-sync/models"
)

type syncScheduler struct {
	manager  SyncManager
	observer *lifecycle.Observer
	probe    netprobe.Probe
	clock    clockwork.Clock
	log      *logger.Logger

	interval       time.Duration
	jitter         float64
	grace          time.Duration
	longBackground time.Duration

	mu    sync.Mutex
	armed bool

	wg sync.WaitGroup
}

// NewSyncScheduler builds the periodic sync driver. It is idle until Run is
// called.
func NewSyncScheduler(
	cfg config.AgentSync,
	manager SyncManager,
	observer *lifecycle.Observer,
	probe netprobe.Probe,
	clock clockwork.Clock,
	log *logger.Logger,
) SyncScheduler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = config.DefaultSyncInterval
	}

	return &syncScheduler{
		manager:        manager,
		observer:       observer,
		probe:          probe,
		clock:          clock,
		log:            log,
		interval:       interval,
		jitter:         cfg.JitterFraction,
		grace:          cfg.GraceDelay,
		longBackground: cfg.LongBackground,
	}
}

// Run implements SyncScheduler. The loop owns the jittered repeating timer:
// backgrounding or going offline parks it, foregrounding or coming back
// online rearms it and triggers a catch-up sync.
func (s *syncScheduler) Run(ctx context.Context) error {
	transitions, unsubObserver := s.observer.Subscribe()
	defer unsubObserver()
	connectivity, unsubProbe := s.probe.Subscribe()
	defer unsubProbe()

	defer s.wg.Wait()

	timer := s.clock.NewTimer(s.jitteredInterval())
	defer timer.Stop()
	if s.wantScheduled() {
		s.setArmed(true)
	} else {
		timer.Stop()
	}

	// graceCh is nil while no delayed catch-up sync is pending; a nil
	// channel never selects.
	var graceTimer clockwork.Timer
	var graceCh <-chan time.Time

	disarmGrace := func() {
		if graceTimer != nil {
			graceTimer.Stop()
		}
		graceCh = nil
	}
	armGrace := func() {
		if graceTimer == nil {
			graceTimer = s.clock.NewTimer(s.grace)
		} else {
			graceTimer.Reset(s.grace)
		}
		graceCh = graceTimer.Chan()
	}

	s.log.Info().
		Str("func", "syncScheduler.Run").
		Dur("interval", s.interval).
		Bool("armed", s.isArmed()).
		Msg("scheduler started")

	for {
		select {
		case <-ctx.Done():
			s.setArmed(false)
			return nil

		case <-timer.Chan():
			if !s.wantScheduled() {
				// A transition raced the fire; the matching rearm will
				// come through its own channel.
				s.setArmed(false)
				continue
			}
			timer.Reset(s.jitteredInterval())
			s.dispatch(ctx)

		case tr := <-transitions:
			switch tr.To {
			case models.AppBackground:
				timer.Stop()
				disarmGrace()
				s.setArmed(false)
				s.log.Debug().
					Str("func", "syncScheduler.Run").
					Msg("app backgrounded, timer parked")

			case models.AppForeground:
				if !s.probe.Online() {
					continue
				}
				timer.Reset(s.jitteredInterval())
				s.setArmed(true)
				if s.longBackground > 0 && tr.InPrevious >= s.longBackground {
					// Long gap: catch up now instead of waiting out the
					// grace delay.
					disarmGrace()
					s.log.Debug().
						Str("func", "syncScheduler.Run").
						Dur("backgrounded", tr.InPrevious).
						Msg("long background, immediate catch-up sync")
					s.dispatch(ctx)
				} else {
					armGrace()
				}
			}

		case online := <-connectivity:
			if !online {
				timer.Stop()
				disarmGrace()
				s.setArmed(false)
				s.log.Debug().
					Str("func", "syncScheduler.Run").
					Msg("went offline, timer parked")
				continue
			}
			if s.observer.State() != models.AppForeground {
				continue
			}
			timer.Reset(s.jitteredInterval())
			s.setArmed(true)
			s.dispatch(ctx)

		case <-graceCh:
			graceCh = nil
			s.dispatch(ctx)
		}
	}
}

// TriggerManualSync implements SyncScheduler.
func (s *syncScheduler) TriggerManualSync(ctx context.Context) models.SyncResult {
	return s.manager.Sync(ctx, models.SourceManual)
}

// TriggerFullSync implements SyncScheduler.
func (s *syncScheduler) TriggerFullSync(ctx context.Context) models.SyncResult {
	return s.manager.ForceSync(ctx, models.SourcePullToRefresh)
}

// Status implements SyncScheduler.
func (s *syncScheduler) Status(ctx context.Context) models.SchedulerStatus {
	return models.SchedulerStatus{
		TimerScheduled: s.isArmed(),
		AppState:       s.observer.State(),
		Online:         s.probe.Online(),
		Sync:           s.manager.Status(ctx),
	}
}

// dispatch hands a scheduler-sourced trigger to the manager without
// blocking the timer loop. Collapsed and throttled outcomes are normal
// here, so results are only logged.
func (s *syncScheduler) dispatch(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		result := s.manager.Sync(ctx, models.SourceScheduler)
		s.log.Debug().
			Str("func", "syncScheduler.dispatch").
			Str("outcome", string(result.Outcome)).
			Msg("scheduled sync finished")
	}()
}

// wantScheduled reports whether periodic syncs are currently wanted:
// foregrounded and online.
func (s *syncScheduler) wantScheduled() bool {
	return s.observer.State() == models.AppForeground && s.probe.Online()
}

// jitteredInterval spreads timer fires across a fleet of agents so they do
// not sync in lockstep.
func (s *syncScheduler) jitteredInterval() time.Duration {
	if s.jitter <= 0 {
		return s.interval
	}
	span := s.jitter * float64(s.interval)
	return s.interval + time.Duration((rand.Float64()*2-1)*span)
}

func (s *syncScheduler) setArmed(armed bool) {
	s.mu.Lock()
	s.armed = armed
	s.mu.Unlock()
}

func (s *syncScheduler) isArmed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}
