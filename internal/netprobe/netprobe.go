// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

// Package netprobe answers one question for the engine: is the server
// reachable right now. The manager consults it before starting a run so an
// offline device fails fast instead of burning retries; the scheduler
// subscribes to transitions to pause and resume its timer.
package netprobe

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pocketcrm/go-sync/internal/logger"
)

// subscriberBuffer bounds a transition channel. Connectivity flaps faster
// than that are collapsed.
const subscriberBuffer = 4

// Probe reports current connectivity and publishes transitions.
type Probe interface {
	// Online reports the last known connectivity state.
	Online() bool

	// Subscribe returns a channel receiving the new state on every
	// transition, plus an unsubscribe func.
	Subscribe() (<-chan bool, func())
}

// Pinger is the transport-level reachability check the HTTP probe runs.
// The server adapter implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// notifier holds the shared state/fan-out logic of both probe flavours.
type notifier struct {
	mu     sync.Mutex
	online bool
	subs   map[int]chan bool
	nextID int
}

func newNotifier(online bool) notifier {
	return notifier{online: online, subs: make(map[int]chan bool)}
}

// Online implements Probe.
func (n *notifier) Online() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.online
}

// Subscribe implements Probe.
func (n *notifier) Subscribe() (<-chan bool, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	ch := make(chan bool, subscriberBuffer)
	n.subs[id] = ch

	return ch, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if sub, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(sub)
		}
	}
}

// set records a new state and, on transition, notifies subscribers without
// blocking.
func (n *notifier) set(online bool) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.online == online {
		return false
	}
	n.online = online

	for _, ch := range n.subs {
		select {
		case ch <- online:
		default:
		}
	}
	return true
}

// ManualProbe is driven entirely by SetOnline calls. Mobile hosts feed it
// from the platform connectivity API; tests use it as a controllable fake.
type ManualProbe struct {
	notifier
}

// NewManualProbe returns a probe in the given initial state.
func NewManualProbe(online bool) *ManualProbe {
	return &ManualProbe{notifier: newNotifier(online)}
}

// SetOnline records the externally observed connectivity state.
func (p *ManualProbe) SetOnline(online bool) {
	p.set(online)
}

// HTTPProbe derives connectivity by pinging the server periodically.
// Headless deployments without a platform connectivity API use it.
type HTTPProbe struct {
	notifier

	pinger   Pinger
	clock    clockwork.Clock
	interval time.Duration
	log      *logger.Logger
}

// NewHTTPProbe builds a probe that pings via pinger every interval.
// The probe assumes online until the first check proves otherwise.
func NewHTTPProbe(pinger Pinger, clock clockwork.Clock, interval time.Duration, log *logger.Logger) *HTTPProbe {
	return &HTTPProbe{
		notifier: newNotifier(true),
		pinger:   pinger,
		clock:    clock,
		interval: interval,
		log:      log,
	}
}

// Run pings until ctx ends. It always returns nil after a clean shutdown.
func (p *HTTPProbe) Run(ctx context.Context) error {
	p.check(ctx)

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			p.check(ctx)
		}
	}
}

func (p *HTTPProbe) check(ctx context.Context) {
	err := p.pinger.Ping(ctx)
	if ctx.Err() != nil {
		return
	}

	online := err == nil
	if p.set(online) {
		p.log.Info().
			Str("func", "HTTPProbe.check").
			Bool("online", online).
			Err(err).
			Msg("connectivity changed")
	}
}
