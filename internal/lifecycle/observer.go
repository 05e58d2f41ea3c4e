// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

// Package lifecycle tracks the host application's foreground/background
// state. The platform shell reports transitions; the scheduler subscribes
// to pause syncing in background and catch up on return.
package lifecycle

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/models"
)

// subscriberBuffer bounds a transition channel; transitions beyond it are
// collapsed for that subscriber.
const subscriberBuffer = 4

// Transition describes one lifecycle state change.
type Transition struct {
	From models.AppState
	To   models.AppState
	At   time.Time

	// InPrevious is how long the app stayed in the previous state. The
	// scheduler compares it against the long-background threshold to pick
	// between a delayed and an immediate catch-up sync.
	InPrevious time.Duration
}

// Observer is the process-wide lifecycle state holder. It starts in the
// foreground state, matching an app that just launched.
type Observer struct {
	clock clockwork.Clock
	log   *logger.Logger

	mu     sync.Mutex
	state  models.AppState
	since  time.Time
	subs   map[int]chan Transition
	nextID int
}

// NewObserver returns an Observer in the foreground state.
func NewObserver(clock clockwork.Clock, log *logger.Logger) *Observer {
	return &Observer{
		clock: clock,
		log:   log,
		state: models.AppForeground,
		since: clock.Now(),
		subs:  make(map[int]chan Transition),
	}
}

// SetForeground records that the app entered the foreground.
func (o *Observer) SetForeground() {
	o.setState(models.AppForeground)
}

// SetBackground records that the app left the foreground.
func (o *Observer) SetBackground() {
	o.setState(models.AppBackground)
}

// State returns the current lifecycle state.
func (o *Observer) State() models.AppState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// InState reports how long the app has been in its current state.
func (o *Observer) InState() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.clock.Since(o.since)
}

// Subscribe returns a channel receiving every state transition, plus an
// unsubscribe func.
func (o *Observer) Subscribe() (<-chan Transition, func()) {
	o.mu.Lock()
	defer o.mu.Unlock()

	id := o.nextID
	o.nextID++
	ch := make(chan Transition, subscriberBuffer)
	o.subs[id] = ch

	return ch, func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		if sub, ok := o.subs[id]; ok {
			delete(o.subs, id)
			close(sub)
		}
	}
}

func (o *Observer) setState(next models.AppState) {
	o.mu.Lock()

	if o.state == next {
		o.mu.Unlock()
		return
	}

	now := o.clock.Now()
	tr := Transition{
		From:       o.state,
		To:         next,
		At:         now,
		InPrevious: now.Sub(o.since),
	}
	o.state = next
	o.since = now

	for _, ch := range o.subs {
		select {
		case ch <- tr:
		default:
		}
	}
	o.mu.Unlock()

	o.log.Debug().
		Str("func", "Observer.setState").
		Str("from", string(tr.From)).
		Str("to", string(tr.To)).
		Dur("in_previous", tr.InPrevious).
		Msg("lifecycle transition")
}
