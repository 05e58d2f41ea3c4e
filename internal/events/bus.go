// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

// Package events carries sync lifecycle events from the manager to UI
// surfaces and other observers. Delivery is fan-out with per-subscriber
// buffered channels; a subscriber that stops draining loses events rather
// than stalling the engine.
package events

import (
	"sync"

	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/models"
)

// DefaultBuffer is the subscriber channel capacity used when the bus is
// constructed without an explicit one.
const DefaultBuffer = 32

type subscriber struct {
	ch chan models.SyncEvent
}

// Bus is a fan-out publisher of sync events. Events published while holding
// an internal lock reach every subscriber in publish order.
type Bus struct {
	log    *logger.Logger
	buffer int

	mu     sync.Mutex
	subs   map[int]*subscriber
	nextID int
	closed bool
}

// NewBus returns an empty bus. buffer is the channel capacity handed to
// Subscribe callers; non-positive values fall back to DefaultBuffer.
func NewBus(buffer int, log *logger.Logger) *Bus {
	if buffer < 1 {
		buffer = DefaultBuffer
	}

	return &Bus{
		log:    log,
		buffer: buffer,
		subs:   make(map[int]*subscriber),
	}
}

// Subscribe registers a listener with the bus's configured buffer and
// returns its event channel plus an unsubscribe func. The channel is closed
// on unsubscribe and on Close.
func (b *Bus) Subscribe() (<-chan models.SyncEvent, func()) {
	return b.SubscribeBuffer(b.buffer)
}

// SubscribeBuffer registers a listener with an explicit channel capacity.
func (b *Bus) SubscribeBuffer(buffer int) (<-chan models.SyncEvent, func()) {
	if buffer < 1 {
		buffer = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		closed := make(chan models.SyncEvent)
		close(closed)
		return closed, func() {}
	}

	id := b.nextID
	b.nextID++
	sub := &subscriber{ch: make(chan models.SyncEvent, buffer)}
	b.subs[id] = sub

	return sub.ch, func() { b.unsubscribe(id) }
}

// Publish delivers e to every subscriber without blocking. A subscriber
// whose buffer is full has the event dropped and a warning logged; the
// events it does receive stay in publish order.
func (b *Bus) Publish(e models.SyncEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	for id, sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
			b.log.Warn().
				Str("func", "Bus.Publish").
				Int("subscriber", id).
				Str("event", string(e.Type)).
				Str("run_id", e.RunID).
				Msg("subscriber buffer full, event dropped")
		}
	}
}

// Close shuts the bus down and closes all subscriber channels. Publish and
// Subscribe after Close are no-ops.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
}

func (b *Bus) unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(sub.ch)
}
