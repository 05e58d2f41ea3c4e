// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

// Package mutex provides the exclusion primitive that keeps sync runs
// serialized. Unlike sync.Mutex it supports queue inspection, non-blocking
// acquisition, context-aware waiting with FIFO hand-off, and a forced reset
// that rejects every queued waiter.
package mutex

import (
	"context"
	"sync"
)

// ReleaseFunc releases an acquired lock. It is safe to call more than once;
// calls after the first are no-ops.
type ReleaseFunc func()

type waiterState int

const (
	waiterPending waiterState = iota
	waiterGranted
	waiterCancelled
	waiterAbandoned
)

type waiter struct {
	ready chan error // buffered 1: nil on grant, ErrCancelled on forced reset
	state waiterState
}

// Mutex is an asynchronous mutual-exclusion lock with a FIFO wait queue.
// The zero value is not usable; construct with New.
type Mutex struct {
	mu      sync.Mutex
	locked  bool
	gen     uint64 // bumped by CancelAll to invalidate outstanding releases
	waiters []*waiter
}

// New returns an unlocked Mutex.
func New() *Mutex {
	return &Mutex{}
}

// TryAcquire attempts to take the lock without waiting. On success it
// returns a release func and true; when the lock is held or waiters are
// queued it returns nil and false.
func (m *Mutex) TryAcquire() (ReleaseFunc, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.locked || len(m.waiters) > 0 {
		return nil, false
	}

	m.locked = true
	return m.releaserLocked(), true
}

// Acquire takes the lock, waiting in FIFO order behind earlier callers.
// It returns ErrCancelled if CancelAll rejects the waiter, or ctx.Err() if
// the context ends first. A grant that races a context cancellation is
// passed on to the next waiter, so the lock never leaks.
func (m *Mutex) Acquire(ctx context.Context) (ReleaseFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	if !m.locked && len(m.waiters) == 0 {
		m.locked = true
		release := m.releaserLocked()
		m.mu.Unlock()
		return release, nil
	}

	w := &waiter{ready: make(chan error, 1)}
	m.waiters = append(m.waiters, w)
	m.mu.Unlock()

	select {
	case err := <-w.ready:
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		release := m.releaserLocked()
		m.mu.Unlock()
		return release, nil
	case <-ctx.Done():
		m.mu.Lock()
		if w.state == waiterGranted {
			// The grant raced the cancellation; hand the lock on.
			m.releaseLocked()
		} else {
			w.state = waiterAbandoned
		}
		m.mu.Unlock()
		return nil, ctx.Err()
	}
}

// IsLocked reports whether the lock is currently held.
func (m *Mutex) IsLocked() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.locked
}

// Waiters reports how many callers are queued behind the current holder.
func (m *Mutex) Waiters() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, w := range m.waiters {
		if w.state == waiterPending {
			n++
		}
	}
	return n
}

// CancelAll rejects every queued waiter with ErrCancelled and forcibly
// clears the locked flag. It is a recovery hammer for resetting the engine
// after an unrecoverable failure. Release funcs handed out before the reset
// are invalidated and become no-ops, so a lock taken after the reset cannot
// be released by the previous owner.
func (m *Mutex) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range m.waiters {
		if w.state != waiterPending {
			continue
		}
		w.state = waiterCancelled
		w.ready <- ErrCancelled
	}
	m.waiters = nil
	m.locked = false
	m.gen++
}

// releaserLocked builds the one-shot release func for the grant just made.
// Caller must hold m.mu.
func (m *Mutex) releaserLocked() ReleaseFunc {
	gen := m.gen
	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			if m.gen == gen {
				m.releaseLocked()
			}
			m.mu.Unlock()
		})
	}
}

// releaseLocked passes the lock to the oldest pending waiter or, with no
// waiters left, clears the locked flag. Caller must hold m.mu.
func (m *Mutex) releaseLocked() {
	for len(m.waiters) > 0 {
		w := m.waiters[0]
		m.waiters = m.waiters[1:]
		if w.state != waiterPending {
			continue
		}
		w.state = waiterGranted
		w.ready <- nil
		return
	}
	m.locked = false
}
