package mutex

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryAcquire_WhenFree(t *testing.T) {
	m := New()

	release, ok := m.TryAcquire()

	require.True(t, ok)
	require.NotNil(t, release)
	assert.True(t, m.IsLocked())

	release()
	assert.False(t, m.IsLocked())
}

func TestTryAcquire_WhenHeld(t *testing.T) {
	m := New()
	release, ok := m.TryAcquire()
	require.True(t, ok)
	defer release()

	second, ok := m.TryAcquire()

	assert.False(t, ok)
	assert.Nil(t, second)
}

func TestAcquire_WhenFree(t *testing.T) {
	m := New()

	release, err := m.Acquire(context.Background())

	require.NoError(t, err)
	require.NotNil(t, release)
	assert.True(t, m.IsLocked())
	release()
}

// TestAcquire_FIFOOrder verifies that queued waiters are granted the lock
// in the order they called Acquire.
func TestAcquire_FIFOOrder(t *testing.T) {
	m := New()
	release, ok := m.TryAcquire()
	require.True(t, ok)

	const waiters = 3
	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < waiters; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := m.Acquire(context.Background())
			require.NoError(t, err)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			r()
		}()
		// wait until this goroutine is queued before starting the next,
		// otherwise enqueue order is racy
		want := i + 1
		require.Eventually(t, func() bool { return m.Waiters() == want },
			time.Second, time.Millisecond)
	}

	release()
	wg.Wait()

	assert.Equal(t, []int{0, 1, 2}, order)
	assert.False(t, m.IsLocked())
}

func TestAcquire_ContextCancelled(t *testing.T) {
	m := New()
	release, ok := m.TryAcquire()
	require.True(t, ok)
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := m.Acquire(ctx)
		errCh <- err
	}()
	require.Eventually(t, func() bool { return m.Waiters() == 1 },
		time.Second, time.Millisecond)

	cancel()

	err := <-errCh
	require.ErrorIs(t, err, context.Canceled)
}

func TestAcquire_ContextAlreadyDone(t *testing.T) {
	m := New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	release, err := m.Acquire(ctx)

	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, release)
	assert.False(t, m.IsLocked())
}

// TestAcquire_AbandonedWaiterIsSkipped verifies that a waiter that gave up
// does not absorb a grant meant for a later waiter.
func TestAcquire_AbandonedWaiterIsSkipped(t *testing.T) {
	m := New()
	release, ok := m.TryAcquire()
	require.True(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := m.Acquire(ctx)
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return m.Waiters() == 1 },
		time.Second, time.Millisecond)

	secondDone := make(chan struct{})
	go func() {
		r, err := m.Acquire(context.Background())
		require.NoError(t, err)
		r()
		close(secondDone)
	}()
	require.Eventually(t, func() bool { return m.Waiters() == 2 },
		time.Second, time.Millisecond)

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	release()

	select {
	case <-secondDone:
	case <-time.After(time.Second):
		t.Fatal("second waiter was never granted the lock")
	}
	assert.False(t, m.IsLocked())
}

func TestCancelAll_RejectsWaitersAndUnlocks(t *testing.T) {
	m := New()
	_, ok := m.TryAcquire()
	require.True(t, ok)

	const waiters = 2
	errs := make(chan error, waiters)
	for i := 0; i < waiters; i++ {
		go func() {
			_, err := m.Acquire(context.Background())
			errs <- err
		}()
	}
	require.Eventually(t, func() bool { return m.Waiters() == waiters },
		time.Second, time.Millisecond)

	m.CancelAll()

	for i := 0; i < waiters; i++ {
		require.ErrorIs(t, <-errs, ErrCancelled)
	}
	assert.False(t, m.IsLocked())
	assert.Zero(t, m.Waiters())
}

// TestRelease_AfterCancelAll_IsNoOp verifies that a release func handed out
// before a forced reset cannot unlock a lock taken after the reset.
func TestRelease_AfterCancelAll_IsNoOp(t *testing.T) {
	m := New()
	staleRelease, ok := m.TryAcquire()
	require.True(t, ok)

	m.CancelAll()

	_, ok = m.TryAcquire()
	require.True(t, ok)

	staleRelease()

	assert.True(t, m.IsLocked(), "stale release must not unlock the new owner")
}

func TestRelease_Idempotent(t *testing.T) {
	m := New()
	release, ok := m.TryAcquire()
	require.True(t, ok)

	release()
	release()

	assert.False(t, m.IsLocked())

	// the lock must still work after the double release
	r2, ok := m.TryAcquire()
	require.True(t, ok)
	r2()
}

// TestAcquire_MutualExclusion hammers the lock from many goroutines and
// checks that the critical section is never entered concurrently.
func TestAcquire_MutualExclusion(t *testing.T) {
	m := New()

	const goroutines = 16
	var inside atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := m.Acquire(context.Background())
			require.NoError(t, err)
			defer release()

			n := inside.Add(1)
			assert.EqualValues(t, 1, n, "two holders inside the critical section")
			inside.Add(-1)
		}()
	}

	wg.Wait()
	assert.False(t, m.IsLocked())
}
