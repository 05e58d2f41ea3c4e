package workers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pocketcrm/go-sync/internal/netprobe"
)

func TestNetBridge_ForwardsTransitions(t *testing.T) {
	source := netprobe.NewManualProbe(true)
	target := netprobe.NewManualProbe(true)

	bridge := NewNetBridge(source, target)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bridge.Run(ctx) }()

	source.SetOnline(false)
	require.Eventually(t, func() bool { return !target.Online() }, 5*time.Second, 10*time.Millisecond)

	source.SetOnline(true)
	require.Eventually(t, func() bool { return target.Online() }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("bridge did not stop")
	}
}

func TestNetBridge_BuffersTransitionsBeforeRun(t *testing.T) {
	source := netprobe.NewManualProbe(true)
	target := netprobe.NewManualProbe(true)

	bridge := NewNetBridge(source, target)

	// transition lands before the worker loop starts
	source.SetOnline(false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bridge.Run(ctx) }()

	require.Eventually(t, func() bool { return !target.Online() }, 5*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
