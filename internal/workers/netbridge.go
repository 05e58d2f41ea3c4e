package workers

import (
	"context"

	"github.com/pocketcrm/go-sync/internal/netprobe"
)

// NetBridge forwards connectivity transitions from a source probe into the
// manually driven probe the rest of the engine watches. Ping-derived
// reachability and host-signalled state end up on the same switch, with the
// later writer winning.
type NetBridge struct {
	target *netprobe.ManualProbe

	ch          <-chan bool
	unsubscribe func()
}

// NewNetBridge subscribes to source immediately; transitions are buffered
// until the worker loop starts.
func NewNetBridge(source netprobe.Probe, target *netprobe.ManualProbe) *NetBridge {
	b := &NetBridge{target: target}
	b.ch, b.unsubscribe = source.Subscribe()

	return b
}

// Run forwards transitions until ctx ends.
func (b *NetBridge) Run(ctx context.Context) error {
	defer b.unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return nil
		case online, ok := <-b.ch:
			if !ok {
				return nil
			}
			b.target.SetOnline(online)
		}
	}
}
