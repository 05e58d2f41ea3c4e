package workers

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pocketcrm/go-sync/internal/events"
	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/models"
)

func TestEventLogRun_WritesRunTrace(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewLogger("test")
	l.Logger = l.Output(&buf)

	bus := events.NewBus(0, logger.Nop())
	eventLog := NewEventLog(bus, l)

	done := make(chan error, 1)
	go func() { done <- eventLog.Run(context.Background()) }()

	at := time.Date(2026, 2, 11, 10, 0, 0, 0, time.UTC)
	bus.Publish(models.SyncEvent{Type: models.EventSyncStarted, RunID: "run-7", Source: models.SourceScheduler, At: at})
	bus.Publish(models.SyncEvent{Type: models.EventSyncProgress, RunID: "run-7", Source: models.SourceScheduler, Entity: "leads", Page: 2, TotalPages: 3})
	bus.Publish(models.SyncEvent{Type: models.EventSyncFinished, RunID: "run-7", Source: models.SourceScheduler, RecordCounts: map[string]int{"leads": 58}, Took: 1200 * time.Millisecond})
	bus.Publish(models.SyncEvent{Type: models.EventSyncFailed, RunID: "run-8", Source: models.SourceManual, Reason: models.FailureNetworkError, Error: "connection reset"})

	// Closing the bus lets the worker drain what is buffered and return,
	// which makes the log buffer safe to read.
	bus.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("event log worker did not stop")
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var entry map[string]any

	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "info", entry["level"])
	require.Equal(t, string(models.EventSyncStarted), entry["event"])
	require.Equal(t, "run-7", entry["run_id"])

	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	require.Equal(t, "leads", entry["entity"])
	require.Equal(t, float64(2), entry["page"])
	require.Equal(t, float64(3), entry["total_pages"])

	require.NoError(t, json.Unmarshal([]byte(lines[2]), &entry))
	require.Equal(t, string(models.EventSyncFinished), entry["event"])
	require.Contains(t, entry, "record_counts")

	require.NoError(t, json.Unmarshal([]byte(lines[3]), &entry))
	require.Equal(t, "error", entry["level"])
	require.Equal(t, string(models.FailureNetworkError), entry["reason"])
	require.Equal(t, "connection reset", entry["error"])
}

func TestEventLogRun_StopsOnContextCancel(t *testing.T) {
	bus := events.NewBus(0, logger.Nop())
	defer bus.Close()

	eventLog := NewEventLog(bus, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- eventLog.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("event log worker did not stop")
	}
}
