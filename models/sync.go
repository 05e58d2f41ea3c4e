package models

import "time"

// SyncSource identifies what triggered a sync run.
type SyncSource string

const (
	// SourceManual is an explicit user-initiated sync.
	SourceManual SyncSource = "manual"

	// SourceScheduler is a periodic background sync fired by the scheduler.
	SourceScheduler SyncSource = "scheduler"

	// SourcePullToRefresh is a full refresh requested from a list screen.
	SourcePullToRefresh SyncSource = "pull_to_refresh"

	// SourceStatusUpdate is a reconciliation sync queued right after a
	// local status mutation is pushed to the server.
	SourceStatusUpdate SyncSource = "status_update"
)

// FailureReason classifies why a sync run failed.
type FailureReason string

const (
	FailureAuthExpired   FailureReason = "AUTH_EXPIRED"
	FailureNetworkError  FailureReason = "NETWORK_ERROR"
	FailureServerError   FailureReason = "SERVER_ERROR"
	FailureDatabaseError FailureReason = "DATABASE_ERROR"
	FailureOffline       FailureReason = "OFFLINE"
	FailureUnknown       FailureReason = "UNKNOWN"
)

// SyncOutcome is the disposition of a sync request. A request that never
// became a run (collapsed, throttled, offline) still gets an outcome.
type SyncOutcome string

const (
	// OutcomeCompleted means a run started and finished successfully.
	OutcomeCompleted SyncOutcome = "completed"

	// OutcomeAlreadyRunning means the request collapsed into an
	// in-flight run and no new run was started.
	OutcomeAlreadyRunning SyncOutcome = "already_running"

	// OutcomeThrottled means the request landed inside the minimum
	// gap after the previous successful run.
	OutcomeThrottled SyncOutcome = "throttled"

	// OutcomeFailed means a run started and aborted, or the request
	// was rejected before starting (offline fast-fail).
	OutcomeFailed SyncOutcome = "failed"
)

// SyncRun is one attempt to pull remote changes into the local cache.
type SyncRun struct {
	ID           string         `json:"id"`
	Source       SyncSource     `json:"source"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  time.Time      `json:"completed_at,omitempty"`
	Success      bool           `json:"success"`
	RecordCounts map[string]int `json:"record_counts,omitempty"`
	Reason       FailureReason  `json:"reason,omitempty"`
	Error        string         `json:"error,omitempty"`
}

// Duration reports how long the run took, zero while still in flight.
func (r SyncRun) Duration() time.Duration {
	if r.CompletedAt.IsZero() {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}

// SyncResult is what a sync request returns to its caller.
// Run is nil unless a run actually started.
type SyncResult struct {
	Outcome           SyncOutcome   `json:"outcome"`
	Run               *SyncRun      `json:"run,omitempty"`
	Reason            FailureReason `json:"reason,omitempty"`
	Error             string        `json:"error,omitempty"`
	NextAllowedSyncAt time.Time     `json:"next_allowed_sync_at,omitempty"`
}

// SyncStatus is a point-in-time snapshot of the sync manager.
type SyncStatus struct {
	Running           bool      `json:"running"`
	LastSuccessAt     time.Time `json:"last_success_at,omitempty"`
	NextAllowedSyncAt time.Time `json:"next_allowed_sync_at,omitempty"`
}

// AppState is the host application's lifecycle state.
type AppState string

const (
	AppForeground AppState = "foreground"
	AppBackground AppState = "background"
)

// SchedulerStatus is a point-in-time snapshot of the scheduler and its inputs.
type SchedulerStatus struct {
	TimerScheduled bool       `json:"timer_scheduled"`
	AppState       AppState   `json:"app_state"`
	Online         bool       `json:"online"`
	Sync           SyncStatus `json:"sync"`
}
