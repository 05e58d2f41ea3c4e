package models

import "time"

// EventType discriminates sync lifecycle events.
type EventType string

const (
	EventSyncStarted  EventType = "sync_started"
	EventSyncProgress EventType = "sync_progress"
	EventSyncFinished EventType = "sync_finished"
	EventSyncFailed   EventType = "sync_failed"
)

// SyncEvent is one entry in the ordered event stream a run emits.
// Fields beyond Type, RunID, Source and At are populated per event type:
// progress carries Entity/Page/TotalPages, finished carries RecordCounts
// and Took, failed carries Reason and Error.
type SyncEvent struct {
	Type   EventType  `json:"type"`
	RunID  string     `json:"run_id"`
	Source SyncSource `json:"source"`
	At     time.Time  `json:"at"`

	Entity     string `json:"entity,omitempty"`
	Page       int    `json:"page,omitempty"`
	TotalPages int    `json:"total_pages,omitempty"`

	RecordCounts map[string]int `json:"record_counts,omitempty"`
	Took         time.Duration  `json:"took,omitempty"`

	Reason FailureReason `json:"reason,omitempty"`
	Error  string        `json:"error,omitempty"`
}
