package models

import "time"

// StatusResponse is the GET /api/status payload: build identity, scheduler
// snapshot, session expiry and per-entity sync bookkeeping.
type StatusResponse struct {
	Version        string          `json:"version"`
	BuildDate      string          `json:"build_date,omitempty"`
	BuildCommit    string          `json:"build_commit,omitempty"`
	Scheduler      SchedulerStatus `json:"scheduler"`
	TokenExpiresAt time.Time       `json:"token_expires_at,omitempty"`
	Entities       []SyncMetadata  `json:"entities,omitempty"`
}

// SyncTriggerRequest is the optional POST /api/sync body. An absent body is
// equivalent to {"source": "manual"}.
type SyncTriggerRequest struct {
	Source SyncSource `json:"source,omitempty"`
}

// RecordsResponse is the GET /api/records payload: one entity's cached rows
// plus when that cache was last reconciled.
type RecordsResponse struct {
	Entity     string        `json:"entity"`
	Records    []LocalRecord `json:"records"`
	Count      int           `json:"count"`
	LastSyncAt time.Time     `json:"last_sync_at,omitempty"`
}

// Ack confirms a control request that carries no other payload.
type Ack struct {
	Accepted bool `json:"accepted"`
}
