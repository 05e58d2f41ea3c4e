// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package models

import "time"

// SyncMetadata records when an entity's cache was last reconciled with
// the server.
type SyncMetadata struct {
	Entity     string    `json:"entity"`
	LastSyncAt time.Time `json:"last_sync_at"`
}

// DashboardSummary is the aggregated view the dashboard screen renders.
// It is fetched on its own endpoint, outside the entity sync pipeline.
type DashboardSummary struct {
	TotalLeads          int    `json:"total_leads"`
	OpenLeads           int    `json:"open_leads"`
	FollowUpsDueToday   int    `json:"follow_ups_due_today"`
	UnreadNotifications int    `json:"unread_notifications"`
	GeneratedAt         string `json:"generated_at,omitempty"`

	// FetchedAt is set locally when the summary is stored and drives
	// staleness checks. It is not part of the wire format.
	FetchedAt time.Time `json:"fetched_at,omitempty"`
}
