// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package models

import (
	"encoding/json"
	"time"
)

// RemoteRecord is one item as the server sends it. Tracked fields are kept
// as strings exactly as received; the full response object is retained in
// Payload so fields the engine does not track survive a round trip.
type RemoteRecord struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Status      string `json:"status"`
	Remarks     string `json:"remarks"`
	FollowUpAt  string `json:"follow_up_at"`
	UpdatedAt   string `json:"updated_at"`

	Payload json.RawMessage `json:"-"`
}

// LocalRecord is a cached record row as stored on the device.
type LocalRecord struct {
	Entity      string    `json:"entity"`
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Status      string    `json:"status"`
	Remarks     string    `json:"remarks"`
	FollowUpAt  string    `json:"follow_up_at"`
	UpdatedAt   string    `json:"updated_at"`
	Payload     []byte    `json:"payload,omitempty"`
	SyncedAt    time.Time `json:"synced_at"`
}
