// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package store

const (
	upsertRecord = `
		INSERT INTO records (
			entity,
			id,
			display_name,
			status,
			remarks,
			follow_up_at,
			updated_at,
			payload,
			synced_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (entity, id) DO UPDATE SET
			display_name = excluded.display_name,
			status       = excluded.status,
			remarks      = excluded.remarks,
			follow_up_at = excluded.follow_up_at,
			updated_at   = excluded.updated_at,
			payload      = excluded.payload,
			synced_at    = excluded.synced_at;`

	getMetadata = `
		SELECT entity, last_sync_at
		FROM sync_metadata
		WHERE entity = $1;`

	getAllMetadata = `
		SELECT entity, last_sync_at
		FROM sync_metadata
		ORDER BY entity;`

	upsertMetadata = `
		INSERT INTO sync_metadata (entity, last_sync_at)
		VALUES ($1, $2)
		ON CONFLICT (entity) DO UPDATE SET
			last_sync_at = excluded.last_sync_at;`

	getStateMarker = `
		SELECT value_at
		FROM sync_state
		WHERE key = $1;`

	upsertStateMarker = `
		INSERT INTO sync_state (key, value_at)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET
			value_at = excluded.value_at;`

	getSummary = `
		SELECT
			total_leads,
			open_leads,
			follow_ups_due_today,
			unread_notifications,
			generated_at,
			fetched_at
		FROM dashboard_summary
		WHERE id = 1;`

	upsertSummary = `
		INSERT INTO dashboard_summary (
			id,
			total_leads,
			open_leads,
			follow_ups_due_today,
			unread_notifications,
			generated_at,
			fetched_at
		) VALUES (1, $1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			total_leads          = excluded.total_leads,
			open_leads           = excluded.open_leads,
			follow_ups_due_today = excluded.follow_ups_due_today,
			unread_notifications = excluded.unread_notifications,
			generated_at         = excluded.generated_at,
			fetched_at           = excluded.fetched_at;`
)
