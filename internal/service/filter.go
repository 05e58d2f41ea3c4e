// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package service

import (
	"github.com/pocketcrm/go-sync/models"
)

type changeFilter struct{}

// NewChangeFilter returns the tracked-field change filter.
func NewChangeFilter() ChangeFilter {
	return &changeFilter{}
}

// FilterChanged implements ChangeFilter. A record is changed when no local
// row with its ID exists or at least one tracked field differs. Comparison
// is plain string equality; a field the server omitted decodes to the empty
// string, so missing and empty compare equal.
func (f *changeFilter) FilterChanged(fetched []models.RemoteRecord, existing []models.LocalRecord) []models.RemoteRecord {
	local := make(map[string]models.LocalRecord, len(existing))
	for _, rec := range existing {
		local[rec.ID] = rec
	}

	changed := make([]models.RemoteRecord, 0, len(fetched))
	for _, rec := range fetched {
		cached, ok := local[rec.ID]
		if !ok || trackedFieldsDiffer(rec, cached) {
			changed = append(changed, rec)
		}
	}
	return changed
}

// trackedFieldsDiffer compares the fields the engine watches for changes.
// Payload bytes and sync bookkeeping columns are not compared.
func trackedFieldsDiffer(remote models.RemoteRecord, local models.LocalRecord) bool {
	return remote.DisplayName != local.DisplayName ||
		remote.Status != local.Status ||
		remote.Remarks != local.Remarks ||
		remote.FollowUpAt != local.FollowUpAt ||
		remote.UpdatedAt != local.UpdatedAt
}
