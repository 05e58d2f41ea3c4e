// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package models

// ProcessorFunc is an optional per-entity hook applied to a page's records
// after validation and before change filtering. It must not mutate its
// input slice in place.
type ProcessorFunc func(records []RemoteRecord) []RemoteRecord

// SyncEntity describes one server collection the engine keeps a local
// cache of.
type SyncEntity struct {
	// Name is the entity identifier used in record rows, metadata and
	// per-run record counts.
	Name string

	// Endpoint is the server path the paginated fetch hits,
	// e.g. "/api/v1/leads".
	Endpoint string

	// MetadataKey overrides the key the entity's sync metadata is stored
	// under. Empty means Name.
	MetadataKey string

	// PageLimit overrides the page size for this entity. Zero means the
	// engine default.
	PageLimit int

	// Processor is applied to fetched records before filtering, nil for
	// entities without one.
	Processor ProcessorFunc `json:"-"`
}

// Key returns the metadata key for the entity.
func (e SyncEntity) Key() string {
	if e.MetadataKey != "" {
		return e.MetadataKey
	}
	return e.Name
}
