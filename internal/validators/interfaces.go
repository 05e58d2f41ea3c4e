// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

// Package validators checks the shape of data entering the sync pipeline:
// records decoded from server pages and the entity definitions the engine is
// configured to mirror.
//
// The sync manager validates every fetched record before it is diffed and
// persisted; records that fail are dropped from the batch and logged rather
// than aborting the run. Entity definitions are validated once at startup,
// where a failure is fatal.
//
// Validation is behind the Validator interface so services depend on the
// rule set, not on a concrete implementation, and tests can substitute their
// own.
package validators

import "context"

// Validator validates arbitrary input values. The optional field names
// restrict the check to those fields; with none given, every rule for the
// value's type runs.
type Validator interface {
	Validate(context.Context, any, ...string) error
}
