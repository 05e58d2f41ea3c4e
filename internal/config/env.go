// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv fills cfg from the process environment. The variable names come
// from the `env` and `envPrefix` tags on [StructuredConfig]; a value that
// cannot be converted to its field type (a bad duration, a non-numeric
// page limit) surfaces as a wrapped parse error.
func parseEnv(cfg any) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
