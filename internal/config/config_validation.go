// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package config

import "strings"

// validate checks that the final merged [AgentConfig] satisfies all agent
// invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or one of the sentinel errors
// from errors.go otherwise.
func (cfg *AgentConfig) validate() error {
	if cfg.Adapter.BaseURL == "" || cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.RetryCount < 1 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Storage.DB.DSN == "" || strings.Contains(cfg.Storage.DB.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}
	if cfg.Storage.DB.Driver != "sqlite3" && cfg.Storage.DB.Driver != "pgx" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Sync.Interval <= 0 || cfg.Sync.MinGap < 0 {
		return ErrInvalidSyncConfigs
	}
	if cfg.Sync.JitterFraction < 0 || cfg.Sync.JitterFraction >= 1 {
		return ErrInvalidSyncConfigs
	}
	if cfg.Sync.PageLimit < 1 || cfg.Sync.MaxPages < 1 {
		return ErrInvalidSyncConfigs
	}
	for _, e := range cfg.Sync.Entities {
		if e.Name == "" || e.Endpoint == "" {
			return ErrInvalidSyncConfigs
		}
	}

	if cfg.Server.Address == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}

	return nil
}
