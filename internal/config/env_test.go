// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_VERSION":    "1.2.3",
		"APP_TOKEN":      "static-token",
		"APP_TOKEN_FILE": "/var/run/pocketcrm/token",

		"ADAPTER_BASE_URL":         "https://api.pocketcrm.example",
		"ADAPTER_REQUEST_TIMEOUT":  "15s",
		"ADAPTER_RETRY_COUNT":      "4",
		"ADAPTER_RETRY_BASE_DELAY": "1s",
		"ADAPTER_PING_INTERVAL":    "30s",

		// Storage has nested prefixes: STORAGE_ + DB_
		"STORAGE_DB_DRIVER":       "sqlite3",
		"STORAGE_DB_DATABASE_URI": "/var/lib/pocketcrm/cache.db",

		"SYNC_INTERVAL":          "5m",
		"SYNC_JITTER_FRACTION":   "0.1",
		"SYNC_MIN_GAP":           "30s",
		"SYNC_GRACE_DELAY":       "2s",
		"SYNC_LONG_BACKGROUND":   "30m",
		"SYNC_PAGE_LIMIT":        "25",
		"SYNC_MAX_PAGES":         "40",
		"SYNC_DASHBOARD_MAX_AGE": "10m",
		"SYNC_EVENT_BUFFER":      "32",

		"SERVER_ADDRESS":         "127.0.0.1:8090",
		"SERVER_REQUEST_TIMEOUT": "30s",

		"LOG_FILE":        "/var/log/pocketcrm/syncd.log",
		"LOG_MAX_SIZE_MB": "10",
		"LOG_MAX_BACKUPS": "3",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "1.2.3", cfg.App.Version)
	assert.Equal(t, "static-token", cfg.App.Token)
	assert.Equal(t, "/var/run/pocketcrm/token", cfg.App.TokenFile)

	assert.Equal(t, "https://api.pocketcrm.example", cfg.Adapter.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, 4, cfg.Adapter.RetryCount)
	assert.Equal(t, time.Second, cfg.Adapter.RetryBaseDelay)
	assert.Equal(t, 30*time.Second, cfg.Adapter.PingInterval)

	assert.Equal(t, "sqlite3", cfg.Storage.DB.Driver)
	assert.Equal(t, "/var/lib/pocketcrm/cache.db", cfg.Storage.DB.DSN)

	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 0.1, cfg.Sync.JitterFraction)
	assert.Equal(t, 30*time.Second, cfg.Sync.MinGap)
	assert.Equal(t, 2*time.Second, cfg.Sync.GraceDelay)
	assert.Equal(t, 30*time.Minute, cfg.Sync.LongBackground)
	assert.Equal(t, 25, cfg.Sync.PageLimit)
	assert.Equal(t, 40, cfg.Sync.MaxPages)
	assert.Equal(t, 10*time.Minute, cfg.Sync.DashboardMaxAge)
	assert.Equal(t, 32, cfg.Sync.EventBuffer)

	assert.Equal(t, "127.0.0.1:8090", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)

	assert.Equal(t, "/var/log/pocketcrm/syncd.log", cfg.Log.File)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)
	assert.Equal(t, 3, cfg.Log.MaxBackups)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"ADAPTER_BASE_URL": "https://api.pocketcrm.example",
		"SYNC_INTERVAL":    "10m",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	// Adapter partially filled
	assert.Equal(t, "https://api.pocketcrm.example", cfg.Adapter.BaseURL)
	assert.Zero(t, cfg.Adapter.RequestTimeout)
	assert.Zero(t, cfg.Adapter.RetryCount)

	// Sync partially filled
	assert.Equal(t, 10*time.Minute, cfg.Sync.Interval)
	assert.Zero(t, cfg.Sync.MinGap)
	assert.Zero(t, cfg.Sync.PageLimit)

	// Others untouched
	assert.Empty(t, cfg.App.Token)
	assert.Empty(t, cfg.Storage.DB.DSN)
	assert.Empty(t, cfg.Server.Address)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	// In this version all nested fields are non-pointer values,
	// so "empty" state is represented by zero values.
	assert.Equal(t, "", cfg.JSONFilePath)

	assert.Equal(t, App{}, cfg.App)
	assert.Equal(t, Adapter{}, cfg.Adapter)
	assert.Equal(t, Storage{}, cfg.Storage)
	assert.Equal(t, Sync{}, cfg.Sync)
	assert.Equal(t, Server{}, cfg.Server)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	// Arrange
	setEnvVars(t, map[string]string{
		"SYNC_INTERVAL": "not-a-duration",
	})

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.Error(t, err)
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"APP_VERSION",
		"APP_TOKEN",
		"APP_TOKEN_FILE",

		"ADAPTER_BASE_URL",
		"ADAPTER_REQUEST_TIMEOUT",
		"ADAPTER_RETRY_COUNT",
		"ADAPTER_RETRY_BASE_DELAY",
		"ADAPTER_PING_INTERVAL",

		"STORAGE_DB_DRIVER",
		"STORAGE_DB_DATABASE_URI",

		"SYNC_INTERVAL",
		"SYNC_JITTER_FRACTION",
		"SYNC_MIN_GAP",
		"SYNC_GRACE_DELAY",
		"SYNC_LONG_BACKGROUND",
		"SYNC_PAGE_LIMIT",
		"SYNC_MAX_PAGES",
		"SYNC_DASHBOARD_MAX_AGE",
		"SYNC_EVENT_BUFFER",

		"SERVER_ADDRESS",
		"SERVER_REQUEST_TIMEOUT",

		"LOG_FILE",
		"LOG_MAX_SIZE_MB",
		"LOG_MAX_BACKUPS",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
