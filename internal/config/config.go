// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 PocketCRM Authors

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the sync
// agent. It aggregates all sub-configurations and is populated by merging
// values from environment variables, command-line flags, and an optional
// JSON file.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as the auth token source
	// and the application version.
	App App `envPrefix:"APP_"`

	// Adapter holds settings for the outbound server transport: base URL,
	// timeouts and retry behaviour.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds configuration for the local cache database.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds scheduling, throttling and pagination settings for the
	// sync pipeline.
	Sync Sync `envPrefix:"SYNC_"`

	// Server holds network address and timeout settings for the local
	// control API.
	Server Server `envPrefix:"SERVER_"`

	// Log holds log output settings. An empty file path means stdout.
	Log Log `envPrefix:"LOG_"`

	// Entities lists the server collections the agent mirrors. Only
	// settable via the JSON config file; an empty list falls back to the
	// built-in default set.
	Entities []Entity `env:"-"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Version is the semantic version string of the running agent
	// (e.g. "1.2.3"). Exposed via the /api/status endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`

	// Token is a static bearer token for the server API. Mutually
	// exclusive with TokenFile; TokenFile wins when both are set.
	// Env: APP_TOKEN
	Token string `env:"TOKEN"`

	// TokenFile is a path to a file holding the bearer token. The file is
	// re-read when its modification time changes, so an external login
	// flow can rotate the token without restarting the agent.
	// Env: APP_TOKEN_FILE
	TokenFile string `env:"TOKEN_FILE"`
}

// Adapter holds settings for the outbound HTTP transport.
type Adapter struct {
	// BaseURL is the root URL of the server API
	// (e.g. "https://api.pocketcrm.example").
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout is the per-request timeout for outbound calls
	// (e.g. "15s").
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// RetryCount is the total number of attempts per request, the first
	// try included.
	// Env: ADAPTER_RETRY_COUNT
	RetryCount int `env:"RETRY_COUNT"`

	// RetryBaseDelay is the delay before the first retry; each further
	// retry doubles it.
	// Env: ADAPTER_RETRY_BASE_DELAY
	RetryBaseDelay time.Duration `env:"RETRY_BASE_DELAY"`

	// PingInterval is how often the reachability probe checks the server
	// when the probe runs in HTTP mode.
	// Env: ADAPTER_PING_INTERVAL
	PingInterval time.Duration `env:"PING_INTERVAL"`
}

// Storage groups the configuration for the local cache database.
type Storage struct {
	// DB holds the database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local cache database.
type DB struct {
	// Driver selects the database backend: "sqlite3" (default) or "pgx"
	// for a PostgreSQL-backed deployment.
	// Env: STORAGE_DB_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the connection string for the selected driver: a file path
	// for sqlite3, a postgres:// URI for pgx.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Sync holds scheduling, throttling and pagination settings.
type Sync struct {
	// Interval is the base period between scheduled background syncs.
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// JitterFraction spreads scheduled fires by ±fraction of Interval so
	// agents do not stampede the server. Must be in [0, 1).
	// Env: SYNC_JITTER_FRACTION
	JitterFraction float64 `env:"JITTER_FRACTION"`

	// MinGap is the throttle window: the minimum pause after a successful
	// sync before the next non-exempt sync may start.
	// Env: SYNC_MIN_GAP
	MinGap time.Duration `env:"MIN_GAP"`

	// GraceDelay is how long the scheduler waits after a
	// background-to-foreground transition before firing a catch-up sync.
	// Env: SYNC_GRACE_DELAY
	GraceDelay time.Duration `env:"GRACE_DELAY"`

	// LongBackground is the background duration beyond which the
	// foreground catch-up sync fires immediately instead of after
	// GraceDelay.
	// Env: SYNC_LONG_BACKGROUND
	LongBackground time.Duration `env:"LONG_BACKGROUND"`

	// PageLimit is the default page size for entity fetches.
	// Env: SYNC_PAGE_LIMIT
	PageLimit int `env:"PAGE_LIMIT"`

	// MaxPages caps how many pages a single entity fetch may walk before
	// the run is aborted as a server-side paging fault.
	// Env: SYNC_MAX_PAGES
	MaxPages int `env:"MAX_PAGES"`

	// DashboardMaxAge is how old a cached dashboard summary may be before
	// a refresh bypasses the cache.
	// Env: SYNC_DASHBOARD_MAX_AGE
	DashboardMaxAge time.Duration `env:"DASHBOARD_MAX_AGE"`

	// EventBuffer is the channel buffer size handed to event subscribers.
	// Env: SYNC_EVENT_BUFFER
	EventBuffer int `env:"EVENT_BUFFER"`
}

// Server holds network and timeout settings for the local control API.
type Server struct {
	// Address is the TCP address on which the control API listens,
	// in "host:port" format (e.g. "127.0.0.1:8090").
	// Env: SERVER_ADDRESS
	Address string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Log holds log output settings.
type Log struct {
	// File is the log file path. Empty means stdout. Non-empty enables
	// size-based rotation.
	// Env: LOG_FILE
	File string `env:"FILE"`

	// MaxSizeMB bounds a single log file before rotation.
	// Env: LOG_MAX_SIZE_MB
	MaxSizeMB int `env:"MAX_SIZE_MB"`

	// MaxBackups bounds how many rotated log files are kept.
	// Env: LOG_MAX_BACKUPS
	MaxBackups int `env:"MAX_BACKUPS"`
}

// Entity describes one synced server collection as configured.
type Entity struct {
	// Name is the entity identifier (e.g. "leads").
	Name string `json:"name"`

	// Endpoint is the server path for the entity's paginated list.
	Endpoint string `json:"endpoint"`

	// MetadataKey overrides the sync metadata key; empty means Name.
	MetadataKey string `json:"metadata_key,omitempty"`

	// PageLimit overrides the default page size for this entity.
	PageLimit int `json:"page_limit,omitempty"`
}

// GetStructuredConfig loads and merges the agent configuration from all
// available sources in the following priority order (an earlier source wins
// for any field it sets):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load.
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
