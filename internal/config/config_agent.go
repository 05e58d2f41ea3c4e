package config

import (
	"fmt"
	"time"
)

// Default values applied by [GetAgentConfig] for settings the operator did
// not override.
const (
	DefaultRequestTimeout  = 15 * time.Second
	DefaultRetryCount      = 4
	DefaultRetryBaseDelay  = 1 * time.Second
	DefaultPingInterval    = 30 * time.Second
	DefaultSyncInterval    = 5 * time.Minute
	DefaultJitterFraction  = 0.1
	DefaultMinGap          = 30 * time.Second
	DefaultGraceDelay      = 2 * time.Second
	DefaultLongBackground  = 30 * time.Minute
	DefaultPageLimit       = 25
	DefaultMaxPages        = 40
	DefaultDashboardMaxAge = 10 * time.Minute
	DefaultEventBuffer     = 32
	DefaultServerAddress   = "127.0.0.1:8090"
	DefaultServerTimeout   = 30 * time.Second
	DefaultDBDriver        = "sqlite3"
	DefaultLogMaxSizeMB    = 10
	DefaultLogMaxBackups   = 3
)

// DefaultEntities is the built-in entity set used when the JSON config does
// not list any.
var DefaultEntities = []Entity{
	{Name: "leads", Endpoint: "/api/v1/leads"},
	{Name: "notifications", Endpoint: "/api/v1/notifications"},
}

// AgentApp holds application-level agent settings derived from the shared
// structured config.
type AgentApp struct {
	// Version is the agent version string reported by the control API.
	Version string
	// Token is a static bearer token for the server API.
	Token string
	// TokenFile is a path to a file holding the bearer token.
	TokenFile string
}

// AgentAdapter holds network settings used by the outbound transport layer.
type AgentAdapter struct {
	// BaseURL is the root URL of the server API.
	BaseURL string
	// RequestTimeout is the default timeout for outbound requests.
	RequestTimeout time.Duration
	// RetryCount is the total number of attempts per request.
	RetryCount int
	// RetryBaseDelay is the delay before the first retry.
	RetryBaseDelay time.Duration
	// PingInterval is the reachability probe period.
	PingInterval time.Duration
}

// AgentDB contains local cache database connection settings.
type AgentDB struct {
	// Driver is the database driver name ("sqlite3" or "pgx").
	Driver string
	// DSN is the connection string for the selected driver.
	DSN string
}

// AgentStorage groups agent storage backend settings.
type AgentStorage struct {
	// DB holds local database settings.
	DB AgentDB
}

// AgentSync contains sync pipeline settings with defaults applied.
type AgentSync struct {
	Interval        time.Duration
	JitterFraction  float64
	MinGap          time.Duration
	GraceDelay      time.Duration
	LongBackground  time.Duration
	PageLimit       int
	MaxPages        int
	DashboardMaxAge time.Duration
	EventBuffer     int
	Entities        []Entity
}

// AgentServer contains control API settings.
type AgentServer struct {
	// Address is the TCP address the control API listens on.
	Address string
	// RequestTimeout bounds a single inbound request.
	RequestTimeout time.Duration
}

// AgentLog contains log output settings.
type AgentLog struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// AgentConfig is the top-level agent configuration assembled from
// [StructuredConfig].
type AgentConfig struct {
	// App contains application-level agent settings.
	App AgentApp
	// Adapter contains outbound transport settings.
	Adapter AgentAdapter
	// Storage contains local cache storage settings.
	Storage AgentStorage
	// Sync contains sync pipeline settings.
	Sync AgentSync
	// Server contains control API settings.
	Server AgentServer
	// Log contains log output settings.
	Log AgentLog
}

// GetAgentConfig builds and validates the agent config view from the merged
// structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps the fields
// relevant to the agent runtime, fills unset values with defaults, and
// validates the resulting [AgentConfig].
func GetAgentConfig() (*AgentConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	agentCfg := &AgentConfig{
		App: AgentApp{
			Version:   cfg.App.Version,
			Token:     cfg.App.Token,
			TokenFile: cfg.App.TokenFile,
		},
		Adapter: AgentAdapter{
			BaseURL:        cfg.Adapter.BaseURL,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			RetryCount:     cfg.Adapter.RetryCount,
			RetryBaseDelay: cfg.Adapter.RetryBaseDelay,
			PingInterval:   cfg.Adapter.PingInterval,
		},
		Storage: AgentStorage{
			DB: AgentDB{
				Driver: cfg.Storage.DB.Driver,
				DSN:    cfg.Storage.DB.DSN,
			},
		},
		Sync: AgentSync{
			Interval:        cfg.Sync.Interval,
			JitterFraction:  cfg.Sync.JitterFraction,
			MinGap:          cfg.Sync.MinGap,
			GraceDelay:      cfg.Sync.GraceDelay,
			LongBackground:  cfg.Sync.LongBackground,
			PageLimit:       cfg.Sync.PageLimit,
			MaxPages:        cfg.Sync.MaxPages,
			DashboardMaxAge: cfg.Sync.DashboardMaxAge,
			EventBuffer:     cfg.Sync.EventBuffer,
			Entities:        cfg.Entities,
		},
		Server: AgentServer{
			Address:        cfg.Server.Address,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		Log: AgentLog{
			File:       cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		},
	}

	agentCfg.applyDefaults()

	return agentCfg, agentCfg.validate()
}

// applyDefaults fills zero-valued settings with the package defaults.
// Required settings without a sensible default (base URL, DSN) are left for
// validate to reject.
func (cfg *AgentConfig) applyDefaults() {
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Adapter.RetryCount == 0 {
		cfg.Adapter.RetryCount = DefaultRetryCount
	}
	if cfg.Adapter.RetryBaseDelay == 0 {
		cfg.Adapter.RetryBaseDelay = DefaultRetryBaseDelay
	}
	if cfg.Adapter.PingInterval == 0 {
		cfg.Adapter.PingInterval = DefaultPingInterval
	}
	if cfg.Storage.DB.Driver == "" {
		cfg.Storage.DB.Driver = DefaultDBDriver
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = DefaultSyncInterval
	}
	if cfg.Sync.JitterFraction == 0 {
		cfg.Sync.JitterFraction = DefaultJitterFraction
	}
	if cfg.Sync.MinGap == 0 {
		cfg.Sync.MinGap = DefaultMinGap
	}
	if cfg.Sync.GraceDelay == 0 {
		cfg.Sync.GraceDelay = DefaultGraceDelay
	}
	if cfg.Sync.LongBackground == 0 {
		cfg.Sync.LongBackground = DefaultLongBackground
	}
	if cfg.Sync.PageLimit == 0 {
		cfg.Sync.PageLimit = DefaultPageLimit
	}
	if cfg.Sync.MaxPages == 0 {
		cfg.Sync.MaxPages = DefaultMaxPages
	}
	if cfg.Sync.DashboardMaxAge == 0 {
		cfg.Sync.DashboardMaxAge = DefaultDashboardMaxAge
	}
	if cfg.Sync.EventBuffer == 0 {
		cfg.Sync.EventBuffer = DefaultEventBuffer
	}
	if len(cfg.Sync.Entities) == 0 {
		cfg.Sync.Entities = DefaultEntities
	}
	if cfg.Server.Address == "" {
		cfg.Server.Address = DefaultServerAddress
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultServerTimeout
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = DefaultLogMaxBackups
	}
}
