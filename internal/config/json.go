package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly duration parsing. It exists so the on-disk format can use
// human-readable durations ("5m", "30s") while the merged config keeps
// time.Duration fields.
type StructuredJSONConfig struct {
	App struct {
		Version   string `json:"version"`
		Token     string `json:"token"`
		TokenFile string `json:"token_file"`
	} `json:"app,omitempty"`

	Adapter struct {
		BaseURL        string   `json:"base_url"`
		RequestTimeout Duration `json:"request_timeout"`
		RetryCount     int      `json:"retry_count"`
		RetryBaseDelay Duration `json:"retry_base_delay"`
		PingInterval   Duration `json:"ping_interval"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			Driver string `json:"driver"`
			DSN    string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Sync struct {
		Interval        Duration `json:"interval"`
		JitterFraction  float64  `json:"jitter_fraction"`
		MinGap          Duration `json:"min_gap"`
		GraceDelay      Duration `json:"grace_delay"`
		LongBackground  Duration `json:"long_background"`
		PageLimit       int      `json:"page_limit"`
		MaxPages        int      `json:"max_pages"`
		DashboardMaxAge Duration `json:"dashboard_max_age"`
		EventBuffer     int      `json:"event_buffer"`
	} `json:"sync,omitempty"`

	Server struct {
		Address        string   `json:"address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Log struct {
		File       string `json:"file"`
		MaxSizeMB  int    `json:"max_size_mb"`
		MaxBackups int    `json:"max_backups"`
	} `json:"log,omitempty"`

	Entities []Entity `json:"entities,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Version:   jsonCfg.App.Version,
			Token:     jsonCfg.App.Token,
			TokenFile: jsonCfg.App.TokenFile,
		},
		Adapter: Adapter{
			BaseURL:        jsonCfg.Adapter.BaseURL,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			RetryCount:     jsonCfg.Adapter.RetryCount,
			RetryBaseDelay: time.Duration(jsonCfg.Adapter.RetryBaseDelay),
			PingInterval:   time.Duration(jsonCfg.Adapter.PingInterval),
		},
		Storage: Storage{
			DB: DB{
				Driver: jsonCfg.Storage.DB.Driver,
				DSN:    jsonCfg.Storage.DB.DSN,
			},
		},
		Sync: Sync{
			Interval:        time.Duration(jsonCfg.Sync.Interval),
			JitterFraction:  jsonCfg.Sync.JitterFraction,
			MinGap:          time.Duration(jsonCfg.Sync.MinGap),
			GraceDelay:      time.Duration(jsonCfg.Sync.GraceDelay),
			LongBackground:  time.Duration(jsonCfg.Sync.LongBackground),
			PageLimit:       jsonCfg.Sync.PageLimit,
			MaxPages:        jsonCfg.Sync.MaxPages,
			DashboardMaxAge: time.Duration(jsonCfg.Sync.DashboardMaxAge),
			EventBuffer:     jsonCfg.Sync.EventBuffer,
		},
		Server: Server{
			Address:        jsonCfg.Server.Address,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Log: Log{
			File:       jsonCfg.Log.File,
			MaxSizeMB:  jsonCfg.Log.MaxSizeMB,
			MaxBackups: jsonCfg.Log.MaxBackups,
		},
		Entities:     jsonCfg.Entities,
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
