// Package config handles configuration loading and validation for pulse.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Identity  IdentityConfig  `yaml:"identity"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Mute      []string        `yaml:"mute"`
	Reconnect ReconnectConfig `yaml:"reconnect"`
	TUI       TUIConfig       `yaml:"tui"`
	Database  DatabaseConfig  `yaml:"database"`
	DataDir   string          `yaml:"-"` // set by caller, not from config file
}

// ServerConfig points at the marketplace services.
type ServerConfig struct {
	// SocketURL is the websocket endpoint of the notification service.
	SocketURL string `yaml:"socket_url"`
	// APIURL is the REST base used for feed hydration.
	APIURL string `yaml:"api_url"`
}

// IdentityConfig is the signed-in session identity.
type IdentityConfig struct {
	// UserID is passed as connection metadata when the socket opens.
	UserID string `yaml:"user_id"`
	// Email scopes private events to this session.
	Email string `yaml:"email"`
}

// AlertsConfig controls desktop popups and the audio cue.
type AlertsConfig struct {
	// Sound enables the audio cue. The cue itself is fixed.
	Sound *bool `yaml:"sound"`
	// Icon is an optional icon path for popups.
	Icon string `yaml:"icon"`
}

// SoundEnabled resolves the sound toggle, defaulting to on.
func (a AlertsConfig) SoundEnabled() bool {
	return a.Sound == nil || *a.Sound
}

// ReconnectConfig controls the headless watcher's reconnect loop. The
// session manager itself never retries; this loop re-invokes it.
type ReconnectConfig struct {
	Enabled     *bool         `yaml:"enabled"`
	MaxAttempts int           `yaml:"max_attempts"`
	BaseDelay   time.Duration `yaml:"base_delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
}

// ReconnectEnabled resolves the toggle, defaulting to on.
func (r ReconnectConfig) ReconnectEnabled() bool {
	return r.Enabled == nil || *r.Enabled
}

// TUIConfig holds display settings.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DatabaseConfig holds archive connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns int `yaml:"max_open_conns"`
	MaxIdleConns int `yaml:"max_idle_conns"`
	BusyTimeout  int `yaml:"busy_timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			SocketURL: "wss://notify.careerhub.example/socket",
			APIURL:    "https://api.careerhub.example",
		},
		Reconnect: ReconnectConfig{
			MaxAttempts: 10,
			BaseDelay:   time.Second,
			MaxDelay:    2 * time.Minute,
		},
		TUI: TUIConfig{Theme: "tokyo-night"},
		Database: DatabaseConfig{
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			BusyTimeout:  5000,
		},
	}
}

// Load reads the config file, applies defaults, validates, and injects the
// data dir. A missing config file is fine; defaults apply.
func Load(path, dataDir string) (*Config, error) {
	cfg := Default()
	cfg.DataDir = dataDir

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyDefaults backfills zero values the yaml decode may have cleared.
func applyDefaults(cfg *Config) {
	def := Default()

	if cfg.Server.SocketURL == "" {
		cfg.Server.SocketURL = def.Server.SocketURL
	}
	if cfg.Server.APIURL == "" {
		cfg.Server.APIURL = def.Server.APIURL
	}
	if cfg.Reconnect.MaxAttempts == 0 {
		cfg.Reconnect.MaxAttempts = def.Reconnect.MaxAttempts
	}
	if cfg.Reconnect.BaseDelay == 0 {
		cfg.Reconnect.BaseDelay = def.Reconnect.BaseDelay
	}
	if cfg.Reconnect.MaxDelay == 0 {
		cfg.Reconnect.MaxDelay = def.Reconnect.MaxDelay
	}
	if cfg.TUI.Theme == "" {
		cfg.TUI.Theme = def.TUI.Theme
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = def.Database.MaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = def.Database.MaxIdleConns
	}
	if cfg.Database.BusyTimeout == 0 {
		cfg.Database.BusyTimeout = def.Database.BusyTimeout
	}
}
