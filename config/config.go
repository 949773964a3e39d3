package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Snapshot sources.
const (
	SnapshotBackend = "backend"
	SnapshotLocal   = "local"
)

// Config holds runtime configuration for the backend connection and app
// behavior. Fields may be loaded from a JSON, TOML or YAML file and
// overridden by SAWBOT_* environment variables.
type Config struct {
	Debug    bool   `json:"debug" toml:"debug" yaml:"debug"`
	LogLevel string `json:"log_level" toml:"log_level" yaml:"log_level"`

	// Backend automation engine
	BackendURL       string `json:"backend_url" toml:"backend_url" yaml:"backend_url"`
	BackendSecret    string `json:"backend_secret,omitempty" toml:"backend_secret" yaml:"backend_secret"`
	RequestTimeoutMs int    `json:"request_timeout_ms" toml:"request_timeout_ms" yaml:"request_timeout_ms"`

	// Storage
	PreferencesPath string `json:"preferences_path" toml:"preferences_path" yaml:"preferences_path"`
	HistoryPath     string `json:"history_path" toml:"history_path" yaml:"history_path"`

	// Area selection
	SnapshotSource string `json:"snapshot_source" toml:"snapshot_source" yaml:"snapshot_source"`

	// Global hotkeys
	ConsoleHotkey string `json:"console_hotkey" toml:"console_hotkey" yaml:"console_hotkey"`
	CancelHotkey  string `json:"cancel_hotkey" toml:"cancel_hotkey" yaml:"cancel_hotkey"`

	// Emergency alert
	AlertMillis   int  `json:"alert_ms" toml:"alert_ms" yaml:"alert_ms"`
	DesktopNotify bool `json:"desktop_notify" toml:"desktop_notify" yaml:"desktop_notify"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:            false,
		LogLevel:         "info",
		BackendURL:       "ws://127.0.0.1:8765/ws",
		RequestTimeoutMs: 5000,
		PreferencesPath:  "preferences.json",
		HistoryPath:      "history.db",
		SnapshotSource:   SnapshotBackend,
		ConsoleHotkey:    "f10",
		CancelHotkey:     "esc",
		AlertMillis:      1500,
		DesktopNotify:    true,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	def := DefaultConfig()
	if _, err := ParseLevel(c.LogLevel); err != nil {
		c.LogLevel = def.LogLevel
	}
	c.LogLevel = strings.ToLower(c.LogLevel)
	if strings.TrimSpace(c.BackendURL) == "" {
		c.BackendURL = def.BackendURL
	}
	if !strings.HasPrefix(c.BackendURL, "ws://") && !strings.HasPrefix(c.BackendURL, "wss://") {
		return fmt.Errorf("backend_url must be a ws:// or wss:// URL, got %q", c.BackendURL)
	}
	if c.RequestTimeoutMs <= 0 {
		c.RequestTimeoutMs = def.RequestTimeoutMs
	}
	if c.RequestTimeoutMs > 60000 {
		c.RequestTimeoutMs = 60000
	}
	if c.PreferencesPath == "" {
		c.PreferencesPath = def.PreferencesPath
	}
	if c.HistoryPath == "" {
		c.HistoryPath = def.HistoryPath
	}
	switch c.SnapshotSource {
	case SnapshotBackend, SnapshotLocal:
	default:
		c.SnapshotSource = def.SnapshotSource
	}
	if c.ConsoleHotkey == "" {
		c.ConsoleHotkey = def.ConsoleHotkey
	}
	if c.CancelHotkey == "" {
		c.CancelHotkey = def.CancelHotkey
	}
	if c.AlertMillis <= 0 || c.AlertMillis > 10000 {
		c.AlertMillis = def.AlertMillis
	}
	return nil
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	if c.Debug && lvl > slog.LevelDebug {
		return slog.LevelDebug
	}
	return lvl
}

func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(strings.TrimSpace(s)))
	return lvl, err
}

// Load reads configuration from path, choosing the format by extension
// (.json, .toml, .yaml/.yml). If the file does not exist it returns
// DefaultConfig() with environment overrides applied. On parse error it
// returns defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.ApplyEnv()
			_ = cfg.Validate()
			return cfg, nil
		}
		return cfg, err
	}
	if err := decode(path, data, cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
