package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SAWBOT_"

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		_, err := toml.Decode(string(data), cfg)
		return err
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		return dec.Decode(cfg)
	}
}

// LoadDotEnv loads KEY=VALUE pairs from a .env file into the process
// environment without overriding variables that are already set. A missing
// file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// DotEnvPath returns the .env path next to the executable, falling back to
// the working directory.
func DotEnvPath() string {
	if exe, err := os.Executable(); err == nil {
		p := filepath.Join(filepath.Dir(exe), ".env")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ".env"
}

// ApplyEnv overrides fields from SAWBOT_* environment variables.
func (c *Config) ApplyEnv() {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*dst = n
			}
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
				*dst = b
			}
		}
	}
	flag("DEBUG", &c.Debug)
	str("LOG_LEVEL", &c.LogLevel)
	str("BACKEND_URL", &c.BackendURL)
	str("BACKEND_SECRET", &c.BackendSecret)
	num("REQUEST_TIMEOUT_MS", &c.RequestTimeoutMs)
	str("PREFERENCES_PATH", &c.PreferencesPath)
	str("HISTORY_PATH", &c.HistoryPath)
	str("SNAPSHOT_SOURCE", &c.SnapshotSource)
	str("CONSOLE_HOTKEY", &c.ConsoleHotkey)
	str("CANCEL_HOTKEY", &c.CancelHotkey)
	num("ALERT_MS", &c.AlertMillis)
	flag("DESKTOP_NOTIFY", &c.DesktopNotify)
}

// Watch reloads the configuration file whenever it is written and passes
// the result to onChange. Reload errors go to onError, if set. Watch returns
// once the watcher is installed; it stops when ctx is done.
func Watch(ctx context.Context, path string, onChange func(*Config), onError func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	report := func(err error) {
		if onError != nil {
			onError(err)
		}
	}
	go func() {
		defer w.Close()
		var debounce *time.Timer
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != filepath.Base(path) || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(100*time.Millisecond, func() {
					cfg, err := Load(path)
					if err != nil {
						report(fmt.Errorf("reload config: %w", err))
						return
					}
					onChange(cfg)
				})
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				report(err)
			}
		}
	}()
	return nil
}
