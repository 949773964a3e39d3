package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/soocke/sawbot-go/app"
	"github.com/soocke/sawbot-go/config"
	"github.com/soocke/sawbot-go/domain/action"
)

func main() {
	cfgPath := flag.String("config", "", "path to a .json, .toml or .yaml config file (env SAWBOT_CONFIG)")
	flag.Parse()

	// Bootstrap logger until the configured level is known.
	level := new(slog.LevelVar)
	logger := NewLogger(level)

	if err := config.LoadDotEnv(config.DotEnvPath()); err != nil {
		logger.Warn("load .env", "error", err)
	}
	path := *cfgPath
	if path == "" {
		path = os.Getenv("SAWBOT_CONFIG")
	}
	if path == "" {
		path = "config.json"
	}

	cfg, err := config.Load(path)
	if err != nil {
		logger.Warn("config load failed, using defaults", "path", path, "error", err)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid config:", err)
		os.Exit(2)
	}
	level.Set(cfg.Level())

	if err := action.EnableDPIAwareness(); err != nil {
		logger.Warn("DPI awareness not enabled", "error", err)
	}

	application := app.NewApp(cfg, path, logger, level)
	application.Start()
}
