package main

import (
	"log/slog"
	"os"
)

// NewLogger returns a structured slog.Logger. Passing a *slog.LevelVar lets
// the level change at runtime.
func NewLogger(level slog.Leveler) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
