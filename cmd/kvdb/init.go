package main

import (
	"log/slog"
	"os"

	"kvdb/pkg/config"
)

// initLogger настраивает глобальный slog.Logger (JSON или текстовый).
// Logs go to stderr; stdout carries statement output.
func initLogger(cfg *config.Config) error {
	level, err := config.ParseLevel(cfg.Logger.Level)
	if err != nil {
		return err
	}

	opts := &slog.HandlerOptions{Level: level, AddSource: level == slog.LevelDebug}

	var handler slog.Handler
	if cfg.Logger.JSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	return nil
}
