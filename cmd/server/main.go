// Package main is the entry point for the donation hub API server.
//
// The main package stays small: it loads configuration, builds the logger,
// and hands both to internal/server. Everything else lives in internal/.
package main

import (
	"log/slog"
	"os"

	"github.com/sakif/donation-hub/internal/config"
	"github.com/sakif/donation-hub/internal/server"
)

func main() {
	// === 1. CONFIGURATION ===
	// .env, config.yml and the environment, in that order of precedence
	// (environment wins). See internal/config.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 2. LOGGING ===
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		slog.Error("invalid LOG_LEVEL", slog.String("value", cfg.LogLevel))
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// === 3. CREATE AND START THE SERVER ===
	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT or SIGTERM, then drains requests and closes
	// the store.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
