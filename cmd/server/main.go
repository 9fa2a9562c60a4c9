// Package main is the entry point for the tutorial hub API server.
//
// The main package is kept minimal — its job is to:
//  1. Read configuration from the environment
//  2. Create the logger
//  3. Build and start the server
//
// All actual logic lives in imported packages (internal/server,
// internal/service, etc.).
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/sakif/tutorial-hub/internal/config"
	"github.com/sakif/tutorial-hub/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := config.Load()

	// JWT_SECRET has no safe default — refuse to start without it. A random
	// value would "work" but silently invalidate every token on restart.
	// Generate one with: openssl rand -hex 32
	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	// Bound the Mongo connect/ping so a wrong MONGO_URL fails fast instead
	// of hanging the process.
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	srv, err := server.New(ctx, cfg, logger)
	cancel()
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start() blocks until the server is shut down (via Ctrl+C or SIGTERM)
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
