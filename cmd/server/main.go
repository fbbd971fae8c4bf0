// Package main implements the entry point for the LexVault API server,
// which schedules spaced-repetition vocabulary reviews and serves the
// interactive review session API.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"

	"github.com/lexvault/lexvault-api/internal/config"
	"github.com/lexvault/lexvault-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, assembles the application, and serves until
// shutdown.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"batch_size", cfg.Review.BatchSize)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.startHTTPServer(context.Background(), app.setupRouter())
}
