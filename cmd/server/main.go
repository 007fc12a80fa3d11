// Package main implements the entry point for the userdir API server,
// which manages a user directory with token-based authentication backed
// by PostgreSQL stored routines and a Redis revocation list.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/userdir-io/userdir/internal/config"
	"github.com/userdir-io/userdir/internal/platform/logger"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply pending database migrations before starting")
	flag.Parse()

	if err := run(*migrate); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}
}

// run loads configuration, wires dependencies and starts the HTTP server.
// Split out of main so initialization failures surface as errors.
func run(migrate bool) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if migrate {
		if err := runMigrations(db, appLogger); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	ctx := context.Background()

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// loadAppConfig loads the application configuration from environment
// variables or a config file and logs the non-sensitive parts.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	if cfg.Database.URL != "" {
		slog.Debug("Database configuration", "url_present", true)
	}
	if cfg.Auth.JWTSecret != "" {
		slog.Debug("Auth configuration", "jwt_secret_present", true)
	}

	return cfg, nil
}
