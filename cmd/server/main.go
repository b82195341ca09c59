// Package main implements the entry point for the Sophia API server,
// which generates philosophical quotes with Gemini, pairs them with
// images, and serves them over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/phrazzld/sophia-api/internal/config"
	"github.com/phrazzld/sophia-api/internal/platform/logger"
)

// main initializes configuration, logging, and the database connection,
// then either runs a migration command or starts the HTTP server.
func main() {
	// Load a local .env file when present. Deployed environments
	// configure through real environment variables, so a missing file
	// is not an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	migrateCmd := flag.String("migrate", "",
		"Run a migration command (up, down, status, version, reset) and exit")
	flag.Parse()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	// Migration commands run instead of the server, not before it.
	if *migrateCmd != "" {
		if err := handleMigrations(cfg, *migrateCmd); err != nil {
			appLogger.Error("Migration failed",
				"command", *migrateCmd,
				"error", err)
			os.Exit(1)
		}
		return
	}

	ctx := context.Background()

	db, err := setupAppDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	app, err := newApplication(ctx, cfg, appLogger, db)
	if err != nil {
		appLogger.Error("Failed to initialize application", "error", err)
		if closeErr := db.Close(); closeErr != nil {
			appLogger.Error("Error closing database connection", "error", closeErr)
		}
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		appLogger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration and sets up structured logging.
// Returns the loaded config, the configured logger, and any error.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"base_url", cfg.Server.BaseURL)

	return cfg, appLogger, nil
}
