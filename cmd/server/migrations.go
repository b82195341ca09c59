package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/sophia-api/internal/config"
	"github.com/phrazzld/sophia-api/internal/platform/postgres/migrations"
	"github.com/pressly/goose/v3"
)

// migrationTableName is the table goose uses to track applied migrations.
const migrationTableName = "schema_migrations"

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

// Printf implements the goose.Logger Printf method by forwarding messages to slog.Info.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf implements the goose.Logger Fatalf method by forwarding error messages
// to slog.Error. Unlike the standard Fatalf behavior, this does NOT call os.Exit,
// so main keeps control over process exit.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// handleMigrations executes a migration command against the configured
// database. The migration files are embedded in the binary, so nothing
// needs to be present on disk at runtime.
func handleMigrations(cfg *config.Config, command string) error {
	// A correlation ID ties together all log lines of one migration run
	correlationID := uuid.New().String()
	migrationLogger := slog.Default().With(
		"correlation_id", correlationID,
		"component", "migrations",
		"command", command,
	)

	startTime := time.Now()

	// Validate the command before dialing the database
	switch command {
	case "up", "down", "reset", "status", "version":
	default:
		migrationLogger.Error("Unknown migration command",
			"valid_commands", []string{"up", "down", "reset", "status", "version"})
		return fmt.Errorf(
			"unknown migration command: %s (expected up, down, reset, status, or version)",
			command,
		)
	}

	if cfg.Database.URL == "" {
		migrationLogger.Error("Database URL is empty",
			"resolution", "check SOPHIA_DATABASE_URL or the config file")
		return fmt.Errorf("database URL is empty: check your configuration")
	}

	migrationLogger.Info("Starting migration operation",
		"operation", fmt.Sprintf("goose %s", command),
		"url", maskDatabaseURL(cfg.Database.URL))

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			migrationLogger.Error("Error closing database connection", "error", closeErr)
		}
		migrationLogger.Info("Migration operation completed",
			"duration_ms", time.Since(startTime).Milliseconds())
	}()

	// Migration runs are short-lived, keep the pool small
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf(
			"failed to connect to database: %w (check connection string, credentials, and database availability)",
			err,
		)
	}

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName(migrationTableName)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	switch command {
	case "up":
		migrationLogger.Info("Applying pending migrations")
		err = goose.Up(db, ".")
	case "down":
		migrationLogger.Info("Rolling back one migration version")
		err = goose.Down(db, ".")
	case "reset":
		migrationLogger.Info("Resetting all migrations (roll back to zero)")
		err = goose.Reset(db, ".")
	case "status":
		migrationLogger.Info("Checking migration status")
		err = goose.Status(db, ".")
	case "version":
		migrationLogger.Info("Retrieving current migration version")
		err = goose.Version(db, ".")
	}

	if err != nil {
		return fmt.Errorf("migration command %q failed: %w", command, err)
	}

	migrationLogger.Info("Migration command executed successfully")
	return nil
}

// maskDatabaseURL masks the password in a database URL for safe logging.
func maskDatabaseURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}

	if parsedURL.User != nil {
		username := parsedURL.User.Username()
		parsedURL.User = url.UserPassword(username, "****")
		return parsedURL.String()
	}

	return dbURL
}
