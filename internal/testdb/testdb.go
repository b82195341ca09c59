// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Tests using it skip automatically when no database is
// configured, so the default test run stays self-contained.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // Register pgx driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/sophia-api/internal/platform/postgres/migrations"
)

// connectTimeout bounds the initial ping so a missing database fails fast
// instead of hanging the test run.
const connectTimeout = 5 * time.Second

// GetTestDatabaseURL returns the connection string for the integration
// test database. It checks DATABASE_URL first, then SOPHIA_TEST_DB_URL,
// returning the first non-empty value. An empty result means no test
// database is configured.
func GetTestDatabaseURL() string {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("SOPHIA_TEST_DB_URL")
	}
	return dbURL
}

// Connect opens a connection to the integration test database, skipping
// the test when none is configured. The connection closes automatically
// when the test finishes.
func Connect(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := GetTestDatabaseURL()
	if dbURL == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "Failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "Failed to ping test database")

	return db
}

// SetupTestDatabaseSchema applies the embedded migrations to the test
// database. Goose records applied versions in schema_migrations, so
// calling this from multiple tests is safe.
func SetupTestDatabaseSchema(t *testing.T, db *sql.DB) {
	t.Helper()

	goose.SetLogger(&testGooseLogger{t: t})
	goose.SetBaseFS(migrations.FS)
	goose.SetTableName("schema_migrations")
	require.NoError(t, goose.SetDialect("postgres"), "Failed to set goose dialect")
	require.NoError(t, goose.Up(db, "."), "Failed to run migrations")
}

// WithTx runs fn inside a transaction that is always rolled back, so
// tests sharing a database never see each other's rows.
func WithTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "Failed to begin test transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Errorf("Failed to roll back test transaction: %v", err)
		}
	}()

	fn(tx)
}

// testGooseLogger routes goose output through the test log so migration
// noise only shows up for failing or verbose runs.
type testGooseLogger struct {
	t *testing.T
}

func (l *testGooseLogger) Printf(format string, v ...interface{}) {
	l.t.Logf(format, v...)
}

func (l *testGooseLogger) Fatalf(format string, v ...interface{}) {
	l.t.Fatalf(format, v...)
}
