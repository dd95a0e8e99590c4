// Package testutil provides PostgreSQL fixtures for integration tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/manor5/electraSIR/internal/config"
	"github.com/manor5/electraSIR/internal/database"
)

// Fixture table names created by SetupTestDB.
const (
	VotersTable  = "electors_fixture"
	MissingTable = "missing_fixture"
)

// TestDatabaseConfig reads connection settings from the environment with
// local defaults.
func TestDatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		Name:     getEnvOrDefault("DB_NAME", "electra_test"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		PoolMin:  1,
		PoolMax:  5,
	}
}

// SetupTestDB connects to the test database, recreates the roll fixtures
// and the application schema. The test is skipped in short mode or when no
// database is reachable.
func SetupTestDB(t *testing.T) *database.Database {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.NewPostgresPool(ctx, TestDatabaseConfig())
	if err != nil {
		t.Skipf("Skipping integration test, database unavailable: %v", err)
	}
	t.Cleanup(db.Close)

	_, err = db.Pool.Exec(ctx, `
		DROP TABLE IF EXISTS `+VotersTable+`;
		DROP TABLE IF EXISTS `+MissingTable+`;

		CREATE TABLE `+VotersTable+` (
			id            SERIAL PRIMARY KEY,
			sequence      INTEGER,
			serial_no     INTEGER,
			name          TEXT NOT NULL,
			relation      TEXT,
			relative_name TEXT,
			gender        TEXT,
			age           INTEGER,
			epic          TEXT,
			booth_no      INTEGER,
			door_no       TEXT,
			constituency  INTEGER
		);

		CREATE TABLE `+MissingTable+` (
			id           SERIAL PRIMARY KEY,
			localid      TEXT,
			ac           TEXT,
			part         TEXT,
			serial       TEXT,
			epic         TEXT,
			name         TEXT,
			gender       TEXT,
			relname      TEXT,
			rln_type     TEXT,
			age          INTEGER,
			name_tam     TEXT,
			relname_tam  TEXT,
			is_completed BOOLEAN DEFAULT FALSE,
			is_mapped    BOOLEAN NOT NULL DEFAULT FALSE,
			constituency TEXT,
			booth_no     INTEGER,
			serial_no    INTEGER,
			best_match   TEXT
		);
	`)
	if err != nil {
		t.Fatalf("Failed to prepare fixtures: %v", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, `DELETE FROM saved_queries`); err != nil {
		t.Fatalf("Failed to clear saved queries: %v", err)
	}

	return db
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
