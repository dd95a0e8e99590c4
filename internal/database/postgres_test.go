package database

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/manor5/electraSIR/internal/config"
)

// Test configuration for local PostgreSQL
func getTestConfig() config.DatabaseConfig {
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

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// connectOrSkip opens a pool or skips when no database is reachable.
func connectOrSkip(t *testing.T) *Database {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewPostgresPool(ctx, getTestConfig())
	if err != nil {
		t.Skipf("Skipping integration test, database unavailable: %v", err)
	}
	return db
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{
		Host: "db", Port: "5433", Name: "electra", User: "roll", Password: "p@ss:word",
	})

	if !strings.HasPrefix(dsn, "postgres://roll:") {
		t.Errorf("Expected postgres scheme with user, got %s", dsn)
	}
	if !strings.Contains(dsn, "@db:5433/electra") {
		t.Errorf("Expected host, port and database in DSN, got %s", dsn)
	}
	if strings.Contains(dsn, "p@ss:word") {
		t.Errorf("Expected password to be escaped, got %s", dsn)
	}
	if !strings.HasSuffix(dsn, "?sslmode=disable") {
		t.Errorf("Expected sslmode=disable, got %s", dsn)
	}
}

func TestNilDatabase(t *testing.T) {
	var db *Database

	if err := db.Ping(context.Background()); err == nil {
		t.Error("Expected ping on nil database to fail")
	}
	if db.Stats() != nil {
		t.Error("Expected nil stats for nil database")
	}
	// Close on nil must not panic
	db.Close()
}

func TestNewPostgresPool_InvalidHost(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	cfg := getTestConfig()
	cfg.Host = "invalid-host-that-does-not-exist"

	_, err := NewPostgresPool(ctx, cfg)
	if err == nil {
		t.Error("Expected error when connecting to invalid host")
	}
}

func TestPing_Success(t *testing.T) {
	db := connectOrSkip(t)
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestStats(t *testing.T) {
	db := connectOrSkip(t)
	defer db.Close()

	stats := db.Stats()
	if stats == nil {
		t.Fatal("Expected stats to be available")
	}
	if stats.MaxConns() != int32(getTestConfig().PoolMax) {
		t.Errorf("Expected MaxConns %d, got %d", getTestConfig().PoolMax, stats.MaxConns())
	}
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	db := connectOrSkip(t)
	defer db.Close()

	ctx := context.Background()
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("First EnsureSchema failed: %v", err)
	}
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("Second EnsureSchema failed: %v", err)
	}

	var rows int
	if err := db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM operation_counter WHERE id = 1`).Scan(&rows); err != nil {
		t.Fatalf("Failed to read counter row: %v", err)
	}
	if rows != 1 {
		t.Errorf("Expected exactly one counter row, got %d", rows)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := connectOrSkip(t)
	defer db.Close()

	ctx := context.Background()
	boom := errors.New("boom")
	err := db.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `CREATE TABLE tx_rollback_check (v INTEGER)`); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom error, got %v", err)
	}

	var exists bool
	err = db.Pool.QueryRow(ctx, `SELECT to_regclass('tx_rollback_check') IS NOT NULL`).Scan(&exists)
	if err != nil {
		t.Fatalf("Failed to check table: %v", err)
	}
	if exists {
		t.Error("Expected table creation to be rolled back")
	}
}

func TestWithReadOnlyTx_RejectsWrites(t *testing.T) {
	db := connectOrSkip(t)
	defer db.Close()

	ctx := context.Background()
	err := db.WithReadOnlyTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `CREATE TABLE tx_readonly_check (v INTEGER)`)
		return err
	})

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		t.Fatalf("Expected a PostgreSQL error, got %v", err)
	}
	if pgErr.Code != "25006" {
		t.Errorf("Expected read_only_sql_transaction (25006), got %s", pgErr.Code)
	}

	var one int
	err = db.WithReadOnlyTx(ctx, func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, `SELECT 1`).Scan(&one)
	})
	if err != nil || one != 1 {
		t.Errorf("Expected reads to succeed, got %d, %v", one, err)
	}
}
