package database

import (
	"context"
	"fmt"
)

// schemaStatements creates the tables this service owns. The voter roll and
// staging tables are loaded externally and are never created here.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS saved_queries (
		id            SERIAL PRIMARY KEY,
		name          TEXT NOT NULL,
		query         TEXT NOT NULL,
		group_name    TEXT,
		display_order INTEGER NOT NULL DEFAULT 0,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_saved_queries_group ON saved_queries (group_name, display_order)`,
	`CREATE TABLE IF NOT EXISTS operation_counter (
		id          INTEGER PRIMARY KEY,
		count_value BIGINT NOT NULL DEFAULT 0
	)`,
	`INSERT INTO operation_counter (id, count_value) VALUES (1, 0) ON CONFLICT (id) DO NOTHING`,
	`CREATE TABLE IF NOT EXISTS app_users (
		id            UUID PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'viewer',
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS app_sessions (
		id         UUID PRIMARY KEY,
		user_id    UUID NOT NULL REFERENCES app_users (id) ON DELETE CASCADE,
		expires_at TIMESTAMPTZ NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_app_sessions_user ON app_sessions (user_id)`,
}

// EnsureSchema idempotently creates the application-owned tables.
func (db *Database) EnsureSchema(ctx context.Context) error {
	for i, stmt := range schemaStatements {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
