// Package sqlite is the embedded single-file backend of the progress store.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the database file at path, creating its directory if
// needed. ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sqlx.ConnectContext(ctx, "sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	// SQLite has a single writer; one connection also keeps :memory: shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db sqlx.ExecerContext) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS user_progress (
			session_id TEXT      NOT NULL,
			key        TEXT      NOT NULL,
			payload    TEXT      NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (session_id, key)
		)
	`)
	if err != nil {
		return fmt.Errorf("create user_progress table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS activity_logs (
			id         TEXT      PRIMARY KEY,
			session_id TEXT      NOT NULL,
			action     TEXT      NOT NULL,
			detail     TEXT      NOT NULL DEFAULT '',
			log_type   TEXT      NOT NULL,
			log_level  TEXT      NOT NULL,
			created_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("create activity_logs table: %w", err)
	}

	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_activity_logs_created_at ON activity_logs (created_at)`)
	if err != nil {
		return fmt.Errorf("create activity index: %w", err)
	}

	return nil
}
