package db

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

// DriverName is the database/sql name registered by glebarez/go-sqlite.
const DriverName = "sqlite"

const matchSchema = `
CREATE TABLE IF NOT EXISTS matches (
	id          TEXT PRIMARY KEY,
	board_size  INTEGER NOT NULL,
	mode        TEXT NOT NULL,
	players     TEXT NOT NULL,
	winner      INTEGER,
	moves       INTEGER NOT NULL,
	finished_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_matches_finished_at ON matches (finished_at DESC);`

// Connect opens the SQLite database at path and makes sure the schema
// exists. Use ":memory:" for a throwaway database.
func Connect(ctx context.Context, path string) (*sqlx.DB, error) {
	pool, err := sqlx.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	// A single writer keeps SQLite away from "database is locked" and keeps
	// an in-memory database alive across calls.
	pool.SetMaxOpenConns(1)

	if err := InitializeDB(ctx, pool); err != nil {
		_ = pool.Close()
		return nil, err
	}
	slog.DebugContext(ctx, "connected to history database", "db.path", path)
	return pool, nil
}

// InitializeDB creates the match history schema if it doesn't exist.
func InitializeDB(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, matchSchema); err != nil {
		return fmt.Errorf("failed to create matches table: %w", err)
	}
	return nil
}
