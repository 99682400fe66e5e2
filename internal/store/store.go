// Package store caches collected records in SQLite so forecasts can run
// offline.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	collected_at  TEXT    NOT NULL,
	current_level INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS level_attempts (
	snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	level        INTEGER NOT NULL,
	started_at   TEXT    NOT NULL,
	passed_at    TEXT,
	abandoned_at TEXT
);
CREATE TABLE IF NOT EXISTS review_items (
	snapshot_id  INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	item_id      INTEGER NOT NULL,
	item_type    TEXT    NOT NULL,
	level        INTEGER NOT NULL,
	stage        INTEGER NOT NULL,
	started_at   TEXT,
	available_at TEXT,
	mastered_at  TEXT
);
CREATE TABLE IF NOT EXISTS review_outcomes (
	snapshot_id       INTEGER NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	item_id           INTEGER NOT NULL,
	meaning_correct   INTEGER NOT NULL,
	meaning_incorrect INTEGER NOT NULL,
	reading_correct   INTEGER NOT NULL,
	reading_incorrect INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_level_attempts_snapshot ON level_attempts(snapshot_id);
CREATE INDEX IF NOT EXISTS idx_review_items_snapshot ON review_items(snapshot_id);
CREATE INDEX IF NOT EXISTS idx_review_outcomes_snapshot ON review_outcomes(snapshot_id);
`

// Store is the SQLite record cache.
type Store struct {
	db *sql.DB
}

// Open connects to the SQLite database at dsn, applies pragmas and
// creates the tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.ExecContext(context.Background(), schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LEVELCAST_DB environment variable
// 2. $XDG_DATA_HOME/levelcast/levelcast.db
// 3. ~/.local/share/levelcast/levelcast.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LEVELCAST_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "levelcast", "levelcast.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
