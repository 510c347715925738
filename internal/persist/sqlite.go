// ABOUTME: SQLite implementation of the Sink interface using modernc.org/sqlite
// ABOUTME: Snapshots live in a single key/value table, one row per store

package persist

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteSink stores snapshots as JSON blobs in a SQLite database, one row per
// key.
type SQLiteSink struct {
	db *sql.DB
}

// NewSQLiteSink opens (or creates) a snapshot database at the given path.
// Parent directories are created if needed.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLiteSink{db: db}, nil
}

// Save upserts the snapshot row for key.
func (s *SQLiteSink) Save(ctx context.Context, key string, state any) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshaling snapshot %q: %w", key, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, key, data, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("writing snapshot %q: %w", key, err)
	}
	return nil
}

// Load reads the snapshot row for key into out.
func (s *SQLiteSink) Load(ctx context.Context, key string, out any) (bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM snapshots WHERE key = ?
	`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading snapshot %q: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parsing snapshot %q: %w", key, err)
	}
	return true, nil
}

// Close closes the underlying database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
