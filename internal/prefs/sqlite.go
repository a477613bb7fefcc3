package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS preferences (
    pref_key   TEXT PRIMARY KEY,
    value      INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
)`

// SQLiteStore keeps preferences in a SQLite database file.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLite opens (creating if needed) the preference database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetInt implements Store.
func (s *SQLiteStore) GetInt(ctx context.Context, key string) (int, bool, error) {
	if s == nil || s.sqlDB == nil {
		return 0, false, fmt.Errorf("storage is not configured")
	}
	if key == "" {
		return 0, false, ErrKeyRequired
	}

	var v int64
	err := s.sqlDB.QueryRowContext(ctx, `SELECT value FROM preferences WHERE pref_key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get preference %s: %w", key, err)
	}
	return int(v), true, nil
}

// PutInt implements Store.
func (s *SQLiteStore) PutInt(ctx context.Context, key string, value int) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if key == "" {
		return ErrKeyRequired
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO preferences (pref_key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(pref_key) DO UPDATE SET
		    value = excluded.value,
		    updated_at = excluded.updated_at`,
		key, int64(value), time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("put preference %s: %w", key, err)
	}
	return nil
}
