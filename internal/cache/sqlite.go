package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"todotrack/internal/service"
)

// SQLiteCache keeps the snapshot in a single-row key/value table.
type SQLiteCache struct {
	db *sql.DB
}

// NewSQLiteCache opens (or creates) a SQLite database at path.
func NewSQLiteCache(path string) (*SQLiteCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect sqlite cache: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Load implements Cache.
func (c *SQLiteCache) Load(ctx context.Context) ([]service.Task, error) {
	var data []byte
	err := c.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, Key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeOrClear(ctx, c, data)
}

// Save implements Cache.
func (c *SQLiteCache) Save(ctx context.Context, tasks []service.Task) error {
	data, err := encode(tasks)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := c.db.ExecContext(ctx, query, Key, data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Clear implements Cache.
func (c *SQLiteCache) Clear(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, Key); err != nil {
		return fmt.Errorf("clear snapshot: %w", err)
	}
	return nil
}

// Close implements Cache.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
