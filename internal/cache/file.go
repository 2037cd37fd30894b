package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"todotrack/internal/service"
)

// FileCache keeps the snapshot in a JSON file.
type FileCache struct {
	path string
}

// NewFileCache creates a file-backed cache at path.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path}
}

// Path returns the snapshot file path.
func (c *FileCache) Path() string { return c.path }

// Load implements Cache. A missing file means no snapshot.
func (c *FileCache) Load(ctx context.Context) ([]service.Task, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeOrClear(ctx, c, data)
}

// Save implements Cache. The file is replaced atomically.
func (c *FileCache) Save(ctx context.Context, tasks []service.Task) error {
	data, err := encode(tasks)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("write snapshot temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("rename snapshot file: %w", err)
	}
	return nil
}

// Clear implements Cache.
func (c *FileCache) Clear(ctx context.Context) error {
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Close implements Cache.
func (c *FileCache) Close() error { return nil }
