// Package cache persists a snapshot of the task list for degraded mode.
//
// The snapshot lives in a single slot under a fixed key. It is never
// authoritative while a working remote exists; the tracker only writes it
// when the remote is unconfigured or the last remote load failed.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"todotrack/internal/service"
)

// Key is the fixed slot name the snapshot is stored under.
const Key = "googleSheetTodos"

// Driver names accepted by Open.
const (
	DriverFile   = "file"
	DriverNutsDB = "nutsdb"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// ErrCorrupted is returned by Load when the stored snapshot could not be
// decoded. The slot has already been cleared when this is returned.
var ErrCorrupted = errors.New("cached snapshot is corrupted")

// Cache reads and writes the task snapshot.
type Cache interface {
	// Load returns the stored snapshot, or nil if there is none.
	Load(ctx context.Context) ([]service.Task, error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, tasks []service.Task) error

	// Clear removes the stored snapshot.
	Clear(ctx context.Context) error

	// Close releases the underlying resources.
	Close() error
}

// Open opens the cache driver by name, rooted at dir.
func Open(driver, dir string) (Cache, error) {
	switch driver {
	case DriverFile, "":
		return NewFileCache(filepath.Join(dir, Key+".json")), nil
	case DriverNutsDB:
		return NewNutsDBCache(filepath.Join(dir, "nutsdb"))
	case DriverSQLite:
		return NewSQLiteCache(filepath.Join(dir, "cache.db"))
	case DriverMemory:
		return NewMemoryCache(), nil
	}
	return nil, fmt.Errorf("unknown cache driver: %s", driver)
}

func encode(tasks []service.Task) ([]byte, error) {
	if tasks == nil {
		tasks = []service.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

func decode(data []byte) ([]service.Task, error) {
	var tasks []service.Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	if tasks == nil {
		// "null" is not a usable snapshot either.
		return nil, errors.New("snapshot is null")
	}
	for i := range tasks {
		if tasks[i].Skills == nil {
			tasks[i].Skills = service.Skills{}
		}
	}
	return tasks, nil
}

// decodeOrClear decodes raw slot contents. On failure it clears the slot
// and returns ErrCorrupted.
func decodeOrClear(ctx context.Context, c Cache, data []byte) ([]service.Task, error) {
	tasks, err := decode(data)
	if err == nil {
		return tasks, nil
	}
	if clearErr := c.Clear(ctx); clearErr != nil {
		return nil, fmt.Errorf("clear corrupted snapshot: %w", clearErr)
	}
	return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
}
