package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nutsdb/nutsdb"

	"todotrack/internal/service"
)

const nutsBucket = "todotrack"

// NutsDBCache keeps the snapshot in an embedded NutsDB bucket.
type NutsDBCache struct {
	db *nutsdb.DB
}

// NewNutsDBCache opens (or creates) a NutsDB database in dir.
func NewNutsDBCache(dir string) (*NutsDBCache, error) {
	opts := nutsdb.DefaultOptions
	opts.Dir = dir
	db, err := nutsdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open nutsdb: %w", err)
	}

	if err := db.Update(func(tx *nutsdb.Tx) error {
		return tx.NewBucket(nutsdb.DataStructureBTree, nutsBucket)
	}); err != nil && !errors.Is(err, nutsdb.ErrBucketAlreadyExist) {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &NutsDBCache{db: db}, nil
}

// Load implements Cache.
func (c *NutsDBCache) Load(ctx context.Context) ([]service.Task, error) {
	var data []byte
	err := c.db.View(func(tx *nutsdb.Tx) error {
		v, err := tx.Get(nutsBucket, []byte(Key))
		if err != nil {
			return err
		}
		data = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		if isMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeOrClear(ctx, c, data)
}

// Save implements Cache.
func (c *NutsDBCache) Save(ctx context.Context, tasks []service.Task) error {
	data, err := encode(tasks)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *nutsdb.Tx) error {
		return tx.Put(nutsBucket, []byte(Key), data, nutsdb.Persistent)
	})
}

// Clear implements Cache.
func (c *NutsDBCache) Clear(ctx context.Context) error {
	err := c.db.Update(func(tx *nutsdb.Tx) error {
		return tx.Delete(nutsBucket, []byte(Key))
	})
	if err != nil && !isMissing(err) {
		return err
	}
	return nil
}

// isMissing reports whether a NutsDB read failed only because nothing has
// been written yet. An empty bucket has no index, so lookups fail with
// bucket-level errors rather than ErrKeyNotFound.
func isMissing(err error) bool {
	if errors.Is(err, nutsdb.ErrKeyNotFound) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "empty")
}

// Close implements Cache.
func (c *NutsDBCache) Close() error {
	return c.db.Close()
}
