package cache

import (
	"context"

	"todotrack/internal/service"
)

// MemoryCache keeps the raw snapshot bytes in memory.
type MemoryCache struct {
	data []byte
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

// SetRaw stores raw bytes in the slot, bypassing encoding.
func (c *MemoryCache) SetRaw(data []byte) {
	c.data = append([]byte(nil), data...)
}

// Raw returns the raw slot contents, or nil if empty.
func (c *MemoryCache) Raw() []byte {
	return c.data
}

// Load implements Cache.
func (c *MemoryCache) Load(ctx context.Context) ([]service.Task, error) {
	if c.data == nil {
		return nil, nil
	}
	return decodeOrClear(ctx, c, c.data)
}

// Save implements Cache.
func (c *MemoryCache) Save(ctx context.Context, tasks []service.Task) error {
	data, err := encode(tasks)
	if err != nil {
		return err
	}
	c.data = data
	return nil
}

// Clear implements Cache.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.data = nil
	return nil
}

// Close implements Cache.
func (c *MemoryCache) Close() error { return nil }
