package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const DefaultMemoryCacheSize = 10000

// MemoryCache is an in-process Cache, the oldest entries are evicted once size is reached
type MemoryCache struct {
	entries *expirable.LRU[string, []byte]
}

func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = DefaultMemoryCacheSize
	}
	return &MemoryCache{entries: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	c.entries.Add(key, stored)
	return nil
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	value, ok := c.entries.Get(key)
	return value, ok, nil
}

func (c *MemoryCache) Touch(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// Values are never modified after Set, concurrent touches re-add the same value
	if value, ok := c.entries.Get(key); ok {
		c.entries.Add(key, value)
	}
	return nil
}
