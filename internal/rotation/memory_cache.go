package rotation

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is an in-process LRU cache with expiring entries.
type MemoryCache struct {
	lru *expirable.LRU[string, string]
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a MemoryCache holding at most size entries for ttl each.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		lru: expirable.NewLRU[string, string](size, nil, ttl),
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := c.lru.Get(key)
	return value, ok, nil
}

// Set implements Cache.
func (c *MemoryCache) Set(_ context.Context, key, value string) error {
	c.lru.Add(key, value)
	return nil
}
