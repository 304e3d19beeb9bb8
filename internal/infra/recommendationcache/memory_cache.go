package recommendationcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/yanqian/lawn-advisor/internal/domain/recommendation"
)

const defaultMemoryEntries = 512

// MemoryCache is an in-process LRU with a single expiry for every entry.
type MemoryCache struct {
	lru *expirable.LRU[string, string]
}

// NewMemoryCache builds a cache holding up to size entries for ttl each.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = defaultMemoryEntries
	}
	return &MemoryCache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	text, ok := c.lru.Get(key)
	return text, ok, nil
}

// Set stores value. The per-call ttl is ignored in favour of the ttl fixed at construction.
func (c *MemoryCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.lru.Add(key, value)
	return nil
}

// Len reports the number of live entries.
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

var _ recommendation.Cache = (*MemoryCache)(nil)
