package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache memoizes read-side query results keyed by query identity. It is a
// pure performance layer: every successful write purges it, and a zero TTL
// disables it entirely.
type Cache struct {
	lru *expirable.LRU[string, any]
}

func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		return &Cache{}
	}
	return &Cache{lru: expirable.NewLRU[string, any](1024, nil, ttl)}
}

func (c *Cache) Get(key string) (any, bool) {
	if c == nil || c.lru == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

func (c *Cache) Set(key string, value any) {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Add(key, value)
}

// Purge drops every cached result. Called after any successful write so a
// read following a write in the same request never sees a stale row.
func (c *Cache) Purge() {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Purge()
}
