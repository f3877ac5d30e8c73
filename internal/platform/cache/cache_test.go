package cache

import (
	"testing"
	"time"
)

func TestCacheRoundTrip(t *testing.T) {
	c := New(time.Minute)
	c.Set("worksite:1:entries:2025-03", []int{1, 2, 3})

	value, ok := c.Get("worksite:1:entries:2025-03")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if len(value.([]int)) != 3 {
		t.Fatalf("unexpected cached value: %v", value)
	}
}

func TestCachePurge(t *testing.T) {
	c := New(time.Minute)
	c.Set("k", "v")
	c.Purge()
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss after purge")
	}
}

func TestCacheDisabledWithZeroTTL(t *testing.T) {
	c := New(0)
	c.Set("k", "v")
	if _, ok := c.Get("k"); ok {
		t.Fatal("disabled cache must never hit")
	}
}

func TestNilCacheIsSafe(t *testing.T) {
	var c *Cache
	c.Set("k", "v")
	c.Purge()
	if _, ok := c.Get("k"); ok {
		t.Fatal("nil cache must miss")
	}
}
