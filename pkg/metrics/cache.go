package metrics

import "sync/atomic"

// Cache counts lookups of a memoizing cache.
type Cache struct {
	name   string
	hits   atomic.Int64
	misses atomic.Int64
}

// Hit records a lookup served from the cache.
func (c *Cache) Hit() {
	if Enabled() {
		c.hits.Add(1)
	}
}

// Miss records a lookup that had to be computed.
func (c *Cache) Miss() {
	if Enabled() {
		c.misses.Add(1)
	}
}

// Hits returns the hit count.
func (c *Cache) Hits() int64 { return c.hits.Load() }

// Misses returns the miss count.
func (c *Cache) Misses() int64 { return c.misses.Load() }

// Stats snapshots the counters. HitRate is 0 before the first lookup.
func (c *Cache) Stats() CacheStats {
	st := CacheStats{Name: c.name, Hits: c.Hits(), Misses: c.Misses()}
	if n := st.Hits + st.Misses; n > 0 {
		st.HitRate = float64(st.Hits) / float64(n)
	}
	return st
}

// Reset zeroes both counters.
func (c *Cache) Reset() {
	c.hits.Store(0)
	c.misses.Store(0)
}

// CacheStats is a point-in-time copy of a Cache.
type CacheStats struct {
	Name    string  `json:"name"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hit_rate"`
}

// LayoutCache tracks the layout result cache keyed by expanded set.
var LayoutCache = &Cache{name: "layout_cache"}

var caches = []*Cache{LayoutCache}
