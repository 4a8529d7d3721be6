package layout

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vanderheijden86/netcanvas/pkg/metrics"
	"github.com/vanderheijden86/netcanvas/pkg/network"
)

// DefaultCacheSize is the number of layouts kept per Cache.
const DefaultCacheSize = 64

// Cache memoizes whole layout results by (root, expanded membership), so a
// collapse followed by a re-expand reuses the earlier result. Cached results
// are shared; callers must not mutate them.
type Cache struct {
	engine  *Engine
	results *lru.Cache[string, *Result]
}

// NewCache wraps engine with an LRU of the given size (DefaultCacheSize when
// size <= 0).
func NewCache(engine *Engine, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	results, err := lru.New[string, *Result](size)
	if err != nil {
		return nil, fmt.Errorf("creating layout cache: %w", err)
	}
	return &Cache{engine: engine, results: results}, nil
}

// Engine returns the wrapped engine.
func (c *Cache) Engine() *Engine {
	return c.engine
}

// Layout returns a cached result or computes and stores a new one.
func (c *Cache) Layout(root *network.Node, expanded *network.ExpandedSet) *Result {
	if root == nil {
		return c.engine.Layout(nil, expanded)
	}
	key := fmt.Sprintf("%s/%d/%x", root.ID, expanded.Len(), expanded.Fingerprint())
	if res, ok := c.results.Get(key); ok {
		metrics.LayoutCache.Hit()
		return res
	}
	metrics.LayoutCache.Miss()
	res := c.engine.Layout(root, expanded)
	c.results.Add(key, res)
	return res
}

// Purge drops every cached result, e.g. after the tree is replaced.
func (c *Cache) Purge() {
	c.results.Purge()
	c.engine.Invalidate()
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.results.Len()
}
