// cache.go provides an in-memory cache of rendered documents keyed by the
// fingerprint of their Document. Identical inputs always render identical
// output, so entries never go stale; the cache only needs a size bound.
package engine

import (
	"log/slog"
	"sync"
)

const defaultCacheSize = 256

// docCache is a concurrency-safe, size-bounded map of rendered documents.
// When full it is cleared wholesale rather than tracking recency.
type docCache struct {
	mu      sync.RWMutex
	max     int
	entries map[string]string
}

func newDocCache(max int) *docCache {
	return &docCache{max: max, entries: make(map[string]string)}
}

// get retrieves a rendered document. The bool is false on miss.
func (c *docCache) get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	html, ok := c.entries[key]
	return html, ok
}

// put stores a rendered document, clearing the cache first when full.
func (c *docCache) put(key, html string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.max {
		c.entries = make(map[string]string)
		slog.Debug("document cache reset", "max", c.max)
	}
	c.entries[key] = html
}

// invalidateAll clears the entire cache.
func (c *docCache) invalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
	slog.Debug("document cache fully cleared")
}

func (c *docCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
