package internal

import (
	"sync"

	"github.com/gnolang/rxgen/pattern"
)

// DefaultCacheSize is the number of compiled patterns kept by NewCache(0).
const DefaultCacheSize = 256

type CacheEntry struct {
	AST *pattern.AST

	tick uint64
}

// Cache keeps compiled patterns keyed by their source text. When full, the
// least recently accessed entry is evicted. ASTs are immutable, so entries
// never go stale.
type Cache struct {
	entries    map[string]CacheEntry
	mutex      sync.RWMutex
	maxEntries int
	clock      uint64

	hits, misses int
}

func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheSize
	}
	return &Cache{
		entries:    make(map[string]CacheEntry),
		maxEntries: maxEntries,
	}
}

func (c *Cache) Set(source string, ast *pattern.AST) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.entries[source]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldest()
	}

	c.clock++
	c.entries[source] = CacheEntry{
		AST:  ast,
		tick: c.clock,
	}
}

func (c *Cache) Get(source string) (*pattern.AST, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	entry, exists := c.entries[source]
	if !exists {
		c.misses++
		return nil, false
	}

	c.clock++
	entry.tick = c.clock
	c.entries[source] = entry
	c.hits++

	return entry.AST, true
}

// evictOldest must be called with the write lock held.
func (c *Cache) evictOldest() {
	var (
		oldestKey  string
		oldestTick uint64
		found      bool
	)
	for key, entry := range c.entries {
		if !found || entry.tick < oldestTick {
			oldestKey, oldestTick, found = key, entry.tick, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
}

func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

// Stats returns the number of hits and misses since the cache was created.
func (c *Cache) Stats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.hits, c.misses
}
