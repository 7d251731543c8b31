package dao

import (
	"sync"
	"time"

	"github.com/a1s/gridbuf/internal/model1"
)

// DefaultCacheTTL is the default time-to-live for cached rows.
const DefaultCacheTTL = 5 * time.Second

type cacheEntry struct {
	rows      model1.Rows
	timestamp time.Time
}

// RowCache provides TTL-based caching of listed rows.
type RowCache struct {
	data map[string]cacheEntry
	ttl  time.Duration
	now  func() time.Time
	mx   sync.RWMutex
}

// NewRowCache creates a new RowCache with the specified TTL.
func NewRowCache(ttl time.Duration) *RowCache {
	return &RowCache{
		data: make(map[string]cacheEntry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Get returns a copy of the rows cached under key, or false if the key is
// not found or the entry has expired.
func (c *RowCache) Get(key string) (model1.Rows, bool) {
	c.mx.RLock()
	defer c.mx.RUnlock()

	entry, ok := c.data[key]
	if !ok || c.now().Sub(entry.timestamp) > c.ttl {
		return nil, false
	}
	return entry.rows.Clone(), true
}

// Set stores rows under key.
func (c *RowCache) Set(key string, rows model1.Rows) {
	c.mx.Lock()
	defer c.mx.Unlock()

	c.data[key] = cacheEntry{
		rows:      rows.Clone(),
		timestamp: c.now(),
	}
}

// Invalidate removes key from the cache.
func (c *RowCache) Invalidate(key string) {
	c.mx.Lock()
	defer c.mx.Unlock()

	delete(c.data, key)
}
