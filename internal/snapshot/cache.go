// Package snapshot caches the loaded and aggregated dashboard dataset so
// page loads within the TTL share one immutable snapshot instead of each
// querying Elasticsearch.
package snapshot

import (
	"sync"
	"time"

	"github.com/newspulse/sentiment-dashboard/internal/aggregate"
)

// Snapshot is one immutable load of the dashboard dataset.
type Snapshot struct {
	Summary  *aggregate.Summary
	LoadedAt time.Time
}

// Cache hands out the latest snapshot until it expires. A zero ttl disables
// caching entirely.
type Cache struct {
	mu   sync.Mutex
	ttl  time.Duration
	snap *Snapshot
}

// NewCache creates a cache with the given ttl.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl}
}

// Get returns the cached snapshot when it is still fresh relative to now.
func (c *Cache) Get(now time.Time) (*Snapshot, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snap == nil || now.Sub(c.snap.LoadedAt) > c.ttl {
		return nil, false
	}
	return c.snap, true
}

// Put stores a freshly built snapshot.
func (c *Cache) Put(s *Snapshot) {
	if c.ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.snap = s
}
