package connection

import (
	"encoding/json"
	"sync"
	"time"
)

type cacheEntry struct {
	value   json.RawMessage
	expires time.Time
}

// fetchCache maps class name to the last fetched result until it expires.
// Entries are only ever replaced; the key space is bounded by the schema.
type fetchCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

func newFetchCache(ttl time.Duration, now func() time.Time) *fetchCache {
	if now == nil {
		now = time.Now
	}
	return &fetchCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *fetchCache) get(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || !c.now().Before(e.expires) {
		return nil, false
	}
	return e.value, true
}

func (c *fetchCache) put(key string, value json.RawMessage) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{value: value, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *fetchCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
