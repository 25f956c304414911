package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryCache keeps entries in process memory. It backs the HTTP server,
// where one process serves many export requests for the same snapshot.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]cacheEntry), now: time.Now}
}

// Get retrieves a value, dropping it if expired.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if e.expired(c.now()) {
		_ = c.Delete(context.Background(), key)
		return nil, false, nil
	}
	return append([]byte(nil), e.Data...), true, nil
}

// Set stores a copy of data.
func (c *MemoryCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	e := cacheEntry{Data: append([]byte(nil), data...)}
	if ttl > 0 {
		e.ExpiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	c.entries[key] = e
	c.mu.Unlock()
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close drops all entries.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
	return nil
}

var _ Cache = (*MemoryCache)(nil)
