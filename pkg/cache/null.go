package cache

import (
	"context"
	"time"
)

// NullCache never stores anything. It is used when caching is disabled in
// the configuration.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache { return &NullCache{} }

// Get always misses.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards data.
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (c *NullCache) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (c *NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
