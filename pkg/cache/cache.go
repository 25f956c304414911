// Package cache stores derived artifacts (rendered SVG, DOT output) keyed by
// the structural hash of the screen they were derived from, and provides the
// hash itself.
//
// The same [Hash] function drives change detection in the history engine, so
// a cached artifact is valid for exactly as long as the screen's history
// would consider it unchanged.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey identifies an export of a snapshot in a given format.
	ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts are the export options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format      string `json:"format"`
	Direction   string `json:"direction,omitempty"`
	ShowHidden  bool   `json:"show_hidden,omitempty"`
	IncludeLink bool   `json:"include_links,omitempty"`
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey hashes the snapshot hash together with opts.
func (DefaultKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", snapshotHash, opts)
}

var _ Keyer = DefaultKeyer{}
