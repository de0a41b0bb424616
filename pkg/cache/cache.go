// Package cache provides byte caches for fetched manifests.
//
// Registry round-trips dominate resolution time for large graphs, so the
// CLI wraps its manifest source in a [Cache]. Two implementations exist:
//   - [FileCache]: JSON entries with expiry under a directory (CLI default)
//   - [NullCache]: never stores anything (--no-cache, tests)
//
// Keys are produced by a [Keyer] so that the same package name served by
// two registries never collides.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
type Cache interface {
	// Get returns the value for key. The bool reports a hit; a miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// ManifestKey identifies the raw manifest of name fetched from registry.
	ManifestKey(registry, name string) string
}

// DefaultKeyer hashes key components so arbitrary registry URLs are safe.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ManifestKey implements Keyer.
func (DefaultKeyer) ManifestKey(registry, name string) string {
	return hashKey("manifest", registry, name)
}
