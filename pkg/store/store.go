// Package store persists installed markers, the record that lets a later
// run skip packages that are already installed.
//
// A [Marker] is written after a package installs successfully. The next run
// compares the marker's fingerprint with the fingerprint of the freshly
// fetched manifest: equal means already installed, different means the
// manifest changed and the package is reinstalled.
//
// Backends:
//   - [MemoryStore]: process-local, for tests and dry runs
//   - [FileStore]: one JSON file per package, the CLI default
//   - [RedisStore]: shared markers for machines that install into a shared root
//   - [MongoStore]: the same, backed by a MongoDB collection
package store

import (
	"context"
	"time"
)

// Marker records a successful installation.
type Marker struct {
	Name        string    `json:"name" bson:"_id"`
	Fingerprint string    `json:"fingerprint" bson:"fingerprint"`
	Source      string    `json:"source" bson:"source"` // Git repository the checkout came from
	Dir         string    `json:"dir,omitempty" bson:"dir,omitempty"`
	InstalledAt time.Time `json:"installed_at" bson:"installed_at"`
	RunID       string    `json:"run_id,omitempty" bson:"run_id,omitempty"`
}

// Store is the interface for marker storage backends.
type Store interface {
	// Get retrieves the marker for name.
	// Returns nil, nil if the package has no marker.
	Get(ctx context.Context, name string) (*Marker, error)

	// Put creates or replaces the marker for m.Name.
	Put(ctx context.Context, m *Marker) error

	// Delete removes the marker for name. Deleting a missing marker is not
	// an error.
	Delete(ctx context.Context, name string) error

	// List returns all markers sorted by name.
	List(ctx context.Context) ([]*Marker, error)

	// Close releases resources held by the store.
	Close() error
}
