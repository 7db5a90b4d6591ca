// Package cache stores rendered previews and relaid-out documents.
//
// Entries are opaque byte slices keyed by strings produced by a [Keyer]. Keys
// embed a content hash of the document, so a cache never needs invalidation
// on edit: a changed document simply hashes to a different key.
//
// Three backends are provided:
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for tests and --no-cache
//
// A miss is reported as (nil, false, nil). Errors are reserved for backend
// failures; callers treat them as misses.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	// TTLLayout applies to documents relaid out at a given size.
	TTLLayout = 24 * time.Hour

	// TTLRender applies to terminal and SVG previews.
	TTLRender = 24 * time.Hour

	// TTLTree applies to tree diagrams.
	TTLTree = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiration.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache never stores anything.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache {
	return NullCache{}
}

func (NullCache) Get(context.Context, string) ([]byte, bool, error)          { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
