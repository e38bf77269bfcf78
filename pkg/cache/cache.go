// Package cache provides pluggable caching for processed documents and
// derived social graphs, so repeated runs over the same input skip the
// parse and extraction work.
package cache

import (
	"context"
	"time"
)

// Cache is the storage interface for processed artifacts.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports a hit;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL. A zero TTL means the
	// entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// DocumentKeyOpts captures everything besides the raw input that changes
// the outcome of processing a document.
type DocumentKeyOpts struct {
	// SchemaHash identifies the extraction schema in effect.
	SchemaHash string

	// Fix reports whether auto-correction was applied before encoding.
	Fix bool
}

// Keyer generates cache keys for the different artifact types.
// Keys must be deterministic: the same inputs always produce the same key.
type Keyer interface {
	// DocumentKey generates a key for a processed document tree,
	// identified by the SHA-256 hash of the raw input.
	DocumentKey(contentHash string, opts DocumentKeyOpts) string

	// GraphKey generates a key for a social graph derived from a
	// processed document.
	GraphKey(contentHash string, opts DocumentKeyOpts) string
}

// DefaultKeyer is the standard Keyer implementation.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// DocumentKey generates a key for a processed document tree.
func (k *DefaultKeyer) DocumentKey(contentHash string, opts DocumentKeyOpts) string {
	return hashKey("doc", contentHash, opts.SchemaHash, opts.Fix)
}

// GraphKey generates a key for a derived social graph.
func (k *DefaultKeyer) GraphKey(contentHash string, opts DocumentKeyOpts) string {
	return hashKey("graph", contentHash, opts.SchemaHash, opts.Fix)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
