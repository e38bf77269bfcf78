package cache

import "time"

// Default TTLs per artifact type. Documents and graphs are derived purely
// from input bytes and schema, so entries never go stale; the TTLs only
// bound disk usage for inputs that are never seen again.
const (
	// TTLDocument is the lifetime of cached processed document trees.
	TTLDocument = 7 * 24 * time.Hour

	// TTLGraph is the lifetime of cached social graphs.
	TTLGraph = 7 * 24 * time.Hour
)
