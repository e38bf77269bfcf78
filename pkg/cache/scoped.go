package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This matters when the backing store is shared, such as a Redis server
// used by multiple tools or projects.
//
// Example usage:
//
//	// Keys namespaced for a shared Redis instance
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "grove:")
//
//	// Plain keys for a private file cache
//	keyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DocumentKey generates a prefixed key for a processed document tree.
func (k *ScopedKeyer) DocumentKey(contentHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.DocumentKey(contentHash, opts)
}

// GraphKey generates a prefixed key for a derived social graph.
func (k *ScopedKeyer) GraphKey(contentHash string, opts DocumentKeyOpts) string {
	return k.prefix + k.inner.GraphKey(contentHash, opts)
}
