package cache

// ScopedKeyer wraps a Keyer with a prefix so several graphs or users can
// share one cache directory without colliding.
//
// Example usage:
//
//	// Per-graph keys
//	k := NewScopedKeyer(NewDefaultKeyer(), "graph:deps:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// AnalyticsKey generates a prefixed key for analytics caching.
func (k *ScopedKeyer) AnalyticsKey(graphHash string, opts AnalyticsKeyOpts) string {
	return k.prefix + k.inner.AnalyticsKey(graphHash, opts)
}
