package cache

// ScopedKeyer wraps a Keyer with a prefix so that several deployments, or the
// CLI and the service, can share one backend without seeing each other's
// entries.
//
// Example usage:
//
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
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

// GenerationKey generates a prefixed key for generated forests.
func (k *ScopedKeyer) GenerationKey(inputHash string, opts GenerationKeyOpts) string {
	return k.prefix + k.inner.GenerationKey(inputHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifacts.
func (k *ScopedKeyer) ArtifactKey(generationHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(generationHash, opts)
}
