package cache

// ScopedKeyer wraps a Keyer with a prefix so several projects can share one
// cache directory without their artifacts colliding.
//
//	k := NewScopedKeyer(NewDefaultKeyer(), "project:shop:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(snapshotHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(snapshotHash, opts)
}
