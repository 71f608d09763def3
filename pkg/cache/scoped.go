package cache

// ScopedKeyer prepends a fixed namespace to every key of an inner keyer.
//
//	// keep experiment runs apart from the shared batch cache
//	k := NewScopedKeyer(NewDefaultKeyer(), "exp:hard-v2:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, which defaults to [DefaultKeyer] when nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LevelKey(opts LevelKeyOpts) string {
	return k.prefix + k.inner.LevelKey(opts)
}

func (k *ScopedKeyer) SnapKey(levelHash string, opts SnapKeyOpts) string {
	return k.prefix + k.inner.SnapKey(levelHash, opts)
}

func (k *ScopedKeyer) TuneKey(levelHash string, opts TuneKeyOpts) string {
	return k.prefix + k.inner.TuneKey(levelHash, opts)
}
