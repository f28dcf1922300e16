package cache

// ScopedKeyer prefixes every key of an inner keyer, so that callers
// sharing one backend do not see each other's entries:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:"+tenant+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) SolveKey(sceneHash string, opts SolveKeyOpts) string {
	return k.prefix + k.inner.SolveKey(sceneHash, opts)
}

func (k *ScopedKeyer) AnimateKey(sceneHash string, opts AnimateKeyOpts) string {
	return k.prefix + k.inner.AnimateKey(sceneHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(resultHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(resultHash, opts)
}

func (k *ScopedKeyer) SceneKey(sceneHash string) string {
	return k.prefix + k.inner.SceneKey(sceneHash)
}
