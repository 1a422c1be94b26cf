package cache

// ScopedKeyer wraps a Keyer with a prefix so separate contexts (for
// example, separate schema directories served by one process) get isolated
// cache namespaces.
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

// RenderKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) RenderKey(diagramHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(diagramHash, opts)
}

// SchemaKey generates a prefixed key for a parsed schema.
func (k *ScopedKeyer) SchemaKey(source string, fingerprint string) string {
	return k.prefix + k.inner.SchemaKey(source, fingerprint)
}
