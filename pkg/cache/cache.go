// Package cache stores rendered diagram artifacts so unchanged schemas do
// not go through Graphviz again. Backends share one byte-oriented interface;
// keys are derived from the diagram's content hash plus the render options,
// so any change to either produces a different key.
package cache

import (
	"context"
	"time"
)

// Cache is the storage contract shared by all backends. Get reports a miss
// through the boolean rather than an error; errors are reserved for backend
// failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// RenderKeyOpts are the render parameters that participate in cache keys.
// Two renders of the same diagram with different options must never share an
// artifact.
type RenderKeyOpts struct {
	Format      string `json:"format"`
	Orientation string `json:"orientation"`
}

// Keyer builds cache keys. Implementations must be deterministic: the same
// inputs always yield the same key.
type Keyer interface {
	// RenderKey is the key for a rendered artifact of the diagram with the
	// given content hash.
	RenderKey(diagramHash string, opts RenderKeyOpts) string

	// SchemaKey is the key for a parsed schema, identified by its source
	// path and a fingerprint of its raw bytes.
	SchemaKey(source string, fingerprint string) string
}

// DefaultKeyer is the standard key scheme: a short prefix naming the
// artifact class followed by a hash of the identifying parts.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RenderKey generates a key for a rendered diagram artifact.
func (k *DefaultKeyer) RenderKey(diagramHash string, opts RenderKeyOpts) string {
	return hashKey("render", diagramHash, opts)
}

// SchemaKey generates a key for a parsed schema.
func (k *DefaultKeyer) SchemaKey(source string, fingerprint string) string {
	return hashKey("schema", source, fingerprint)
}
