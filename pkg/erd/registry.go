package erd

import (
	"fmt"

	apperrors "github.com/christophertubbs/erdantic/pkg/errors"
)

// Framework is one registered data-modeling framework adapter. It pairs the
// membership predicate with the constructor that wraps a raw type in this
// framework's Model implementation.
//
// Adapt is only called on raw types for which IsModelType returned true, so
// a well-behaved adapter never fails there; an error from Adapt signals a
// broken adapter contract and is fatal.
type Framework interface {
	// IsModelType reports whether raw is a model type of this framework.
	IsModelType(raw any) bool

	// Adapt wraps raw in this framework's Model implementation.
	Adapt(raw any) (Model, error)
}

// Registry maps framework identifiers to their adapters and dispatches raw
// types to the first adapter whose predicate claims them.
//
// Registration order is significant: when a type satisfies more than one
// framework's predicate, the first-registered framework wins. This is
// documented, deterministic policy rather than an error.
//
// A Registry is not safe for concurrent mutation. The intended lifecycle is
// that adapter packages register themselves during init, after which the
// registry is read-only for all traversals. Registering adapters after
// traversals have begun requires external synchronization.
type Registry struct {
	order      []string
	frameworks map[string]Framework
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{frameworks: make(map[string]Framework)}
}

// Register adds a framework adapter under the given identifier.
// Returns an error if the identifier is empty or already registered.
func (r *Registry) Register(id string, f Framework) error {
	if id == "" {
		return fmt.Errorf("framework identifier must not be empty")
	}
	if _, exists := r.frameworks[id]; exists {
		return fmt.Errorf("framework %q already registered", id)
	}
	r.order = append(r.order, id)
	r.frameworks[id] = f
	return nil
}

// Frameworks returns the registered framework identifiers in registration
// order.
func (r *Registry) Frameworks() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Adapt dispatches raw to the first registered framework claiming it.
// This is the fatal path used for roots: if no framework matches, the
// returned error carries code UNKNOWN_MODEL_TYPE.
func (r *Registry) Adapt(raw any) (Model, error) {
	m, ok, err := r.Lookup(raw)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeUnknownModelType, "unknown model type: %v (%T)", raw, raw)
	}
	return m, nil
}

// Lookup dispatches raw to the first registered framework claiming it.
// This is the negative-result path used for field candidates: a raw type
// that no framework claims returns (nil, false, nil) and is simply not a
// component model. A non-nil error means an adapter matched but failed to
// wrap the type, which is a broken adapter contract.
func (r *Registry) Lookup(raw any) (Model, bool, error) {
	for _, id := range r.order {
		f := r.frameworks[id]
		if !f.IsModelType(raw) {
			continue
		}
		m, err := f.Adapt(raw)
		if err != nil {
			return nil, false, apperrors.Wrap(apperrors.ErrCodeInvalidModel, err, "framework %q claimed %T but failed to adapt it", id, raw)
		}
		return m, true, nil
	}
	return nil, false, nil
}

// FindModels scans a namespace and returns the raw types that satisfy some
// registered framework's predicate, preserving the namespace's order.
func (r *Registry) FindModels(ns Namespace) []any {
	var out []any
	for _, raw := range ns.ModelTypes() {
		for _, id := range r.order {
			if r.frameworks[id].IsModelType(raw) {
				out = append(out, raw)
				break
			}
		}
	}
	return out
}

// defaultRegistry is the process-wide registry populated by adapter package
// init functions. Package-load initialization happens-before any traversal,
// which is the only synchronization the default registry relies on.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry that adapter packages register
// into at load time.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a framework adapter to the default registry. It panics on a
// duplicate identifier, which indicates a programming error during package
// initialization.
func Register(id string, f Framework) {
	if err := defaultRegistry.Register(id, f); err != nil {
		panic(err)
	}
}
