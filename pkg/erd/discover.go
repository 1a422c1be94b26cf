package erd

import (
	"errors"

	apperrors "github.com/christophertubbs/erdantic/pkg/errors"
	"github.com/christophertubbs/erdantic/pkg/typeexpr"
)

// DefaultDepthLimit expands only the direct component models of each root.
const DefaultDepthLimit = 1

// Option configures diagram creation.
type Option func(*config)

type config struct {
	depthLimit  int
	orientation Orientation
	registry    *Registry
}

// WithDepthLimit bounds how deep the composition tree is searched. Roots sit
// at depth 0; a limit of 0 records the roots themselves without expanding
// any fields.
func WithDepthLimit(n int) Option {
	return func(c *config) { c.depthLimit = n }
}

// WithOrientation sets the layout direction stored on the diagram.
func WithOrientation(o Orientation) Option {
	return func(c *config) { c.orientation = o }
}

// WithRegistry uses an explicitly constructed registry instead of the
// process-wide default.
func WithRegistry(r *Registry) Option {
	return func(c *config) { c.registry = r }
}

// Create builds an entity relationship diagram from the given roots. Each
// root is either a raw model type or a [Namespace] whose contents are
// filtered through the registry's predicates. A root that no registered
// framework claims is fatal; field types that are not models are simply not
// component models and contribute nothing.
func Create(roots []any, opts ...Option) (*Diagram, error) {
	cfg := config{
		depthLimit:  DefaultDepthLimit,
		orientation: OrientationHorizontal,
		registry:    Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(roots) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNotAType, "at least one root model or namespace is required")
	}

	var raws []any
	for _, root := range roots {
		if root == nil {
			return nil, apperrors.New(apperrors.ErrCodeNotAType, "root is nil")
		}
		if ns, ok := root.(Namespace); ok {
			raws = append(raws, cfg.registry.FindModels(ns)...)
			continue
		}
		raws = append(raws, root)
	}
	if len(raws) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeUnknownModelType, "no model types found among the given roots")
	}

	rootModels := make([]Model, 0, len(raws))
	for _, raw := range raws {
		m, err := cfg.registry.Adapt(raw)
		if err != nil {
			return nil, err
		}
		rootModels = append(rootModels, m)
	}

	models, edges, err := discover(cfg.registry, rootModels, cfg.depthLimit)
	if err != nil {
		return nil, err
	}

	return NewDiagram(rootModels[0].Name(), models, edges, cfg.orientation)
}

// visit is one worklist entry: a model and the depth it was reached at.
type visit struct {
	model Model
	depth int
}

// discover walks the composition graph from the given roots using an
// explicit worklist. The visited-model set guards against cycles and
// diamond revisits, and edges are keyed by their identity triple so repeated
// references collapse to one edge. Both sets are owned by this call; nothing
// is shared between invocations.
//
// Candidates are pushed in reverse so pop order is depth-first preorder over
// field-declaration order. A model reachable through both a shallow and a
// deep path is then expanded on the shallow visit, before any deeper revisit
// can mark it seen inside the depth limit.
func discover(reg *Registry, roots []Model, depthLimit int) ([]Model, []Edge, error) {
	seenModels := make(map[string]Model)
	seenEdges := make(map[edgeKey]Edge)

	stack := make([]visit, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, visit{model: roots[i], depth: 0})
	}

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, ok := seenModels[v.model.Key()]; ok {
			continue
		}
		seenModels[v.model.Key()] = v.model

		if v.depth >= depthLimit {
			// The model itself is recorded; its fields are not expanded.
			continue
		}

		var next []visit
		for _, field := range v.model.Fields() {
			candidates, err := typeexpr.Candidates(field.Type())
			if err != nil {
				return nil, nil, forwardRefError(v.model, field, err)
			}
			for _, raw := range candidates {
				target, ok, err := reg.Lookup(raw)
				if err != nil {
					return nil, nil, err
				}
				if !ok {
					// Plain scalar or otherwise non-model type.
					continue
				}
				edge, err := NewEdge(v.model, field, target)
				if err != nil {
					return nil, nil, err
				}
				seenEdges[edge.key()] = edge
				next = append(next, visit{model: target, depth: v.depth + 1})
			}
		}
		for i := len(next) - 1; i >= 0; i-- {
			stack = append(stack, next[i])
		}
	}

	models := make([]Model, 0, len(seenModels))
	for _, m := range seenModels {
		models = append(models, m)
	}
	edges := make([]Edge, 0, len(seenEdges))
	for _, e := range seenEdges {
		edges = append(edges, e)
	}
	return models, edges, nil
}

// forwardRefError attaches model and field context to a resolver failure so
// the caller can point at the exact declaration needing attention.
func forwardRefError(model Model, field Field, err error) error {
	var sref *typeexpr.StringRefError
	if errors.As(err, &sref) {
		return apperrors.Wrap(apperrors.ErrCodeStringForwardRef, err,
			"field %q of model %q has unresolved string annotation %q", field.Name(), model.Name(), sref.Raw)
	}
	var uref *typeexpr.UnevaluatedRefError
	if errors.As(err, &uref) {
		return apperrors.Wrap(apperrors.ErrCodeUnevaluatedForwardRef, err,
			"field %q of model %q has unevaluated forward reference %q", field.Name(), model.Name(), uref.Name)
	}
	return apperrors.Wrap(apperrors.ErrCodeInternal, err,
		"resolving type of field %q on model %q", field.Name(), model.Name())
}
