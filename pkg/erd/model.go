package erd

import "github.com/christophertubbs/erdantic/pkg/typeexpr"

// Model is the capability contract for one data-model type. Adapters wrap
// their framework's native representation and are expected to be immutable
// after construction; memoizing derived data (such as a cached field list)
// is fine as long as the observable values never change.
//
// Two Model values are the same node iff their keys are equal. Keys are
// derived from the fully-qualified type name and double as the canonical
// sort order for diagram output.
type Model interface {
	// Key returns the stable identity key for the underlying type.
	Key() string

	// Name returns the display name used in diagram labels.
	Name() string

	// Fields returns the model's fields in declaration order. The order is
	// part of the model's identity for edge sorting and must not vary
	// between calls.
	Fields() []Field

	// Description returns an optional human-readable description, or "".
	Description() string
}

// Field is the capability contract for one named, typed attribute of a
// Model. A Field belongs to exactly one Model; fields are matched by name
// within their owning model for edge validation.
type Field interface {
	// Name returns the field name, unique within the owning model.
	Name() string

	// Type returns the declared type expression.
	Type() typeexpr.Expr

	// Description returns an optional human-readable description, or "".
	Description() string

	// IsMany reports whether the field holds a collection of the nested
	// type rather than a single instance.
	IsMany() bool

	// IsNullable reports whether the field may be absent.
	IsNullable() bool
}

// Namespace is a container of candidate model types, the analog of passing
// a whole module to [Create]. The registry filters the returned raw types
// through its adapter predicates; non-models are ignored rather than
// rejected.
type Namespace interface {
	ModelTypes() []any
}
