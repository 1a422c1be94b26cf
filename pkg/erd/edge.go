package erd

import (
	apperrors "github.com/christophertubbs/erdantic/pkg/errors"
)

// Cardinality is whether a field holds one or many instances of the target
// model.
type Cardinality string

// Modality is whether the relationship is mandatory or may be absent/empty.
type Modality string

const (
	CardinalityOne  Cardinality = "one"
	CardinalityMany Cardinality = "many"

	ModalityMandatory Modality = "mandatory"
	ModalityOptional  Modality = "optional"
)

// Edge is a composition relationship: Source holds one or more instances of
// Target through SourceField. Edges compare by the (source, field, target)
// triple; duplicate discoveries of the same triple collapse to one edge.
type Edge struct {
	Source      Model
	SourceField Field
	Target      Model
}

// NewEdge constructs a composition edge after verifying that field is
// actually a member of source's field sequence. A non-member field is an
// internal-consistency violation and fails with code UNKNOWN_FIELD.
func NewEdge(source Model, field Field, target Model) (Edge, error) {
	if fieldIndex(source, field) < 0 {
		return Edge{}, apperrors.New(apperrors.ErrCodeUnknownField, "field %q is not a field of model %q", field.Name(), source.Name())
	}
	return Edge{Source: source, SourceField: field, Target: target}, nil
}

// CardinalityModality derives the crow's-foot classification for this edge.
// Many-valued fields are always optional-modality: an empty collection
// satisfies "zero" without violating the field's presence.
func (e Edge) CardinalityModality() (Cardinality, Modality) {
	cardinality := CardinalityOne
	if e.SourceField.IsMany() {
		cardinality = CardinalityMany
	}
	modality := ModalityMandatory
	if e.SourceField.IsNullable() || e.SourceField.IsMany() {
		modality = ModalityOptional
	}
	return cardinality, modality
}

// edgeKey is the identity triple used for deduplication and hashing.
type edgeKey struct {
	source string
	field  string
	target string
}

func (e Edge) key() edgeKey {
	return edgeKey{
		source: e.Source.Key(),
		field:  e.SourceField.Name(),
		target: e.Target.Key(),
	}
}

// less orders edges by (source key, field position within source, target
// key), giving deterministic rendering order independent of discovery
// order.
func (e Edge) less(other Edge) bool {
	if e.Source.Key() != other.Source.Key() {
		return e.Source.Key() < other.Source.Key()
	}
	ei, oi := fieldIndex(e.Source, e.SourceField), fieldIndex(other.Source, other.SourceField)
	if ei != oi {
		return ei < oi
	}
	return e.Target.Key() < other.Target.Key()
}

// fieldIndex returns the position of field within model's field sequence,
// matching by name, or -1 if the field does not belong to the model.
func fieldIndex(model Model, field Field) int {
	for i, f := range model.Fields() {
		if f.Name() == field.Name() {
			return i
		}
	}
	return -1
}
