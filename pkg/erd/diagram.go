package erd

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"slices"

	apperrors "github.com/christophertubbs/erdantic/pkg/errors"
)

// Orientation is the layout direction a renderer should use. The values are
// Graphviz rankdir strings, passed through unmodified.
type Orientation string

const (
	// OrientationHorizontal lays models out left to right.
	OrientationHorizontal Orientation = "LR"
	// OrientationVertical lays models out top to bottom.
	OrientationVertical Orientation = "TB"
)

// Diagram is the canonical snapshot of discovered models and edges. Models
// are sorted by identity key and edges by (source, field position, target),
// so construction is deterministic regardless of traversal order. A Diagram
// is immutable after construction.
type Diagram struct {
	name        string
	orientation Orientation
	models      []Model
	edges       []Edge
}

// NewDiagram assembles a diagram from raw discovery output. The models and
// edges are deduplicated by identity and canonically sorted; name is taken
// from the first root model, not from the sorted order.
//
// Every edge's source and target must be present among the models; a
// dangling endpoint fails with an internal-consistency error.
func NewDiagram(name string, models []Model, edges []Edge, orientation Orientation) (*Diagram, error) {
	byKey := make(map[string]Model, len(models))
	for _, m := range models {
		byKey[m.Key()] = m
	}

	sortedModels := make([]Model, 0, len(byKey))
	for _, m := range byKey {
		sortedModels = append(sortedModels, m)
	}
	slices.SortFunc(sortedModels, func(a, b Model) int {
		if a.Key() < b.Key() {
			return -1
		}
		if a.Key() > b.Key() {
			return 1
		}
		return 0
	})

	byTriple := make(map[edgeKey]Edge, len(edges))
	for _, e := range edges {
		if _, ok := byKey[e.Source.Key()]; !ok {
			return nil, apperrors.New(apperrors.ErrCodeInternal, "edge source %q is not among the diagram's models", e.Source.Name())
		}
		if _, ok := byKey[e.Target.Key()]; !ok {
			return nil, apperrors.New(apperrors.ErrCodeInternal, "edge target %q is not among the diagram's models", e.Target.Name())
		}
		byTriple[e.key()] = e
	}

	sortedEdges := make([]Edge, 0, len(byTriple))
	for _, e := range byTriple {
		sortedEdges = append(sortedEdges, e)
	}
	slices.SortFunc(sortedEdges, func(a, b Edge) int {
		if a.less(b) {
			return -1
		}
		if b.less(a) {
			return 1
		}
		return 0
	})

	return &Diagram{
		name:        name,
		orientation: orientation,
		models:      sortedModels,
		edges:       sortedEdges,
	}, nil
}

// Name returns the diagram name, derived from the first root model.
func (d *Diagram) Name() string { return d.name }

// Orientation returns the layout direction for renderers.
func (d *Diagram) Orientation() Orientation { return d.orientation }

// Models returns the canonically sorted model sequence. The returned slice
// must be treated as read-only.
func (d *Diagram) Models() []Model { return d.models }

// Edges returns the canonically sorted edge sequence. The returned slice
// must be treated as read-only.
func (d *Diagram) Edges() []Edge { return d.edges }

// Hash returns a stable digest of the ordered model and edge tuples. Two
// diagrams over the same discovered graph hash identically no matter what
// order discovery visited them in.
func (d *Diagram) Hash() string {
	h := sha256.New()
	for _, m := range d.models {
		io.WriteString(h, "m:"+m.Key()+"\n")
	}
	for _, e := range d.edges {
		k := e.key()
		fmt.Fprintf(h, "e:%s.%s->%s\n", k.source, k.field, k.target)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Equal reports whether both diagrams contain the same ordered models and
// edges.
func (d *Diagram) Equal(other *Diagram) bool {
	if other == nil {
		return false
	}
	return d.Hash() == other.Hash()
}
