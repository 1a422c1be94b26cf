// Package typeexpr models declared field types in a framework-neutral way.
//
// Adapters translate their native type representations (reflect.Type trees,
// parsed schema strings, ...) into an [Expr] tree built from a small set of
// shapes: a bare named type, an optional wrapper, containers, and unions.
// [Candidates] then flattens a tree into the leaf types that might themselves
// be models, which is the one place the composition-graph builder touches
// type structure.
//
// Two deliberately distinct failure shapes exist for types that are not yet
// bound to a real type object: [StringRefError] for raw string annotations
// that were never parsed, and [UnevaluatedRefError] for named references that
// were recognized syntactically but never resolved. They call for different
// fixes, so they are never collapsed into a generic error.
package typeexpr

import (
	"fmt"
	"strings"
)

// Expr is a declared type expression. Implementations are the closed set of
// shapes in this package; adapters construct them but never extend the set.
type Expr interface {
	// String renders the expression for display in diagram labels.
	String() string

	sealed()
}

// Named is a bare reference to a concrete type object. Raw holds whatever
// representation the owning adapter's framework uses (a reflect.Type, a
// schema declaration, ...); the registry decides whether it is a model.
type Named struct {
	Raw     any
	Display string
}

func (n Named) String() string {
	if n.Display != "" {
		return n.Display
	}
	return fmt.Sprintf("%v", n.Raw)
}

// Optional wraps a type that may be absent. The "none" arm contributes no
// candidates of its own.
type Optional struct {
	Elem Expr
}

func (o Optional) String() string { return "?" + o.Elem.String() }

// List is a sequence, array, or set of Elem.
type List struct {
	Elem Expr
}

func (l List) String() string { return "[]" + l.Elem.String() }

// Map is a keyed container. Both key and value types are candidate sources.
type Map struct {
	Key   Expr
	Value Expr
}

func (m Map) String() string {
	return fmt.Sprintf("map[%s]%s", m.Key.String(), m.Value.String())
}

// Union is an alternative between member types.
type Union struct {
	Members []Expr
}

func (u Union) String() string {
	parts := make([]string, len(u.Members))
	for i, m := range u.Members {
		parts[i] = m.String()
	}
	return strings.Join(parts, " | ")
}

// StringRef is a raw string annotation that was never parsed into a type
// expression. Resolution always fails until the declaration is rewritten.
type StringRef struct {
	Raw string
}

func (s StringRef) String() string { return fmt.Sprintf("%q", s.Raw) }

// ForwardRef is a syntactically recognized reference to a type by name.
// Target is nil until a binding pass resolves the name, at which point the
// reference behaves like a Named expression.
type ForwardRef struct {
	Name   string
	Target any
}

func (f ForwardRef) String() string { return f.Name }

func (Named) sealed()      {}
func (Optional) sealed()   {}
func (List) sealed()       {}
func (Map) sealed()        {}
func (Union) sealed()      {}
func (StringRef) sealed()  {}
func (ForwardRef) sealed() {}

// StringRefError reports a string annotation encountered during candidate
// resolution. The caller must parse or replace the annotation before the
// declaration can be diagrammed.
type StringRefError struct {
	Raw string
}

func (e *StringRefError) Error() string {
	return fmt.Sprintf("unresolved string annotation %q", e.Raw)
}

// UnevaluatedRefError reports a named forward reference that was never bound
// to a type object. The caller must run the owning framework's binding step.
type UnevaluatedRefError struct {
	Name string
}

func (e *UnevaluatedRefError) Error() string {
	return fmt.Sprintf("unevaluated forward reference %q", e.Name)
}

// Candidates flattens a type expression into the leaf type objects that
// should be tested against the adapter registry. Wrappers and containers are
// unwrapped, unions contribute every member, and bound forward references
// yield their targets.
//
// A StringRef always fails with *StringRefError; an unbound ForwardRef always
// fails with *UnevaluatedRefError. Both abort the whole resolution so the
// caller can point at the exact declaration needing attention.
func Candidates(e Expr) ([]any, error) {
	var out []any
	if err := appendCandidates(&out, e); err != nil {
		return nil, err
	}
	return out, nil
}

func appendCandidates(out *[]any, e Expr) error {
	switch t := e.(type) {
	case Named:
		*out = append(*out, t.Raw)
	case Optional:
		return appendCandidates(out, t.Elem)
	case List:
		return appendCandidates(out, t.Elem)
	case Map:
		if err := appendCandidates(out, t.Key); err != nil {
			return err
		}
		return appendCandidates(out, t.Value)
	case Union:
		for _, m := range t.Members {
			if err := appendCandidates(out, m); err != nil {
				return err
			}
		}
	case StringRef:
		return &StringRefError{Raw: t.Raw}
	case ForwardRef:
		if t.Target == nil {
			return &UnevaluatedRefError{Name: t.Name}
		}
		*out = append(*out, t.Target)
	default:
		return fmt.Errorf("unsupported type expression %T", e)
	}
	return nil
}
