// Package gostruct adapts plain Go struct types to the erd capability
// contracts using reflection.
//
// Any named struct type declared outside the standard library qualifies as
// a model; stdlib structs such as time.Time are value-like scalars and are
// never treated as components. Importing this package registers the
// framework under the identifier "gostruct".
//
// Field conventions:
//   - exported fields only, in declaration order
//   - a pointer field is nullable
//   - a slice, array, or map field holds many values
//   - an optional `doc:"..."` struct tag supplies the field description
//
// A model type may implement [Describer] to supply a model-level
// description for diagram labels.
package gostruct

import (
	"reflect"
	"strings"

	"github.com/christophertubbs/erdantic/pkg/erd"
	apperrors "github.com/christophertubbs/erdantic/pkg/errors"
	"github.com/christophertubbs/erdantic/pkg/typeexpr"
)

// ID is the framework identifier in the adapter registry.
const ID = "gostruct"

func init() {
	erd.Register(ID, Framework{})
}

// Describer supplies a human-readable model description. The method is
// invoked on a zero value of the model type, so it must not depend on field
// state.
type Describer interface {
	ModelDescription() string
}

// Framework adapts raw Go struct types. The raw type may be a
// reflect.Type, a struct value, or a pointer to one.
type Framework struct{}

// IsModelType reports whether raw names a diagrammable struct type.
func (Framework) IsModelType(raw any) bool {
	return modelType(raw) != nil
}

// Adapt wraps raw in a struct-backed model.
func (Framework) Adapt(raw any) (erd.Model, error) {
	t := modelType(raw)
	if t == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidModel, "not a named non-stdlib struct type: %T", raw)
	}
	return &Model{typ: t}, nil
}

// modelType normalizes raw to the underlying named struct type, or nil if
// raw does not qualify as a model.
func modelType(raw any) reflect.Type {
	var t reflect.Type
	switch v := raw.(type) {
	case nil:
		return nil
	case reflect.Type:
		t = v
	default:
		t = reflect.TypeOf(raw)
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t.Name() == "" {
		return nil
	}
	if stdlibType(t) {
		return nil
	}
	return t
}

// stdlibType reports whether t is declared in the standard library. Module
// paths always carry a dot in their first element; stdlib import paths
// never do.
func stdlibType(t reflect.Type) bool {
	pkg := t.PkgPath()
	if pkg == "" {
		return true
	}
	first, _, _ := strings.Cut(pkg, "/")
	return !strings.Contains(first, ".")
}

// Model wraps one struct type. Instances are immutable; the field list is
// memoized on first access.
type Model struct {
	typ    reflect.Type
	fields []erd.Field
}

// Key returns the fully-qualified type name.
func (m *Model) Key() string { return m.typ.PkgPath() + "." + m.typ.Name() }

// Name returns the bare type name.
func (m *Model) Name() string { return m.typ.Name() }

// Description returns the model description if the type implements
// [Describer], or "".
func (m *Model) Description() string {
	if d, ok := reflect.New(m.typ).Interface().(Describer); ok {
		return d.ModelDescription()
	}
	return ""
}

// Fields returns the exported struct fields in declaration order.
func (m *Model) Fields() []erd.Field {
	if m.fields == nil {
		fields := make([]erd.Field, 0, m.typ.NumField())
		for i := 0; i < m.typ.NumField(); i++ {
			sf := m.typ.Field(i)
			if !sf.IsExported() {
				continue
			}
			fields = append(fields, &Field{sf: sf})
		}
		m.fields = fields
	}
	return m.fields
}

// Field wraps one exported struct field.
type Field struct {
	sf reflect.StructField
}

// Name returns the Go field name.
func (f *Field) Name() string { return f.sf.Name }

// Description returns the `doc` struct tag, or "".
func (f *Field) Description() string { return f.sf.Tag.Get("doc") }

// IsMany reports whether the field is a slice, array, or map, looking
// through any pointer wrappers.
func (f *Field) IsMany() bool {
	t := f.sf.Type
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	}
	return false
}

// IsNullable reports whether the field is declared as a pointer.
func (f *Field) IsNullable() bool {
	return f.sf.Type.Kind() == reflect.Pointer
}

// Type returns the declared type expression. Struct types nested inside
// containers terminate the expression tree as Named leaves; expanding them
// into fields is the graph builder's job, which keeps expression
// construction finite for self-referential types.
func (f *Field) Type() typeexpr.Expr {
	return buildExpr(f.sf.Type)
}

func buildExpr(t reflect.Type) typeexpr.Expr {
	switch t.Kind() {
	case reflect.Pointer:
		return typeexpr.Optional{Elem: buildExpr(t.Elem())}
	case reflect.Slice, reflect.Array:
		return typeexpr.List{Elem: buildExpr(t.Elem())}
	case reflect.Map:
		return typeexpr.Map{Key: buildExpr(t.Key()), Value: buildExpr(t.Elem())}
	default:
		return typeexpr.Named{Raw: t, Display: displayName(t)}
	}
}

// displayName prefers the bare type name over the package-qualified form
// reflect produces, keeping diagram labels compact.
func displayName(t reflect.Type) string {
	if t.Name() != "" && t.PkgPath() != "" {
		return t.Name()
	}
	return t.String()
}

// Types groups raw types into a [erd.Namespace], the analog of handing a
// whole module to discovery. Non-model members are filtered out by the
// registry scan rather than rejected.
func Types(raws ...any) erd.Namespace {
	return typeList(raws)
}

type typeList []any

func (l typeList) ModelTypes() []any { return l }
