// Package manifest adapts data models declared in TOML schema files.
//
// A schema file declares models and their fields:
//
//	name = "gamedata"
//
//	[models.Party]
//	description = "A group of adventurers."
//
//	[[models.Party.fields]]
//	name = "members"
//	type = "[]Adventurer"
//	description = "The members of the party"
//
// Field types use a compact expression syntax: a bare name, `?T` for an
// optional value, `[]T` for a sequence, `map[K]V` for a keyed container,
// and `A | B` for a union. Names are matched against the models declared in
// the same schema during a binding pass at load time; a name that is
// neither a declared model nor a primitive stays an unevaluated forward
// reference and fails diagram discovery with full context. A type string
// that cannot be parsed at all is kept as a string annotation and fails
// discovery with the distinct string-forward-reference condition.
//
// Importing this package registers the framework under the identifier
// "manifest".
package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/christophertubbs/erdantic/pkg/erd"
	apperrors "github.com/christophertubbs/erdantic/pkg/errors"
	"github.com/christophertubbs/erdantic/pkg/typeexpr"
)

// ID is the framework identifier in the adapter registry.
const ID = "manifest"

func init() {
	erd.Register(ID, Framework{})
}

// primitives are the built-in scalar type names. They resolve to plain
// leaf types that no framework claims, so they never become models.
var primitives = map[string]bool{
	"string": true, "bool": true, "bytes": true,
	"int": true, "int32": true, "int64": true,
	"float": true, "float32": true, "float64": true,
	"time": true, "date": true, "datetime": true, "duration": true,
	"uuid": true, "any": true,
}

// scalar is the raw leaf for primitive type names. It is a distinct type so
// no registered framework can claim it.
type scalar string

// schemaFile mirrors the TOML document structure.
type schemaFile struct {
	Name   string               `toml:"name"`
	Models map[string]modelDecl `toml:"models"`
}

type modelDecl struct {
	Description string      `toml:"description"`
	Fields      []fieldDecl `toml:"fields"`
}

type fieldDecl struct {
	Name        string `toml:"name"`
	Type        string `toml:"type"`
	Description string `toml:"description"`
}

// Schema is a loaded set of model declarations. It implements
// [erd.Namespace], so a whole schema can be handed to erd.Create as a root.
type Schema struct {
	name   string
	models map[string]*Decl
	order  []string
}

// Decl is one declared model. Decl pointers are the raw model types this
// framework's registry predicate claims; identity is pointer-stable for the
// lifetime of the schema.
type Decl struct {
	schema      *Schema
	name        string
	description string
	fields      []*FieldDecl
}

// FieldDecl is one declared field of a model.
type FieldDecl struct {
	name        string
	description string
	raw         string
	expr        typeexpr.Expr
}

// Load reads and parses a schema file, then binds all type references
// against the declared models.
func Load(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidManifest, err, "read schema %s", path)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return Parse(data, name)
}

// Parse decodes schema TOML. The fallback name is used when the document
// does not carry a top-level name key.
func Parse(data []byte, fallbackName string) (*Schema, error) {
	var file schemaFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidManifest, err, "decode schema")
	}
	if len(file.Models) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidManifest, "schema declares no models")
	}

	name := file.Name
	if name == "" {
		name = fallbackName
	}

	s := &Schema{name: name, models: make(map[string]*Decl, len(file.Models))}
	for modelName := range file.Models {
		s.order = append(s.order, modelName)
	}
	slices.Sort(s.order)

	for _, modelName := range s.order {
		decl := file.Models[modelName]
		m := &Decl{schema: s, name: modelName, description: decl.Description}
		seen := make(map[string]bool, len(decl.Fields))
		for _, fd := range decl.Fields {
			if fd.Name == "" {
				return nil, apperrors.New(apperrors.ErrCodeInvalidField, "model %q has a field with no name", modelName)
			}
			if seen[fd.Name] {
				return nil, apperrors.New(apperrors.ErrCodeInvalidField, "model %q declares field %q more than once", modelName, fd.Name)
			}
			seen[fd.Name] = true
			if fd.Type == "" {
				return nil, apperrors.New(apperrors.ErrCodeInvalidField, "field %q of model %q has no type", fd.Name, modelName)
			}
			m.fields = append(m.fields, &FieldDecl{
				name:        fd.Name,
				description: fd.Description,
				raw:         fd.Type,
			})
		}
		s.models[modelName] = m
	}

	s.bind()
	return s, nil
}

// bind parses every field's type string and resolves name references
// against the schema's declared models. Unparseable type strings stay as
// string annotations; names that are neither declared models nor
// primitives stay as unevaluated forward references. Both are surfaced
// later, during discovery, with model and field context attached.
func (s *Schema) bind() {
	for _, name := range s.order {
		for _, f := range s.models[name].fields {
			expr, err := parseType(f.raw)
			if err != nil {
				f.expr = typeexpr.StringRef{Raw: f.raw}
				continue
			}
			f.expr = s.resolve(expr)
		}
	}
}

// resolve rewrites ForwardRef leaves, binding declared model names and
// replacing primitives with scalar leaves.
func (s *Schema) resolve(e typeexpr.Expr) typeexpr.Expr {
	switch t := e.(type) {
	case typeexpr.ForwardRef:
		if m, ok := s.models[t.Name]; ok {
			return typeexpr.ForwardRef{Name: t.Name, Target: m}
		}
		if primitives[t.Name] {
			return typeexpr.Named{Raw: scalar(t.Name), Display: t.Name}
		}
		return t
	case typeexpr.Optional:
		return typeexpr.Optional{Elem: s.resolve(t.Elem)}
	case typeexpr.List:
		return typeexpr.List{Elem: s.resolve(t.Elem)}
	case typeexpr.Map:
		return typeexpr.Map{Key: s.resolve(t.Key), Value: s.resolve(t.Value)}
	case typeexpr.Union:
		members := make([]typeexpr.Expr, len(t.Members))
		for i, m := range t.Members {
			members[i] = s.resolve(m)
		}
		return typeexpr.Union{Members: members}
	default:
		return e
	}
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Names returns the declared model names in sorted order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Model returns the declaration for the named model.
func (s *Schema) Model(name string) (*Decl, bool) {
	m, ok := s.models[name]
	return m, ok
}

// ModelTypes implements [erd.Namespace].
func (s *Schema) ModelTypes() []any {
	out := make([]any, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.models[name])
	}
	return out
}

// Framework adapts *Decl values produced by schema loading.
type Framework struct{}

// IsModelType reports whether raw is a schema model declaration.
func (Framework) IsModelType(raw any) bool {
	_, ok := raw.(*Decl)
	return ok
}

// Adapt wraps raw in a schema-backed model.
func (Framework) Adapt(raw any) (erd.Model, error) {
	decl, ok := raw.(*Decl)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeInvalidModel, "not a schema model declaration: %T", raw)
	}
	return &Model{decl: decl}, nil
}

// Model implements erd.Model over a declaration.
type Model struct {
	decl   *Decl
	fields []erd.Field
}

// Key returns the schema-qualified model name.
func (m *Model) Key() string { return m.decl.schema.name + "." + m.decl.name }

// Name returns the declared model name.
func (m *Model) Name() string { return m.decl.name }

// Description returns the declared description, or "".
func (m *Model) Description() string { return m.decl.description }

// Fields returns the declared fields in declaration order.
func (m *Model) Fields() []erd.Field {
	if m.fields == nil {
		fields := make([]erd.Field, len(m.decl.fields))
		for i, f := range m.decl.fields {
			fields[i] = &Field{decl: f}
		}
		m.fields = fields
	}
	return m.fields
}

// Field implements erd.Field over a field declaration.
type Field struct {
	decl *FieldDecl
}

// Name returns the declared field name.
func (f *Field) Name() string { return f.decl.name }

// Description returns the declared description, or "".
func (f *Field) Description() string { return f.decl.description }

// Type returns the bound type expression.
func (f *Field) Type() typeexpr.Expr { return f.decl.expr }

// IsMany reports whether the declared type is a container, looking through
// optional wrappers.
func (f *Field) IsMany() bool {
	e := f.decl.expr
	for {
		switch t := e.(type) {
		case typeexpr.Optional:
			e = t.Elem
		case typeexpr.List, typeexpr.Map:
			return true
		default:
			return false
		}
	}
}

// IsNullable reports whether the declared type is optional at the top
// level.
func (f *Field) IsNullable() bool {
	_, ok := f.decl.expr.(typeexpr.Optional)
	return ok
}
