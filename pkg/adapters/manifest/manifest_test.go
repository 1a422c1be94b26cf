package manifest

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/christophertubbs/erdantic/pkg/erd"
	apperrors "github.com/christophertubbs/erdantic/pkg/errors"
	"github.com/christophertubbs/erdantic/pkg/typeexpr"
)

func newRegistry(t *testing.T) *erd.Registry {
	t.Helper()
	reg := erd.NewRegistry()
	if err := reg.Register(ID, Framework{}); err != nil {
		t.Fatal(err)
	}
	return reg
}

func TestLoad(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "party.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if s.Name() != "gamedata" {
		t.Errorf("Name() = %q, want gamedata", s.Name())
	}
	want := []string{"Adventurer", "Party", "Quest", "QuestGiver"}
	if got := s.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestSchemaDiscovery(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "party.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	reg := newRegistry(t)

	party, ok := s.Model("Party")
	if !ok {
		t.Fatal("Party not found in schema")
	}

	d, err := erd.Create([]any{party}, erd.WithRegistry(reg), erd.WithDepthLimit(2))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(d.Models()) != 4 {
		t.Errorf("models = %d, want 4", len(d.Models()))
	}
	if len(d.Edges()) != 3 {
		t.Errorf("edges = %d, want 3", len(d.Edges()))
	}
	if d.Name() != "Party" {
		t.Errorf("Name() = %q, want Party", d.Name())
	}

	// Edge classification drawn straight from the type syntax.
	type cm struct {
		field       string
		cardinality erd.Cardinality
		modality    erd.Modality
	}
	var got []cm
	for _, e := range d.Edges() {
		c, m := e.CardinalityModality()
		got = append(got, cm{e.SourceField.Name(), c, m})
	}
	wantCM := []cm{
		{"members", erd.CardinalityMany, erd.ModalityOptional},
		{"active_quest", erd.CardinalityOne, erd.ModalityOptional},
		{"giver", erd.CardinalityOne, erd.ModalityMandatory},
	}
	if !reflect.DeepEqual(got, wantCM) {
		t.Errorf("edge classes = %v, want %v", got, wantCM)
	}
}

func TestSchemaAsNamespace(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "party.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	reg := newRegistry(t)

	d, err := erd.Create([]any{s}, erd.WithRegistry(reg), erd.WithDepthLimit(1))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(d.Models()) != 4 {
		t.Errorf("models = %d, want 4", len(d.Models()))
	}
}

func TestUndeclaredNameStaysForwardRef(t *testing.T) {
	src := `
[models.Account]
[[models.Account.fields]]
name = "owner"
type = "Person"
`
	s, err := Parse([]byte(src), "test")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	reg := newRegistry(t)

	account, _ := s.Model("Account")
	_, err = erd.Create([]any{account}, erd.WithRegistry(reg))
	if !apperrors.Is(err, apperrors.ErrCodeUnevaluatedForwardRef) {
		t.Fatalf("error = %v, want UNEVALUATED_FORWARD_REF", err)
	}
	for _, want := range []string{"Account", "owner", "Person"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should name %q", err.Error(), want)
		}
	}
}

func TestUnparseableTypeStaysStringAnnotation(t *testing.T) {
	src := `
[models.Account]
[[models.Account.fields]]
name = "owner"
type = "List<Person>"
`
	s, err := Parse([]byte(src), "test")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	reg := newRegistry(t)

	account, _ := s.Model("Account")
	_, err = erd.Create([]any{account}, erd.WithRegistry(reg))
	if !apperrors.Is(err, apperrors.ErrCodeStringForwardRef) {
		t.Fatalf("error = %v, want STRING_FORWARD_REF", err)
	}
	if !strings.Contains(err.Error(), "List<Person>") {
		t.Errorf("error %q should carry the raw annotation", err.Error())
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code apperrors.Code
	}{
		{
			name: "NoModels",
			src:  `name = "empty"`,
			code: apperrors.ErrCodeInvalidManifest,
		},
		{
			name: "FieldWithoutName",
			src: `
[models.A]
[[models.A.fields]]
type = "string"
`,
			code: apperrors.ErrCodeInvalidField,
		},
		{
			name: "DuplicateField",
			src: `
[models.A]
[[models.A.fields]]
name = "x"
type = "string"
[[models.A.fields]]
name = "x"
type = "int"
`,
			code: apperrors.ErrCodeInvalidField,
		},
		{
			name: "FieldWithoutType",
			src: `
[models.A]
[[models.A.fields]]
name = "x"
`,
			code: apperrors.ErrCodeInvalidField,
		},
		{
			name: "MalformedTOML",
			src:  `models = [`,
			code: apperrors.ErrCodeInvalidManifest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.src), "test")
			if !apperrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestFieldPredicates(t *testing.T) {
	src := `
[models.Bag]
[[models.Bag.fields]]
name = "single"
type = "Coin"
[[models.Bag.fields]]
name = "opt"
type = "?Coin"
[[models.Bag.fields]]
name = "many"
type = "[]Coin"
[[models.Bag.fields]]
name = "opt_many"
type = "?[]Coin"
[[models.Bag.fields]]
name = "index"
type = "map[string]Coin"

[models.Coin]
[[models.Coin.fields]]
name = "value"
type = "int"
`
	s, err := Parse([]byte(src), "test")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var fw Framework
	decl, _ := s.Model("Bag")
	m, err := fw.Adapt(decl)
	if err != nil {
		t.Fatalf("Adapt() error = %v", err)
	}

	want := map[string]struct{ many, nullable bool }{
		"single":   {false, false},
		"opt":      {false, true},
		"many":     {true, false},
		"opt_many": {true, true},
		"index":    {true, false},
	}
	for _, f := range m.Fields() {
		w := want[f.Name()]
		if f.IsMany() != w.many || f.IsNullable() != w.nullable {
			t.Errorf("%s: (many=%v, nullable=%v), want (%v, %v)", f.Name(), f.IsMany(), f.IsNullable(), w.many, w.nullable)
		}
	}
}

func TestModelKeyQualifiedBySchema(t *testing.T) {
	src := `
name = "inventory"
[models.Item]
[[models.Item.fields]]
name = "label"
type = "string"
`
	s, err := Parse([]byte(src), "fallback")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	var fw Framework
	decl, _ := s.Model("Item")
	m, _ := fw.Adapt(decl)
	if m.Key() != "inventory.Item" {
		t.Errorf("Key() = %q, want inventory.Item", m.Key())
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want string // round-trip via Expr.String
	}{
		{"Quest", "Quest"},
		{"?Quest", "?Quest"},
		{"[]Adventurer", "[]Adventurer"},
		{"?[]Adventurer", "?[]Adventurer"},
		{"map[string]Quest", "map[string]Quest"},
		{"Quest | QuestGiver", "Quest | QuestGiver"},
		{" ?  Quest ", "?Quest"},
		{"map[string][]Quest", "map[string][]Quest"},
	}
	for _, tt := range tests {
		expr, err := parseType(tt.in)
		if err != nil {
			t.Errorf("parseType(%q) error = %v", tt.in, err)
			continue
		}
		if got := expr.String(); got != tt.want {
			t.Errorf("parseType(%q).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseTypeErrors(t *testing.T) {
	for _, in := range []string{"", "[]", "map[string", "Quest |", "List<Person>", "?", "map[]X", "9Lives"} {
		if _, err := parseType(in); err == nil {
			t.Errorf("parseType(%q) should fail", in)
		}
	}
}

func TestUnionCandidates(t *testing.T) {
	src := `
[models.Event]
[[models.Event.fields]]
name = "actor"
type = "Hero | Villain"

[models.Hero]
[[models.Hero.fields]]
name = "name"
type = "string"

[models.Villain]
[[models.Villain.fields]]
name = "name"
type = "string"
`
	s, err := Parse([]byte(src), "test")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	reg := newRegistry(t)

	event, _ := s.Model("Event")
	d, err := erd.Create([]any{event}, erd.WithRegistry(reg))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if len(d.Edges()) != 2 {
		t.Errorf("edges = %d, want one per union member", len(d.Edges()))
	}
}

func TestResolvePrimitives(t *testing.T) {
	src := `
[models.A]
[[models.A.fields]]
name = "when"
type = "datetime"
`
	s, err := Parse([]byte(src), "test")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	decl, _ := s.Model("A")
	expr := decl.fields[0].expr
	named, ok := expr.(typeexpr.Named)
	if !ok {
		t.Fatalf("expr = %T, want Named scalar", expr)
	}
	if named.Display != "datetime" {
		t.Errorf("Display = %q, want datetime", named.Display)
	}
}
