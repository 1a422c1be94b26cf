package erd

import (
	"github.com/christophertubbs/erdantic/pkg/typeexpr"
)

// Test fixture: a minimal in-memory data-modeling framework. Models are
// declared directly as values, which keeps traversal behavior independent
// of any real adapter.

type fakeField struct {
	name     string
	typ      typeexpr.Expr
	desc     string
	many     bool
	nullable bool
}

func (f *fakeField) Name() string        { return f.name }
func (f *fakeField) Type() typeexpr.Expr { return f.typ }
func (f *fakeField) Description() string { return f.desc }
func (f *fakeField) IsMany() bool        { return f.many }
func (f *fakeField) IsNullable() bool    { return f.nullable }

type fakeModel struct {
	key    string
	name   string
	desc   string
	fields []*fakeField
}

func (m *fakeModel) Key() string  { return m.key }
func (m *fakeModel) Name() string { return m.name }
func (m *fakeModel) Fields() []Field {
	out := make([]Field, len(m.fields))
	for i, f := range m.fields {
		out[i] = f
	}
	return out
}
func (m *fakeModel) Description() string { return m.desc }

func newFakeModel(name string, fields ...*fakeField) *fakeModel {
	return &fakeModel{key: "fake." + name, name: name, fields: fields}
}

// fakeFramework claims *fakeModel values and returns them as-is.
type fakeFramework struct{}

func (fakeFramework) IsModelType(raw any) bool {
	_, ok := raw.(*fakeModel)
	return ok
}

func (fakeFramework) Adapt(raw any) (Model, error) {
	return raw.(*fakeModel), nil
}

func newFakeRegistry() *Registry {
	r := NewRegistry()
	if err := r.Register("fake", fakeFramework{}); err != nil {
		panic(err)
	}
	return r
}

func ref(m *fakeModel) typeexpr.Expr {
	return typeexpr.Named{Raw: m, Display: m.name}
}

// partyFixture builds the demo composition graph:
//
//	Party.members      []Adventurer
//	Party.active_quest ?Quest
//	Quest.giver        QuestGiver
func partyFixture() (party, adventurer, quest, giver *fakeModel) {
	adventurer = newFakeModel("Adventurer",
		&fakeField{name: "name", typ: typeexpr.Named{Display: "string"}},
		&fakeField{name: "level", typ: typeexpr.Named{Display: "int"}},
	)
	giver = newFakeModel("QuestGiver",
		&fakeField{name: "name", typ: typeexpr.Named{Display: "string"}},
	)
	quest = newFakeModel("Quest",
		&fakeField{name: "name", typ: typeexpr.Named{Display: "string"}},
		&fakeField{name: "giver", typ: ref(giver)},
	)
	party = newFakeModel("Party",
		&fakeField{name: "name", typ: typeexpr.Named{Display: "string"}},
		&fakeField{name: "members", typ: typeexpr.List{Elem: ref(adventurer)}, many: true},
		&fakeField{name: "active_quest", typ: typeexpr.Optional{Elem: ref(quest)}, nullable: true},
	)
	return party, adventurer, quest, giver
}

func modelNames(d *Diagram) []string {
	out := make([]string, len(d.Models()))
	for i, m := range d.Models() {
		out[i] = m.Name()
	}
	return out
}

type edgeTriple struct {
	source, field, target string
}

func edgeTriples(d *Diagram) []edgeTriple {
	out := make([]edgeTriple, len(d.Edges()))
	for i, e := range d.Edges() {
		out[i] = edgeTriple{e.Source.Name(), e.SourceField.Name(), e.Target.Name()}
	}
	return out
}
