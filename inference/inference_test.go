package inference

import (
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayleygraph/shacl/graph"
)

func TestStoreProcessQuad(t *testing.T) {
	store := NewStore()
	q := quad.Quad{Subject: quad.IRI("alice"), Predicate: quad.IRI(rdf.Type), Object: quad.IRI("Person"), Label: nil}
	store.ProcessQuad(q)
	createdClass := store.GetClass(quad.IRI("Person"))
	if createdClass == nil {
		t.Error("Class was not created")
	}
}

func TestStoreProcessQuadClassDeclaration(t *testing.T) {
	store := NewStore()
	store.ProcessQuads([]quad.Quad{
		{Subject: quad.IRI("Person"), Predicate: quad.IRI(rdf.Type), Object: quad.IRI(rdfs.Class)},
		{Subject: quad.IRI("name"), Predicate: quad.IRI(rdfs.Domain), Object: quad.IRI("Agent")},
	})
	require.NotNil(t, store.GetClass(quad.IRI("Person")))
	assert.Nil(t, store.GetClass(quad.IRI("Agent")))
}

func subClass(child, parent string) quad.Quad {
	return quad.Quad{Subject: quad.IRI(child), Predicate: quad.IRI(rdfs.SubClassOf), Object: quad.IRI(parent)}
}

func TestIsSubClassOf(t *testing.T) {
	store := NewStore()
	store.ProcessQuads([]quad.Quad{
		subClass("Workshop", "Conference"),
		subClass("Conference", "Venue"),
		subClass("Journal", "Venue"),
	})
	var cases = []struct {
		child, parent string
		expect        bool
	}{
		{"Workshop", "Workshop", true},
		{"Workshop", "Conference", true},
		{"Workshop", "Venue", true},
		{"Venue", "Workshop", false},
		{"Journal", "Conference", false},
		{"Unknown", "Venue", false},
		{"Unknown", "Unknown", true},
		{"Workshop", rdfs.Resource, true},
	}
	for _, c := range cases {
		assert.Equal(t, c.expect, store.IsSubClassOf(quad.IRI(c.child), quad.IRI(c.parent)), "%s < %s", c.child, c.parent)
	}
	assert.Equal(t, []quad.Value{quad.IRI("Workshop"), quad.IRI("Conference"), quad.IRI("Venue")},
		store.SuperClasses(quad.IRI("Workshop")))
	assert.Equal(t, []quad.Value{quad.IRI("Unknown")}, store.SuperClasses(quad.IRI("Unknown")))
}

func TestSubClassCycle(t *testing.T) {
	store := NewStore()
	store.ProcessQuads([]quad.Quad{subClass("A", "B"), subClass("B", "A")})
	assert.True(t, store.IsSubClassOf(quad.IRI("A"), quad.IRI("B")))
	assert.True(t, store.IsSubClassOf(quad.IRI("B"), quad.IRI("A")))
	assert.Len(t, store.SuperClasses(quad.IRI("A")), 2)
}

func TestClosure(t *testing.T) {
	typ := quad.IRI(rdf.Type)
	data := graph.New(
		quad.Quad{Subject: quad.IRI("w1"), Predicate: typ, Object: quad.IRI("Workshop")},
		quad.Quad{Subject: quad.IRI("v1"), Predicate: typ, Object: quad.IRI("Venue")},
		subClass("Conference", "Venue"),
	)
	ontology := graph.New(subClass("Workshop", "Conference"))

	out := Closure(data, ontology)
	assert.True(t, out.Has(quad.IRI("w1"), typ, quad.IRI("Conference")))
	assert.True(t, out.Has(quad.IRI("w1"), typ, quad.IRI("Venue")))
	assert.False(t, out.Has(quad.IRI("v1"), typ, quad.IRI("Conference")))
	assert.Equal(t, data.Len()+2, out.Len())

	// inputs are untouched
	assert.Equal(t, 3, data.Len())
	assert.False(t, data.Has(quad.IRI("w1"), typ, quad.IRI("Venue")))

	// without the ontology only the data graph edges apply
	out = Closure(data)
	assert.False(t, out.Has(quad.IRI("w1"), typ, quad.IRI("Conference")))
	assert.Equal(t, data.Len(), out.Len())
}
