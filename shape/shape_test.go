// Copyright 2014 The Cayley Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package shape_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/nquads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayleygraph/shacl/graph"
	"github.com/cayleygraph/shacl/graph/graphtest"
	"github.com/cayleygraph/shacl/quad/turtle"
	"github.com/cayleygraph/shacl/schema"
	"github.com/cayleygraph/shacl/shape"
)

const (
	xsdNS = "http://www.w3.org/2001/XMLSchema#"
	shNS  = "http://www.w3.org/ns/shacl#"
)

var iri = graphtest.IRI

func derive(t testing.TB, src string, opts shape.Options, sopts ...schema.Option) *shape.Set {
	return shape.Derive(schema.Load(graphtest.Turtle(t, src), sopts...), opts)
}

func TestID(t *testing.T) {
	var cases = []struct {
		class  quad.Value
		expect quad.Value
	}{
		{quad.IRI("http://example.org/schema#Paper"), quad.IRI("http://example.org/schema#PaperShape")},
		{quad.IRI("http://example.org/vocab/Paper"), quad.IRI("http://example.org/vocab/PaperShape")},
		{quad.IRI("urn:Paper"), quad.IRI("urn:PaperShape")},
	}
	for _, c := range cases {
		assert.Equal(t, c.expect, shape.ID(c.class))
	}
	b := shape.ID(quad.BNode("c1"))
	require.IsType(t, quad.BNode(""), b)
	assert.Equal(t, b, shape.ID(quad.BNode("c1")))
	assert.NotEqual(t, b, shape.ID(quad.BNode("c2")))
}

func TestDeriveBijection(t *testing.T) {
	m := schema.Load(graphtest.Turtle(t, graphtest.PublishingSchema))
	set := shape.Derive(m, shape.Options{})

	require.Equal(t, len(m.DomainClasses()), set.Len())
	targets := make(map[quad.Value]int)
	for _, n := range set.Shapes {
		require.Len(t, n.TargetClasses, 1)
		targets[n.TargetClasses[0]]++
		assert.Equal(t, shape.ID(n.TargetClasses[0]), n.ID)
	}
	for _, c := range m.DomainClasses() {
		assert.Equal(t, 1, targets[c], "class %v", c)
	}
	// classes without domain-bound properties get no shape
	assert.Empty(t, set.ForClass(iri("Conference")))
	assert.Empty(t, set.ForClass(iri("Reviewer")))
}

func TestDeriveDatatypeOrClass(t *testing.T) {
	set := derive(t, graphtest.PublishingSchema, shape.Options{})
	paper := set.ForClass(iri("Paper"))
	require.Len(t, paper, 1)
	n := paper[0]
	require.Len(t, n.Properties, 5)

	var cases = []struct {
		path      string
		datatypes []quad.IRI
		classes   []quad.Value
	}{
		{"title", []quad.IRI{xsdNS + "string"}, nil},
		{"hasYear", []quad.IRI{xsdNS + "gYear"}, nil},
		{"writtenBy", nil, []quad.Value{iri("Author")}},
		{"publishedIn", nil, []quad.Value{iri("Venue")}},
		{"note", nil, nil},
	}
	for _, c := range cases {
		t.Run(c.path, func(t *testing.T) {
			p := n.Property(iri(c.path))
			require.NotNil(t, p)
			assert.Equal(t, c.datatypes, p.Datatypes)
			assert.Equal(t, c.classes, p.Classes)
			assert.Equal(t, 0, p.MinCount)
			assert.Equal(t, shape.Unbounded, p.MaxCount)
		})
	}
	assert.True(t, n.Property(iri("note")).Open())

	// properties are ordered by path
	var paths []quad.IRI
	for _, p := range n.Properties {
		paths = append(paths, p.Path)
	}
	assert.Equal(t, []quad.IRI{iri("hasYear"), iri("note"), iri("publishedIn"), iri("title"), iri("writtenBy")}, paths)
}

func TestDeriveLiteralRange(t *testing.T) {
	const src = `ex:label rdfs:domain ex:Thing ; rdfs:range rdfs:Literal .`
	p := derive(t, src, shape.Options{}).Shapes[0].Properties[0]
	assert.Equal(t, []quad.Value{quad.IRI("http://www.w3.org/2000/01/rdf-schema#Literal")}, p.Classes)
	assert.Empty(t, p.NodeKind)

	p = derive(t, src, shape.Options{LiteralAsNodeKind: true}).Shapes[0].Properties[0]
	assert.Empty(t, p.Classes)
	assert.Equal(t, quad.IRI(shNS+"Literal"), p.NodeKind)
}

func TestDeriveDatatypeNamespaces(t *testing.T) {
	const src = `ex:lang rdfs:domain ex:Thing ; rdfs:range rdf:langString .`
	p := derive(t, src, shape.Options{}).Shapes[0].Properties[0]
	assert.Len(t, p.Classes, 1)

	opts := shape.Options{DatatypeNamespaces: []string{"http://www.w3.org/1999/02/22-rdf-syntax-ns#"}}
	p = derive(t, src, opts).Shapes[0].Properties[0]
	assert.Empty(t, p.Classes)
	assert.Equal(t, []quad.IRI{"http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"}, p.Datatypes)
}

// Minimum cardinality is not enforced by default.
func TestDerivePaperHasYear(t *testing.T) {
	for _, require1 := range []bool{false, true} {
		set := derive(t, graphtest.PaperSchema, shape.Options{RequirePresence: require1})
		require.Equal(t, 1, set.Len())
		n := set.Shapes[0]
		assert.Equal(t, []quad.Value{iri("Paper")}, n.TargetClasses)
		p := n.Property(iri("hasYear"))
		require.NotNil(t, p)
		assert.Equal(t, []quad.IRI{xsdNS + "gYear"}, p.Datatypes)
		assert.Empty(t, p.Classes)
		if require1 {
			assert.Equal(t, 1, p.MinCount)
		} else {
			assert.Equal(t, 0, p.MinCount)
		}
	}
}

const multi = `
ex:p rdfs:domain ex:A ; rdfs:range ex:X .
ex:p rdfs:domain ex:B ; rdfs:range xsd:string .
`

func TestDeriveMultiValuedPolicies(t *testing.T) {
	set := derive(t, multi, shape.Options{})
	require.Equal(t, 1, set.Len())
	assert.Equal(t, []quad.Value{iri("B")}, set.Shapes[0].TargetClasses)
	p := set.Shapes[0].Properties[0]
	assert.Equal(t, []quad.IRI{xsdNS + "string"}, p.Datatypes)
	assert.Empty(t, p.Classes)

	set = derive(t, multi, shape.Options{}, schema.WithPolicy(schema.Accumulate))
	require.Equal(t, 2, set.Len())
	for _, n := range set.Shapes {
		require.Len(t, n.Properties, 1)
		p := n.Properties[0]
		assert.Equal(t, []quad.Value{iri("X")}, p.Classes)
		assert.Equal(t, []quad.IRI{xsdNS + "string"}, p.Datatypes)
	}
	assert.NotEqual(t, set.Shapes[0].Properties[0].ID, set.Shapes[1].Properties[0].ID)
}

func writeNQuads(t testing.TB, quads []quad.Quad) string {
	var buf bytes.Buffer
	w := nquads.NewWriter(&buf)
	_, err := w.WriteQuads(quads)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.String()
}

func writeTurtle(t testing.TB, quads []quad.Quad) string {
	var buf bytes.Buffer
	w := turtle.NewWriter(&buf)
	_, err := w.WriteQuads(quads)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.String()
}

func TestDeriveIdempotent(t *testing.T) {
	opts := shape.Options{RequirePresence: true}
	a := derive(t, graphtest.PublishingSchema, opts).Quads()
	b := derive(t, graphtest.PublishingSchema, opts).Quads()
	assert.Equal(t, writeNQuads(t, a), writeNQuads(t, b))
	assert.Equal(t, writeTurtle(t, a), writeTurtle(t, b))
}

func TestDeriveOrderIndependent(t *testing.T) {
	g := graphtest.Turtle(t, graphtest.PublishingSchema)
	quads := g.Quads()
	rev := make([]quad.Quad, len(quads))
	for i, q := range quads {
		rev[len(quads)-1-i] = q
	}
	a := shape.Derive(schema.Load(g), shape.Options{})
	b := shape.Derive(schema.Load(graph.New(rev...)), shape.Options{})
	assert.Equal(t, writeNQuads(t, a.Quads()), writeNQuads(t, b.Quads()))
}

func TestParseRoundTrip(t *testing.T) {
	set := derive(t, graphtest.PublishingSchema, shape.Options{RequirePresence: true})
	parsed, err := shape.Parse(set.Graph())
	require.NoError(t, err)
	assert.Equal(t, set, parsed)

	// through Turtle, blank nodes are relabeled
	g, err := graph.ReadFrom(turtle.NewReader(bytes.NewBufferString(writeTurtle(t, set.Quads()))))
	require.NoError(t, err)
	parsed, err = shape.Parse(g)
	require.NoError(t, err)
	require.Equal(t, set.Len(), parsed.Len())
	for i, n := range set.Shapes {
		assert.Equal(t, n.ID, parsed.Shapes[i].ID)
		assert.Equal(t, n.TargetClasses, parsed.Shapes[i].TargetClasses)
		require.Len(t, parsed.Shapes[i].Properties, len(n.Properties))
		for j, p := range n.Properties {
			q := parsed.Shapes[i].Properties[j]
			assert.Equal(t, p.Path, q.Path)
			assert.Equal(t, p.Datatypes, q.Datatypes)
			assert.Equal(t, p.Classes, q.Classes)
			assert.Equal(t, p.MinCount, q.MinCount)
		}
	}
}

func TestParse(t *testing.T) {
	g := graphtest.Turtle(t, `
ex:S a sh:NodeShape ;
    sh:targetClass ex:A , ex:B ;
    sh:deactivated true ;
    sh:property [ sh:path ex:p ; sh:nodeKind sh:IRI ; sh:minCount 1 ; sh:maxCount 2 ] .
ex:T sh:targetClass ex:C .
`)
	set, err := shape.Parse(g)
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())
	s := set.Shapes[0]
	assert.Equal(t, iri("S"), s.ID)
	assert.Equal(t, []quad.Value{iri("A"), iri("B")}, s.TargetClasses)
	assert.True(t, s.Deactivated)
	p := s.Property(iri("p"))
	require.NotNil(t, p)
	assert.Equal(t, quad.IRI(shNS+"IRI"), p.NodeKind)
	assert.Equal(t, 1, p.MinCount)
	assert.Equal(t, 2, p.MaxCount)
	assert.Empty(t, set.Shapes[1].Properties)
}

func TestParseInvalid(t *testing.T) {
	var cases = []struct {
		name string
		src  string
	}{
		{"no path", `ex:S sh:targetClass ex:A ; sh:property [ sh:class ex:B ] .`},
		{"literal path", `ex:S sh:targetClass ex:A ; sh:property [ sh:path "p" ] .`},
		{"bad node kind", `ex:S sh:targetClass ex:A ; sh:property [ sh:path ex:p ; sh:nodeKind ex:Thing ] .`},
		{"bad count", `ex:S sh:targetClass ex:A ; sh:property [ sh:path ex:p ; sh:minCount "many" ] .`},
		{"literal datatype", `ex:S sh:targetClass ex:A ; sh:property [ sh:path ex:p ; sh:datatype "int" ] .`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := shape.Parse(graphtest.Turtle(t, c.src))
			require.Error(t, err)
			assert.True(t, errors.Is(err, shape.ErrInvalidShape))
		})
	}
}

func TestDeriveBlankProperty(t *testing.T) {
	set := derive(t, `
ex:Paper a rdfs:Class .
_:p rdfs:domain ex:Paper ; rdfs:range xsd:string .
ex:title rdfs:domain ex:Paper ; rdfs:range xsd:string .
`, shape.Options{})
	require.Equal(t, 1, set.Len())
	props := set.Shapes[0].Properties
	require.Len(t, props, 1)
	assert.Equal(t, iri("title"), props[0].Path)
}
