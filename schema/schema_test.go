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

package schema_test

import (
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayleygraph/shacl/graph/graphtest"
	"github.com/cayleygraph/shacl/schema"
)

var iri = graphtest.IRI

func TestLoadIndexes(t *testing.T) {
	g := graphtest.Turtle(t, graphtest.PublishingSchema)
	m := schema.Load(g)

	assert.Equal(t, []quad.Value{iri("Paper"), iri("Author"), iri("Venue")}, m.DomainClasses())
	assert.Equal(t, []quad.Value{iri("title"), iri("hasYear"), iri("writtenBy"), iri("publishedIn"), iri("note")},
		m.PropertiesOf(iri("Paper")))
	assert.Equal(t, []quad.Value{quad.IRI("http://www.w3.org/2001/XMLSchema#gYear")}, m.Range(iri("hasYear")))
	assert.Empty(t, m.Range(iri("note")))

	// a property with a range but no domain is kept in the range index only
	assert.Len(t, m.Range(iri("orphan")), 1)
	for _, props := range m.Domains {
		assert.NotContains(t, props, iri("orphan"))
	}

	assert.Equal(t, []quad.Value{iri("Venue")}, m.SubClasses[iri("Conference")])
	assert.Len(t, m.Classes(), 6)
	assert.Len(t, m.Properties(), 8)
	assert.Len(t, m.SubClassTriples(), 3)
}

func TestLoadUndeclaredProperty(t *testing.T) {
	g := graphtest.Turtle(t, `ex:p rdfs:domain ex:C ; rdfs:range ex:D .`)
	m := schema.Load(g)
	assert.Equal(t, []quad.Value{iri("p")}, m.PropertiesOf(iri("C")))
	assert.Equal(t, []quad.Value{iri("D")}, m.Range(iri("p")))
	assert.Empty(t, m.Properties())
	assert.Empty(t, m.Classes())
}

const multi = `
ex:p rdfs:domain ex:A ; rdfs:range ex:X .
ex:p rdfs:domain ex:B ; rdfs:range ex:Y .
ex:q rdfs:domain ex:A .
`

func TestLoadLastWins(t *testing.T) {
	m := schema.Load(graphtest.Turtle(t, multi))
	require.Equal(t, schema.LastWins, m.Policy)

	assert.Equal(t, []quad.Value{iri("q")}, m.PropertiesOf(iri("A")))
	assert.Equal(t, []quad.Value{iri("p")}, m.PropertiesOf(iri("B")))
	assert.Equal(t, []quad.Value{iri("Y")}, m.Range(iri("p")))
}

func TestLoadAccumulate(t *testing.T) {
	m := schema.Load(graphtest.Turtle(t, multi), schema.WithPolicy(schema.Accumulate))

	assert.Equal(t, []quad.Value{iri("A"), iri("B")}, m.DomainClasses())
	assert.Equal(t, []quad.Value{iri("p"), iri("q")}, m.PropertiesOf(iri("A")))
	assert.Equal(t, []quad.Value{iri("p")}, m.PropertiesOf(iri("B")))
	assert.Equal(t, []quad.Value{iri("X"), iri("Y")}, m.Range(iri("p")))
}

func TestParsePolicy(t *testing.T) {
	var cases = []struct {
		in     string
		expect schema.Policy
		err    bool
	}{
		{"", schema.LastWins, false},
		{"last-wins", schema.LastWins, false},
		{"Accumulate", schema.Accumulate, false},
		{"union", schema.Accumulate, false},
		{"first-wins", 0, true},
	}
	for _, c := range cases {
		p, err := schema.ParsePolicy(c.in)
		if c.err {
			assert.Error(t, err, c.in)
			continue
		}
		require.NoError(t, err, c.in)
		assert.Equal(t, c.expect, p, c.in)
		assert.Equal(t, c.expect.String(), p.String())
	}
}
