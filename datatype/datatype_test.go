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

package datatype

import (
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const xsdNS = "http://www.w3.org/2001/XMLSchema#"

func TestOf(t *testing.T) {
	var cases = []struct {
		value   quad.Value
		dt      quad.IRI
		lexical string
		ok      bool
	}{
		{quad.String("a"), xsdNS + "string", "a", true},
		{quad.LangString{Value: "hola", Lang: "es"}, LangString, "hola", true},
		{quad.TypedString{Value: "2020", Type: "xsd:gYear"}, xsdNS + "gYear", "2020", true},
		{quad.Int(42), xsdNS + "integer", "42", true},
		{quad.Bool(true), xsdNS + "boolean", "true", true},
		{quad.IRI("http://example.org/a"), "", "", false},
		{quad.BNode("b"), "", "", false},
		{nil, "", "", false},
	}
	for _, c := range cases {
		dt, lex, ok := Of(c.value)
		assert.Equal(t, c.ok, ok, "%v", c.value)
		assert.Equal(t, c.dt, dt, "%v", c.value)
		assert.Equal(t, c.lexical, lex, "%v", c.value)
		assert.Equal(t, c.ok, IsLiteral(c.value))
	}
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported(xsdNS+"integer"))
	assert.True(t, Supported("xsd:gYear"))
	assert.False(t, Supported(xsdNS+"dateTimeStamp"))
	assert.False(t, Supported("http://example.org/Year"))
}

func TestCheckerValid(t *testing.T) {
	c := NewChecker()
	var cases = []struct {
		dt      string
		lexical string
		valid   bool
	}{
		{"integer", "42", true},
		{"integer", "-7", true},
		{"integer", "forty-two", false},
		{"gYear", "2020", true},
		{"gYear", "20x0", false},
		{"boolean", "true", true},
		{"boolean", "yes", false},
		{"date", "2020-02-29", true},
		{"date", "2020-13-01", false},
		{"string", "<tag> & \"quotes\"", true},
	}
	for _, cs := range cases {
		t.Run(cs.dt+"/"+cs.lexical, func(t *testing.T) {
			ok, err := c.Valid(quad.IRI(xsdNS+cs.dt), cs.lexical)
			require.NoError(t, err)
			assert.Equal(t, cs.valid, ok)
		})
	}
}

func TestCheckerUnknownAccepted(t *testing.T) {
	ok, err := NewChecker().Valid("http://example.org/Custom", "anything")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCheckerCached(t *testing.T) {
	c := Default()
	require.Same(t, c, Default())
	for i := 0; i < 2; i++ {
		ok, err := c.Valid(xsdNS+"int", "12")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	assert.Contains(t, c.cache, "int\x0012")
}
