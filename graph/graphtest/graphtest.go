// Package graphtest contains shared fixtures for tests of schema, shape and validation packages.
package graphtest

import (
	"strings"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/require"

	"github.com/cayleygraph/shacl/graph"
	"github.com/cayleygraph/shacl/quad/turtle"
)

// NS is the namespace used by all fixtures.
const NS = "http://example.org/schema#"

// Prefixes is a Turtle prefix header with ex, rdf, rdfs and xsd bound.
const Prefixes = `@prefix ex: <` + NS + `> .
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .
@prefix sh: <http://www.w3.org/ns/shacl#> .
`

// IRI returns a fixture IRI with the given local name.
func IRI(local string) quad.IRI {
	return quad.IRI(NS + local)
}

// Turtle parses a Turtle document prefixed with Prefixes into a graph.
func Turtle(t testing.TB, src string) *graph.Graph {
	t.Helper()
	r := turtle.NewReader(strings.NewReader(Prefixes + src))
	defer r.Close()
	g, err := graph.ReadFrom(r)
	require.NoError(t, err)
	return g
}

// PaperSchema declares a Paper class with a datatype property and an object property.
const PaperSchema = `
ex:Paper a rdfs:Class .
ex:Author a rdfs:Class .
ex:hasYear a rdf:Property ; rdfs:domain ex:Paper ; rdfs:range xsd:gYear .
ex:writtenBy a rdf:Property ; rdfs:domain ex:Paper ; rdfs:range ex:Author .
`

// PublishingSchema is a small publishing vocabulary with subclasses, an
// untyped property and a property without a domain.
const PublishingSchema = `
ex:Paper a rdfs:Class .
ex:Author a rdfs:Class .
ex:Venue a rdfs:Class .
ex:Conference a rdfs:Class ; rdfs:subClassOf ex:Venue .
ex:Workshop a rdfs:Class ; rdfs:subClassOf ex:Conference .
ex:Reviewer a rdfs:Class ; rdfs:subClassOf ex:Author .

ex:title a rdf:Property ; rdfs:domain ex:Paper ; rdfs:range xsd:string .
ex:hasYear a rdf:Property ; rdfs:domain ex:Paper ; rdfs:range xsd:gYear .
ex:writtenBy a rdf:Property ; rdfs:domain ex:Paper ; rdfs:range ex:Author .
ex:publishedIn a rdf:Property ; rdfs:domain ex:Paper ; rdfs:range ex:Venue .
ex:note a rdf:Property ; rdfs:domain ex:Paper .
ex:name a rdf:Property ; rdfs:domain ex:Author ; rdfs:range xsd:string .
ex:city a rdf:Property ; rdfs:domain ex:Venue ; rdfs:range xsd:string .
ex:orphan a rdf:Property ; rdfs:range xsd:string .
`
