package inference

import (
	"github.com/cayleygraph/quad"

	"github.com/cayleygraph/shacl/clog"
	"github.com/cayleygraph/shacl/graph"
)

// Closure returns a new graph with the data graph and the rdf:type triples
// entailed by rdfs:subClassOf edges of the data and ontology graphs.
// None of the input graphs are modified.
func Closure(data *graph.Graph, ontology ...*graph.Graph) *graph.Graph {
	store := NewStore()
	for _, g := range append([]*graph.Graph{data}, ontology...) {
		if g == nil {
			continue
		}
		for _, q := range g.Match(nil, rdfsSubClassOf, nil) {
			store.ProcessQuad(q)
		}
	}
	var extra []quad.Quad
	for _, q := range data.Match(nil, rdfType, nil) {
		for _, super := range store.SuperClasses(q.Object) {
			if super == q.Object || data.Has(q.Subject, rdfType, super) {
				continue
			}
			extra = append(extra, quad.Quad{Subject: q.Subject, Predicate: rdfType, Object: super})
		}
	}
	out := data.With(extra...)
	if clog.V(1) {
		clog.Infof("inference: %d type triples entailed", out.Len()-data.Len())
	}
	return out
}
