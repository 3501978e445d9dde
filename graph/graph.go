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

// Package graph implements an immutable in-memory triple set with hashed
// per-direction indexes.
//
// A Graph is built once and never changes afterwards; operations that derive
// new data (Merge, With) return a new Graph.
package graph

import (
	"io"

	"github.com/cayleygraph/quad"
)

// Graph is an indexed, de-duplicated set of triples in insertion order.
// Labels are dropped: all quads live in the default graph.
type Graph struct {
	quads []quad.Quad
	seen  map[key]struct{}
	index [3]map[quad.Value][]int
}

type key struct {
	s, p, o quad.Value
}

var directions = [3]quad.Direction{quad.Subject, quad.Predicate, quad.Object}

// New builds a graph from quads. IRIs in the short prefix form are expanded
// with the global vocabulary registry.
func New(quads ...quad.Quad) *Graph {
	g := &Graph{seen: make(map[key]struct{}, len(quads))}
	for i := range g.index {
		g.index[i] = make(map[quad.Value][]int)
	}
	for _, q := range quads {
		g.add(q)
	}
	return g
}

// ReadFrom builds a graph from all quads of a reader.
func ReadFrom(r quad.Reader) (*Graph, error) {
	g := New()
	for {
		q, err := r.ReadQuad()
		if err == io.EOF {
			return g, nil
		} else if err != nil {
			return nil, err
		}
		g.add(q)
	}
}

func normalize(v quad.Value) quad.Value {
	switch v := v.(type) {
	case quad.IRI:
		return v.Full()
	case quad.TypedString:
		v.Type = v.Type.Full()
		return v
	}
	return v
}

func (g *Graph) add(q quad.Quad) bool {
	q = quad.Quad{
		Subject:   normalize(q.Subject),
		Predicate: normalize(q.Predicate),
		Object:    normalize(q.Object),
	}
	if q.Subject == nil || q.Predicate == nil || q.Object == nil {
		return false
	}
	k := key{s: q.Subject, p: q.Predicate, o: q.Object}
	if _, ok := g.seen[k]; ok {
		return false
	}
	g.seen[k] = struct{}{}
	i := len(g.quads)
	g.quads = append(g.quads, q)
	for d, dir := range directions {
		v := q.Get(dir)
		g.index[d][v] = append(g.index[d][v], i)
	}
	return true
}

// Len returns the number of triples in the graph.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.quads)
}

// Quads returns a copy of all triples in insertion order.
func (g *Graph) Quads() []quad.Quad {
	if g == nil {
		return nil
	}
	out := make([]quad.Quad, len(g.quads))
	copy(out, g.quads)
	return out
}

// Reader returns a quad reader over the graph contents.
func (g *Graph) Reader() quad.Reader {
	return quad.NewReader(g.Quads())
}

// Has checks if the triple is present in the graph.
func (g *Graph) Has(s, p, o quad.Value) bool {
	if g == nil {
		return false
	}
	_, ok := g.seen[key{s: normalize(s), p: normalize(p), o: normalize(o)}]
	return ok
}

// Match returns all triples matching the pattern in insertion order.
// A nil value matches anything.
func (g *Graph) Match(s, p, o quad.Value) []quad.Quad {
	if g == nil {
		return nil
	}
	pattern := [3]quad.Value{normalize(s), normalize(p), normalize(o)}
	// pick the most selective bound direction
	var best []int
	bound := false
	for d, v := range pattern {
		if v == nil {
			continue
		}
		ids := g.index[d][v]
		if !bound || len(ids) < len(best) {
			best, bound = ids, true
		}
	}
	if !bound {
		return g.Quads()
	}
	var out []quad.Quad
	for _, i := range best {
		q := g.quads[i]
		if matches(q, pattern) {
			out = append(out, q)
		}
	}
	return out
}

func matches(q quad.Quad, pattern [3]quad.Value) bool {
	for d, v := range pattern {
		if v != nil && q.Get(directions[d]) != v {
			return false
		}
	}
	return true
}

// Objects returns objects of all triples with a given subject and predicate.
func (g *Graph) Objects(s, p quad.Value) []quad.Value {
	var out []quad.Value
	for _, q := range g.Match(s, p, nil) {
		out = append(out, q.Object)
	}
	return out
}

// Subjects returns subjects of all triples with a given predicate and object.
func (g *Graph) Subjects(p, o quad.Value) []quad.Value {
	var out []quad.Value
	for _, q := range g.Match(nil, p, o) {
		out = append(out, q.Subject)
	}
	return out
}

// SubjectsOf returns all distinct subjects in insertion order.
func (g *Graph) SubjectsOf() []quad.Value {
	if g == nil {
		return nil
	}
	out := make([]quad.Value, 0, len(g.index[0]))
	seen := make(map[quad.Value]struct{}, len(g.index[0]))
	for _, q := range g.quads {
		if _, ok := seen[q.Subject]; ok {
			continue
		}
		seen[q.Subject] = struct{}{}
		out = append(out, q.Subject)
	}
	return out
}

// With returns a new graph containing all triples of g followed by quads.
func (g *Graph) With(quads ...quad.Quad) *Graph {
	n := New(g.Quads()...)
	for _, q := range quads {
		n.add(q)
	}
	return n
}

// Merge returns a new graph containing the union of g and other graphs.
func (g *Graph) Merge(others ...*Graph) *Graph {
	n := New(g.Quads()...)
	for _, o := range others {
		if o == nil {
			continue
		}
		for _, q := range o.quads {
			n.add(q)
		}
	}
	return n
}
