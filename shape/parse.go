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

package shape

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/cayleygraph/quad"

	"github.com/cayleygraph/shacl/clog"
	"github.com/cayleygraph/shacl/datatype"
	"github.com/cayleygraph/shacl/graph"
)

// ErrInvalidShape is returned by Parse for malformed shapes.
var ErrInvalidShape = errors.New("invalid shape")

var nodeKinds = map[quad.IRI]struct{}{
	shIRI: {}, shBlankNode: {}, shLiteral: {},
	shBlankNodeOrIRI: {}, shBlankNodeOrLiteral: {}, shIRIOrLiteral: {},
}

// Parse reads node shapes from a shape graph. A node shape is any node
// typed sh:NodeShape or having a sh:targetClass. SHACL features other than
// those modeled by Shape and Property are ignored.
func Parse(g *graph.Graph) (*Set, error) {
	var nodes []quad.Value
	seen := make(map[quad.Value]struct{})
	for _, q := range g.Quads() {
		if (q.Predicate == rdfType && q.Object == shNodeShape) || q.Predicate == shTargetClass {
			if _, ok := seen[q.Subject]; !ok {
				seen[q.Subject] = struct{}{}
				nodes = append(nodes, q.Subject)
			}
		}
	}
	set := &Set{}
	for _, id := range nodes {
		n := &Shape{ID: id, TargetClasses: g.Objects(id, shTargetClass)}
		for _, v := range g.Objects(id, shDeactivated) {
			if b, err := parseBool(v); err == nil && b {
				n.Deactivated = true
			}
		}
		for _, pid := range g.Objects(id, shProperty) {
			p, err := parseProperty(g, pid)
			if err != nil {
				return nil, fmt.Errorf("shape %v: %w", id, err)
			}
			n.Properties = append(n.Properties, p)
		}
		set.Shapes = append(set.Shapes, n)
	}
	sortSet(set)
	if clog.V(1) {
		clog.Infof("parsed %d shapes", len(set.Shapes))
	}
	return set, nil
}

func parseProperty(g *graph.Graph, id quad.Value) (*Property, error) {
	paths := g.Objects(id, shPath)
	if len(paths) != 1 {
		return nil, fmt.Errorf("%w: property shape %v has %d paths", ErrInvalidShape, id, len(paths))
	}
	path, ok := paths[0].(quad.IRI)
	if !ok {
		return nil, fmt.Errorf("%w: property shape %v: only IRI paths are supported, got %v", ErrInvalidShape, id, paths[0])
	}
	p := &Property{ID: id, Path: path, MaxCount: Unbounded}
	for _, v := range g.Objects(id, shDatatype) {
		dt, ok := v.(quad.IRI)
		if !ok {
			return nil, fmt.Errorf("%w: property shape %v: sh:datatype must be an IRI, got %v", ErrInvalidShape, id, v)
		}
		p.Datatypes = append(p.Datatypes, dt)
	}
	p.Classes = g.Objects(id, shClass)
	if kinds := g.Objects(id, shNodeKind); len(kinds) > 0 {
		k, ok := kinds[0].(quad.IRI)
		if _, known := nodeKinds[k]; !ok || !known || len(kinds) > 1 {
			return nil, fmt.Errorf("%w: property shape %v: invalid sh:nodeKind %v", ErrInvalidShape, id, kinds)
		}
		p.NodeKind = k
	}
	var err error
	if p.MinCount, err = parseCount(g, id, shMinCount, 0); err != nil {
		return nil, err
	}
	if p.MaxCount, err = parseCount(g, id, shMaxCount, Unbounded); err != nil {
		return nil, err
	}
	return p, nil
}

func parseCount(g *graph.Graph, id quad.Value, pred quad.IRI, def int) (int, error) {
	vals := g.Objects(id, pred)
	if len(vals) == 0 {
		return def, nil
	}
	_, lex, ok := datatype.Of(vals[0])
	n, err := strconv.Atoi(lex)
	if !ok || err != nil || n < 0 || len(vals) > 1 {
		return 0, fmt.Errorf("%w: property shape %v: invalid %v %v", ErrInvalidShape, id, pred, vals)
	}
	return n, nil
}

func parseBool(v quad.Value) (bool, error) {
	_, lex, ok := datatype.Of(v)
	if !ok {
		return false, fmt.Errorf("not a literal: %v", v)
	}
	return strconv.ParseBool(lex)
}
