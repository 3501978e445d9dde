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

// Package shape contains SHACL node shapes and their derivation from RDFS schemas.
//
// Only a subset of SHACL core is modeled: class targets and property shapes
// with an IRI path and class, datatype, node kind and cardinality constraints.
package shape

import (
	"sort"
	"strconv"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/xsd"

	"github.com/cayleygraph/shacl/graph"
	"github.com/cayleygraph/shacl/voc/sh"
)

// Unbounded is the MaxCount of a property shape without sh:maxCount.
const Unbounded = -1

// Property is a property shape.
type Property struct {
	// ID is a node of the property shape, usually a blank node.
	ID quad.Value
	// Path is the property IRI.
	Path quad.IRI
	// Datatypes lists sh:datatype values; a value must have each of them.
	Datatypes []quad.IRI
	// Classes lists sh:class values; a value must be an instance of each of them.
	Classes []quad.Value
	// NodeKind is a sh:nodeKind value, or empty.
	NodeKind quad.IRI
	MinCount int
	MaxCount int
}

// Open checks if the property shape accepts any value.
func (p *Property) Open() bool {
	return len(p.Datatypes) == 0 && len(p.Classes) == 0 && p.NodeKind == "" &&
		p.MinCount == 0 && p.MaxCount == Unbounded
}

// Shape is a node shape.
type Shape struct {
	ID            quad.Value
	TargetClasses []quad.Value
	Properties    []*Property
	Deactivated   bool
}

// Property returns the property shape with the given path, or nil.
func (s *Shape) Property(path quad.IRI) *Property {
	path = path.Full()
	for _, p := range s.Properties {
		if p.Path == path {
			return p
		}
	}
	return nil
}

// Set is an ordered list of shapes.
type Set struct {
	Shapes []*Shape
}

// Len returns the number of shapes in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Shapes)
}

// ForClass returns shapes that target class c.
func (s *Set) ForClass(c quad.Value) []*Shape {
	var out []*Shape
	for _, n := range s.Shapes {
		for _, t := range n.TargetClasses {
			if t == c {
				out = append(out, n)
				break
			}
		}
	}
	return out
}

var (
	rdfType              = quad.IRI(rdf.Type).Full()
	xsdInteger           = quad.IRI(xsd.Integer).Full()
	xsdBoolean           = quad.IRI(xsd.Boolean).Full()
	shNodeShape          = quad.IRI(sh.NodeShape).Full()
	shTargetClass        = quad.IRI(sh.TargetClass).Full()
	shProperty           = quad.IRI(sh.Property).Full()
	shPath               = quad.IRI(sh.Path).Full()
	shClass              = quad.IRI(sh.Class).Full()
	shDatatype           = quad.IRI(sh.Datatype).Full()
	shNodeKind           = quad.IRI(sh.NodeKind).Full()
	shMinCount           = quad.IRI(sh.MinCount).Full()
	shMaxCount           = quad.IRI(sh.MaxCount).Full()
	shDeactivated        = quad.IRI(sh.Deactivated).Full()
	shLiteral            = quad.IRI(sh.Literal).Full()
	shIRI                = quad.IRI(sh.IRI).Full()
	shBlankNode          = quad.IRI(sh.BlankNode).Full()
	shBlankNodeOrIRI     = quad.IRI(sh.BlankNodeOrIRI).Full()
	shBlankNodeOrLiteral = quad.IRI(sh.BlankNodeOrLiteral).Full()
	shIRIOrLiteral       = quad.IRI(sh.IRIOrLiteral).Full()
)

func integer(n int) quad.Value {
	return quad.TypedString{Value: quad.String(strconv.Itoa(n)), Type: xsdInteger}
}

// Quads returns the shape graph of the set, in set order.
func (s *Set) Quads() []quad.Quad {
	var out []quad.Quad
	add := func(s, p, o quad.Value) {
		out = append(out, quad.Quad{Subject: s, Predicate: p, Object: o})
	}
	for _, n := range s.Shapes {
		add(n.ID, rdfType, shNodeShape)
		for _, c := range n.TargetClasses {
			add(n.ID, shTargetClass, c)
		}
		if n.Deactivated {
			add(n.ID, shDeactivated, quad.TypedString{Value: "true", Type: xsdBoolean})
		}
		for _, p := range n.Properties {
			add(n.ID, shProperty, p.ID)
			add(p.ID, shPath, p.Path)
			for _, dt := range p.Datatypes {
				add(p.ID, shDatatype, dt)
			}
			for _, c := range p.Classes {
				add(p.ID, shClass, c)
			}
			if p.NodeKind != "" {
				add(p.ID, shNodeKind, p.NodeKind)
			}
			if p.MinCount > 0 {
				add(p.ID, shMinCount, integer(p.MinCount))
			}
			if p.MaxCount >= 0 {
				add(p.ID, shMaxCount, integer(p.MaxCount))
			}
		}
	}
	return out
}

// Graph returns the shape graph of the set.
func (s *Set) Graph() *graph.Graph {
	return graph.New(s.Quads()...)
}

func less(a, b quad.Value) bool {
	_, ai := a.(quad.IRI)
	_, bi := b.(quad.IRI)
	if ai != bi {
		return ai
	}
	return a.String() < b.String()
}

// sortSet orders shapes by their first target class and property shapes by path.
func sortSet(s *Set) {
	key := func(n *Shape) quad.Value {
		if len(n.TargetClasses) == 0 {
			return n.ID
		}
		return n.TargetClasses[0]
	}
	sort.SliceStable(s.Shapes, func(i, j int) bool {
		a, b := s.Shapes[i], s.Shapes[j]
		if ka, kb := key(a), key(b); ka != kb {
			return less(ka, kb)
		}
		return less(a.ID, b.ID)
	})
	for _, n := range s.Shapes {
		sort.SliceStable(n.Properties, func(i, j int) bool {
			return n.Properties[i].Path < n.Properties[j].Path
		})
	}
}
