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
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdfs"
	"github.com/cayleygraph/quad/voc/xsd"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cayleygraph/shacl/clog"
	"github.com/cayleygraph/shacl/internal/metrics"
	"github.com/cayleygraph/shacl/schema"
	"github.com/cayleygraph/shacl/voc/core"
)

var (
	mShapesDerived = metrics.Factory.NewCounter(prometheus.CounterOpts{
		Name: "shacl_shapes_derived_total",
		Help: "Number of node shapes derived from schemas.",
	})
	mPropertiesDerived = metrics.Factory.NewCounterVec(prometheus.CounterOpts{
		Name: "shacl_property_shapes_derived_total",
		Help: "Number of property shapes derived from schemas, by constraint kind.",
	}, []string{"kind"})
)

var rdfsLiteral = quad.IRI(rdfs.Literal).Full()

// nsShape is the UUID namespace of generated blank node labels.
var nsShape = uuid.NewSHA1(uuid.NameSpaceURL, []byte("http://www.w3.org/ns/shacl#"))

// Options controls shape derivation.
type Options struct {
	// RequirePresence adds sh:minCount 1 to every property shape.
	RequirePresence bool
	// LiteralAsNodeKind maps an rdfs:Literal range to sh:nodeKind sh:Literal
	// instead of sh:class rdfs:Literal.
	LiteralAsNodeKind bool
	// DatatypeNamespaces are namespaces, in addition to XSD, whose members
	// are treated as literal datatypes.
	DatatypeNamespaces []string
}

// IsDatatype checks if a range is a literal datatype.
func (o Options) IsDatatype(r quad.Value) bool {
	iri, ok := r.(quad.IRI)
	if !ok {
		return false
	}
	s := string(iri.Full())
	if strings.HasPrefix(s, xsd.NS) {
		return true
	}
	for _, ns := range o.DatatypeNamespaces {
		if ns != "" && strings.HasPrefix(s, ns) {
			return true
		}
	}
	return false
}

// ID returns the shape node for a class: an IRI in the namespace of the
// class with the local name suffixed by "Shape". Classes that are not IRIs
// get a blank node derived from their value.
func ID(class quad.Value) quad.Value {
	if iri, ok := class.(quad.IRI); ok {
		ns, local := core.SplitIRI(string(iri.Full()))
		return quad.IRI(ns + local + "Shape")
	}
	return bnode("shape", class.String())
}

func bnode(kind string, parts ...string) quad.BNode {
	id := uuid.NewSHA1(nsShape, []byte(strings.Join(parts, "\x00")))
	return quad.BNode(kind + strings.ReplaceAll(id.String(), "-", ""))
}

// Derive builds one node shape per class that is the domain of at least one
// property. The result does not depend on the order of schema triples, except
// for which domain and range win under the LastWins policy.
func Derive(m *schema.Model, opts Options) *Set {
	set := &Set{}
	for _, c := range m.DomainClasses() {
		n := &Shape{
			ID:            ID(c),
			TargetClasses: []quad.Value{c},
		}
		for _, p := range m.PropertiesOf(c) {
			path, ok := p.(quad.IRI)
			if !ok {
				clog.Warningf("shape: skipping property %v of %v: path is not an IRI", p, c)
				continue
			}
			n.Properties = append(n.Properties, derive(n.ID, path, m.Range(p), opts))
		}
		set.Shapes = append(set.Shapes, n)
	}
	sortSet(set)
	mShapesDerived.Add(float64(len(set.Shapes)))
	if clog.V(1) {
		clog.Infof("derived %d shapes from %d domain classes", len(set.Shapes), len(m.Domains))
	}
	return set
}

func derive(shapeID quad.Value, path quad.IRI, ranges []quad.Value, opts Options) *Property {
	p := &Property{
		ID:       bnode("prop", shapeID.String(), path.String()),
		Path:     path,
		MaxCount: Unbounded,
	}
	if opts.RequirePresence {
		p.MinCount = 1
	}
	for _, r := range ranges {
		switch {
		case opts.IsDatatype(r):
			p.Datatypes = append(p.Datatypes, r.(quad.IRI).Full())
			mPropertiesDerived.WithLabelValues("datatype").Inc()
		case opts.LiteralAsNodeKind && r == rdfsLiteral:
			p.NodeKind = shLiteral
			mPropertiesDerived.WithLabelValues("nodekind").Inc()
		default:
			p.Classes = append(p.Classes, r)
			mPropertiesDerived.WithLabelValues("class").Inc()
		}
	}
	if len(ranges) == 0 {
		mPropertiesDerived.WithLabelValues("open").Inc()
	}
	return p
}
