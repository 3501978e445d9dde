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

// Package schema builds the domain and range indexes of an RDFS schema graph.
package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"

	"github.com/cayleygraph/shacl/clog"
	"github.com/cayleygraph/shacl/graph"
)

// Policy controls how properties with several rdfs:domain or rdfs:range
// declarations are recorded.
type Policy int

const (
	// LastWins keeps only the last domain and the last range of each
	// property, in document order.
	LastWins Policy = iota
	// Accumulate keeps every domain and every range.
	Accumulate
)

func (p Policy) String() string {
	switch p {
	case LastWins:
		return "last-wins"
	case Accumulate:
		return "accumulate"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy converts a policy name to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last-wins", "last_wins", "lastwins":
		return LastWins, nil
	case "accumulate", "union":
		return Accumulate, nil
	}
	return 0, fmt.Errorf("unknown domain policy %q", s)
}

// Option configures Load.
type Option func(*loader)

// WithPolicy sets the multi-valued domain and range policy.
func WithPolicy(p Policy) Option {
	return func(l *loader) { l.policy = p }
}

type loader struct {
	policy Policy
}

var (
	rdfType      = quad.IRI(rdf.Type).Full()
	rdfProperty  = quad.IRI(rdf.Property).Full()
	rdfsClass    = quad.IRI(rdfs.Class).Full()
	rdfsDomain   = quad.IRI(rdfs.Domain).Full()
	rdfsRange    = quad.IRI(rdfs.Range).Full()
	rdfsSubClass = quad.IRI(rdfs.SubClassOf).Full()
)

// Model is the set of schema facts used for shape derivation.
// It is never modified after Load returns.
type Model struct {
	// Domains maps a class to its domain-bound properties, de-duplicated,
	// in document order.
	Domains map[quad.Value][]quad.Value
	// Ranges maps a property to its recorded ranges. With LastWins there is
	// at most one range per property.
	Ranges map[quad.Value][]quad.Value
	// SubClasses maps a class to its direct superclasses.
	SubClasses map[quad.Value][]quad.Value
	// Policy is the policy the model was built with.
	Policy Policy

	domainOrder []quad.Value
	classes     []quad.Value
	properties  []quad.Value
}

// Load reads domain, range and subclass facts from g. It never fails:
// a property without a domain is simply absent from Domains, and
// properties do not need to be declared as rdf:Property.
func Load(g *graph.Graph, opts ...Option) *Model {
	l := loader{policy: LastWins}
	for _, o := range opts {
		o(&l)
	}
	m := &Model{
		Domains:    make(map[quad.Value][]quad.Value),
		Ranges:     make(map[quad.Value][]quad.Value),
		SubClasses: make(map[quad.Value][]quad.Value),
		Policy:     l.policy,
	}
	m.loadDomains(g)
	m.loadRanges(g)

	for _, q := range g.Match(nil, rdfsSubClass, nil) {
		m.SubClasses[q.Subject] = appendUnique(m.SubClasses[q.Subject], q.Object)
	}
	seenC := make(map[quad.Value]struct{})
	for _, c := range g.Subjects(rdfType, rdfsClass) {
		if _, ok := seenC[c]; !ok {
			seenC[c] = struct{}{}
			m.classes = append(m.classes, c)
		}
	}
	seenP := make(map[quad.Value]struct{})
	for _, p := range g.Subjects(rdfType, rdfProperty) {
		if _, ok := seenP[p]; !ok {
			seenP[p] = struct{}{}
			m.properties = append(m.properties, p)
		}
	}
	if clog.V(1) {
		clog.Infof("schema: %d domain classes, %d ranges, %d subclass edges (%v)",
			len(m.Domains), len(m.Ranges), len(g.Match(nil, rdfsSubClass, nil)), l.policy)
	}
	return m
}

// loadDomains is the first pass: rdfs:domain triples grouped by class.
func (m *Model) loadDomains(g *graph.Graph) {
	decl := g.Match(nil, rdfsDomain, nil)
	last := make(map[quad.Value]quad.Value, len(decl))
	for _, q := range decl {
		last[q.Subject] = q.Object
	}
	for _, q := range decl {
		p, c := q.Subject, q.Object
		if m.Policy == LastWins && last[p] != c {
			continue
		}
		if _, ok := m.Domains[c]; !ok {
			m.domainOrder = append(m.domainOrder, c)
		}
		m.Domains[c] = appendUnique(m.Domains[c], p)
	}
}

// loadRanges is the second pass: rdfs:range triples keyed by property.
func (m *Model) loadRanges(g *graph.Graph) {
	for _, q := range g.Match(nil, rdfsRange, nil) {
		p, r := q.Subject, q.Object
		if m.Policy == LastWins {
			if len(m.Ranges[p]) > 0 && m.Ranges[p][0] != r {
				clog.Debugf("schema: range of %v replaced: %v -> %v", p, m.Ranges[p][0], r)
			}
			m.Ranges[p] = []quad.Value{r}
			continue
		}
		m.Ranges[p] = appendUnique(m.Ranges[p], r)
	}
}

func appendUnique(list []quad.Value, v quad.Value) []quad.Value {
	for _, x := range list {
		if x == v {
			return list
		}
	}
	return append(list, v)
}

// DomainClasses returns classes that are the domain of at least one
// property, in order of first appearance.
func (m *Model) DomainClasses() []quad.Value {
	out := make([]quad.Value, len(m.domainOrder))
	copy(out, m.domainOrder)
	return out
}

// PropertiesOf returns properties with class c as their domain.
func (m *Model) PropertiesOf(c quad.Value) []quad.Value {
	return m.Domains[c]
}

// Range returns the recorded ranges of property p.
func (m *Model) Range(p quad.Value) []quad.Value {
	return m.Ranges[p]
}

// Classes returns all classes declared with rdf:type rdfs:Class.
func (m *Model) Classes() []quad.Value {
	return m.classes
}

// Properties returns all properties declared with rdf:type rdf:Property.
func (m *Model) Properties() []quad.Value {
	return m.properties
}

// SubClassTriples returns the rdfs:subClassOf edges of the model as quads,
// sorted by subclass. Validation uses them as its inference ontology.
func (m *Model) SubClassTriples() []quad.Quad {
	var out []quad.Quad
	for _, c := range m.orderedSubClasses() {
		for _, super := range m.SubClasses[c] {
			out = append(out, quad.Quad{Subject: c, Predicate: rdfsSubClass, Object: super})
		}
	}
	return out
}

func (m *Model) orderedSubClasses() []quad.Value {
	keys := make([]quad.Value, 0, len(m.SubClasses))
	for c := range m.SubClasses {
		keys = append(keys, c)
	}
	sortValues(keys)
	return keys
}

func sortValues(list []quad.Value) {
	sort.Slice(list, func(i, j int) bool { return list[i].String() < list[j].String() })
}
