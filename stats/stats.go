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

// Package stats summarizes instance graphs.
package stats

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"gopkg.in/yaml.v3"

	"github.com/cayleygraph/shacl/datatype"
	"github.com/cayleygraph/shacl/graph"
)

var rdfType = quad.IRI(rdf.Type).Full()

type ClassCount struct {
	Class     quad.Value
	Instances int
}

// Summary describes the contents of an instance graph.
type Summary struct {
	Triples int
	// Classes lists instantiated classes, ordered by IRI.
	Classes []ClassCount
	// ObjectProperties are predicates used with IRI or blank node objects.
	ObjectProperties []quad.Value
	// DatatypeProperties are predicates used with literal objects.
	DatatypeProperties []quad.Value
}

// Compute collects statistics of g. The rdf:type predicate is counted as
// typing only, not as a property. A predicate used with both kinds of
// objects appears in both lists.
func Compute(g *graph.Graph) Summary {
	s := Summary{Triples: g.Len()}
	counts := make(map[quad.Value]int)
	var classes []quad.Value
	objProps := make(map[quad.Value]struct{})
	dtProps := make(map[quad.Value]struct{})
	for _, q := range g.Quads() {
		if q.Predicate == rdfType {
			if _, ok := counts[q.Object]; !ok {
				classes = append(classes, q.Object)
			}
			counts[q.Object]++
			continue
		}
		if datatype.IsLiteral(q.Object) {
			dtProps[q.Predicate] = struct{}{}
		} else {
			objProps[q.Predicate] = struct{}{}
		}
	}
	sortValues(classes)
	for _, c := range classes {
		s.Classes = append(s.Classes, ClassCount{Class: c, Instances: counts[c]})
	}
	s.ObjectProperties = keys(objProps)
	s.DatatypeProperties = keys(dtProps)
	return s
}

func keys(m map[quad.Value]struct{}) []quad.Value {
	if len(m) == 0 {
		return nil
	}
	out := make([]quad.Value, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	sortValues(out)
	return out
}

func sortValues(list []quad.Value) {
	sort.Slice(list, func(i, j int) bool { return list[i].String() < list[j].String() })
}

// WriteText writes the summary in a human-readable form.
func (s Summary) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Total RDF triples: %d\n", s.Triples)
	fmt.Fprintf(bw, "Number of distinct classes instantiated: %d\n", len(s.Classes))
	fmt.Fprintf(bw, "Number of object properties used: %d\n", len(s.ObjectProperties))
	fmt.Fprintf(bw, "Number of datatype properties used: %d\n", len(s.DatatypeProperties))
	if len(s.Classes) != 0 {
		fmt.Fprintf(bw, "\nClass instance counts:\n")
		for _, c := range s.Classes {
			fmt.Fprintf(bw, " - %s: %d\n", c.Class, c.Instances)
		}
	}
	return bw.Flush()
}

type yamlSummary struct {
	Triples            int            `yaml:"triples"`
	Classes            map[string]int `yaml:"classes"`
	ObjectProperties   []string       `yaml:"object_properties"`
	DatatypeProperties []string       `yaml:"datatype_properties"`
}

func names(list []quad.Value) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if iri, ok := v.(quad.IRI); ok {
			out = append(out, string(iri))
		} else {
			out = append(out, v.String())
		}
	}
	return out
}

// WriteYAML writes the summary as a YAML document.
func (s Summary) WriteYAML(w io.Writer) error {
	out := yamlSummary{
		Triples:            s.Triples,
		Classes:            make(map[string]int, len(s.Classes)),
		ObjectProperties:   names(s.ObjectProperties),
		DatatypeProperties: names(s.DatatypeProperties),
	}
	for _, c := range s.Classes {
		out.Classes[names([]quad.Value{c.Class})[0]] = c.Instances
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}
