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

package validate

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/xsd"
	"gopkg.in/yaml.v3"

	"github.com/cayleygraph/shacl/internal"
	"github.com/cayleygraph/shacl/voc/sh"
)

// Result is a single validation result.
type Result struct {
	// Focus is the node that was validated.
	Focus quad.Value
	// Path is the property path of the violated property shape.
	Path quad.IRI
	// Value is the offending value, or nil for cardinality violations.
	Value       quad.Value
	SourceShape quad.Value
	Component   quad.IRI
	Severity    quad.IRI
	Message     string
}

// Report is the outcome of a validation run.
type Report struct {
	Conforms bool
	Results  []Result
}

// Violations returns results with the sh:Violation severity.
func (r *Report) Violations() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Severity == shViolation {
			out = append(out, res)
		}
	}
	return out
}

func term(v quad.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

// WriteText writes a human-readable report.
func (r *Report) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "Validation Report")
	if r.Conforms {
		fmt.Fprintln(bw, "Conforms: True")
		return bw.Flush()
	}
	fmt.Fprintln(bw, "Conforms: False")
	fmt.Fprintf(bw, "Results (%d):\n", len(r.Results))
	for _, res := range r.Results {
		fmt.Fprintf(bw, "Constraint Violation in %s (%s):\n", localName(res.Component), res.Component.String())
		fmt.Fprintf(bw, "\tSeverity: %s\n", res.Severity.String())
		fmt.Fprintf(bw, "\tSource Shape: %s\n", term(res.SourceShape))
		fmt.Fprintf(bw, "\tFocus Node: %s\n", term(res.Focus))
		if res.Value != nil {
			fmt.Fprintf(bw, "\tValue Node: %s\n", term(res.Value))
		}
		if res.Path != "" {
			fmt.Fprintf(bw, "\tResult Path: %s\n", res.Path.String())
		}
		fmt.Fprintf(bw, "\tMessage: %s\n", res.Message)
	}
	return bw.Flush()
}

type yamlResult struct {
	Focus       string `yaml:"focus"`
	Path        string `yaml:"path,omitempty"`
	Value       string `yaml:"value,omitempty"`
	SourceShape string `yaml:"source_shape"`
	Component   string `yaml:"component"`
	Severity    string `yaml:"severity"`
	Message     string `yaml:"message"`
}

type yamlReport struct {
	Conforms bool         `yaml:"conforms"`
	Results  []yamlResult `yaml:"results,omitempty"`
}

// WriteYAML writes the report as a YAML document.
func (r *Report) WriteYAML(w io.Writer) error {
	out := yamlReport{Conforms: r.Conforms}
	for _, res := range r.Results {
		var path string
		if res.Path != "" {
			path = string(res.Path)
		}
		out.Results = append(out.Results, yamlResult{
			Focus:       term(res.Focus),
			Path:        path,
			Value:       term(res.Value),
			SourceShape: term(res.SourceShape),
			Component:   string(res.Component),
			Severity:    string(res.Severity),
			Message:     res.Message,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return err
	}
	return enc.Close()
}

var (
	shValidationReport = quad.IRI(sh.ValidationReport).Full()
	shValidationResult = quad.IRI(sh.ValidationResult).Full()
	shConforms         = quad.IRI(sh.Conforms).Full()
	shResult           = quad.IRI(sh.Result).Full()
	shFocusNode        = quad.IRI(sh.FocusNode).Full()
	shResultPath       = quad.IRI(sh.ResultPath).Full()
	shValue            = quad.IRI(sh.Value).Full()
	shSourceShape      = quad.IRI(sh.SourceShape).Full()
	shSourceComponent  = quad.IRI(sh.SourceConstraintComponent).Full()
	shResultSeverity   = quad.IRI(sh.ResultSeverity).Full()
	shResultMessage    = quad.IRI(sh.ResultMessage).Full()
	xsdBoolean         = quad.IRI(xsd.Boolean).Full()
)

// Quads returns the report as a sh:ValidationReport graph.
func (r *Report) Quads() []quad.Quad {
	var out []quad.Quad
	add := func(s, p, o quad.Value) {
		out = append(out, quad.Quad{Subject: s, Predicate: p, Object: o})
	}
	root := quad.BNode("report")
	add(root, rdfType, shValidationReport)
	add(root, shConforms, quad.TypedString{Value: quad.String(strconv.FormatBool(r.Conforms)), Type: xsdBoolean})
	for i, res := range r.Results {
		n := quad.BNode("result" + strconv.Itoa(i+1))
		add(root, shResult, n)
		add(n, rdfType, shValidationResult)
		add(n, shFocusNode, res.Focus)
		if res.Path != "" {
			add(n, shResultPath, res.Path)
		}
		if res.Value != nil {
			add(n, shValue, res.Value)
		}
		add(n, shSourceShape, res.SourceShape)
		add(n, shSourceComponent, res.Component)
		add(n, shResultSeverity, res.Severity)
		add(n, shResultMessage, quad.String(res.Message))
	}
	return out
}

// WriteQuads writes the report graph to a quad writer.
func (r *Report) WriteQuads(w quad.Writer) error {
	_, err := w.WriteQuads(r.Quads())
	return err
}

// Context is the JSON-LD context used for compacted reports.
var Context = map[string]interface{}{
	"sh":  sh.NS,
	"xsd": xsd.NS,
}

// JSONLD returns the report as a compacted JSON-LD document.
func (r *Report) JSONLD() (interface{}, error) {
	return internal.CompactJSONLD(r.Quads(), Context)
}

// WriteJSONLD writes the report as an indented, compacted JSON-LD document.
func (r *Report) WriteJSONLD(w io.Writer) error {
	doc, err := r.JSONLD()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
