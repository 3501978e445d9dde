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

// Package validate checks instance graphs against SHACL shapes.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/cayleygraph/shacl/clog"
	"github.com/cayleygraph/shacl/datatype"
	"github.com/cayleygraph/shacl/graph"
	"github.com/cayleygraph/shacl/inference"
	"github.com/cayleygraph/shacl/internal/metrics"
	"github.com/cayleygraph/shacl/shape"
	"github.com/cayleygraph/shacl/voc/sh"
)

var (
	mResults = metrics.Factory.NewCounterVec(prometheus.CounterOpts{
		Name: "shacl_validation_results_total",
		Help: "Number of validation results, by constraint component.",
	}, []string{"component"})
	mFocusNodes = metrics.Factory.NewCounter(prometheus.CounterOpts{
		Name: "shacl_focus_nodes_total",
		Help: "Number of focus nodes checked against shapes.",
	})
	mValidateSeconds = metrics.Factory.NewHistogram(prometheus.HistogramOpts{
		Name: "shacl_validate_seconds",
		Help: "Time to validate an instance graph.",
	})
)

// Inference selects the entailment applied to the instance graph before validation.
type Inference int

const (
	// InferenceNone uses rdf:type triples of the instance graph as is.
	InferenceNone Inference = iota
	// InferenceRDFS adds rdf:type triples entailed by rdfs:subClassOf.
	InferenceRDFS
)

func (i Inference) String() string {
	switch i {
	case InferenceNone:
		return "none"
	case InferenceRDFS:
		return "rdfs"
	}
	return fmt.Sprintf("Inference(%d)", int(i))
}

// ParseInference converts an inference mode name to Inference.
func ParseInference(s string) (Inference, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return InferenceNone, nil
	case "rdfs", "rdfs-subclass-closure":
		return InferenceRDFS, nil
	}
	return 0, fmt.Errorf("unknown inference mode %q", s)
}

// Options controls validation.
type Options struct {
	Inference Inference
	// AbortOnFirst stops validation at the first violation.
	AbortOnFirst bool
	// Ontology is an optional graph with additional rdfs:subClassOf edges
	// used by InferenceRDFS.
	Ontology *graph.Graph
	// Lexical enables checks of literal lexical forms for XSD datatypes.
	Lexical bool
	// Checker is used for lexical checks. The shared default is used if nil.
	Checker *datatype.Checker
}

var (
	rdfType      = quad.IRI(rdf.Type).Full()
	shViolation  = quad.IRI(sh.Violation).Full()
	compClass    = quad.IRI(sh.ClassConstraintComponent).Full()
	compDatatype = quad.IRI(sh.DatatypeConstraintComponent).Full()
	compNodeKind = quad.IRI(sh.NodeKindConstraintComponent).Full()
	compMinCount = quad.IRI(sh.MinCountConstraintComponent).Full()
	compMaxCount = quad.IRI(sh.MaxCountConstraintComponent).Full()
	kindIRI      = quad.IRI(sh.IRI).Full()
	kindBlank    = quad.IRI(sh.BlankNode).Full()
	kindLiteral  = quad.IRI(sh.Literal).Full()
	kindBlankIRI = quad.IRI(sh.BlankNodeOrIRI).Full()
	kindBlankLit = quad.IRI(sh.BlankNodeOrLiteral).Full()
	kindIRILit   = quad.IRI(sh.IRIOrLiteral).Full()
)

type validator struct {
	opts   Options
	types  *graph.Graph
	report *Report
	done   bool
}

// Validate checks every focus node of every shape in the set. The data graph
// is not modified; with InferenceRDFS, a derived closure is used for type checks.
func Validate(shapes *shape.Set, data *graph.Graph, opts Options) *Report {
	defer prometheus.NewTimer(mValidateSeconds).ObserveDuration()
	if opts.Checker == nil {
		opts.Checker = datatype.Default()
	}
	v := &validator{
		opts:   opts,
		types:  data,
		report: &Report{Conforms: true},
	}
	if opts.Inference == InferenceRDFS {
		v.types = inference.Closure(data, opts.Ontology)
	}
	if shapes != nil {
		for _, n := range shapes.Shapes {
			if v.done {
				break
			}
			v.shape(n)
		}
	}
	sortResults(v.report.Results)
	v.report.Conforms = len(v.report.Results) == 0
	if clog.V(1) {
		clog.Infof("validated %d triples against %d shapes (inference: %v): %d results",
			data.Len(), shapes.Len(), opts.Inference, len(v.report.Results))
	}
	return v.report
}

func (v *validator) add(r Result) {
	r.Severity = shViolation
	v.report.Results = append(v.report.Results, r)
	mResults.WithLabelValues(localName(r.Component)).Inc()
	if v.opts.AbortOnFirst {
		v.done = true
	}
}

// focusNodes returns distinct instances of the shape's target classes, sorted.
func (v *validator) focusNodes(n *shape.Shape) []quad.Value {
	var out []quad.Value
	seen := make(map[quad.Value]struct{})
	for _, c := range n.TargetClasses {
		for _, s := range v.types.Subjects(rdfType, c) {
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				out = append(out, s)
			}
		}
	}
	sortValues(out)
	return out
}

func (v *validator) shape(n *shape.Shape) {
	if n.Deactivated {
		clog.Debugf("skipping deactivated shape %v", n.ID)
		return
	}
	for _, focus := range v.focusNodes(n) {
		mFocusNodes.Inc()
		for _, p := range n.Properties {
			if v.done {
				return
			}
			v.property(n, focus, p)
		}
	}
}

func (v *validator) property(n *shape.Shape, focus quad.Value, p *shape.Property) {
	values := v.types.Objects(focus, p.Path)
	sortValues(values)
	res := Result{Focus: focus, Path: p.Path, SourceShape: n.ID}
	if len(values) < p.MinCount {
		r := res
		r.Component = compMinCount
		r.Message = fmt.Sprintf("Less than %d values on %v->%v", p.MinCount, focus, p.Path)
		v.add(r)
	}
	if !v.done && p.MaxCount >= 0 && len(values) > p.MaxCount {
		r := res
		r.Component = compMaxCount
		r.Message = fmt.Sprintf("More than %d values on %v->%v", p.MaxCount, focus, p.Path)
		v.add(r)
	}
	for _, val := range values {
		r := res
		r.Value = val
		for _, dt := range p.Datatypes {
			if msg := v.checkDatatype(val, dt); msg != "" && !v.done {
				r.Component, r.Message = compDatatype, msg
				v.add(r)
			}
		}
		for _, c := range p.Classes {
			if !v.done && !v.hasClass(val, c) {
				r.Component = compClass
				r.Message = fmt.Sprintf("Value does not have class %v", c)
				v.add(r)
			}
		}
		if !v.done && p.NodeKind != "" && !hasNodeKind(val, p.NodeKind) {
			r.Component = compNodeKind
			r.Message = fmt.Sprintf("Value is not of Node Kind %v", p.NodeKind)
			v.add(r)
		}
	}
}

func (v *validator) checkDatatype(val quad.Value, dt quad.IRI) string {
	dt = dt.Full()
	got, lex, ok := datatype.Of(val)
	if !ok || got != dt {
		return fmt.Sprintf("Value is not Literal with datatype %v", dt)
	}
	if !v.opts.Lexical {
		return ""
	}
	valid, err := v.opts.Checker.Valid(dt, lex)
	if err != nil {
		clog.Warningf("lexical check of %v skipped: %v", dt, err)
		return ""
	} else if !valid {
		return fmt.Sprintf("Value %q is not a valid lexical form of %v", lex, dt)
	}
	return ""
}

func (v *validator) hasClass(val quad.Value, c quad.Value) bool {
	switch val.(type) {
	case quad.IRI, quad.BNode:
		return v.types.Has(val, rdfType, c)
	}
	return false
}

func hasNodeKind(val quad.Value, kind quad.IRI) bool {
	_, isIRI := val.(quad.IRI)
	_, isBlank := val.(quad.BNode)
	isLit := datatype.IsLiteral(val)
	switch kind.Full() {
	case kindIRI:
		return isIRI
	case kindBlank:
		return isBlank
	case kindLiteral:
		return isLit
	case kindBlankIRI:
		return isBlank || isIRI
	case kindBlankLit:
		return isBlank || isLit
	case kindIRILit:
		return isIRI || isLit
	}
	return false
}

func localName(iri quad.IRI) string {
	s := string(iri)
	if i := strings.LastIndexAny(s, "#/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

func lessValue(a, b quad.Value) bool {
	if a == nil || b == nil {
		return a == nil && b != nil
	}
	_, ai := a.(quad.IRI)
	_, bi := b.(quad.IRI)
	if ai != bi {
		return ai
	}
	return a.String() < b.String()
}

func sortValues(list []quad.Value) {
	sort.SliceStable(list, func(i, j int) bool { return lessValue(list[i], list[j]) })
}

// sortResults orders results by shape, focus node, path, value and component.
func sortResults(list []Result) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		switch {
		case a.SourceShape != b.SourceShape:
			return lessValue(a.SourceShape, b.SourceShape)
		case a.Focus != b.Focus:
			return lessValue(a.Focus, b.Focus)
		case a.Path != b.Path:
			return a.Path < b.Path
		case a.Value != b.Value:
			return lessValue(a.Value, b.Value)
		}
		return a.Component < b.Component
	})
}
