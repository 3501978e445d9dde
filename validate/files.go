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
	"fmt"
	"strings"

	"github.com/cayleygraph/shacl/graph"
	"github.com/cayleygraph/shacl/internal"
	"github.com/cayleygraph/shacl/schema"
	"github.com/cayleygraph/shacl/shape"
)

// SchemaLoadError is returned when a shape graph cannot be read or parsed.
type SchemaLoadError struct {
	Path string
	Err  error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("cannot load shapes from %q: %v", e.Path, e.Err)
}

func (e *SchemaLoadError) Unwrap() error { return e.Err }

// DataLoadError is returned when an instance or ontology graph cannot be read.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	return fmt.Sprintf("cannot load data from %q: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// ConformanceFailure is returned by commands when the data graph does not
// conform. The report is kept for callers.
type ConformanceFailure struct {
	Report *Report
}

func (e *ConformanceFailure) Error() string {
	n := 0
	if e.Report != nil {
		n = len(e.Report.Results)
	}
	return fmt.Sprintf("data graph does not conform: %d validation results", n)
}

// FileOptions are options of ValidateFiles.
type FileOptions struct {
	Options
	// Format overrides the format detected from file extensions.
	Format string
	// OntologyPath is an optional RDFS schema file. Its rdfs:subClassOf
	// edges are merged into Options.Ontology.
	OntologyPath string
}

// ValidateFiles loads shapes and data from files and validates them. A run
// that completes with violations returns a non-conforming report and a nil error.
func ValidateFiles(shapesPath string, dataPaths []string, opts FileOptions) (*Report, error) {
	sg, err := internal.ReadGraph(shapesPath, opts.Format, "shapes")
	if err != nil {
		return nil, &SchemaLoadError{Path: shapesPath, Err: err}
	}
	shapes, err := shape.Parse(sg)
	if err != nil {
		return nil, &SchemaLoadError{Path: shapesPath, Err: err}
	}
	data, err := internal.ReadGraphs(dataPaths, opts.Format, "data")
	if err != nil {
		return nil, &DataLoadError{Path: strings.Join(dataPaths, ","), Err: err}
	}
	if opts.OntologyPath != "" {
		og, err := internal.ReadGraph(opts.OntologyPath, opts.Format, "ontology")
		if err != nil {
			return nil, &DataLoadError{Path: opts.OntologyPath, Err: err}
		}
		edges := graph.New(schema.Load(og).SubClassTriples()...)
		opts.Ontology = edges.Merge(opts.Ontology)
	}
	return Validate(shapes, data, opts.Options), nil
}
