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

// Package shacl derives SHACL shapes from RDFS schemas and checks instance
// graphs against them.
package shacl

import (
	"fmt"

	"github.com/cayleygraph/shacl/graph"
	"github.com/cayleygraph/shacl/internal"
	"github.com/cayleygraph/shacl/schema"
	"github.com/cayleygraph/shacl/shape"
	"github.com/cayleygraph/shacl/validate"
	"github.com/cayleygraph/shacl/voc/core"
)

// GenerateOptions controls GenerateFile.
type GenerateOptions struct {
	Policy schema.Policy
	Shape  shape.Options
	// Format overrides the format detected from the schema file name.
	Format string
	// OutputFormat overrides the format detected from the shapes file name.
	OutputFormat string
	// Prefixes are extra prefix bindings for the output.
	Prefixes map[string]string
}

// Generate derives shapes from a schema graph.
func Generate(g *graph.Graph, policy schema.Policy, opts shape.Options) *shape.Set {
	return shape.Derive(schema.Load(g, schema.WithPolicy(policy)), opts)
}

// GenerateFile reads a schema, derives shapes and writes them to out.
func GenerateFile(in, out string, opts GenerateOptions) (*shape.Set, error) {
	g, err := internal.ReadGraph(in, opts.Format, "schema")
	if err != nil {
		return nil, fmt.Errorf("cannot load schema: %w", err)
	}
	set := Generate(g, opts.Policy, opts.Shape)
	err = internal.WriteGraph(out, set.Quads(), internal.WriteOptions{
		Format:     opts.OutputFormat,
		Namespaces: core.Namespaces(opts.Prefixes),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot write shapes: %w", err)
	}
	return set, nil
}

// Validate checks data files against a shapes file.
func Validate(shapesPath string, dataPaths []string, opts validate.FileOptions) (*validate.Report, error) {
	return validate.ValidateFiles(shapesPath, dataPaths, opts)
}
