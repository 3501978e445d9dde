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

// Package metrics holds the registry shared by run metrics of all packages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Registry collects metrics of a single process run.
	Registry = prometheus.NewRegistry()
	// Factory registers new metrics with Registry.
	Factory = promauto.With(Registry)
)

var (
	mQuadsLoaded = Factory.NewCounterVec(prometheus.CounterOpts{
		Name: "shacl_quads_loaded_total",
		Help: "Number of quads read from input files.",
	}, []string{"role"})
	mQuadsWritten = Factory.NewCounter(prometheus.CounterOpts{
		Name: "shacl_quads_written_total",
		Help: "Number of quads written to output files.",
	})
)

// QuadsLoaded records quads read for a graph role (schema, shapes, data, ontology).
func QuadsLoaded(role string, n int) {
	mQuadsLoaded.WithLabelValues(role).Add(float64(n))
}

// QuadsWritten records quads written to an output file.
func QuadsWritten(n int) {
	mQuadsWritten.Add(float64(n))
}

// WriteFile writes all metrics of the registry to path in the Prometheus
// text exposition format. It does nothing if path is empty.
func WriteFile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, Registry)
}
