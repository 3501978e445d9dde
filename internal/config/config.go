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

package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/cayleygraph/shacl/schema"
	"github.com/cayleygraph/shacl/shape"
	"github.com/cayleygraph/shacl/validate"
)

const (
	DefaultShapesPath = "output/shapes.ttl"
	DefaultInference  = "rdfs"
)

// Config defines the behavior of shape generation and validation runs.
type Config struct {
	Generate Generate          `mapstructure:"generate"`
	Validate Validate          `mapstructure:"validate"`
	Prefixes map[string]string `mapstructure:"prefixes"`
	Metrics  Metrics           `mapstructure:"metrics"`
}

// Metrics holds settings of run metrics.
type Metrics struct {
	// File is the Prometheus textfile written at the end of a run.
	File string `mapstructure:"file"`
}

// Generate holds settings of the generate-shapes command.
type Generate struct {
	RequirePresence    bool     `mapstructure:"require_presence"`
	LiteralNodeKind    bool     `mapstructure:"literal_node_kind"`
	DomainPolicy       string   `mapstructure:"domain_policy"`
	DatatypeNamespaces []string `mapstructure:"datatype_namespaces"`
}

// Validate holds settings of the validate command.
type Validate struct {
	Shapes       string `mapstructure:"shapes"`
	Inference    string `mapstructure:"inference"`
	AbortOnFirst bool   `mapstructure:"abort_on_first"`
	Ontology     string `mapstructure:"ontology"`
	Lexical      bool   `mapstructure:"lexical"`
	Report       string `mapstructure:"report"`
	ReportFormat string `mapstructure:"report_format"`
}

// SetDefaults registers default values of all keys with v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("validate.shapes", DefaultShapesPath)
	v.SetDefault("validate.inference", DefaultInference)
	v.SetDefault("generate.domain_policy", schema.LastWins.String())
}

// Load reads a typed config from v. The config file, if any, must already
// be read into v.
func Load(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}
	if c.Validate.Shapes == "" {
		c.Validate.Shapes = DefaultShapesPath
	}
	return &c, nil
}

// ReadFile reads a config file in any format supported by viper into v.
// It does nothing if file is empty.
func ReadFile(v *viper.Viper, file string) error {
	if file == "" {
		return nil
	}
	v.SetConfigFile(file)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("could not read config file %q: %w", file, err)
	}
	return nil
}

// ShapeOptions converts generation settings to schema and shape options.
func (c *Config) ShapeOptions() (schema.Policy, shape.Options, error) {
	p, err := schema.ParsePolicy(c.Generate.DomainPolicy)
	if err != nil {
		return 0, shape.Options{}, err
	}
	var ns []string
	for _, s := range c.Generate.DatatypeNamespaces {
		if s = strings.TrimSpace(s); s != "" {
			ns = append(ns, s)
		}
	}
	return p, shape.Options{
		RequirePresence:    c.Generate.RequirePresence,
		LiteralAsNodeKind:  c.Generate.LiteralNodeKind,
		DatatypeNamespaces: ns,
	}, nil
}

// ValidateOptions converts validation settings to validate options. The
// ontology graph is not loaded here.
func (c *Config) ValidateOptions() (validate.Options, error) {
	inf, err := validate.ParseInference(c.Validate.Inference)
	if err != nil {
		return validate.Options{}, err
	}
	return validate.Options{
		Inference:    inf,
		AbortOnFirst: c.Validate.AbortOnFirst,
		Lexical:      c.Validate.Lexical,
	}, nil
}
