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

package datatype

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"sync"
	"testing/fstest"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/xsd"
	xsdschema "github.com/jacoelho/xsd"
	xsderrors "github.com/jacoelho/xsd/errors"

	"github.com/cayleygraph/shacl/clog"
)

// Builtins lists the local names of XSD datatypes with lexical checks.
var Builtins = []string{
	"string", "normalizedString", "token", "language", "Name", "NCName", "NMTOKEN",
	"boolean", "decimal", "float", "double",
	"integer", "nonPositiveInteger", "negativeInteger", "nonNegativeInteger", "positiveInteger",
	"long", "int", "short", "byte",
	"unsignedLong", "unsignedInt", "unsignedShort", "unsignedByte",
	"duration", "dateTime", "time", "date",
	"gYearMonth", "gYear", "gMonthDay", "gDay", "gMonth",
	"hexBinary", "base64Binary", "anyURI",
}

const schemaFile = "literals.xsd"

// Checker validates lexical forms of literals against XSD builtin datatypes.
//
// All builtins are compiled into one schema on first use, with one element
// per datatype. A Checker is safe for concurrent use.
type Checker struct {
	once   sync.Once
	schema *xsdschema.Schema
	err    error

	mu    sync.Mutex
	cache map[string]bool
}

// NewChecker creates a lexical checker. Compilation is deferred until the first check.
func NewChecker() *Checker {
	return &Checker{cache: make(map[string]bool)}
}

var (
	defaultOnce    sync.Once
	defaultChecker *Checker
)

// Default returns a process-wide shared checker.
func Default() *Checker {
	defaultOnce.Do(func() {
		defaultChecker = NewChecker()
	})
	return defaultChecker
}

func schemaSource() []byte {
	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0"?>` + "\n")
	buf.WriteString(`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema">` + "\n")
	for _, name := range Builtins {
		fmt.Fprintf(&buf, "  <xs:element name=%q type=\"xs:%s\"/>\n", name, name)
	}
	buf.WriteString("</xs:schema>\n")
	return buf.Bytes()
}

func (c *Checker) compile() {
	fsys := fstest.MapFS{
		schemaFile: &fstest.MapFile{Data: schemaSource()},
	}
	c.schema, c.err = xsdschema.Load(fsys, schemaFile)
	if c.err != nil {
		clog.Errorf("cannot compile literal schema: %v", c.err)
	} else if clog.V(2) {
		clog.Infof("compiled literal schema with %d datatypes", len(Builtins))
	}
}

// Supported checks if the datatype has a lexical check.
func Supported(dt quad.IRI) bool {
	_, ok := localName(dt)
	return ok
}

func localName(dt quad.IRI) (string, bool) {
	s := string(dt.Full())
	if !strings.HasPrefix(s, xsd.NS) {
		return "", false
	}
	name := s[len(xsd.NS):]
	for _, b := range Builtins {
		if b == name {
			return name, true
		}
	}
	return "", false
}

// Valid checks that lexical is a valid form of the datatype.
// Unknown datatypes are accepted. An error is returned only when the
// builtin schema cannot be compiled.
func (c *Checker) Valid(dt quad.IRI, lexical string) (bool, error) {
	name, ok := localName(dt)
	if !ok {
		return true, nil
	}
	c.once.Do(c.compile)
	if c.err != nil {
		return false, c.err
	}
	key := name + "\x00" + lexical
	c.mu.Lock()
	v, ok := c.cache[key]
	c.mu.Unlock()
	if ok {
		return v, nil
	}
	var doc bytes.Buffer
	doc.WriteString("<" + name + ">")
	if err := xml.EscapeText(&doc, []byte(lexical)); err != nil {
		return false, err
	}
	doc.WriteString("</" + name + ">")

	valid := true
	if err := c.schema.Validate(&doc); err != nil {
		if list, ok := xsderrors.AsValidations(err); ok {
			valid = false
			if clog.V(3) {
				for _, e := range list {
					clog.Infof("literal %q is not a valid %s: %s", lexical, name, e.Message)
				}
			}
		} else {
			return false, err
		}
	}
	c.mu.Lock()
	c.cache[key] = valid
	c.mu.Unlock()
	return valid, nil
}
