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

// Package datatype resolves literal datatypes and checks lexical forms of XSD builtin types.
package datatype

import (
	"strconv"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/xsd"
)

// LangString is the datatype of language-tagged strings.
const LangString = quad.IRI(rdf.NS + "langString")

var (
	xsdString   = quad.IRI(xsd.String).Full()
	xsdInteger  = quad.IRI(xsd.Integer).Full()
	xsdDouble   = quad.IRI(xsd.Double).Full()
	xsdBoolean  = quad.IRI(xsd.Boolean).Full()
	xsdDateTime = quad.IRI(xsd.DateTime).Full()
)

// IsLiteral checks if the value is an RDF literal.
func IsLiteral(v quad.Value) bool {
	_, _, ok := Of(v)
	return ok
}

// Of returns the full datatype IRI and the lexical form of a literal.
// It returns false for IRIs, blank nodes and nil.
//
// Native values map to XSD types, not to the schema.org types that
// quad uses when converting them back to typed strings.
func Of(v quad.Value) (dt quad.IRI, lexical string, ok bool) {
	switch v := v.(type) {
	case quad.String:
		return xsdString, string(v), true
	case quad.LangString:
		return LangString, string(v.Value), true
	case quad.TypedString:
		return v.Type.Full(), string(v.Value), true
	case quad.Int:
		return xsdInteger, strconv.FormatInt(int64(v), 10), true
	case quad.Float:
		return xsdDouble, strconv.FormatFloat(float64(v), 'E', -1, 64), true
	case quad.Bool:
		return xsdBoolean, strconv.FormatBool(bool(v)), true
	case quad.Time:
		return xsdDateTime, time.Time(v).Format(time.RFC3339Nano), true
	}
	return "", "", false
}
