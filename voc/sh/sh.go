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

// Package sh contains constants of the W3C Shapes Constraint Language (SHACL) vocabulary.
package sh

import "github.com/cayleygraph/quad/voc"

func init() {
	voc.RegisterPrefix(Prefix, NS)
}

const (
	NS     = `http://www.w3.org/ns/shacl#`
	Prefix = `sh:`
)

const (
	// Classes

	// A node shape is a shape that specifies constraint that need to be met with respect to focus nodes.
	NodeShape = Prefix + `NodeShape`
	// A property shape is a shape that specifies constraints on the values of a focus node for a given property or path.
	PropertyShape = Prefix + `PropertyShape`
	// The class of SHACL validation reports.
	ValidationReport = Prefix + `ValidationReport`
	// The class of SHACL validation results.
	ValidationResult = Prefix + `ValidationResult`

	// Shape properties

	// Links a shape to a class, indicating that all instances of the class must conform to the shape.
	TargetClass = Prefix + `targetClass`
	// Links a shape to its property shapes.
	Property = Prefix + `property`
	// Specifies the property path of a property shape.
	Path = Prefix + `path`
	// The type of all value nodes.
	Class = Prefix + `class`
	// The datatype of value nodes.
	Datatype = Prefix + `datatype`
	// Specifies the node kind (e.g. IRI or literal) each value node.
	NodeKind = Prefix + `nodeKind`
	// The minimum number of values required at the shape's path.
	MinCount = Prefix + `minCount`
	// The maximum number of values allowed at the shape's path.
	MaxCount = Prefix + `maxCount`
	// If set to true then all nodes conform to this.
	Deactivated = Prefix + `deactivated`
	// A human-readable message explaining the cause of the result.
	Message = Prefix + `message`
	// Human-readable labels for the property in the context of the surrounding shape.
	Name = Prefix + `name`

	// Node kinds

	IRI                = Prefix + `IRI`
	BlankNode          = Prefix + `BlankNode`
	Literal            = Prefix + `Literal`
	BlankNodeOrIRI     = Prefix + `BlankNodeOrIRI`
	BlankNodeOrLiteral = Prefix + `BlankNodeOrLiteral`
	IRIOrLiteral       = Prefix + `IRIOrLiteral`

	// Validation report properties

	// True if the validation did not produce any validation results, and false otherwise.
	Conforms = Prefix + `conforms`
	// The validation results contained in a validation report.
	Result = Prefix + `result`
	// The focus node that was validated when the result was produced.
	FocusNode = Prefix + `focusNode`
	// The path of a validation result, based on the path of the validated property shape.
	ResultPath = Prefix + `resultPath`
	// An RDF node that has caused the result.
	Value = Prefix + `value`
	// The shape that the given focus node was validated against.
	SourceShape = Prefix + `sourceShape`
	// The constraint component that is the source of the result.
	SourceConstraintComponent = Prefix + `sourceConstraintComponent`
	// Human-readable messages explaining the cause of the result.
	ResultMessage = Prefix + `resultMessage`
	// The severity of the result, e.g. warning.
	ResultSeverity = Prefix + `resultSeverity`

	// Severities

	Violation = Prefix + `Violation`
	Warning   = Prefix + `Warning`
	Info      = Prefix + `Info`

	// Constraint components

	ClassConstraintComponent    = Prefix + `ClassConstraintComponent`
	DatatypeConstraintComponent = Prefix + `DatatypeConstraintComponent`
	NodeKindConstraintComponent = Prefix + `NodeKindConstraintComponent`
	MinCountConstraintComponent = Prefix + `MinCountConstraintComponent`
	MaxCountConstraintComponent = Prefix + `MaxCountConstraintComponent`
)
