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

// Package turtle implements the RDF 1.1 Turtle format for quad readers and writers.
//
// Importing the package registers the "turtle" format with the quad format registry.
package turtle

import (
	"io"
	"strings"
	"sync"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc"
	"github.com/cayleygraph/quad/voc/xsd"
	"github.com/knakk/rdf"

	"github.com/cayleygraph/shacl/voc/core"
)

func init() {
	quad.RegisterFormat(quad.Format{
		Name:   "turtle",
		Ext:    []string{".ttl"},
		Mime:   []string{"text/turtle", "application/x-turtle"},
		Reader: func(r io.Reader) quad.ReadCloser { return NewReader(r) },
		Writer: func(w io.Writer) quad.WriteCloser { return NewWriter(w) },
	})
}

var (
	nsMu      sync.RWMutex
	nsExtra   = make(map[string]string)
	xsdStrIRI = quad.IRI(xsd.String).Full()
)

// RegisterPrefix binds a prefix for all writers created afterwards.
// The binding is also added to the global vocabulary registry.
func RegisterPrefix(pref, full string) {
	if !strings.HasSuffix(pref, ":") {
		pref += ":"
	}
	nsMu.Lock()
	nsExtra[pref] = full
	nsMu.Unlock()
	voc.RegisterPrefix(pref, full)
}

func defaultNamespaces() *voc.Namespaces {
	nsMu.RLock()
	defer nsMu.RUnlock()
	return core.Namespaces(nsExtra)
}

// Reader decodes Turtle documents into quads in the default graph.
type Reader struct {
	dec rdf.TripleDecoder
}

var _ quad.ReadCloser = (*Reader)(nil)

// NewReader returns a Turtle decoder that takes its input from the provided io.Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: rdf.NewTripleDecoder(r, rdf.Turtle)}
}

// ReadQuad returns the next triple. It returns io.EOF at the end of the document.
func (r *Reader) ReadQuad() (quad.Quad, error) {
	t, err := r.dec.Decode()
	if err != nil {
		return quad.Quad{}, err
	}
	return quad.Quad{
		Subject:   toValue(t.Subj),
		Predicate: toValue(t.Pred),
		Object:    toValue(t.Obj),
	}, nil
}

func (r *Reader) Close() error { return nil }

func toValue(t rdf.Term) quad.Value {
	switch t := t.(type) {
	case rdf.IRI:
		return quad.IRI(t.String())
	case rdf.Blank:
		return quad.BNode(strings.TrimPrefix(t.String(), "_:"))
	case rdf.Literal:
		if lang := t.Lang(); lang != "" {
			return quad.LangString{Value: quad.String(t.String()), Lang: lang}
		}
		dt := quad.IRI(t.DataType.String())
		if dt == "" || dt == xsdStrIRI {
			return quad.String(t.String())
		}
		return quad.TypedString{Value: quad.String(t.String()), Type: dt}
	}
	return quad.String(t.String())
}
