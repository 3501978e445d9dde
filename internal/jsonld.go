package internal

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/jsonld"
	"github.com/cayleygraph/quad/voc"
	"github.com/piprate/json-gold/ld"
)

// JSON-LD blank node identifiers carry a "_:" prefix that quad.BNode labels
// don't have. The quad/jsonld codec passes labels through as is, so JSON-LD
// files are read and written through the wrappers below.

const (
	ldFormat = "jsonld"
	ldBlank  = "_:"
)

func readerFor(f *quad.Format, r io.Reader) quad.ReadCloser {
	if f.Name == ldFormat {
		return &ldReader{r: jsonld.NewReader(r)}
	}
	return f.Reader(r)
}

func writerFor(f *quad.Format, w io.Writer) quad.WriteCloser {
	if f.Name == ldFormat {
		return &ldWriter{w: w}
	}
	return f.Writer(w)
}

func toLDNode(v quad.Value) (ld.Node, error) {
	switch v := v.(type) {
	case quad.BNode:
		return ld.NewBlankNode(ldBlank + string(v)), nil
	case quad.TypedStringer:
		return jsonld.ToNode(v.TypedString())
	}
	return jsonld.ToNode(v)
}

func fromLDValue(v quad.Value) quad.Value {
	if b, ok := v.(quad.BNode); ok {
		return quad.BNode(strings.TrimPrefix(string(b), ldBlank))
	}
	return v
}

// Dataset converts quads into a JSON-LD RDF dataset. Blank nodes keep their
// labels.
func Dataset(quads []quad.Quad) (*ld.RDFDataset, error) {
	d := ld.NewRDFDataset()
	for _, q := range quads {
		graph := "@default"
		switch l := q.Label.(type) {
		case nil:
		case quad.IRI:
			graph = string(l)
		default:
			graph = l.String()
		}
		var nodes [3]ld.Node
		for i, v := range []quad.Value{q.Subject, q.Predicate, q.Object} {
			n, err := toLDNode(v)
			if err != nil {
				return nil, err
			}
			nodes[i] = n
		}
		d.Graphs[graph] = append(d.Graphs[graph], ld.NewQuad(nodes[0], nodes[1], nodes[2], graph))
	}
	return d, nil
}

// CompactJSONLD converts quads into a JSON-LD document, compacted with ctx
// unless it is nil.
func CompactJSONLD(quads []quad.Quad, ctx interface{}) (interface{}, error) {
	d, err := Dataset(quads)
	if err != nil {
		return nil, err
	}
	opts := ld.NewJsonLdOptions("")
	doc, err := ld.NewJsonLdApi().FromRDF(d, opts)
	if err != nil {
		return nil, err
	}
	if ctx == nil {
		return doc, nil
	}
	return ld.NewJsonLdProcessor().Compact(doc, ctx, opts)
}

// Context returns a JSON-LD context binding every prefix of ns.
func Context(ns *voc.Namespaces) map[string]interface{} {
	ctx := make(map[string]interface{})
	for _, n := range ns.List() {
		ctx[strings.TrimSuffix(n.Prefix, ":")] = n.Full
	}
	return ctx
}

type ldReader struct {
	r *jsonld.Reader
}

func (r *ldReader) ReadQuad() (quad.Quad, error) {
	q, err := r.r.ReadQuad()
	if err != nil {
		return q, err
	}
	q.Subject = fromLDValue(q.Subject)
	q.Object = fromLDValue(q.Object)
	return q, nil
}

func (r *ldReader) Close() error { return r.r.Close() }

// ldWriter buffers quads and writes one document on Close.
type ldWriter struct {
	w      io.Writer
	quads  []quad.Quad
	ns     *voc.Namespaces
	closed bool
}

func (w *ldWriter) SetNamespaces(ns *voc.Namespaces) { w.ns = ns }

func (w *ldWriter) WriteQuad(q quad.Quad) error {
	if !q.IsValid() {
		return quad.ErrInvalid
	}
	w.quads = append(w.quads, q)
	return nil
}

func (w *ldWriter) WriteQuads(buf []quad.Quad) (int, error) {
	for i, q := range buf {
		if err := w.WriteQuad(q); err != nil {
			return i, err
		}
	}
	return len(buf), nil
}

func (w *ldWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	var ctx interface{}
	if w.ns != nil {
		ctx = Context(w.ns)
	}
	doc, err := CompactJSONLD(w.quads, ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w.w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
