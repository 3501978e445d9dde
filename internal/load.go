package internal

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/jsonld"
	"github.com/cayleygraph/quad/nquads"

	"github.com/cayleygraph/shacl/clog"
	"github.com/cayleygraph/shacl/graph"
	"github.com/cayleygraph/shacl/internal/decompressor"
	"github.com/cayleygraph/shacl/internal/metrics"
	_ "github.com/cayleygraph/shacl/quad/turtle"
)

func init() {
	// Literals keep their declared datatype, so that sh:datatype checks
	// compare against what the file says.
	nquads.AutoConvertTypedString = false
	jsonld.AutoConvertTypedString = false
}

var compressedExt = []string{".gz", ".bz2"}

// Format returns the quad format for a file. An explicit name wins over the
// file extension. Compression suffixes are ignored.
func Format(path, name string) (*quad.Format, error) {
	if name != "" {
		if name == "nquad" || name == "quad" {
			name = "nquads"
		}
		if f := quad.FormatByName(name); f != nil {
			return f, nil
		}
		return nil, fmt.Errorf("%w: %q", graph.ErrUnknownFormat, name)
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, c := range compressedExt {
		if ext == c {
			ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
			break
		}
	}
	if f := quad.FormatByExt(ext); f != nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: cannot detect format of %q", graph.ErrUnknownFormat, path)
}

// Open opens a local file. A "file://" URL or a plain path is opened from
// disk; "-" reads stdin. Other URL schemes fail with graph.ErrNotLocal.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	u, err := url.Parse(path)
	if err == nil && u.Scheme != "" && u.Scheme != "file" && len(u.Scheme) > 1 {
		return nil, fmt.Errorf("%w: %q", graph.ErrNotLocal, path)
	}
	if err == nil && u.Scheme == "file" {
		// Recovery heuristic for mistyping "file://path/to/file".
		path = filepath.Join(u.Host, u.Path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file %q: %w", path, err)
	}
	return f, nil
}

// QuadReaderFor opens a decompressing quad reader for a file. Closing the
// reader closes the file.
func QuadReaderFor(path, format string) (quad.ReadCloser, error) {
	f, err := Format(path, format)
	if err != nil {
		return nil, err
	} else if f.Reader == nil {
		return nil, fmt.Errorf("decoding of %q is not supported", f.Name)
	}
	rc, err := Open(path)
	if err != nil {
		return nil, err
	}
	r, err := decompressor.New(rc)
	if err != nil {
		rc.Close()
		return nil, &graph.ParseError{Source: path, Err: err}
	}
	return &fileReader{ReadCloser: readerFor(f, r), file: rc, format: f.Name}, nil
}

type fileReader struct {
	quad.ReadCloser
	file   io.Closer
	format string
}

func (r *fileReader) Close() error {
	err := r.ReadCloser.Close()
	if err2 := r.file.Close(); err == nil {
		err = err2
	}
	return err
}

// ReadGraph loads a graph from path, decompressing it if needed. The role
// (schema, shapes, data, ontology) is only used for logs and metrics.
// Malformed input is reported as *graph.ParseError.
func ReadGraph(path, format, role string) (*graph.Graph, error) {
	qr, err := QuadReaderFor(path, format)
	if err != nil {
		return nil, err
	}
	defer qr.Close()

	g, err := graph.ReadFrom(&countingReader{Reader: qr})
	if err != nil {
		return nil, &graph.ParseError{Source: path, Err: err}
	}
	metrics.QuadsLoaded(role, g.Len())
	if clog.V(1) {
		clog.Infof("loaded %d %s triples from %q (%s)", g.Len(), role, path, qr.(*fileReader).format)
	}
	return g, nil
}

// ReadGraphs loads and merges several files into one graph. Blank nodes are
// scoped to their file.
func ReadGraphs(paths []string, format, role string) (*graph.Graph, error) {
	if len(paths) == 1 {
		return ReadGraph(paths[0], format, role)
	}
	var graphs []*graph.Graph
	for i, p := range paths {
		g, err := ReadGraph(p, format, role)
		if err != nil {
			return nil, err
		}
		graphs = append(graphs, scopeBlankNodes(g, fmt.Sprintf("f%d_", i)))
	}
	return graph.New().Merge(graphs...), nil
}

func scopeBlankNodes(g *graph.Graph, prefix string) *graph.Graph {
	rename := func(v quad.Value) quad.Value {
		if b, ok := v.(quad.BNode); ok {
			return quad.BNode(prefix + string(b))
		}
		return v
	}
	quads := g.Quads()
	for i, q := range quads {
		quads[i].Subject = rename(q.Subject)
		quads[i].Object = rename(q.Object)
	}
	return graph.New(quads...)
}

type countingReader struct {
	cnt int
	quad.Reader
}

func (r *countingReader) ReadQuad() (quad.Quad, error) {
	q, err := r.Reader.ReadQuad()
	if err == nil {
		r.cnt++
		if clog.V(3) && r.cnt%10000 == 0 {
			clog.Infof("Read %d quads.", r.cnt)
		}
	}
	return q, err
}
