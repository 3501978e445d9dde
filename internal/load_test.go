package internal

import (
	"bytes"
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cayleygraph/quad"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cayleygraph/shacl/graph"
	"github.com/cayleygraph/shacl/voc/core"
)

const (
	ns         = "http://example.org/schema#"
	turtleData = `@prefix ex: <http://example.org/schema#> .
ex:p1 a ex:Paper ; ex:hasYear "2020"^^<http://www.w3.org/2001/XMLSchema#gYear> ; ex:note [ ex:text "x" ] .
`
)

func TestFormat(t *testing.T) {
	var cases = []struct {
		path, name string
		expect     string
	}{
		{"a.ttl", "", "turtle"},
		{"a.TTL", "", "turtle"},
		{"a.ttl.gz", "", "turtle"},
		{"a.nq", "", "nquads"},
		{"a.nt.bz2", "", "nquads"},
		{"a.jsonld", "", "jsonld"},
		{"a.ttl", "nquads", "nquads"},
		{"a.txt", "nquad", "nquads"},
	}
	for _, c := range cases {
		f, err := Format(c.path, c.name)
		require.NoError(t, err, c.path)
		assert.Equal(t, c.expect, f.Name, c.path)
	}
	_, err := Format("a.txt", "")
	assert.True(t, errors.Is(err, graph.ErrUnknownFormat))
	_, err = Format("a.ttl", "rdfxml")
	assert.True(t, errors.Is(err, graph.ErrUnknownFormat))
}

func TestReadGraph(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "data.ttl")
	require.NoError(t, os.WriteFile(plain, []byte(turtleData), 0644))

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(turtleData))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	compressed := filepath.Join(dir, "data.ttl.gz")
	require.NoError(t, os.WriteFile(compressed, buf.Bytes(), 0644))

	g1, err := ReadGraph(plain, "", "data")
	require.NoError(t, err)
	g2, err := ReadGraph("file://"+compressed, "", "data")
	require.NoError(t, err)
	assert.Equal(t, 4, g1.Len())
	assert.Equal(t, g1.Len(), g2.Len())
	assert.True(t, g1.Has(quad.IRI(ns+"p1"), quad.IRI(ns+"hasYear"), quad.TypedString{
		Value: "2020", Type: "http://www.w3.org/2001/XMLSchema#gYear",
	}))

	empty := filepath.Join(dir, "empty.ttl")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	g, err := ReadGraph(empty, "", "data")
	require.NoError(t, err)
	assert.Equal(t, 0, g.Len())

	bad := filepath.Join(dir, "bad.nq")
	require.NoError(t, os.WriteFile(bad, []byte("<a> <b> .\n"), 0644))
	_, err = ReadGraph(bad, "", "data")
	var perr *graph.ParseError
	require.True(t, errors.As(err, &perr), "%v", err)
	assert.Equal(t, bad, perr.Source)

	_, err = ReadGraph(filepath.Join(dir, "missing.ttl"), "", "data")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadGraphsScopesBlankNodes(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.ttl")
	b := filepath.Join(dir, "b.ttl")
	require.NoError(t, os.WriteFile(a, []byte(turtleData), 0644))
	require.NoError(t, os.WriteFile(b, []byte(turtleData), 0644))

	g, err := ReadGraphs([]string{a, b}, "", "data")
	require.NoError(t, err)
	// named triples are shared, blank node triples are not
	assert.Equal(t, 2+2*2, g.Len())
	assert.Len(t, g.Objects(quad.IRI(ns+"p1"), quad.IRI(ns+"note")), 2)
}

func TestWriteGraph(t *testing.T) {
	dir := t.TempDir()
	src, err := ReadGraph(writeTemp(t, dir, "in.ttl", turtleData), "", "data")
	require.NoError(t, err)

	for _, c := range []struct {
		name string
		opts WriteOptions
	}{
		{"out.nq", WriteOptions{}},
		{"out.ttl.gz", WriteOptions{}},
		{"sub/dir/out.jsonld", WriteOptions{}},
		{"prefixed.jsonld", WriteOptions{Namespaces: core.Namespaces(map[string]string{"ex": ns})}},
	} {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(dir, c.name)
			require.NoError(t, WriteGraph(path, src.Quads(), c.opts))
			g, err := ReadGraph(path, "", "data")
			require.NoError(t, err)
			assert.Equal(t, src.Len(), g.Len())

			notes := g.Objects(quad.IRI(ns+"p1"), quad.IRI(ns+"note"))
			require.Len(t, notes, 1)
			b, ok := notes[0].(quad.BNode)
			require.True(t, ok, "%T", notes[0])
			assert.False(t, strings.HasPrefix(string(b), "_:"), string(b))
			assert.Equal(t, []quad.Value{quad.String("x")}, g.Objects(b, quad.IRI(ns+"text")))
		})
	}

	err = WriteGraph(filepath.Join(dir, "out.unknown"), src.Quads(), WriteOptions{})
	assert.True(t, errors.Is(err, graph.ErrUnknownFormat))
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	q := quad.Quad{Subject: quad.IRI(ns + "a"), Predicate: quad.IRI(ns + "b"), Object: quad.String("c")}
	require.NoError(t, Encode(&buf, "nquads", []quad.Quad{q}, WriteOptions{}))
	assert.Equal(t, "<"+ns+"a> <"+ns+"b> \"c\" .\n", buf.String())

	buf.Reset()
	require.NoError(t, Encode(&buf, "turtle", []quad.Quad{q}, WriteOptions{}))
	assert.True(t, strings.HasSuffix(buf.String(), "\"c\" .\n\n"), buf.String())
}

func TestOpenLocalOnly(t *testing.T) {
	for _, path := range []string{
		"http://example.org/data.ttl",
		"https://example.org/data.ttl",
		"ftp://example.org/data.ttl",
	} {
		_, err := Open(path)
		assert.True(t, errors.Is(err, graph.ErrNotLocal), "%s: %v", path, err)
		_, err = ReadGraph(path, "", "data")
		assert.True(t, errors.Is(err, graph.ErrNotLocal), "%s: %v", path, err)
	}
}

func TestJSONLDBlankNodes(t *testing.T) {
	q := quad.Quad{Subject: quad.BNode("n1"), Predicate: quad.IRI(ns + "b"), Object: quad.BNode("n2")}
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "jsonld", []quad.Quad{q}, WriteOptions{}))
	assert.Contains(t, buf.String(), `"@id": "_:n1"`)
	assert.Contains(t, buf.String(), `"@id": "_:n2"`)

	d, err := Dataset([]quad.Quad{q})
	require.NoError(t, err)
	quads := d.Graphs["@default"]
	require.Len(t, quads, 1)
	assert.Equal(t, "_:n1", quads[0].Subject.GetValue())
}

func writeTemp(t testing.TB, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
