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

package turtle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/xsd"

	"github.com/cayleygraph/shacl/voc/core"
)

const indent = "    "

var (
	rdfType    = quad.IRI(rdf.Type).Full()
	localName  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_\-]*$`)
	bnodeChar  = regexp.MustCompile(`[^A-Za-z0-9_\-]`)
	bnodeValid = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_\-]*$`)
)

// Writer buffers quads and serializes them as a Turtle document on Close.
//
// Triples are grouped by subject; blank nodes referenced exactly once are
// written inline as [ ... ] property lists. Graph labels are ignored.
type Writer struct {
	w      io.Writer
	ns     *voc.Namespaces
	auto   bool
	quads  []quad.Quad
	closed bool

	// built on Close
	preds  map[quad.Value][]quad.Value
	objs   map[quad.Value]map[quad.Value][]quad.Value
	inline map[quad.BNode]bool
	labels map[quad.BNode]string
	names  []voc.Namespace
}

var _ quad.WriteCloser = (*Writer)(nil)

// NewWriter returns a Turtle encoder that writes its output to the provided io.Writer.
// Prefixes registered with RegisterPrefix and the core vocabularies are bound.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, ns: defaultNamespaces(), auto: true}
}

// SetNamespaces replaces the prefix bindings used by the writer.
func (w *Writer) SetNamespaces(ns *voc.Namespaces) { w.ns = ns }

// AutoPrefix controls whether unbound namespaces used more than once get
// generated ns1, ns2, ... prefixes. Enabled by default.
func (w *Writer) AutoPrefix(on bool) { w.auto = on }

func (w *Writer) WriteQuad(q quad.Quad) error {
	if w.closed {
		return fmt.Errorf("turtle: write to closed writer")
	}
	w.quads = append(w.quads, q)
	return nil
}

func (w *Writer) WriteQuads(buf []quad.Quad) (int, error) {
	for i, q := range buf {
		if err := w.WriteQuad(q); err != nil {
			return i, err
		}
	}
	return len(buf), nil
}

// Close writes the document. It is safe to call Close more than once.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	w.build()
	bw := bufio.NewWriter(w.w)
	w.writeHeader(bw)
	for _, s := range w.topLevel() {
		var b strings.Builder
		b.WriteString(w.term(s))
		b.WriteString(" ")
		w.predicateList(&b, s, 1)
		b.WriteString(" .\n\n")
		if _, err := bw.WriteString(b.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func full(v quad.Value) quad.Value {
	switch v := v.(type) {
	case quad.IRI:
		return v.Full()
	case quad.TypedString:
		v.Type = v.Type.Full()
		return v
	}
	return v
}

func (w *Writer) build() {
	w.preds = make(map[quad.Value][]quad.Value)
	w.objs = make(map[quad.Value]map[quad.Value][]quad.Value)
	refs := make(map[quad.BNode]int)
	parent := make(map[quad.BNode]quad.Value)
	seen := make(map[[3]quad.Value]struct{})
	for _, q := range w.quads {
		s, p, o := full(q.Subject), full(q.Predicate), full(q.Object)
		if s == nil || p == nil || o == nil {
			continue
		}
		k := [3]quad.Value{s, p, o}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		m := w.objs[s]
		if m == nil {
			m = make(map[quad.Value][]quad.Value)
			w.objs[s] = m
		}
		if _, ok := m[p]; !ok {
			w.preds[s] = append(w.preds[s], p)
		}
		m[p] = append(m[p], o)
		if b, ok := o.(quad.BNode); ok {
			refs[b]++
			parent[b] = s
		}
	}
	for s, list := range w.preds {
		sort.Slice(list, func(i, j int) bool {
			if list[i] == rdfType || list[j] == rdfType {
				return list[i] == rdfType && list[j] != rdfType
			}
			return list[i].String() < list[j].String()
		})
		w.preds[s] = list
	}
	w.inline = make(map[quad.BNode]bool)
	for b, n := range refs {
		if n == 1 {
			w.inline[b] = true
		}
	}
	// a chain of single references that loops back must keep its labels
	for b := range w.inline {
		cur, steps := parent[b], 0
		for steps <= len(parent) {
			pb, ok := cur.(quad.BNode)
			if !ok || !w.inline[pb] {
				break
			}
			if pb == b {
				delete(w.inline, b)
				break
			}
			cur = parent[pb]
			steps++
		}
	}
	w.labels = bnodeLabels(w.quads)
	w.names = w.namespaces()
}

// topLevel returns subjects that are not written inline: IRIs first, then
// blank nodes and literals, each group sorted.
func (w *Writer) topLevel() []quad.Value {
	var out []quad.Value
	for s := range w.objs {
		if b, ok := s.(quad.BNode); ok && w.inline[b] {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		_, ii := out[i].(quad.IRI)
		_, ji := out[j].(quad.IRI)
		if ii != ji {
			return ii
		}
		return out[i].String() < out[j].String()
	})
	return out
}

func (w *Writer) predicateList(b *strings.Builder, s quad.Value, depth int) {
	for i, p := range w.preds[s] {
		if i > 0 {
			b.WriteString(" ;\n")
			b.WriteString(strings.Repeat(indent, depth))
		}
		if p == rdfType {
			b.WriteString("a")
		} else {
			b.WriteString(w.term(p))
		}
		for j, o := range w.objs[s][p] {
			if j > 0 {
				b.WriteString(" ,")
			}
			b.WriteString(" ")
			w.object(b, o, depth)
		}
	}
}

func (w *Writer) object(b *strings.Builder, o quad.Value, depth int) {
	bn, ok := o.(quad.BNode)
	if !ok || !w.inline[bn] {
		b.WriteString(w.term(o))
		return
	}
	if len(w.preds[bn]) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteString("[\n")
	b.WriteString(strings.Repeat(indent, depth+1))
	w.predicateList(b, bn, depth+1)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(indent, depth))
	b.WriteString("]")
}

// namespaces returns prefixes that are actually used in the document,
// including generated ones, sorted by prefix.
func (w *Writer) namespaces() []voc.Namespace {
	var bound []voc.Namespace
	if w.ns != nil {
		bound = w.ns.List()
	}
	used := make(map[string]voc.Namespace)
	unbound := make(map[string]int)
	visit := func(v quad.Value) {
		var iri string
		switch v := v.(type) {
		case quad.IRI:
			iri = string(v)
		case quad.TypedString:
			iri = string(v.Type)
		default:
			return
		}
		if n, ok := match(bound, iri); ok {
			used[n.Prefix] = n
			return
		}
		if ns, local := core.SplitIRI(iri); ns != "" && localName.MatchString(local) {
			unbound[ns]++
		}
	}
	for s, m := range w.objs {
		visit(s)
		for p, list := range m {
			if p != rdfType {
				visit(p)
			}
			for _, o := range list {
				visit(o)
			}
		}
	}
	if w.auto {
		var list []string
		for ns, n := range unbound {
			if n > 1 {
				list = append(list, ns)
			}
		}
		sort.Strings(list)
		taken := make(map[string]bool)
		for _, n := range bound {
			taken[n.Prefix] = true
		}
		k := 1
		for _, ns := range list {
			pref := ""
			for {
				pref = "ns" + strconv.Itoa(k) + ":"
				k++
				if !taken[pref] {
					break
				}
			}
			used[pref] = voc.Namespace{Prefix: pref, Full: ns}
		}
	}
	out := make([]voc.Namespace, 0, len(used))
	for _, n := range used {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

// match finds the longest namespace that yields a valid local name.
func match(list []voc.Namespace, iri string) (voc.Namespace, bool) {
	var (
		best  voc.Namespace
		found bool
	)
	for _, n := range list {
		if n.Full == "" || !strings.HasPrefix(iri, n.Full) {
			continue
		}
		local := iri[len(n.Full):]
		if local != "" && !localName.MatchString(local) {
			continue
		}
		if !found || len(n.Full) > len(best.Full) {
			best, found = n, true
		}
	}
	return best, found
}

func (w *Writer) writeHeader(bw *bufio.Writer) {
	for _, n := range w.names {
		fmt.Fprintf(bw, "@prefix %s <%s> .\n", n.Prefix, n.Full)
	}
	if len(w.names) > 0 {
		bw.WriteString("\n")
	}
}

func (w *Writer) iri(iri string) string {
	if n, ok := match(w.names, iri); ok {
		return n.Prefix + iri[len(n.Full):]
	}
	return "<" + escapeIRI(iri) + ">"
}

func (w *Writer) term(v quad.Value) string {
	switch v := v.(type) {
	case quad.IRI:
		return w.iri(string(v))
	case quad.BNode:
		if l, ok := w.labels[v]; ok {
			return "_:" + l
		}
		return "_:" + bnodeLabel(string(v))
	case quad.String:
		return quote(string(v))
	case quad.LangString:
		return quote(string(v.Value)) + "@" + v.Lang
	case quad.TypedString:
		return quote(string(v.Value)) + "^^" + w.iri(string(v.Type))
	case quad.Int:
		return strconv.FormatInt(int64(v), 10)
	case quad.Bool:
		return strconv.FormatBool(bool(v))
	case quad.Float:
		return quote(strconv.FormatFloat(float64(v), 'E', -1, 64)) + "^^" + w.iri(string(quad.IRI(xsd.Double).Full()))
	case quad.Time:
		return quote(time.Time(v).Format(time.RFC3339Nano)) + "^^" + w.iri(string(quad.IRI(xsd.DateTime).Full()))
	}
	return v.String()
}

func bnodeLabel(s string) string {
	s = bnodeChar.ReplaceAllString(s, "_")
	if s == "" || s[0] == '-' {
		return "b" + s
	}
	return s
}

// bnodeLabels assigns Turtle labels to blank nodes. Valid labels are kept;
// the others are sanitized and suffixed until they are unique, in sorted
// order, so distinct nodes never share a label.
func bnodeLabels(quads []quad.Quad) map[quad.BNode]string {
	var all []quad.BNode
	labels := make(map[quad.BNode]string)
	taken := make(map[string]bool)
	add := func(v quad.Value) {
		b, ok := v.(quad.BNode)
		if !ok {
			return
		}
		if _, ok := labels[b]; ok {
			return
		}
		labels[b] = ""
		all = append(all, b)
	}
	for _, q := range quads {
		add(q.Subject)
		add(q.Object)
	}
	sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
	for _, b := range all {
		if bnodeValid.MatchString(string(b)) {
			labels[b] = string(b)
			taken[string(b)] = true
		}
	}
	for _, b := range all {
		if labels[b] != "" {
			continue
		}
		base := bnodeLabel(string(b))
		l := base
		for i := 1; taken[l]; i++ {
			l = base + "_" + strconv.Itoa(i)
		}
		labels[b] = l
		taken[l] = true
	}
	return labels
}

var (
	quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	iriEscaper   = strings.NewReplacer(`>`, `\u003E`, `<`, `\u003C`, ` `, `\u0020`, `"`, `\u0022`)
)

func quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}

func escapeIRI(s string) string {
	return iriEscaper.Replace(s)
}
