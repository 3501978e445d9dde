// Package core registers all vocabularies used by shape generation and validation,
// and exposes them as a namespace list for serializers.
package core

import (
	"strings"

	"github.com/cayleygraph/quad/voc"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"
	"github.com/cayleygraph/quad/voc/xsd"

	"github.com/cayleygraph/shacl/voc/sh"
)

// Namespaces returns a fresh namespace list with rdf, rdfs, xsd and sh bound,
// extended with the given prefix-to-IRI pairs. Prefixes may be given with or
// without the trailing colon.
func Namespaces(extra map[string]string) *voc.Namespaces {
	ns := &voc.Namespaces{}
	for _, n := range []voc.Namespace{
		{Prefix: rdf.Prefix, Full: rdf.NS},
		{Prefix: rdfs.Prefix, Full: rdfs.NS},
		{Prefix: xsd.Prefix, Full: xsd.NS},
		{Prefix: sh.Prefix, Full: sh.NS},
	} {
		ns.Register(n)
	}
	for pref, full := range extra {
		if pref == "" || full == "" {
			continue
		}
		if pref[len(pref)-1] != ':' {
			pref += ":"
		}
		ns.Register(voc.Namespace{Prefix: pref, Full: full})
	}
	return ns
}

// SplitIRI splits an IRI into a namespace and a local name at the last '#',
// or at the last '/' if the IRI has no fragment.
func SplitIRI(iri string) (ns, local string) {
	if i := strings.LastIndexByte(iri, '#'); i >= 0 {
		return iri[:i+1], iri[i+1:]
	}
	if i := strings.LastIndexByte(iri, '/'); i >= 0 {
		return iri[:i+1], iri[i+1:]
	}
	return "", iri
}
