// Package inference implements an in-memory store for RDFS class
// hierarchies, and the subclass closure of instance graphs.
//
// RDFS Rules:
// 9. (c rdfs:subClassOf d), (x rdf:type c) -> (x rdf:type d)
// 11. (c rdfs:subClassOf d), (d rdfs:subClassOf e) -> (c rdfs:subClassOf e)
// Implemented here:
// 9 11
package inference

import (
	"sort"

	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/voc/rdf"
	"github.com/cayleygraph/quad/voc/rdfs"
)

var (
	rdfType        = quad.IRI(rdf.Type).Full()
	rdfsClass      = quad.IRI(rdfs.Class).Full()
	rdfsResource   = quad.IRI(rdfs.Resource).Full()
	rdfsSubClassOf = quad.IRI(rdfs.SubClassOf).Full()
)

// Class represents a RDF Class with the links to its super and sub classes
type Class struct {
	name  quad.Value
	super map[*Class]struct{}
	sub   map[*Class]struct{}
}

func newClass(name quad.Value) *Class {
	return &Class{
		name:  name,
		super: map[*Class]struct{}{},
		sub:   map[*Class]struct{}{},
	}
}

// Name returns the class's name
func (class *Class) Name() quad.Value {
	return class.name
}

// IsSubClassOf recursively checks whether class is a superClass.
// Cycles in the hierarchy are tolerated.
func (class *Class) IsSubClassOf(superClass *Class) bool {
	if superClass == nil {
		return false
	}
	if superClass.name == rdfsResource {
		return true
	}
	found := false
	class.walkSuper(func(c *Class) bool {
		found = c == superClass
		return !found
	})
	return found
}

// walkSuper calls fn for the class and each of its transitive superclasses
// exactly once, until fn returns false.
func (class *Class) walkSuper(fn func(*Class) bool) {
	seen := map[*Class]struct{}{class: {}}
	stack := []*Class{class}
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(c) {
			return
		}
		for s := range c.super {
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				stack = append(stack, s)
			}
		}
	}
}

// Store is a struct holding the inference data
type Store struct {
	classes map[quad.Value]*Class
}

// NewStore creates a new Store
func NewStore() *Store {
	store := &Store{
		classes: map[quad.Value]*Class{},
	}
	store.addClass(rdfsResource)
	return store
}

// GetClass returns a class struct for class name, if it doesn't exist in the store then it returns nil
func (store *Store) GetClass(name quad.Value) *Class {
	return store.classes[normalize(name)]
}

func normalize(v quad.Value) quad.Value {
	if iri, ok := v.(quad.IRI); ok {
		return iri.Full()
	}
	return v
}

func (store *Store) addClass(class quad.Value) *Class {
	if c, ok := store.classes[class]; ok {
		return c
	}
	c := newClass(class)
	store.classes[class] = c
	return c
}

func (store *Store) addClassRelationship(child quad.Value, parent quad.Value) {
	parentClass := store.addClass(parent)
	childClass := store.addClass(child)
	if _, ok := parentClass.sub[childClass]; !ok {
		parentClass.sub[childClass] = struct{}{}
		childClass.super[parentClass] = struct{}{}
	}
}

// ProcessQuad is used to update the store with a new quad
func (store *Store) ProcessQuad(q quad.Quad) {
	subject, predicate, object := normalize(q.Subject), normalize(q.Predicate), normalize(q.Object)
	predicateIRI, ok := predicate.(quad.IRI)
	if !ok {
		return
	}
	switch predicateIRI {
	case rdfType:
		if _, ok := object.(quad.BNode); ok {
			store.addClass(object)
		}
		objectIRI, ok := object.(quad.IRI)
		if !ok {
			return
		}
		if objectIRI == rdfsClass {
			store.addClass(subject)
		} else {
			store.addClass(object)
		}
	case rdfsSubClassOf:
		store.addClassRelationship(subject, object)
	}
}

// ProcessQuads is used to update the store with multiple quads
func (store *Store) ProcessQuads(quads []quad.Quad) {
	for _, q := range quads {
		store.ProcessQuad(q)
	}
}

// IsSubClassOf checks whether class child is a (transitive, reflexive) subclass of parent.
// Unknown classes are only subclasses of themselves and rdfs:Resource.
func (store *Store) IsSubClassOf(child, parent quad.Value) bool {
	child, parent = normalize(child), normalize(parent)
	if child == parent || parent == rdfsResource {
		return true
	}
	c := store.classes[child]
	if c == nil {
		return false
	}
	return c.IsSubClassOf(store.classes[parent])
}

// SuperClasses returns the reflexive-transitive closure of superclasses of c,
// sorted, without rdfs:Resource unless it was stated explicitly.
func (store *Store) SuperClasses(c quad.Value) []quad.Value {
	c = normalize(c)
	class := store.classes[c]
	if class == nil {
		return []quad.Value{c}
	}
	var out []quad.Value
	class.walkSuper(func(s *Class) bool {
		out = append(out, s.name)
		return true
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i] == c || out[j] == c {
			return out[i] == c && out[j] != c
		}
		return out[i].String() < out[j].String()
	})
	return out
}
