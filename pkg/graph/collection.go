package graph

import (
	"bytes"
	"fmt"

	"github.com/odvcencio/objgraph/pkg/object"
)

// EdgeKind distinguishes the relations drawn between objects.
type EdgeKind int

const (
	EdgeTree   EdgeKind = iota // commit → tree
	EdgeParent                 // commit → parent commit
	EdgeEntry                  // tree → entry
	EdgeTag                    // tag → target
)

func (k EdgeKind) String() string {
	switch k {
	case EdgeTree:
		return "tree"
	case EdgeParent:
		return "parent"
	case EdgeEntry:
		return "entry"
	case EdgeTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Edge is a directed reference between two objects. The target may be
// absent from the collection.
type Edge struct {
	From object.Hash
	To   object.Hash
	Kind EdgeKind
}

// Collection is an immutable, ordered, indexed set of objects.
//
// Duplicate identifiers are folded: the object keeps the position of its
// first appearance and the content of its last. A nil *Collection behaves
// like an empty one.
type Collection struct {
	objects []Object
	index   map[object.Hash]int
}

// NewCollection indexes objs. The input slice is not retained.
func NewCollection(objs []Object) *Collection {
	c := &Collection{
		objects: make([]Object, 0, len(objs)),
		index:   make(map[object.Hash]int, len(objs)),
	}
	for _, o := range objs {
		if i, ok := c.index[o.ID]; ok {
			c.objects[i] = o
			continue
		}
		c.index[o.ID] = len(c.objects)
		c.objects = append(c.objects, o)
	}
	return c
}

// Len returns the number of distinct objects.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.objects)
}

// Objects returns the objects in collection order. Callers must not
// modify the returned slice.
func (c *Collection) Objects() []Object {
	if c == nil {
		return nil
	}
	return c.objects
}

// Lookup returns the object with the given identifier.
func (c *Collection) Lookup(id object.Hash) (*Object, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return &c.objects[i], true
}

// Has reports whether id is part of the collection.
func (c *Collection) Has(id object.Hash) bool {
	_, ok := c.Lookup(id)
	return ok
}

// Children returns the content references of id (see Object.ContentRefs).
func (c *Collection) Children(id object.Hash) []object.Hash {
	o, ok := c.Lookup(id)
	if !ok {
		return nil
	}
	return o.ContentRefs()
}

// Edges enumerates every drawable relation in collection order: for each
// commit its tree then its parents, for each tree its entries, for each tag
// its target. Dangling targets are included; consumers drop edges whose
// endpoints they cannot place.
func (c *Collection) Edges() []Edge {
	var out []Edge
	for i := range c.Objects() {
		o := &c.objects[i]
		switch o.Kind {
		case object.TypeCommit:
			if o.Tree != "" {
				out = append(out, Edge{From: o.ID, To: o.Tree, Kind: EdgeTree})
			}
			for _, p := range o.Parents {
				if p != "" {
					out = append(out, Edge{From: o.ID, To: p, Kind: EdgeParent})
				}
			}
		case object.TypeTree:
			for _, e := range o.Entries {
				if e.Ref != "" {
					out = append(out, Edge{From: o.ID, To: e.Ref, Kind: EdgeEntry})
				}
			}
		case object.TypeTag:
			if o.Target != "" {
				out = append(out, Edge{From: o.ID, To: o.Target, Kind: EdgeTag})
			}
		}
	}
	return out
}

// Fingerprint summarises the graph structure (ids, kinds and references,
// in order). Two collections with the same fingerprint lay out identically.
// Every field is length-prefixed, so identifiers may contain any byte.
func (c *Collection) Fingerprint() object.Hash {
	var buf bytes.Buffer
	field := func(s string) {
		fmt.Fprintf(&buf, "%d:%s", len(s), s)
	}
	for _, o := range c.Objects() {
		field(string(o.Kind))
		field(string(o.ID))
		refs := o.ContentRefs()
		fmt.Fprintf(&buf, "%d;", len(refs))
		for _, ref := range refs {
			field(string(ref))
		}
	}
	return object.HashBytes(buf.Bytes())
}
