package layout

import (
	"iter"

	"github.com/odvcencio/objgraph/pkg/geom"
	"github.com/odvcencio/objgraph/pkg/object"
)

// NodePosition places one object on the drawing plane.
type NodePosition struct {
	ID    object.Hash
	X, Y  float64
	Kind  object.ObjectType
	Depth int // -1 for commits and tags
}

// Point returns the node centre.
func (p NodePosition) Point() geom.Point {
	return geom.Point{X: p.X, Y: p.Y}
}

// Header is a column caption drawn above a group of nodes.
type Header struct {
	Text string
	X, Y float64
}

// Result maps identifiers to positions. Iteration follows insertion order,
// which is the order the engine assigned positions in.
type Result struct {
	order   []object.Hash
	byID    map[object.Hash]NodePosition
	headers []Header
}

func newResult(capacity int) *Result {
	return &Result{
		order: make([]object.Hash, 0, capacity),
		byID:  make(map[object.Hash]NodePosition, capacity),
	}
}

func (r *Result) add(p NodePosition) {
	if _, ok := r.byID[p.ID]; !ok {
		r.order = append(r.order, p.ID)
	}
	r.byID[p.ID] = p
}

// Len returns the number of positioned nodes. A nil Result is empty.
func (r *Result) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Get returns the position of id.
func (r *Result) Get(id object.Hash) (NodePosition, bool) {
	if r == nil {
		return NodePosition{}, false
	}
	p, ok := r.byID[id]
	return p, ok
}

// IDs returns a copy of the identifiers in insertion order.
func (r *Result) IDs() []object.Hash {
	if r == nil {
		return nil
	}
	out := make([]object.Hash, len(r.order))
	copy(out, r.order)
	return out
}

// All iterates positions in insertion order.
func (r *Result) All() iter.Seq2[object.Hash, NodePosition] {
	return func(yield func(object.Hash, NodePosition) bool) {
		if r == nil {
			return
		}
		for _, id := range r.order {
			if !yield(id, r.byID[id]) {
				return
			}
		}
	}
}

// Headers returns the column captions.
func (r *Result) Headers() []Header {
	if r == nil {
		return nil
	}
	return r.headers
}

// Clone returns an independent copy of r.
func (r *Result) Clone() *Result {
	if r == nil {
		return newResult(0)
	}
	out := newResult(len(r.order))
	out.order = append(out.order, r.order...)
	for id, p := range r.byID {
		out.byID[id] = p
	}
	out.headers = append([]Header(nil), r.headers...)
	return out
}

// Move replaces the coordinates of an existing node, keeping its kind and
// depth. It reports false and changes nothing when id is not present.
func (r *Result) Move(id object.Hash, to geom.Point) bool {
	if r == nil {
		return false
	}
	p, ok := r.byID[id]
	if !ok {
		return false
	}
	p.X, p.Y = to.X, to.Y
	r.byID[id] = p
	return true
}
