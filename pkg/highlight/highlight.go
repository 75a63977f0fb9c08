// Package highlight computes the subgraph reachable from the selected
// object so the renderer can emphasise it.
package highlight

import (
	"github.com/odvcencio/objgraph/pkg/graph"
	"github.com/odvcencio/objgraph/pkg/object"
)

// Set is a set of object identifiers.
type Set map[object.Hash]struct{}

// Has reports membership. A nil Set is empty.
func (s Set) Has(id object.Hash) bool {
	_, ok := s[id]
	return ok
}

// Emphasized reports whether the edge from→to lies inside the set.
func (s Set) Emphasized(from, to object.Hash) bool {
	return s.Has(from) && s.Has(to)
}

// Reachable walks the content edges (tag→target, commit→tree,
// tree→entries; never commit→parent) breadth-first from selected. The
// result includes selected itself. An empty selection, or one that is not
// part of c, yields an empty set; dangling references are skipped.
func Reachable(c *graph.Collection, selected object.Hash) Set {
	out := make(Set)
	if selected == "" || !c.Has(selected) {
		return out
	}

	out[selected] = struct{}{}
	queue := []object.Hash{selected}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range c.Children(id) {
			if out.Has(child) || !c.Has(child) {
				continue
			}
			out[child] = struct{}{}
			queue = append(queue, child)
		}
	}
	return out
}
