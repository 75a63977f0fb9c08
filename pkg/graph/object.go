// Package graph adapts an ordered object sequence into the queryable
// structure consumed by layout, reachability and rendering.
package graph

import (
	"strings"

	"github.com/odvcencio/objgraph/pkg/object"
)

// Entry is one named child of a tree.
type Entry struct {
	Mode string            `json:"mode"`
	Kind object.ObjectType `json:"kind"`
	Ref  object.Hash       `json:"ref"`
	Name string            `json:"name"`
}

// Object is a single node of the visualised graph. Which of the
// kind-specific fields are meaningful depends on Kind.
type Object struct {
	ID   object.Hash       `json:"id"`
	Kind object.ObjectType `json:"kind"`
	Size int64             `json:"size"`

	// commit
	Tree      object.Hash   `json:"tree,omitempty"`
	Parents   []object.Hash `json:"parents,omitempty"`
	Author    string        `json:"author,omitempty"`
	Message   string        `json:"message,omitempty"`
	Timestamp int64         `json:"timestamp,omitempty"`

	// tree
	Entries []Entry `json:"entries,omitempty"`

	// blob
	Content string   `json:"content,omitempty"`
	Names   []string `json:"names,omitempty"`

	// tag
	Target  object.Hash `json:"target,omitempty"`
	TagName string      `json:"tagName,omitempty"`
}

// ContentRefs returns the directed content edges leaving o: tag→target,
// commit→tree and tree→entries. Commit parents are not content edges.
// Empty references are skipped; dangling ones are returned as-is.
func (o *Object) ContentRefs() []object.Hash {
	switch o.Kind {
	case object.TypeTag:
		if o.Target == "" {
			return nil
		}
		return []object.Hash{o.Target}
	case object.TypeCommit:
		if o.Tree == "" {
			return nil
		}
		return []object.Hash{o.Tree}
	case object.TypeTree:
		refs := make([]object.Hash, 0, len(o.Entries))
		for _, e := range o.Entries {
			if e.Ref != "" {
				refs = append(refs, e.Ref)
			}
		}
		return refs
	default:
		return nil
	}
}

// Label is the short caption drawn next to the node.
func (o *Object) Label() string {
	switch o.Kind {
	case object.TypeTag:
		if o.TagName != "" {
			return o.TagName
		}
	case object.TypeCommit, object.TypeTree:
	default:
		if len(o.Names) > 0 {
			return strings.Join(o.Names, ", ")
		}
	}
	return o.ID.Short(7)
}
