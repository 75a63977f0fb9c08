// Package layout turns an object collection into deterministic 2D
// positions.
//
// Commits form a fixed left column. Trees and blobs are indented by their
// structural depth below the nearest root tree, so the horizontal position
// encodes depth. Within each kind, rows follow collection order. Tags sit
// next to whatever they point at, or in a fallback column when the target
// has no position.
package layout

import (
	"github.com/odvcencio/objgraph/pkg/graph"
	"github.com/odvcencio/objgraph/pkg/object"
)

// Config holds the spacing constants, in logical units.
type Config struct {
	CommitX      float64 // x of the commit column
	TreeX        float64 // x of depth-0 trees and blobs
	Indent       float64 // extra x per depth level
	Top          float64 // y of the first row
	RowHeight    float64
	BlobGap      float64 // extra space between the last tree row and the first blob
	TagOffsetX   float64 // tag x relative to its target
	TagStackY    float64 // y step between tags sharing a target
	TagFallbackX float64 // x of tags whose target has no position
	HeaderOffset float64 // distance from a header to its group's first row
}

// DefaultConfig returns the spacing used by the viewer.
func DefaultConfig() Config {
	return Config{
		CommitX:      140,
		TreeX:        340,
		Indent:       160,
		Top:          80,
		RowHeight:    60,
		BlobGap:      30,
		TagOffsetX:   80,
		TagStackY:    24,
		TagFallbackX: 40,
		HeaderOffset: 40,
	}
}

// Engine computes layouts. It holds no state besides its configuration, so
// Compute is a pure function of its input.
type Engine struct {
	cfg Config
}

// New returns an Engine using cfg.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Compute lays out every object in c. Dangling references never fail: the
// referencing node is still placed and the missing target simply has no
// position.
func (e *Engine) Compute(c *graph.Collection) *Result {
	cfg := e.cfg
	depth := Depths(c)

	var commits, trees, blobs, tags []*graph.Object
	objs := c.Objects()
	for i := range objs {
		o := &objs[i]
		switch o.Kind {
		case object.TypeCommit:
			commits = append(commits, o)
		case object.TypeTree:
			trees = append(trees, o)
		case object.TypeTag:
			tags = append(tags, o)
		default:
			// Blobs and anything unrecognised.
			blobs = append(blobs, o)
		}
	}

	r := newResult(len(objs))
	for i, o := range commits {
		r.add(NodePosition{
			ID:    o.ID,
			X:     cfg.CommitX,
			Y:     cfg.Top + float64(i)*cfg.RowHeight,
			Kind:  o.Kind,
			Depth: -1,
		})
	}
	for i, o := range trees {
		d := depth[o.ID]
		r.add(NodePosition{
			ID:    o.ID,
			X:     cfg.TreeX + float64(d)*cfg.Indent,
			Y:     cfg.Top + float64(i)*cfg.RowHeight,
			Kind:  o.Kind,
			Depth: d,
		})
	}
	blobTop := cfg.Top + float64(len(trees))*cfg.RowHeight
	if len(trees) > 0 {
		blobTop += cfg.BlobGap
	}
	for i, o := range blobs {
		d := depth[o.ID]
		r.add(NodePosition{
			ID:    o.ID,
			X:     cfg.TreeX + float64(d)*cfg.Indent,
			Y:     blobTop + float64(i)*cfg.RowHeight,
			Kind:  o.Kind,
			Depth: d,
		})
	}

	stacked := make(map[object.Hash]int)
	fallback := 0
	for _, o := range tags {
		p := NodePosition{ID: o.ID, Kind: o.Kind, Depth: -1}
		if target, ok := r.Get(o.Target); ok {
			n := stacked[o.Target]
			stacked[o.Target] = n + 1
			p.X = target.X + cfg.TagOffsetX
			p.Y = target.Y + float64(n)*cfg.TagStackY
		} else {
			p.X = cfg.TagFallbackX
			p.Y = cfg.Top + float64(fallback)*cfg.RowHeight
			fallback++
		}
		r.add(p)
	}

	if len(commits) > 0 {
		r.headers = append(r.headers, Header{Text: "commits", X: cfg.CommitX, Y: cfg.Top - cfg.HeaderOffset})
	}
	if len(trees) > 0 {
		r.headers = append(r.headers, Header{Text: "trees", X: cfg.TreeX, Y: cfg.Top - cfg.HeaderOffset})
	}
	if len(blobs) > 0 {
		r.headers = append(r.headers, Header{Text: "blobs", X: cfg.TreeX, Y: blobTop - cfg.HeaderOffset})
	}
	if fallback > 0 {
		r.headers = append(r.headers, Header{Text: "tags", X: cfg.TagFallbackX, Y: cfg.Top - cfg.HeaderOffset})
	}
	return r
}

// Depths assigns a structural depth to every tree and blob reachable from a
// commit: each commit's tree is seeded at depth 0 and tree entries add one
// level. The walk is breadth-first with a single visited set, so shared
// subtrees keep the depth of the shortest path and cycles terminate.
// Objects absent from the returned map are orphans (depth 0).
func Depths(c *graph.Collection) map[object.Hash]int {
	depth := make(map[object.Hash]int)
	var queue []object.Hash
	for _, o := range c.Objects() {
		if o.Kind != object.TypeCommit || o.Tree == "" {
			continue
		}
		if _, seen := depth[o.Tree]; seen {
			continue
		}
		depth[o.Tree] = 0
		queue = append(queue, o.Tree)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		o, ok := c.Lookup(id)
		if !ok || o.Kind != object.TypeTree {
			continue
		}
		for _, e := range o.Entries {
			if e.Ref == "" {
				continue
			}
			if _, seen := depth[e.Ref]; seen {
				continue
			}
			depth[e.Ref] = depth[id] + 1
			queue = append(queue, e.Ref)
		}
	}
	return depth
}
