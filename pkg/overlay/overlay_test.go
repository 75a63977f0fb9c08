package overlay

import (
	"testing"

	"github.com/odvcencio/objgraph/pkg/geom"
	"github.com/odvcencio/objgraph/pkg/graph"
	"github.com/odvcencio/objgraph/pkg/layout"
	"github.com/odvcencio/objgraph/pkg/object"
)

func computeLayout(objs ...graph.Object) *layout.Result {
	return layout.New(layout.DefaultConfig()).Compute(graph.NewCollection(objs))
}

func TestMergeOverridePrecedence(t *testing.T) {
	base := computeLayout(
		graph.Object{ID: "c", Kind: object.TypeCommit, Tree: "t"},
		graph.Object{ID: "t", Kind: object.TypeTree},
	)
	s := New()
	s.Set("t", geom.Pt(7, 9))

	eff := s.Merge(base)
	if eff.Len() != base.Len() {
		t.Fatalf("effective has %d nodes, want %d", eff.Len(), base.Len())
	}
	got, _ := eff.Get("t")
	orig, _ := base.Get("t")
	if got.X != 7 || got.Y != 9 {
		t.Fatalf("effective t = %+v, want override (7,9)", got)
	}
	if got.Kind != orig.Kind || got.Depth != orig.Depth {
		t.Fatalf("kind/depth must come from base: %+v vs %+v", got, orig)
	}
	if c, _ := eff.Get("c"); c != mustBase(t, base, "c") {
		t.Fatalf("untouched node changed: %+v", c)
	}
	if orig.X == 7 {
		t.Fatal("Merge modified the base layout")
	}
}

func mustBase(t *testing.T, r *layout.Result, id object.Hash) layout.NodePosition {
	t.Helper()
	p, ok := r.Get(id)
	if !ok {
		t.Fatalf("missing %s", id)
	}
	return p
}

func TestMergeIgnoresStaleOverrides(t *testing.T) {
	s := New()
	s.Set("gone", geom.Pt(1, 1))
	s.Set("kept", geom.Pt(2, 2))

	// The collection was replaced and no longer contains "gone".
	base := computeLayout(graph.Object{ID: "kept", Kind: object.TypeBlob})
	eff := s.Merge(base)
	if _, ok := eff.Get("gone"); ok {
		t.Fatal("stale override resurrected a removed node")
	}
	if eff.Len() != 1 {
		t.Fatalf("effective has %d nodes, want 1", eff.Len())
	}
	if s.Len() != 2 {
		t.Fatalf("Merge must not mutate the store, Len = %d", s.Len())
	}

	if n := s.Prune(base); n != 1 {
		t.Fatalf("Prune removed %d, want 1", n)
	}
	if _, ok := s.Get("gone"); ok {
		t.Fatal("Prune kept stale entry")
	}
	if _, ok := s.Get("kept"); !ok {
		t.Fatal("Prune dropped live entry")
	}
}

func TestVersionAndReset(t *testing.T) {
	s := New()
	v0 := s.Version()
	s.Reset()
	if s.Version() != v0 {
		t.Fatal("Reset of empty store should not bump the version")
	}
	s.Set("a", geom.Pt(0, 0))
	v1 := s.Version()
	if v1 == v0 {
		t.Fatal("Set should bump the version")
	}
	s.Reset()
	if s.Len() != 0 || s.Version() == v1 {
		t.Fatalf("Reset: Len=%d version=%d", s.Len(), s.Version())
	}
}
