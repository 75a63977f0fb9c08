package viewer

import (
	"testing"

	"github.com/odvcencio/objgraph/pkg/canvas"
	"github.com/odvcencio/objgraph/pkg/geom"
	"github.com/odvcencio/objgraph/pkg/graph"
	"github.com/odvcencio/objgraph/pkg/interact"
	"github.com/odvcencio/objgraph/pkg/object"
)

func sample() []graph.Object {
	return []graph.Object{
		{ID: "C1", Kind: object.TypeCommit, Tree: "T1"},
		{ID: "T1", Kind: object.TypeTree, Entries: []graph.Entry{
			{Mode: object.TreeModeFile, Kind: object.TypeBlob, Ref: "B1", Name: "a.txt"},
		}},
		{ID: "B1", Kind: object.TypeBlob, Names: []string{"a.txt"}},
	}
}

func newSession(t *testing.T, interactive bool) *Session {
	t.Helper()
	s, err := New(Options{Interactive: interactive})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func pos(t *testing.T, s *Session, id object.Hash) geom.Point {
	t.Helper()
	p, ok := s.Effective().Get(id)
	if !ok {
		t.Fatalf("no effective position for %s", id)
	}
	return p.Point()
}

// drag presses on id and moves the pointer by d in two steps.
func drag(t *testing.T, s *Session, id object.Hash, d geom.Point) {
	t.Helper()
	p := pos(t, s, id).Add(s.Camera())
	s.PointerDown(p.X, p.Y)
	s.PointerMove(p.X+d.X/2, p.Y+d.Y/2)
	s.PointerMove(p.X+d.X, p.Y+d.Y)
	s.PointerUp()
}

func TestEmptySession(t *testing.T) {
	s := newSession(t, true)
	if s.Effective().Len() != 0 {
		t.Fatalf("empty session has %d positions", s.Effective().Len())
	}
	s.Resize(100, 100, 1)
	if !s.Render(canvas.NewRecorder()) {
		t.Fatalf("empty session did not render")
	}
}

func TestPointerMovesDoNotRelayout(t *testing.T) {
	s := newSession(t, true)
	s.Load("repo", sample())
	if got := s.Stats().Layouts; got != 1 {
		t.Fatalf("Layouts after load = %d, want 1", got)
	}

	before := pos(t, s, "T1")
	drag(t, s, "T1", geom.Pt(20, 40))
	s.PointerDown(600, 500)
	s.PointerMove(620, 510)
	s.PointerUp()

	if got := s.Stats().Layouts; got != 1 {
		t.Fatalf("Layouts after pointer activity = %d, want 1", got)
	}
	if got := pos(t, s, "T1"); got != before.Add(geom.Pt(20, 40)) {
		t.Fatalf("T1 effective = %v, want %v", got, before.Add(geom.Pt(20, 40)))
	}
	if base, _ := s.Layout().Get("T1"); base.Point() != before {
		t.Fatalf("drag changed the computed layout")
	}
	if s.Camera() != geom.Pt(20, 10) {
		t.Fatalf("camera = %v, want (20,10)", s.Camera())
	}
}

func TestLayoutCache(t *testing.T) {
	s := newSession(t, true)
	s.Load("repo", sample())
	s.Load("repo", sample())
	st := s.Stats()
	if st.Layouts != 1 || st.CacheHits != 1 {
		t.Fatalf("stats = %+v, want one layout and one cache hit", st)
	}

	s.Load("repo", sample()[:2])
	if s.Stats().Layouts != 2 {
		t.Fatalf("changed collection was not laid out")
	}
}

func TestLayoutCacheDistinguishesIDsWithSpaces(t *testing.T) {
	s := newSession(t, true)
	s.Load("repo", []graph.Object{{ID: "T1", Kind: object.TypeTree, Entries: []graph.Entry{
		{Mode: object.TreeModeFile, Kind: object.TypeBlob, Ref: "X", Name: "x"},
	}}})
	s.Load("repo", []graph.Object{{ID: "T1 X", Kind: object.TypeTree}})

	if st := s.Stats(); st.Layouts != 2 || st.CacheHits != 0 {
		t.Fatalf("stats = %+v, want two layouts and no cache hit", st)
	}
	if _, ok := s.Effective().Get("T1 X"); !ok {
		t.Fatalf("object %q has no position", "T1 X")
	}
	if _, ok := s.Effective().Get("T1"); ok {
		t.Fatalf("stale object T1 still positioned")
	}
}

func TestSourceChangeResetsView(t *testing.T) {
	s := newSession(t, true)
	s.Load("first", sample())
	drag(t, s, "C1", geom.Pt(30, 0))
	s.PanBy(15, 15)

	s.Load("second", sample())
	if s.Camera() != (geom.Point{}) {
		t.Fatalf("camera survived source change: %v", s.Camera())
	}
	base, _ := s.Layout().Get("C1")
	if got := pos(t, s, "C1"); got != base.Point() {
		t.Fatalf("drag survived source change: %v", got)
	}
	if s.Stats().Resets != 1 {
		t.Fatalf("Resets = %d, want 1", s.Stats().Resets)
	}
}

func TestReloadKeepsViewAndPrunes(t *testing.T) {
	s := newSession(t, true)
	s.Load("repo", sample())
	drag(t, s, "C1", geom.Pt(30, 0))
	drag(t, s, "B1", geom.Pt(0, 30))
	s.PanBy(5, 5)
	moved := pos(t, s, "C1")

	s.Load("repo", sample()[:2])
	if got := pos(t, s, "C1"); got != moved {
		t.Fatalf("C1 = %v after reload, want %v", got, moved)
	}
	if _, ok := s.Effective().Get("B1"); ok {
		t.Fatalf("removed object still positioned")
	}
	if s.Camera() != geom.Pt(5, 5) {
		t.Fatalf("camera = %v after reload", s.Camera())
	}

	// B1 comes back at its computed position: its override was pruned.
	s.Load("repo", sample())
	base, _ := s.Layout().Get("B1")
	if got := pos(t, s, "B1"); got != base.Point() {
		t.Fatalf("B1 = %v, want computed %v", got, base.Point())
	}
}

func TestClickSelectsThroughHandler(t *testing.T) {
	s := newSession(t, true)
	s.Load("repo", sample())
	s.OnSelect(s.SetSelected)

	p := pos(t, s, "T1")
	s.PointerDown(p.X, p.Y)
	s.PointerUp()
	if id, ok := s.Click(p.X, p.Y); !ok || id != "T1" {
		t.Fatalf("Click = %q, %v", id, ok)
	}
	if s.Selected() != "T1" {
		t.Fatalf("Selected = %q", s.Selected())
	}
	r := s.Reachable()
	if !r.Has("T1") || !r.Has("B1") || r.Has("C1") {
		t.Fatalf("reachable = %v", r)
	}

	// a drag never selects
	s.SetSelected("")
	drag(t, s, "C1", geom.Pt(10, 10))
	q := pos(t, s, "C1")
	if _, ok := s.Click(q.X, q.Y); ok || s.Selected() != "" {
		t.Fatalf("click after drag selected %q", s.Selected())
	}
}

func TestStaticSession(t *testing.T) {
	s := newSession(t, false)
	s.Load("repo", sample())
	s.OnSelect(s.SetSelected)
	before := pos(t, s, "C1")

	drag(t, s, "C1", geom.Pt(40, 40))
	s.PanBy(10, 10)
	if got := pos(t, s, "C1"); got != before || s.Camera() != (geom.Point{}) {
		t.Fatalf("static session moved: C1=%v camera=%v", got, s.Camera())
	}
	if s.Mode() != interact.Idle {
		t.Fatalf("mode = %v", s.Mode())
	}

	s.PointerDown(before.X, before.Y)
	s.PointerUp()
	s.Click(before.X, before.Y)
	if s.Selected() != "C1" {
		t.Fatalf("static click did not select")
	}
}

func TestRenderAndDirty(t *testing.T) {
	s := newSession(t, true)
	s.Load("repo", sample())
	rec := canvas.NewRecorder()

	if s.Render(rec) {
		t.Fatalf("rendered before a viewport was set")
	}
	if !s.Dirty() {
		t.Fatalf("skipped frame cleared dirty")
	}

	s.Resize(640, 480, 2)
	if !s.Render(rec) || s.Dirty() {
		t.Fatalf("render after resize: dirty=%v", s.Dirty())
	}
	if w, h := rec.Size(); w != 1280 || h != 960 {
		t.Fatalf("surface = %dx%d, want 1280x960", w, h)
	}

	s.Resize(640, 480, 2)
	if s.Dirty() {
		t.Fatalf("identical resize marked dirty")
	}
	s.SetSelected("C1")
	if !s.Dirty() {
		t.Fatalf("selection change not dirty")
	}
	s.Render(rec)
	if s.Stats().Frames != 2 {
		t.Fatalf("Frames = %d, want 2", s.Stats().Frames)
	}
}

func TestEffectiveMemoised(t *testing.T) {
	s := newSession(t, true)
	s.Load("repo", sample())
	a := s.Effective()
	if b := s.Effective(); a != b {
		t.Fatalf("Effective recomputed without overlay change")
	}
	drag(t, s, "B1", geom.Pt(5, 5))
	if c := s.Effective(); c == a {
		t.Fatalf("Effective not refreshed after drag")
	}
}
