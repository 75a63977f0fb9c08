// Package viewer ties layout, overlay, reachability, interaction and
// rendering into one rendering session.
//
// A Session is driven from a single event loop. Layout is recomputed only
// when a new object collection is loaded; pointer events touch only the
// overlay, the camera and the next frame.
package viewer

import (
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/odvcencio/objgraph/pkg/canvas"
	"github.com/odvcencio/objgraph/pkg/geom"
	"github.com/odvcencio/objgraph/pkg/graph"
	"github.com/odvcencio/objgraph/pkg/highlight"
	"github.com/odvcencio/objgraph/pkg/interact"
	"github.com/odvcencio/objgraph/pkg/layout"
	"github.com/odvcencio/objgraph/pkg/object"
	"github.com/odvcencio/objgraph/pkg/overlay"
	"github.com/odvcencio/objgraph/pkg/render"
)

const defaultLayoutCacheSize = 16

// Options configures a Session. The zero value is usable: it renders a
// static view with the default layout and theme.
type Options struct {
	// Interactive enables pan and node drag. Click-to-select works either way.
	Interactive bool
	Layout      *layout.Config
	Theme       *render.Theme
	// HitRadius defaults to the theme's node radius.
	HitRadius       float64
	LayoutCacheSize int
	Logger          *zap.Logger
}

// Stats counts the expensive work a session has done.
type Stats struct {
	Layouts   int // layouts computed
	CacheHits int // loads served from the layout cache
	Frames    int // frames drawn
	Resets    int // overlay/camera resets caused by a source change
}

// Session holds the per-view state: the loaded collection, its layout,
// user overrides, selection and viewport.
type Session struct {
	log      *zap.Logger
	engine   *layout.Engine
	cache    *lru.Cache[object.Hash, *layout.Result]
	pipeline *render.Pipeline
	overlay  *overlay.Store
	ctl      *interact.Controller

	source    string
	objects   *graph.Collection
	base      *layout.Result
	effective *layout.Result
	effAt     uint64

	selected  object.Hash
	reachable highlight.Set
	viewport  render.Viewport
	dirty     bool
	stats     Stats
}

// New returns an empty session.
func New(opts Options) (*Session, error) {
	cfg := layout.DefaultConfig()
	if opts.Layout != nil {
		cfg = *opts.Layout
	}
	theme := render.DefaultTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	size := opts.LayoutCacheSize
	if size <= 0 {
		size = defaultLayoutCacheSize
	}
	cache, err := lru.New[object.Hash, *layout.Result](size)
	if err != nil {
		return nil, fmt.Errorf("layout cache: %w", err)
	}
	radius := opts.HitRadius
	if radius <= 0 {
		radius = theme.NodeRadius
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	ov := overlay.New()
	s := &Session{
		log:       log,
		engine:    layout.New(cfg),
		cache:     cache,
		pipeline:  render.New(theme),
		overlay:   ov,
		ctl:       interact.New(ov, interact.Options{Radius: radius, Static: !opts.Interactive}),
		objects:   graph.NewCollection(nil),
		reachable: highlight.Set{},
	}
	s.base = s.engine.Compute(s.objects)
	return s, nil
}

// Load replaces the object collection. source names where the objects came
// from: loading a different source resets drags and the camera, reloading
// the same source keeps them and drops overrides for vanished objects.
func (s *Session) Load(source string, objs []graph.Object) {
	c := graph.NewCollection(objs)
	fp := c.Fingerprint()

	base, ok := s.cache.Get(fp)
	if ok {
		s.stats.CacheHits++
		s.log.Debug("layout cache hit", zap.String("fingerprint", fp.Short(12)))
	} else {
		start := time.Now()
		base = s.engine.Compute(c)
		s.cache.Add(fp, base)
		s.stats.Layouts++
		s.log.Debug("layout computed",
			zap.String("fingerprint", fp.Short(12)),
			zap.Int("objects", c.Len()),
			zap.Duration("took", time.Since(start)))
	}

	if source != s.source {
		if s.source != "" {
			s.log.Info("source changed, resetting view",
				zap.String("from", s.source),
				zap.String("to", source))
			s.stats.Resets++
		}
		s.ctl.Reset()
	} else if n := s.overlay.Prune(base); n > 0 {
		s.log.Debug("pruned stale overrides", zap.Int("count", n))
	}

	s.source = source
	s.objects = c
	s.base = base
	s.effective = nil
	s.reachable = highlight.Reachable(c, s.selected)
	s.dirty = true
}

// Source returns the name of the loaded source.
func (s *Session) Source() string { return s.source }

// Objects returns the loaded collection.
func (s *Session) Objects() *graph.Collection { return s.objects }

// Layout returns the computed positions before user overrides.
func (s *Session) Layout() *layout.Result { return s.base }

// OnSelect registers the handler clicks report to. The session does not
// change its own selection; the handler is expected to call SetSelected.
func (s *Session) OnSelect(fn func(object.Hash)) {
	s.ctl.OnSelect(fn)
}

// SetSelected changes the selection. An empty id clears it.
func (s *Session) SetSelected(id object.Hash) {
	if id == s.selected {
		return
	}
	s.selected = id
	s.reachable = highlight.Reachable(s.objects, id)
	s.dirty = true
}

// Selected returns the selected identifier, or "" when nothing is selected.
func (s *Session) Selected() object.Hash { return s.selected }

// Reachable returns the objects reachable from the selection.
func (s *Session) Reachable() highlight.Set { return s.reachable }

// Resize sets the viewport in logical units and the device pixel ratio.
func (s *Session) Resize(width, height, pixelRatio float64) {
	vp := render.Viewport{Width: width, Height: height, PixelRatio: pixelRatio}
	if vp == s.viewport {
		return
	}
	s.viewport = vp
	s.dirty = true
}

// Viewport returns the last size passed to Resize.
func (s *Session) Viewport() render.Viewport { return s.viewport }

// Effective returns the layout with user overrides applied. The merge is
// redone only after the overlay changes.
func (s *Session) Effective() *layout.Result {
	if s.effective == nil || s.effAt != s.overlay.Version() {
		s.effective = s.overlay.Merge(s.base)
		s.effAt = s.overlay.Version()
	}
	return s.effective
}

// Camera returns the current pan offset.
func (s *Session) Camera() geom.Point { return s.ctl.Camera() }

// Mode returns the controller state.
func (s *Session) Mode() interact.Mode { return s.ctl.Mode() }

// PointerDown starts a drag or pan at screen point (x, y).
func (s *Session) PointerDown(x, y float64) {
	s.ctl.PointerDown(geom.Pt(x, y), s.Effective())
}

// PointerMove continues the gesture. Moves while Idle only record travel
// for click suppression and never mark the frame dirty.
func (s *Session) PointerMove(x, y float64) {
	if s.ctl.Mode() == interact.Idle {
		s.ctl.PointerMove(geom.Pt(x, y), nil)
		return
	}
	s.ctl.PointerMove(geom.Pt(x, y), s.Effective())
	s.dirty = true
}

// PointerUp ends the gesture.
func (s *Session) PointerUp() { s.ctl.PointerUp() }

// PointerLeave ends the gesture when the pointer exits the view.
func (s *Session) PointerLeave() { s.ctl.PointerLeave() }

// Click reports the node under the pointer to the OnSelect handler, unless
// the press that preceded it moved.
func (s *Session) Click(x, y float64) (object.Hash, bool) {
	return s.ctl.Click(geom.Pt(x, y), s.Effective())
}

// PanBy moves the camera directly. It is a no-op for static sessions.
func (s *Session) PanBy(dx, dy float64) {
	before := s.ctl.Camera()
	s.ctl.PanBy(geom.Pt(dx, dy))
	if s.ctl.Camera() != before {
		s.dirty = true
	}
}

// ResetView drops every drag override and recentres the camera.
func (s *Session) ResetView() {
	s.ctl.Reset()
	s.dirty = true
}

// Scene assembles the inputs of the next frame.
func (s *Session) Scene() render.Scene {
	return render.Scene{
		Objects:   s.objects,
		Positions: s.Effective(),
		Selected:  s.selected,
		Reachable: s.reachable,
		Camera:    s.ctl.Camera(),
		Viewport:  s.viewport,
	}
}

// Dirty reports whether state changed since the last frame was drawn.
func (s *Session) Dirty() bool { return s.dirty }

// Render draws a frame onto surface. It returns false when the frame was
// skipped, which leaves the session dirty.
func (s *Session) Render(surface canvas.Surface) bool {
	if !s.pipeline.Draw(surface, s.Scene()) {
		return false
	}
	s.stats.Frames++
	s.dirty = false
	return true
}

// Theme returns the theme the pipeline draws with.
func (s *Session) Theme() render.Theme { return s.pipeline.Theme() }

// Stats returns counters since the session was created.
func (s *Session) Stats() Stats { return s.stats }
