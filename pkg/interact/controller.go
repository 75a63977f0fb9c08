// Package interact turns raw pointer events into pan, node-drag and
// click-to-select gestures.
package interact

import (
	"math"

	"github.com/odvcencio/objgraph/pkg/geom"
	"github.com/odvcencio/objgraph/pkg/layout"
	"github.com/odvcencio/objgraph/pkg/object"
	"github.com/odvcencio/objgraph/pkg/overlay"
)

// MoveThreshold is the per-event pointer travel, in screen units, beyond
// which a press stops counting as a click.
const MoveThreshold = 1.0

// Mode is the gesture currently in progress.
type Mode int

const (
	Idle Mode = iota
	Panning
	Dragging
)

// String returns the lowercase mode name.
func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Options configures a Controller.
type Options struct {
	// Radius is the hit-test radius around node centres, in scene units.
	Radius float64
	// Static disables pan and drag. Clicks still select.
	Static bool
}

// Controller owns the camera offset and writes drag results into an
// overlay store. It is not safe for concurrent use.
type Controller struct {
	opts     Options
	overlay  *overlay.Store
	onSelect func(object.Hash)

	mode     Mode
	dragging object.Hash
	moved    bool
	last     geom.Point
	camera   geom.Point
}

// New returns an idle controller that records drags into ov.
func New(ov *overlay.Store, opts Options) *Controller {
	return &Controller{opts: opts, overlay: ov}
}

// OnSelect sets the callback invoked when a click resolves to a node.
func (c *Controller) OnSelect(fn func(object.Hash)) {
	c.onSelect = fn
}

// Mode returns the current gesture state.
func (c *Controller) Mode() Mode { return c.mode }

// Dragging returns the node being dragged, if any.
func (c *Controller) Dragging() (object.Hash, bool) {
	return c.dragging, c.mode == Dragging
}

// Camera returns the scene offset applied before drawing.
func (c *Controller) Camera() geom.Point { return c.camera }

// Moved reports whether the current or last gesture travelled far enough
// to suppress a click.
func (c *Controller) Moved() bool { return c.moved }

// HitTest returns the first node, in positions order, whose centre lies
// within the hit radius of the screen point.
func (c *Controller) HitTest(screen geom.Point, positions *layout.Result) (object.Hash, bool) {
	scene := screen.Sub(c.camera)
	for id, p := range positions.All() {
		if scene.Dist(p.Point()) <= c.opts.Radius {
			return id, true
		}
	}
	return "", false
}

// PointerDown starts a gesture: a drag when screen hits a node, a pan
// otherwise. Static controllers stay Idle.
func (c *Controller) PointerDown(screen geom.Point, positions *layout.Result) {
	c.moved = false
	c.last = screen
	c.dragging = ""
	if c.opts.Static {
		c.mode = Idle
		return
	}
	if id, ok := c.HitTest(screen, positions); ok {
		c.mode = Dragging
		c.dragging = id
		return
	}
	c.mode = Panning
}

// PointerMove applies the travel since the previous event to the dragged
// node or the camera. positions must be the effective positions currently
// on screen.
func (c *Controller) PointerMove(screen geom.Point, positions *layout.Result) {
	delta := screen.Sub(c.last)
	c.last = screen
	if math.Abs(delta.X) > MoveThreshold || math.Abs(delta.Y) > MoveThreshold {
		c.moved = true
	}

	switch c.mode {
	case Dragging:
		if p, ok := positions.Get(c.dragging); ok {
			c.overlay.Set(c.dragging, p.Point().Add(delta))
		}
	case Panning:
		c.camera = c.camera.Add(delta)
	}
}

// PointerUp ends the gesture. Overlay and camera changes stay applied.
func (c *Controller) PointerUp() {
	c.mode = Idle
	c.dragging = ""
}

// PointerLeave ends the gesture like PointerUp.
func (c *Controller) PointerLeave() {
	c.PointerUp()
}

// Click selects the node under the pointer unless the preceding press
// moved. It returns the selected identifier, if any.
func (c *Controller) Click(screen geom.Point, positions *layout.Result) (object.Hash, bool) {
	if c.moved {
		return "", false
	}
	id, ok := c.HitTest(screen, positions)
	if !ok {
		return "", false
	}
	if c.onSelect != nil {
		c.onSelect(id)
	}
	return id, true
}

// PanBy moves the camera directly, for keyboard navigation.
func (c *Controller) PanBy(delta geom.Point) {
	if c.opts.Static {
		return
	}
	c.camera = c.camera.Add(delta)
}

// Reset returns the camera to the origin and drops every drag override.
func (c *Controller) Reset() {
	c.mode = Idle
	c.dragging = ""
	c.moved = false
	c.camera = geom.Point{}
	c.overlay.Reset()
}
