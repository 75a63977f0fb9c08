// Package render draws one frame of the object graph onto a canvas.Surface.
//
// Drawing is immediate-mode: every call to Draw resizes (and so clears) the
// surface and redraws the whole scene from its inputs.
package render

import (
	"math"

	"github.com/odvcencio/objgraph/pkg/canvas"
	"github.com/odvcencio/objgraph/pkg/geom"
	"github.com/odvcencio/objgraph/pkg/graph"
	"github.com/odvcencio/objgraph/pkg/highlight"
	"github.com/odvcencio/objgraph/pkg/layout"
	"github.com/odvcencio/objgraph/pkg/object"
)

const maxLabelRunes = 24

// Viewport is the visible area in logical units plus the device pixel
// ratio of the backing surface.
type Viewport struct {
	Width, Height float64
	PixelRatio    float64
}

// Empty reports whether nothing can be drawn into v.
func (v Viewport) Empty() bool {
	return v.Width <= 0 || v.Height <= 0
}

// Ratio returns the pixel ratio, treating unset or invalid values as 1.
func (v Viewport) Ratio() float64 {
	if v.PixelRatio <= 0 || math.IsNaN(v.PixelRatio) || math.IsInf(v.PixelRatio, 0) {
		return 1
	}
	return v.PixelRatio
}

// Scene is everything a frame depends on.
type Scene struct {
	Objects   *graph.Collection
	Positions *layout.Result
	Selected  object.Hash
	Reachable highlight.Set
	Camera    geom.Point
	Viewport  Viewport
}

// Pipeline draws scenes with a fixed theme.
type Pipeline struct {
	theme Theme
}

// New returns a pipeline that draws with theme.
func New(theme Theme) *Pipeline {
	return &Pipeline{theme: theme}
}

func (p *Pipeline) Theme() Theme {
	return p.theme
}

// Draw renders sc onto s and reports whether a frame was produced. A nil
// surface or an empty viewport skips the frame without touching s.
func (p *Pipeline) Draw(s canvas.Surface, sc Scene) bool {
	if s == nil || sc.Viewport.Empty() {
		return false
	}
	th := p.theme
	ratio := sc.Viewport.Ratio()

	s.Resize(devicePixels(sc.Viewport.Width, ratio), devicePixels(sc.Viewport.Height, ratio))
	s.Scale(ratio, ratio)
	s.FillRect(geom.Rect{W: sc.Viewport.Width, H: sc.Viewport.Height}, th.Background)

	s.Save()
	s.Translate(sc.Camera.X, sc.Camera.Y)

	active := len(sc.Reachable) > 0
	for _, e := range sc.Objects.Edges() {
		from, ok := sc.Positions.Get(e.From)
		if !ok {
			continue
		}
		to, ok := sc.Positions.Get(e.To)
		if !ok {
			continue
		}
		curve := EdgeCurve(from.Point(), to.Point())
		switch {
		case sc.Reachable.Emphasized(e.From, e.To):
			s.StrokeCurve(curve, th.EdgeEmphasisWidth, th.EdgeEmphasis)
		case active:
			s.StrokeCurve(curve, th.EdgeWidth, th.dim(th.Edge))
		default:
			s.StrokeCurve(curve, th.EdgeWidth, th.Edge)
		}
	}

	for id, pos := range sc.Positions.All() {
		fill := th.KindColor(pos.Kind)
		if active && !sc.Reachable.Has(id) {
			fill = th.dim(fill)
		}
		c := pos.Point()
		s.FillCircle(c, th.NodeRadius, fill)
		switch {
		case id == sc.Selected:
			s.StrokeCircle(c, th.NodeRadius+th.RingWidth+1, th.RingWidth, th.Selected)
		case sc.Reachable.Has(id):
			s.StrokeCircle(c, th.NodeRadius+th.RingWidth/2, th.RingWidth/2, th.Reachable)
		}
	}

	label := canvas.TextStyle{Size: th.LabelSize, Color: th.Label, Align: canvas.AlignCenter}
	for id, pos := range sc.Positions.All() {
		text := id.Short(7)
		if o, ok := sc.Objects.Lookup(id); ok {
			text = o.Label()
		}
		st := label
		if active && !sc.Reachable.Has(id) {
			st.Color = th.dim(st.Color)
		}
		st.Bold = id == sc.Selected
		s.FillText(geom.Pt(pos.X, pos.Y+th.NodeRadius+th.LabelSize+2), truncate(text, maxLabelRunes), st)
	}

	header := canvas.TextStyle{Size: th.HeaderSize, Color: th.Header, Align: canvas.AlignCenter, Bold: true}
	for _, h := range sc.Positions.Headers() {
		s.FillText(geom.Pt(h.X, h.Y), h.Text, header)
	}

	s.Restore()
	return true
}

// EdgeCurve returns the smooth connector drawn between two node centres.
// Nodes in different columns get a horizontal S-curve; nodes stacked in the
// same column (commit parents) bow out to the left.
func EdgeCurve(from, to geom.Point) geom.Cubic {
	if math.Abs(to.X-from.X) < 1 {
		bow := math.Min(math.Abs(to.Y-from.Y)*0.5, 60)
		return geom.Cubic{
			P0: from,
			C1: geom.Pt(from.X-bow, from.Y),
			C2: geom.Pt(to.X-bow, to.Y),
			P1: to,
		}
	}
	mid := (from.X + to.X) / 2
	return geom.Cubic{
		P0: from,
		C1: geom.Pt(mid, from.Y),
		C2: geom.Pt(mid, to.Y),
		P1: to,
	}
}

// devicePixels rounds up, ignoring float noise from ratios such as 1/3.
func devicePixels(logical, ratio float64) int {
	return int(math.Ceil(logical*ratio - 1e-9))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
