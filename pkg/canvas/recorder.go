package canvas

import (
	"image/color"

	"github.com/odvcencio/objgraph/pkg/geom"
)

// OpKind identifies a recorded drawing call.
type OpKind int

const (
	OpResize OpKind = iota
	OpFillRect
	OpStrokeCurve
	OpFillCircle
	OpStrokeCircle
	OpFillText
)

func (k OpKind) String() string {
	switch k {
	case OpResize:
		return "resize"
	case OpFillRect:
		return "fillRect"
	case OpStrokeCurve:
		return "strokeCurve"
	case OpFillCircle:
		return "fillCircle"
	case OpStrokeCircle:
		return "strokeCircle"
	case OpFillText:
		return "fillText"
	default:
		return "unknown"
	}
}

// Op is one drawing call together with the transform in effect. Geometry
// is kept in drawing coordinates; apply Matrix to get device pixels.
type Op struct {
	Kind   OpKind
	Matrix geom.Matrix
	Rect   geom.Rect
	Curve  geom.Cubic
	Center geom.Point
	Radius float64
	Width  float64
	Color  color.RGBA
	Text   string
	Style  TextStyle
}

// Recorder is a Surface that records calls instead of drawing them.
type Recorder struct {
	transform
	width, height int
	Ops           []Op
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.reset()
	return r
}

func (r *Recorder) Resize(width, height int) {
	r.width, r.height = width, height
	r.reset()
	r.Ops = append(r.Ops[:0], Op{Kind: OpResize, Matrix: r.cur, Rect: geom.Rect{W: float64(width), H: float64(height)}})
}

func (r *Recorder) Size() (int, int) {
	return r.width, r.height
}

func (r *Recorder) FillRect(rect geom.Rect, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFillRect, Matrix: r.cur, Rect: rect, Color: c})
}

func (r *Recorder) StrokeCurve(c geom.Cubic, width float64, col color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeCurve, Matrix: r.cur, Curve: c, Width: width, Color: col})
}

func (r *Recorder) FillCircle(center geom.Point, radius float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpFillCircle, Matrix: r.cur, Center: center, Radius: radius, Color: c})
}

func (r *Recorder) StrokeCircle(center geom.Point, radius, width float64, c color.RGBA) {
	r.Ops = append(r.Ops, Op{Kind: OpStrokeCircle, Matrix: r.cur, Center: center, Radius: radius, Width: width, Color: c})
}

func (r *Recorder) FillText(at geom.Point, text string, style TextStyle) {
	r.Ops = append(r.Ops, Op{Kind: OpFillText, Matrix: r.cur, Center: at, Text: text, Style: style, Color: style.Color})
}

// Filter returns the recorded ops of the given kind, in order.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}
