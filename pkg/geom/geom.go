// Package geom holds the small amount of 2D geometry shared by layout,
// rendering and hit-testing.
package geom

import "math"

// Point is a position or displacement in logical (viewport) units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X, Y, W, H float64
}

// Matrix is a 2D affine transform using the canvas convention:
//
//	x' = A*x + C*y + E
//	y' = B*x + D*y + F
type Matrix struct {
	A, B, C, D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Mul returns m·n, i.e. n is applied first.
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.C*n.B,
		B: m.B*n.A + m.D*n.B,
		C: m.A*n.C + m.C*n.D,
		D: m.B*n.C + m.D*n.D,
		E: m.A*n.E + m.C*n.F + m.E,
		F: m.B*n.E + m.D*n.F + m.F,
	}
}

// Scale post-multiplies a scale, like CanvasRenderingContext2D.scale.
func (m Matrix) Scale(sx, sy float64) Matrix {
	return m.Mul(Matrix{A: sx, D: sy})
}

// Translate post-multiplies a translation.
func (m Matrix) Translate(dx, dy float64) Matrix {
	return m.Mul(Matrix{A: 1, D: 1, E: dx, F: dy})
}

// Apply maps p through the transform.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.E,
		Y: m.B*p.X + m.D*p.Y + m.F,
	}
}

// ApplyRect maps r through the transform. Only scale and translation are
// honoured; the result is the bounding box of the mapped corners.
func (m Matrix) ApplyRect(r Rect) Rect {
	a := m.Apply(Point{X: r.X, Y: r.Y})
	b := m.Apply(Point{X: r.X + r.W, Y: r.Y + r.H})
	return Rect{
		X: math.Min(a.X, b.X),
		Y: math.Min(a.Y, b.Y),
		W: math.Abs(b.X - a.X),
		H: math.Abs(b.Y - a.Y),
	}
}

// Factor returns the uniform scale the transform applies to lengths
// (geometric mean of the axis scales).
func (m Matrix) Factor() float64 {
	sx := math.Hypot(m.A, m.B)
	sy := math.Hypot(m.C, m.D)
	return math.Sqrt(sx * sy)
}

// Cubic is a cubic Bézier curve.
type Cubic struct {
	P0, C1, C2, P1 Point
}

// At evaluates the curve at t in [0,1].
func (c Cubic) At(t float64) Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return Point{
		X: a*c.P0.X + b*c.C1.X + d*c.C2.X + e*c.P1.X,
		Y: a*c.P0.Y + b*c.C1.Y + d*c.C2.Y + e*c.P1.Y,
	}
}

// Transform maps every control point through m.
func (c Cubic) Transform(m Matrix) Cubic {
	return Cubic{P0: m.Apply(c.P0), C1: m.Apply(c.C1), C2: m.Apply(c.C2), P1: m.Apply(c.P1)}
}

// Flatten approximates the curve by a polyline of segments+1 points.
func (c Cubic) Flatten(segments int) []Point {
	if segments < 1 {
		segments = 1
	}
	out := make([]Point, 0, segments+1)
	for i := 0; i <= segments; i++ {
		out = append(out, c.At(float64(i)/float64(segments)))
	}
	return out
}

// Length returns the length of the control polygon, an upper bound on the
// arc length that is good enough to pick a flattening resolution.
func (c Cubic) Length() float64 {
	return c.P0.Dist(c.C1) + c.C1.Dist(c.C2) + c.C2.Dist(c.P1)
}
