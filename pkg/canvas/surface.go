// Package canvas defines the immediate-mode drawing contract used by the
// renderer and provides surfaces that implement it.
//
// A Surface has a backing store measured in device pixels and a current
// transform that maps drawing coordinates onto it. Resize clears the store
// and resets the transform, the same way resizing an HTML canvas does.
package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/odvcencio/objgraph/pkg/geom"
)

// Align is the horizontal anchor of a text run.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextStyle describes a text run.
type TextStyle struct {
	Size  float64 // font size in drawing units
	Color color.RGBA
	Align Align
	Bold  bool
}

// Surface is an immediate-mode 2D drawing target.
type Surface interface {
	// Resize sets the backing store to width×height device pixels, clears
	// it and resets the transform to identity.
	Resize(width, height int)
	// Size returns the backing store dimensions.
	Size() (width, height int)

	Save()
	Restore()
	Scale(sx, sy float64)
	Translate(dx, dy float64)

	FillRect(r geom.Rect, c color.RGBA)
	StrokeCurve(c geom.Cubic, width float64, col color.RGBA)
	FillCircle(center geom.Point, radius float64, c color.RGBA)
	StrokeCircle(center geom.Point, radius, width float64, c color.RGBA)
	FillText(at geom.Point, text string, style TextStyle)
}

// transform is the save/restore stack shared by the surfaces.
type transform struct {
	cur   geom.Matrix
	stack []geom.Matrix
}

func (t *transform) reset() {
	t.cur = geom.Identity()
	t.stack = t.stack[:0]
}

func (t *transform) Save() {
	t.stack = append(t.stack, t.cur)
}

func (t *transform) Restore() {
	if len(t.stack) == 0 {
		return
	}
	t.cur = t.stack[len(t.stack)-1]
	t.stack = t.stack[:len(t.stack)-1]
}

func (t *transform) Scale(sx, sy float64) {
	t.cur = t.cur.Scale(sx, sy)
}

func (t *transform) Translate(dx, dy float64) {
	t.cur = t.cur.Translate(dx, dy)
}

// Matrix returns the current transform.
func (t *transform) Matrix() geom.Matrix {
	return t.cur
}

// ParseHex parses "#rgb" or "#rrggbb" (the leading # is optional) into an
// opaque colour.
func ParseHex(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("parse colour %q: want #rgb or #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("parse colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustHex is ParseHex for compile-time constants.
func MustHex(s string) color.RGBA {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex formats c as #rrggbb, ignoring alpha.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Mix blends a toward b by t in [0,1]. Alpha is taken from a.
func Mix(a, b color.RGBA, t float64) color.RGBA {
	lerp := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: a.A}
}
