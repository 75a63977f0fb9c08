package canvas

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/odvcencio/objgraph/pkg/geom"
)

// Each terminal cell holds a 2×4 grid of braille dots, so one device pixel
// of a Braille surface is one dot.
const (
	DotsPerCellX = 2
	DotsPerCellY = 4
)

var brailleBits = [DotsPerCellY][DotsPerCellX]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

type cell struct {
	dots   uint8
	fg, bg color.RGBA
	hasBg  bool
	text   rune
	textFg color.RGBA
	bold   bool
}

// Braille is a Surface that rasterises onto terminal cells using braille
// patterns for strokes and fills and plain runes for text.
type Braille struct {
	transform
	width, height int // in dots
	cols, rows    int
	cells         []cell
}

// NewBraille returns an empty surface; call Resize before drawing.
func NewBraille() *Braille {
	b := &Braille{}
	b.reset()
	return b
}

func (b *Braille) Resize(width, height int) {
	b.width, b.height = max(width, 0), max(height, 0)
	b.cols = (b.width + DotsPerCellX - 1) / DotsPerCellX
	b.rows = (b.height + DotsPerCellY - 1) / DotsPerCellY
	n := b.cols * b.rows
	if cap(b.cells) >= n {
		b.cells = b.cells[:n]
		clear(b.cells)
	} else {
		b.cells = make([]cell, n)
	}
	b.reset()
}

func (b *Braille) Size() (int, int) {
	return b.width, b.height
}

// Cells returns the grid dimensions in terminal cells.
func (b *Braille) Cells() (cols, rows int) {
	return b.cols, b.rows
}

func (b *Braille) at(col, row int) *cell {
	if col < 0 || row < 0 || col >= b.cols || row >= b.rows {
		return nil
	}
	return &b.cells[row*b.cols+col]
}

func (b *Braille) plot(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	cl := b.at(x/DotsPerCellX, y/DotsPerCellY)
	cl.dots |= brailleBits[y%DotsPerCellY][x%DotsPerCellX]
	cl.fg = c
}

// FillRect paints the background of every cell whose centre lies inside
// the rectangle and erases what was drawn there.
func (b *Braille) FillRect(r geom.Rect, c color.RGBA) {
	d := b.cur.ApplyRect(r)
	for row := 0; row < b.rows; row++ {
		cy := float64(row*DotsPerCellY) + DotsPerCellY/2
		if cy < d.Y || cy > d.Y+d.H {
			continue
		}
		for col := 0; col < b.cols; col++ {
			cx := float64(col*DotsPerCellX) + DotsPerCellX/2
			if cx < d.X || cx > d.X+d.W {
				continue
			}
			*b.at(col, row) = cell{bg: c, hasBg: true}
		}
	}
}

func (b *Braille) StrokeCurve(c geom.Cubic, width float64, col color.RGBA) {
	d := c.Transform(b.cur)
	segments := int(math.Ceil(d.Length() / 2))
	pts := d.Flatten(max(segments, 2))
	for i := 1; i < len(pts); i++ {
		b.line(pts[i-1], pts[i], col)
	}
}

func (b *Braille) line(p, q geom.Point, c color.RGBA) {
	steps := int(math.Ceil(math.Max(math.Abs(q.X-p.X), math.Abs(q.Y-p.Y))))
	if steps == 0 {
		b.plot(int(math.Floor(p.X)), int(math.Floor(p.Y)), c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		b.plot(int(math.Floor(p.X+(q.X-p.X)*t)), int(math.Floor(p.Y+(q.Y-p.Y)*t)), c)
	}
}

func (b *Braille) FillCircle(center geom.Point, radius float64, c color.RGBA) {
	p := b.cur.Apply(center)
	r := radius * b.cur.Factor()
	if r < 0.75 {
		b.plot(int(math.Floor(p.X)), int(math.Floor(p.Y)), c)
		return
	}
	b.eachDot(p, r, func(x, y int, dist float64) {
		if dist <= r {
			b.plot(x, y, c)
		}
	})
}

func (b *Braille) StrokeCircle(center geom.Point, radius, width float64, c color.RGBA) {
	p := b.cur.Apply(center)
	f := b.cur.Factor()
	r := radius * f
	half := math.Max(0.5, width*f/2)
	b.eachDot(p, r+half, func(x, y int, dist float64) {
		if math.Abs(dist-r) <= half {
			b.plot(x, y, c)
		}
	})
}

func (b *Braille) eachDot(p geom.Point, r float64, fn func(x, y int, dist float64)) {
	x0, x1 := int(math.Floor(p.X-r)), int(math.Ceil(p.X+r))
	y0, y1 := int(math.Floor(p.Y-r)), int(math.Ceil(p.Y+r))
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			fn(x, y, math.Hypot(float64(x)+0.5-p.X, float64(y)+0.5-p.Y))
		}
	}
}

// FillText writes runes into whole cells starting at the cell that holds
// the anchor point.
func (b *Braille) FillText(at geom.Point, text string, style TextStyle) {
	p := b.cur.Apply(at)
	runes := []rune(text)
	col := int(math.Floor(p.X / DotsPerCellX))
	row := int(math.Floor(p.Y / DotsPerCellY))
	switch style.Align {
	case AlignCenter:
		col -= len(runes) / 2
	case AlignRight:
		col -= len(runes)
	}
	for i, r := range runes {
		if cl := b.at(col+i, row); cl != nil {
			cl.text = r
			cl.textFg = style.Color
			cl.bold = style.Bold
		}
	}
}

// String renders the grid as styled terminal rows separated by newlines.
func (b *Braille) String() string {
	var out strings.Builder
	for row := 0; row < b.rows; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}
		var run strings.Builder
		var runStyle lipgloss.Style
		var runKey string
		flush := func() {
			if run.Len() > 0 {
				out.WriteString(runStyle.Render(run.String()))
				run.Reset()
			}
		}
		for col := 0; col < b.cols; col++ {
			cl := b.cells[row*b.cols+col]
			ch, style, key := cl.render()
			if key != runKey {
				flush()
				runStyle, runKey = style, key
			}
			run.WriteRune(ch)
		}
		flush()
	}
	return out.String()
}

func (c cell) render() (rune, lipgloss.Style, string) {
	style := lipgloss.NewStyle()
	var key strings.Builder
	if c.hasBg {
		style = style.Background(lipgloss.Color(Hex(c.bg)))
		key.WriteString(Hex(c.bg))
	}
	key.WriteByte('/')
	switch {
	case c.text != 0:
		style = style.Foreground(lipgloss.Color(Hex(c.textFg))).Bold(c.bold)
		key.WriteString(Hex(c.textFg))
		if c.bold {
			key.WriteByte('b')
		}
		return c.text, style, key.String()
	case c.dots != 0:
		style = style.Foreground(lipgloss.Color(Hex(c.fg)))
		key.WriteString(Hex(c.fg))
		return rune(0x2800 + int(c.dots)), style, key.String()
	default:
		return ' ', style, key.String()
	}
}

// Plain returns the grid without colour, one line per row. Used by tests
// and non-terminal output.
func (b *Braille) Plain() string {
	var out strings.Builder
	for row := 0; row < b.rows; row++ {
		if row > 0 {
			out.WriteByte('\n')
		}
		for col := 0; col < b.cols; col++ {
			ch, _, _ := b.cells[row*b.cols+col].render()
			out.WriteRune(ch)
		}
	}
	return out.String()
}
