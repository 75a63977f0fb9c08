package canvas

import (
	"bytes"
	"fmt"
	"html"
	"image/color"
	"io"

	"github.com/odvcencio/objgraph/pkg/geom"
)

// SVG is a Surface that emits an SVG document. Coordinates are mapped
// through the current transform before being written, so the document is
// expressed in device pixels.
type SVG struct {
	transform
	width, height int
	body          bytes.Buffer
}

// NewSVG returns an empty SVG surface.
func NewSVG() *SVG {
	s := &SVG{}
	s.reset()
	return s
}

func (s *SVG) Resize(width, height int) {
	s.width, s.height = width, height
	s.body.Reset()
	s.reset()
}

func (s *SVG) Size() (int, int) {
	return s.width, s.height
}

func (s *SVG) FillRect(r geom.Rect, c color.RGBA) {
	d := s.cur.ApplyRect(r)
	fmt.Fprintf(&s.body, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"%s/>`+"\n",
		num(d.X), num(d.Y), num(d.W), num(d.H), Hex(c), opacity("fill", c))
}

func (s *SVG) StrokeCurve(c geom.Cubic, width float64, col color.RGBA) {
	d := c.Transform(s.cur)
	fmt.Fprintf(&s.body, `<path d="M%s %s C%s %s, %s %s, %s %s" fill="none" stroke="%s" stroke-width="%s"%s/>`+"\n",
		num(d.P0.X), num(d.P0.Y), num(d.C1.X), num(d.C1.Y), num(d.C2.X), num(d.C2.Y), num(d.P1.X), num(d.P1.Y),
		Hex(col), num(width*s.cur.Factor()), opacity("stroke", col))
}

func (s *SVG) FillCircle(center geom.Point, radius float64, c color.RGBA) {
	p := s.cur.Apply(center)
	fmt.Fprintf(&s.body, `<circle cx="%s" cy="%s" r="%s" fill="%s"%s/>`+"\n",
		num(p.X), num(p.Y), num(radius*s.cur.Factor()), Hex(c), opacity("fill", c))
}

func (s *SVG) StrokeCircle(center geom.Point, radius, width float64, c color.RGBA) {
	p := s.cur.Apply(center)
	f := s.cur.Factor()
	fmt.Fprintf(&s.body, `<circle cx="%s" cy="%s" r="%s" fill="none" stroke="%s" stroke-width="%s"%s/>`+"\n",
		num(p.X), num(p.Y), num(radius*f), Hex(c), num(width*f), opacity("stroke", c))
}

func (s *SVG) FillText(at geom.Point, text string, style TextStyle) {
	p := s.cur.Apply(at)
	anchor := "start"
	switch style.Align {
	case AlignCenter:
		anchor = "middle"
	case AlignRight:
		anchor = "end"
	}
	weight := ""
	if style.Bold {
		weight = ` font-weight="bold"`
	}
	fmt.Fprintf(&s.body, `<text x="%s" y="%s" font-family="monospace" font-size="%s" text-anchor="%s" fill="%s"%s%s>%s</text>`+"\n",
		num(p.X), num(p.Y), num(style.Size*s.cur.Factor()), anchor, Hex(style.Color), weight, opacity("fill", style.Color), html.EscapeString(text))
}

// WriteTo writes the complete document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	var doc bytes.Buffer
	fmt.Fprintf(&doc, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		s.width, s.height, s.width, s.height)
	doc.Write(s.body.Bytes())
	doc.WriteString("</svg>\n")
	return doc.WriteTo(w)
}

func num(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func opacity(attr string, c color.RGBA) string {
	if c.A == 0xff {
		return ""
	}
	return fmt.Sprintf(` %s-opacity="%.3f"`, attr, float64(c.A)/255)
}
