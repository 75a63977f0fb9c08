package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/odvcencio/objgraph/pkg/geom"
	"github.com/odvcencio/objgraph/pkg/graph"
	"github.com/odvcencio/objgraph/pkg/object"
	"github.com/odvcencio/objgraph/pkg/viewer"
)

func sample() []graph.Object {
	return []graph.Object{
		{ID: "c1c1c1c1c1c1c1", Kind: object.TypeCommit, Tree: "t1t1t1t1t1t1t1", Author: "ana", Message: "init\nbody", Size: 120},
		{ID: "t1t1t1t1t1t1t1", Kind: object.TypeTree, Entries: []graph.Entry{
			{Mode: object.TreeModeFile, Kind: object.TypeBlob, Ref: "b1b1b1b1b1b1b1", Name: "a.txt"},
		}},
		{ID: "b1b1b1b1b1b1b1", Kind: object.TypeBlob, Names: []string{"a.txt"}, Size: 2048},
	}
}

func newModel(t *testing.T, interactive bool) *Model {
	t.Helper()
	s, err := viewer.New(viewer.Options{Interactive: interactive})
	if err != nil {
		t.Fatalf("viewer.New: %v", err)
	}
	m := New(s, nil, Options{CellWidth: 8})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m.Update(loadedMsg{name: "mem", objs: sample()})
	return m
}

// cellOf returns the terminal cell holding the logical point p.
func cellOf(p geom.Point) (int, int) {
	return int(p.X / 8), int(p.Y/16) + headerRows
}

func mouse(m *Model, action tea.MouseAction, x, y int) {
	m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
}

func TestResizeMapsCellsToDots(t *testing.T) {
	m := newModel(t, true)
	vp := m.session.Viewport()
	if vp.Width != 640 || vp.Height != 38*16 || vp.PixelRatio != 0.25 {
		t.Fatalf("viewport = %+v", vp)
	}
	if cols, rows := m.surface.Cells(); cols != 80 || rows != 38 {
		t.Fatalf("surface = %dx%d cells, want 80x38", cols, rows)
	}
	if got := len(strings.Split(m.View(), "\n")); got != 40 {
		t.Fatalf("view has %d lines, want 40", got)
	}

	// a cell width that is not a power of two must not grow the grid
	m.cellW = 6
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	if cols, _ := m.surface.Cells(); cols != 80 {
		t.Fatalf("cols = %d with cell width 6, want 80", cols)
	}
}

func TestClickSelects(t *testing.T) {
	m := newModel(t, true)
	p, _ := m.session.Effective().Get("c1c1c1c1c1c1c1")
	x, y := cellOf(p.Point())

	mouse(m, tea.MouseActionPress, x, y)
	mouse(m, tea.MouseActionRelease, x, y)

	if m.session.Selected() != "c1c1c1c1c1c1c1" {
		t.Fatalf("selected = %q", m.session.Selected())
	}
	status := m.status()
	for _, want := range []string{"commit c1c1c1c1c1c1", "ana · init", "120 B", "reaches 3"} {
		if !strings.Contains(status, want) {
			t.Errorf("status %q missing %q", status, want)
		}
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.session.Selected() != "" {
		t.Fatalf("esc did not clear the selection")
	}
}

func TestOtherButtonsDoNotSelect(t *testing.T) {
	tests := []struct {
		name   string
		button tea.MouseButton
	}{
		{"right", tea.MouseButtonRight},
		{"middle", tea.MouseButtonMiddle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, true)
			p, _ := m.session.Effective().Get("c1c1c1c1c1c1c1")
			x, y := cellOf(p.Point())

			m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tt.button})
			m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tt.button})
			if m.session.Selected() != "" {
				t.Fatalf("%s button selected %q", tt.name, m.session.Selected())
			}

			// A release with no button reported still completes a left click.
			mouse(m, tea.MouseActionPress, x, y)
			m.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonNone})
			if m.session.Selected() != "c1c1c1c1c1c1c1" {
				t.Fatalf("left click after %s press: selected = %q", tt.name, m.session.Selected())
			}
		})
	}
}

func TestDragDoesNotSelect(t *testing.T) {
	m := newModel(t, true)
	id := object.Hash("b1b1b1b1b1b1b1")
	before, _ := m.session.Effective().Get(id)
	x, y := cellOf(before.Point())

	mouse(m, tea.MouseActionPress, x, y)
	mouse(m, tea.MouseActionMotion, x+3, y)
	mouse(m, tea.MouseActionRelease, x+3, y)

	after, _ := m.session.Effective().Get(id)
	if after.X != before.X+24 || after.Y != before.Y {
		t.Fatalf("blob moved from %v to %v, want +24 on x", before.Point(), after.Point())
	}
	if m.session.Selected() != "" {
		t.Fatalf("drag selected %q", m.session.Selected())
	}
	if m.session.Stats().Layouts != 1 {
		t.Fatalf("drag triggered a layout")
	}
}

func TestKeys(t *testing.T) {
	m := newModel(t, true)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if m.session.Camera() != geom.Pt(-40, 0) {
		t.Fatalf("camera after right = %v", m.session.Camera())
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if m.session.Camera() != (geom.Point{}) {
		t.Fatalf("camera after reset = %v", m.session.Camera())
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatalf("q returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestLoadError(t *testing.T) {
	m := newModel(t, true)
	m.Update(loadedMsg{name: "mem", err: errTest})
	if !strings.Contains(m.status(), "boom") {
		t.Fatalf("status = %q", m.status())
	}
	if m.session.Objects().Len() != 3 {
		t.Fatalf("failed load replaced the collection")
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")
