// Package tui is the terminal front end: it feeds mouse and keyboard
// events into a viewer.Session and draws its frames with braille cells.
package tui

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/odvcencio/objgraph/pkg/canvas"
	"github.com/odvcencio/objgraph/pkg/graph"
	"github.com/odvcencio/objgraph/pkg/object"
	"github.com/odvcencio/objgraph/pkg/source"
	"github.com/odvcencio/objgraph/pkg/viewer"
)

// Rows taken by the legend above the canvas and the status line below it.
const (
	headerRows = 1
	footerRows = 1
)

// Options configures a Model.
type Options struct {
	// CellWidth is the number of logical units one terminal column spans.
	// A row spans twice as many, matching the 2×4 braille dot grid.
	CellWidth float64
	PanStep   float64
	Watcher   *source.Watcher
	Logger    *zap.Logger
}

type loadedMsg struct {
	name string
	objs []graph.Object
	err  error
}

type changedMsg struct{}

// Model is the bubbletea model. Use it through a pointer.
type Model struct {
	session *viewer.Session
	loader  source.Loader
	watcher *source.Watcher
	log     *zap.Logger
	keys    keyMap

	surface *canvas.Braille
	frame   string
	cellW   float64
	panStep float64

	width, height int
	pressed       bool // left button went down inside the view
	err           error
}

// New returns a model that shows s and loads its objects from l.
func New(s *viewer.Session, l source.Loader, opts Options) *Model {
	if opts.CellWidth <= 0 {
		opts.CellWidth = 8
	}
	if opts.PanStep <= 0 {
		opts.PanStep = 5 * opts.CellWidth
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	m := &Model{
		session: s,
		loader:  l,
		watcher: opts.Watcher,
		log:     log,
		keys:    defaultKeyMap(),
		surface: canvas.NewBraille(),
		cellW:   opts.CellWidth,
		panStep: opts.PanStep,
	}
	s.OnSelect(m.session.SetSelected)
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.load(), m.waitForChange())
}

func (m *Model) load() tea.Cmd {
	if m.loader == nil {
		return nil
	}
	l := m.loader
	return func() tea.Msg {
		objs, err := l.Load(context.Background())
		return loadedMsg{name: l.Name(), objs: objs, err: err}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	changes := m.watcher.Changes()
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

// cellSize returns the logical size of one terminal cell.
func (m *Model) cellSize() (w, h float64) {
	return m.cellW, 2 * m.cellW
}

// toLogical maps a terminal cell to the logical point at its centre.
func (m *Model) toLogical(x, y int) (float64, float64) {
	cw, ch := m.cellSize()
	return (float64(x) + 0.5) * cw, (float64(y-headerRows) + 0.5) * ch
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		rows := max(msg.Height-headerRows-footerRows, 0)
		cw, ch := m.cellSize()
		m.session.Resize(float64(msg.Width)*cw, float64(rows)*ch, DotsPerUnit(m.cellW))

	case tea.KeyMsg:
		cmd = m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.log.Warn("load failed", zap.String("source", msg.name), zap.Error(msg.err))
			break
		}
		m.err = nil
		m.session.Load(msg.name, msg.objs)
		m.log.Info("loaded", zap.String("source", msg.name), zap.Int("objects", len(msg.objs)))

	case changedMsg:
		cmd = tea.Batch(m.load(), m.waitForChange())
	}

	if m.session.Dirty() && m.session.Render(m.surface) {
		m.frame = m.surface.String()
	}
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Clear):
		m.session.SetSelected("")
	case key.Matches(msg, m.keys.Reset):
		m.session.ResetView()
	case key.Matches(msg, m.keys.Reload):
		return m.load()
	case key.Matches(msg, m.keys.Up):
		m.session.PanBy(0, m.panStep)
	case key.Matches(msg, m.keys.Down):
		m.session.PanBy(0, -m.panStep)
	case key.Matches(msg, m.keys.Left):
		m.session.PanBy(m.panStep, 0)
	case key.Matches(msg, m.keys.Right):
		m.session.PanBy(-m.panStep, 0)
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	x, y := m.toLogical(msg.X, msg.Y)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.pressed = true
			m.session.PointerDown(x, y)
		}
	case tea.MouseActionMotion:
		m.session.PointerMove(x, y)
	case tea.MouseActionRelease:
		// Terminals do not always report which button was released.
		if !m.pressed {
			return
		}
		m.pressed = false
		m.session.PointerUp()
		m.session.Click(x, y)
	}
}

func (m *Model) View() string {
	if m.width == 0 {
		return "loading…"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.legend(), m.frame, m.status())
}

// legend is drawn outside the braille surface, so it never pans.
func (m *Model) legend() string {
	th := m.session.Theme()
	item := func(c color.RGBA, name string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(canvas.Hex(c))).Render("●") + " " + name
	}
	parts := []string{
		item(th.Commit, "commit"),
		item(th.Tree, "tree"),
		item(th.Blob, "blob"),
		item(th.Tag, "tag"),
	}
	var help []string
	for _, b := range m.keys.help() {
		h := b.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	left := strings.Join(parts, "  ")
	right := dimStyle.Render(strings.Join(help, " · "))
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) status() string {
	if m.err != nil {
		return errorStyle.Render("error: " + m.err.Error())
	}
	if id := m.session.Selected(); id != "" {
		if o, ok := m.session.Objects().Lookup(id); ok {
			return describe(o, len(m.session.Reachable()))
		}
	}
	st := m.session.Stats()
	return dimStyle.Render(fmt.Sprintf("%s · %d objects · %d layouts · %d frames · %s",
		m.session.Source(), m.session.Objects().Len(), st.Layouts, st.Frames, m.session.Mode()))
}

func describe(o *graph.Object, reachable int) string {
	head := selectedStyle.Render(fmt.Sprintf("%s %s", o.Kind, o.ID.Short(12)))
	var detail string
	switch o.Kind {
	case object.TypeCommit:
		detail = fmt.Sprintf("%s · %s", o.Author, firstLine(o.Message))
	case object.TypeTree:
		detail = fmt.Sprintf("%d entries", len(o.Entries))
	case object.TypeTag:
		detail = fmt.Sprintf("%s → %s", o.TagName, o.Target.Short(12))
	default:
		detail = o.Label()
	}
	return fmt.Sprintf("%s  %s · %s · reaches %d", head, detail, humanize.Bytes(uint64(max(o.Size, 0))), reachable)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

// DotsPerUnit is the device pixel ratio of a braille surface whose cells
// span cellWidth logical units.
func DotsPerUnit(cellWidth float64) float64 {
	return canvas.DotsPerCellX / cellWidth
}

var (
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selectedStyle = lipgloss.NewStyle().Bold(true)
)
