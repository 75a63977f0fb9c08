// Package config reads objgraph's TOML configuration.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/odvcencio/objgraph/pkg/canvas"
	"github.com/odvcencio/objgraph/pkg/layout"
	"github.com/odvcencio/objgraph/pkg/render"
)

// Config is the whole configuration file.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Theme  ThemeConfig  `toml:"theme"`
	Viewer ViewerConfig `toml:"viewer"`
	Log    LogConfig    `toml:"log"`
}

// LayoutConfig mirrors layout.Config.
type LayoutConfig struct {
	CommitX      float64 `toml:"commit_x" validate:"gte=0"`
	TreeX        float64 `toml:"tree_x" validate:"gte=0"`
	Indent       float64 `toml:"indent" validate:"gt=0"`
	Top          float64 `toml:"top" validate:"gte=0"`
	RowHeight    float64 `toml:"row_height" validate:"gt=0"`
	BlobGap      float64 `toml:"blob_gap" validate:"gte=0"`
	TagOffsetX   float64 `toml:"tag_offset_x"`
	TagStackY    float64 `toml:"tag_stack_y" validate:"gte=0"`
	TagFallbackX float64 `toml:"tag_fallback_x" validate:"gte=0"`
	HeaderOffset float64 `toml:"header_offset" validate:"gte=0"`
}

// ThemeConfig holds colours as #rgb or #rrggbb strings.
type ThemeConfig struct {
	Background   string `toml:"background" validate:"hexcolor"`
	Commit       string `toml:"commit" validate:"hexcolor"`
	Tree         string `toml:"tree" validate:"hexcolor"`
	Blob         string `toml:"blob" validate:"hexcolor"`
	Tag          string `toml:"tag" validate:"hexcolor"`
	Edge         string `toml:"edge" validate:"hexcolor"`
	EdgeEmphasis string `toml:"edge_emphasis" validate:"hexcolor"`
	Selected     string `toml:"selected" validate:"hexcolor"`
	Reachable    string `toml:"reachable" validate:"hexcolor"`
	Label        string `toml:"label" validate:"hexcolor"`
	Header       string `toml:"header" validate:"hexcolor"`

	Dim        float64 `toml:"dim" validate:"gte=0,lte=1"`
	NodeRadius float64 `toml:"node_radius" validate:"gt=0"`
	LabelSize  float64 `toml:"label_size" validate:"gt=0"`
	HeaderSize float64 `toml:"header_size" validate:"gt=0"`
}

// ViewerConfig controls the interactive session and its terminal mapping.
type ViewerConfig struct {
	Interactive bool `toml:"interactive"`
	// PixelRatio is used for SVG export.
	PixelRatio float64 `toml:"pixel_ratio" validate:"gt=0,lte=8"`
	// CellWidth is how many logical units one terminal column spans.
	CellWidth       float64 `toml:"cell_width" validate:"gt=0"`
	PanStep         float64 `toml:"pan_step" validate:"gt=0"`
	LayoutCacheSize int     `toml:"layout_cache_size" validate:"gte=1,lte=1024"`
	Watch           bool    `toml:"watch"`
	DebounceMS      int     `toml:"debounce_ms" validate:"gte=0,lte=60000"`
}

// LogConfig selects where diagnostics go. The terminal belongs to the
// viewer, so logs are written to a file or dropped.
type LogConfig struct {
	Level  string `toml:"level" validate:"oneof=debug info warn error"`
	Format string `toml:"format" validate:"oneof=json console"`
	File   string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	l := layout.DefaultConfig()
	th := render.DefaultTheme()
	return &Config{
		Layout: LayoutConfig{
			CommitX:      l.CommitX,
			TreeX:        l.TreeX,
			Indent:       l.Indent,
			Top:          l.Top,
			RowHeight:    l.RowHeight,
			BlobGap:      l.BlobGap,
			TagOffsetX:   l.TagOffsetX,
			TagStackY:    l.TagStackY,
			TagFallbackX: l.TagFallbackX,
			HeaderOffset: l.HeaderOffset,
		},
		Theme: ThemeConfig{
			Background:   canvas.Hex(th.Background),
			Commit:       canvas.Hex(th.Commit),
			Tree:         canvas.Hex(th.Tree),
			Blob:         canvas.Hex(th.Blob),
			Tag:          canvas.Hex(th.Tag),
			Edge:         canvas.Hex(th.Edge),
			EdgeEmphasis: canvas.Hex(th.EdgeEmphasis),
			Selected:     canvas.Hex(th.Selected),
			Reachable:    canvas.Hex(th.Reachable),
			Label:        canvas.Hex(th.Label),
			Header:       canvas.Hex(th.Header),
			Dim:          th.Dim,
			NodeRadius:   th.NodeRadius,
			LabelSize:    th.LabelSize,
			HeaderSize:   th.HeaderSize,
		},
		Viewer: ViewerConfig{
			Interactive:     true,
			PixelRatio:      2,
			CellWidth:       8,
			PanStep:         40,
			LayoutCacheSize: 16,
			DebounceMS:      200,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Dir returns the objgraph config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "objgraph")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path over the defaults. A missing file returns the defaults.
// Unknown keys and out-of-range values are errors.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("read config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

var validate = newValidator()

// newValidator reports fields by their TOML key.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks every field against its constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, e := range verrs {
				msgs = append(msgs, formatFieldError(e))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	// hexcolor also admits #rgba and #rrggbbaa, which the renderer does not.
	if _, err := c.RenderTheme(); err != nil {
		return err
	}
	return nil
}

func formatFieldError(e validator.FieldError) string {
	field := strings.ToLower(e.Namespace())
	field = strings.TrimPrefix(field, "config.")
	switch e.Tag() {
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex colour, got %q", field, e.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// LayoutConfig returns the layout engine settings.
func (c *Config) LayoutConfig() layout.Config {
	l := c.Layout
	return layout.Config{
		CommitX:      l.CommitX,
		TreeX:        l.TreeX,
		Indent:       l.Indent,
		Top:          l.Top,
		RowHeight:    l.RowHeight,
		BlobGap:      l.BlobGap,
		TagOffsetX:   l.TagOffsetX,
		TagStackY:    l.TagStackY,
		TagFallbackX: l.TagFallbackX,
		HeaderOffset: l.HeaderOffset,
	}
}

// RenderTheme converts the theme section, starting from the default theme
// for the sizes the file does not cover.
func (c *Config) RenderTheme() (render.Theme, error) {
	th := render.DefaultTheme()
	t := c.Theme
	dst := []struct {
		name string
		v    string
		out  *color.RGBA
	}{
		{"background", t.Background, &th.Background},
		{"commit", t.Commit, &th.Commit},
		{"tree", t.Tree, &th.Tree},
		{"blob", t.Blob, &th.Blob},
		{"tag", t.Tag, &th.Tag},
		{"edge", t.Edge, &th.Edge},
		{"edge_emphasis", t.EdgeEmphasis, &th.EdgeEmphasis},
		{"selected", t.Selected, &th.Selected},
		{"reachable", t.Reachable, &th.Reachable},
		{"label", t.Label, &th.Label},
		{"header", t.Header, &th.Header},
	}
	for _, d := range dst {
		col, err := canvas.ParseHex(d.v)
		if err != nil {
			return render.Theme{}, fmt.Errorf("theme.%s: %w", d.name, err)
		}
		*d.out = col
	}
	th.Dim = t.Dim
	th.NodeRadius = t.NodeRadius
	th.LabelSize = t.LabelSize
	th.HeaderSize = t.HeaderSize
	return th, nil
}
