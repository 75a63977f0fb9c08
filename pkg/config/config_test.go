package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/odvcencio/objgraph/pkg/canvas"
	"github.com/odvcencio/objgraph/pkg/layout"
	"github.com/odvcencio/objgraph/pkg/render"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LayoutConfig() != layout.DefaultConfig() {
		t.Fatalf("layout = %+v, want defaults", cfg.LayoutConfig())
	}
	th, err := cfg.RenderTheme()
	if err != nil {
		t.Fatalf("RenderTheme: %v", err)
	}
	if th != render.DefaultTheme() {
		t.Fatalf("theme = %+v, want defaults", th)
	}
	if err := Default().Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
[layout]
row_height = 40
indent = 100

[theme]
commit = "#f00"
dim = 0.5

[viewer]
interactive = false
cell_width = 6

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	l := cfg.LayoutConfig()
	if l.RowHeight != 40 || l.Indent != 100 || l.CommitX != layout.DefaultConfig().CommitX {
		t.Fatalf("layout = %+v", l)
	}
	th, err := cfg.RenderTheme()
	if err != nil {
		t.Fatalf("RenderTheme: %v", err)
	}
	if th.Commit != canvas.MustHex("#ff0000") || th.Dim != 0.5 || th.Tree != render.DefaultTheme().Tree {
		t.Fatalf("theme = %+v", th)
	}
	if cfg.Viewer.Interactive || cfg.Viewer.CellWidth != 6 || cfg.Viewer.LayoutCacheSize != 16 {
		t.Fatalf("viewer = %+v", cfg.Viewer)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Fatalf("log = %+v", cfg.Log)
	}
}

func TestLoadRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "unknown key", body: "[layout]\nrow_hieght = 3\n", want: "unknown keys: layout.row_hieght"},
		{name: "unknown section", body: "[colours]\ncommit = \"#fff\"\n", want: "unknown keys"},
		{name: "zero row height", body: "[layout]\nrow_height = 0\n", want: "layout.row_height must be greater than 0"},
		{name: "bad colour", body: "[theme]\ntree = \"blue\"\n", want: "theme.tree must be a hex colour"},
		{name: "alpha colour", body: "[theme]\ntree = \"#11223344\"\n", want: "theme.tree"},
		{name: "dim range", body: "[theme]\ndim = 2\n", want: "theme.dim must be at most 1"},
		{name: "log level", body: "[log]\nlevel = \"loud\"\n", want: "log.level must be one of"},
		{name: "cache size", body: "[viewer]\nlayout_cache_size = 0\n", want: "viewer.layout_cache_size must be at least 1"},
		{name: "syntax", body: "[layout\n", want: "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatalf("Load succeeded, want error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestLogBuild(t *testing.T) {
	logger, err := LogConfig{Level: "info"}.Build()
	if err != nil || logger == nil {
		t.Fatalf("Build without file: %v", err)
	}

	path := filepath.Join(t.TempDir(), "objgraph.log")
	logger, err = LogConfig{Level: "debug", Format: "json", File: path}.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	logger.Debug("hello")
	logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log file = %q", data)
	}

	if _, err := (LogConfig{Level: "loud", File: path}).Build(); err == nil {
		t.Fatalf("Build accepted an invalid level")
	}
}
