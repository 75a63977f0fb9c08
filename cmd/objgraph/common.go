package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odvcencio/objgraph/pkg/config"
	"github.com/odvcencio/objgraph/pkg/graph"
	"github.com/odvcencio/objgraph/pkg/object"
	"github.com/odvcencio/objgraph/pkg/source"
	"github.com/odvcencio/objgraph/pkg/viewer"
)

// settings reads the config file named by --config and applies the
// logging flags on top of it.
func settings(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	path := stringFlag(cmd, "config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if f := stringFlag(cmd, "log-file"); f != "" {
		cfg.Log.File = f
	}
	if v := cmd.Flag("verbose"); v != nil && v.Value.String() == "true" {
		cfg.Log.Level = "debug"
	}
	log, err := cfg.Log.Build()
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func stringFlag(cmd *cobra.Command, name string) string {
	if f := cmd.Flag(name); f != nil {
		return f.Value.String()
	}
	return ""
}

// openSource picks a loader for path, limited to the objects reachable
// from roots when roots are given.
func openSource(path string, roots []string) (source.Loader, error) {
	l, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		return l, nil
	}
	sl, ok := l.(*source.StoreLoader)
	if !ok {
		return nil, fmt.Errorf("--from needs an object store, %s is a snapshot", path)
	}
	for _, r := range roots {
		sl.Roots = append(sl.Roots, object.Hash(strings.TrimSpace(r)))
	}
	return sl, nil
}

func loadObjects(ctx context.Context, path string, roots []string) (source.Loader, []graph.Object, error) {
	l, err := openSource(path, roots)
	if err != nil {
		return nil, nil, err
	}
	objs, err := l.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return l, objs, nil
}

// newSession builds a viewer session from the loaded configuration.
func newSession(cfg *config.Config, log *zap.Logger, interactive bool) (*viewer.Session, error) {
	theme, err := cfg.RenderTheme()
	if err != nil {
		return nil, err
	}
	lc := cfg.LayoutConfig()
	return viewer.New(viewer.Options{
		Interactive:     interactive,
		Layout:          &lc,
		Theme:           &theme,
		LayoutCacheSize: cfg.Viewer.LayoutCacheSize,
		Logger:          log,
	})
}

// resolveID expands an identifier prefix to the single object it names.
func resolveID(c *graph.Collection, prefix string) (object.Hash, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("empty object id")
	}
	if c.Has(object.Hash(prefix)) {
		return object.Hash(prefix), nil
	}
	var match object.Hash
	for _, o := range c.Objects() {
		if !strings.HasPrefix(string(o.ID), prefix) {
			continue
		}
		if match != "" {
			return "", fmt.Errorf("object id %q is ambiguous", prefix)
		}
		match = o.ID
	}
	if match == "" {
		return "", fmt.Errorf("object %q not found", prefix)
	}
	return match, nil
}
