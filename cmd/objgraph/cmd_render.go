package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/odvcencio/objgraph/pkg/canvas"
)

func newRenderCmd() *cobra.Command {
	var out string
	var width, height float64
	var ratio float64
	var selected string
	var panX, panY float64
	var roots []string

	cmd := &cobra.Command{
		Use:   "render <store|snapshot>",
		Short: "Render one frame of the graph to SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := settings(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			l, objs, err := loadObjects(cmd.Context(), args[0], roots)
			if err != nil {
				return err
			}
			s, err := newSession(cfg, log, true)
			if err != nil {
				return err
			}
			s.Load(l.Name(), objs)

			if selected != "" {
				id, err := resolveID(s.Objects(), selected)
				if err != nil {
					return err
				}
				s.SetSelected(id)
			}
			s.PanBy(panX, panY)
			if !cmd.Flags().Changed("pixel-ratio") {
				ratio = cfg.Viewer.PixelRatio
			}
			s.Resize(width, height, ratio)

			svg := canvas.NewSVG()
			if !s.Render(svg) {
				return fmt.Errorf("render: empty viewport %gx%g", width, height)
			}

			if out == "" || out == "-" {
				_, err = svg.WriteTo(cmd.OutOrStdout())
				return err
			}
			return writeFile(out, svg)
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "-", "output file (- for stdout)")
	cmd.Flags().Float64Var(&width, "width", 1200, "viewport width")
	cmd.Flags().Float64Var(&height, "height", 800, "viewport height")
	cmd.Flags().Float64Var(&ratio, "pixel-ratio", 2, "device pixel ratio (default from config)")
	cmd.Flags().StringVar(&selected, "select", "", "highlight what is reachable from this object id or prefix")
	cmd.Flags().Float64Var(&panX, "pan-x", 0, "camera offset x")
	cmd.Flags().Float64Var(&panY, "pan-y", 0, "camera offset y")
	cmd.Flags().StringSliceVar(&roots, "from", nil, "only render objects reachable from these ids (object stores only)")
	return cmd
}

func writeFile(path string, src io.WriterTo) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	w := bufio.NewWriter(f)
	if _, err := src.WriteTo(w); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
