package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/odvcencio/objgraph/pkg/source"
	"github.com/odvcencio/objgraph/pkg/tui"
)

func newViewCmd() *cobra.Command {
	var static bool
	var watch bool
	var roots []string

	cmd := &cobra.Command{
		Use:   "view <store|snapshot>",
		Short: "Browse the object graph in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fd := os.Stdout.Fd()
			if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
				return fmt.Errorf("view needs a terminal; use render for file output")
			}

			cfg, log, err := settings(cmd)
			if err != nil {
				return err
			}
			defer log.Sync()

			l, err := openSource(args[0], roots)
			if err != nil {
				return err
			}
			interactive := cfg.Viewer.Interactive && !static
			s, err := newSession(cfg, log, interactive)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			opts := tui.Options{CellWidth: cfg.Viewer.CellWidth, PanStep: cfg.Viewer.PanStep, Logger: log}
			if watch || cfg.Viewer.Watch {
				w, err := source.Watch(l, time.Duration(cfg.Viewer.DebounceMS)*time.Millisecond, log)
				if err != nil {
					return err
				}
				defer w.Close()
				go w.Run(ctx)
				opts.Watcher = w
			}

			p := tea.NewProgram(tui.New(s, l, opts), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&static, "static", false, "disable pan and drag (click still selects)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload when the source changes on disk")
	cmd.Flags().StringSliceVar(&roots, "from", nil, "only show objects reachable from these ids (object stores only)")
	return cmd
}
