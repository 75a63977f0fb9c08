package main

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/odvcencio/objgraph/pkg/object"
)

var kindColors = map[object.ObjectType]*color.Color{
	object.TypeCommit: color.New(color.FgYellow, color.Bold),
	object.TypeTree:   color.New(color.FgBlue),
	object.TypeBlob:   color.New(color.FgGreen),
	object.TypeTag:    color.New(color.FgMagenta),
}

var cellText = strings.NewReplacer("\t", " ", "\n", " ", "\r", " ")

func kindLabel(kind object.ObjectType) string {
	return kindCell(kind, 0)
}

// kindCell pads kind to width and then colours it, so escapes never count
// toward the visible width.
func kindCell(kind object.ObjectType, width int) string {
	text := fmt.Sprintf("%-*s", width, kind)
	if c, ok := kindColors[kind]; ok {
		return c.Sprint(text)
	}
	return text
}

func newLayoutCmd() *cobra.Command {
	var roots []string
	var headers bool

	cmd := &cobra.Command{
		Use:   "layout <store|snapshot>",
		Short: "Print computed node positions",
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
			s, err := newSession(cfg, log, false)
			if err != nil {
				return err
			}
			s.Load(l.Name(), objs)

			out := cmd.OutOrStdout()
			if s.Layout().Len() == 0 {
				fmt.Fprintln(out, "no objects")
				return nil
			}

			// Colour escapes would skew tabwriter's widths, so the kind
			// column is padded by hand and prefixed to the aligned rows.
			ids := s.Layout().IDs()
			kindWidth := len("KIND")
			for _, id := range ids {
				p, _ := s.Layout().Get(id)
				kindWidth = max(kindWidth, len(p.Kind))
			}
			var rows bytes.Buffer
			tw := tabwriter.NewWriter(&rows, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tX\tY\tDEPTH\tSIZE\tLABEL")
			for _, id := range ids {
				p, _ := s.Layout().Get(id)
				o, _ := s.Objects().Lookup(id)
				fmt.Fprintf(tw, "%s\t%g\t%g\t%d\t%s\t%s\n",
					id.Short(12), p.X, p.Y, p.Depth,
					humanize.Bytes(uint64(max(o.Size, 0))), cellText.Replace(o.Label()))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			lines := strings.Split(strings.TrimSuffix(rows.String(), "\n"), "\n")
			fmt.Fprintf(out, "%-*s  %s\n", kindWidth, "KIND", lines[0])
			for i, id := range ids {
				p, _ := s.Layout().Get(id)
				fmt.Fprintf(out, "%s  %s\n", kindCell(p.Kind, kindWidth), lines[i+1])
			}

			if headers {
				fmt.Fprintln(out)
				for _, h := range s.Layout().Headers() {
					fmt.Fprintf(out, "header %-8s %g %g\n", h.Text, h.X, h.Y)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&roots, "from", nil, "only lay out objects reachable from these ids (object stores only)")
	cmd.Flags().BoolVar(&headers, "headers", false, "also print column header positions")
	return cmd
}
