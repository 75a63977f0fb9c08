package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/objgraph/pkg/graph"
	"github.com/odvcencio/objgraph/pkg/highlight"
)

func newReachCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reach <store|snapshot> <id>",
		Short: "List the objects reachable from one object",
		Long: `List the objects reachable from one object by following the same edges
the viewer highlights: tag to target, commit to tree, tree to entries.
Commit parents are not followed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, objs, err := loadObjects(cmd.Context(), args[0], nil)
			if err != nil {
				return err
			}
			c := graph.NewCollection(objs)
			id, err := resolveID(c, args[1])
			if err != nil {
				return err
			}

			set := highlight.Reachable(c, id)
			out := cmd.OutOrStdout()
			for _, o := range c.Objects() {
				if !set.Has(o.ID) {
					continue
				}
				marker := " "
				if o.ID == id {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s %s %s\n", marker, kindLabel(o.Kind), o.ID, o.Label())
			}
			fmt.Fprintf(out, "%d object(s) reachable from %s\n", len(set), id.Short(12))
			return nil
		},
	}
	return cmd
}
