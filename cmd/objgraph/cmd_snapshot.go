package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/odvcencio/objgraph/pkg/source"
)

func newSnapshotCmd() *cobra.Command {
	var out string
	var roots []string

	cmd := &cobra.Command{
		Use:   "snapshot <store|snapshot>",
		Short: "Write the object graph to a JSON snapshot (.zst to compress)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return fmt.Errorf("snapshot: --output is required")
			}
			l, objs, err := loadObjects(cmd.Context(), args[0], roots)
			if err != nil {
				return err
			}
			if err := source.WriteSnapshot(out, &source.Snapshot{Source: l.Name(), Objects: objs}); err != nil {
				return err
			}

			var total int64
			for _, o := range objs {
				total += o.Size
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d object(s) (%s of content) to %s\n",
				len(objs), humanize.Bytes(uint64(total)), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "snapshot file to write")
	cmd.Flags().StringSliceVar(&roots, "from", nil, "only include objects reachable from these ids (object stores only)")
	return cmd
}
