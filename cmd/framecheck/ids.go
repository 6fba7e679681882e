package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/banshee-data/coordframe/internal/frame"
)

func newIDsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ids",
		Short: "List the registered coordinate-system ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := frame.IDs()
			return emit(cmd.OutOrStdout(), opts, entries, func(w io.Writer) {
				for _, e := range entries {
					fmt.Fprintf(w, "%-22s %-3s %2d\n", e.Name, e.Repr, e.Dim)
				}
			})
		},
	}
}
