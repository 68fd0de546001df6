package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

func statsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print entity counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.engine.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, key := range slices.Sorted(maps.Keys(stats)) {
				fmt.Fprintf(out, "%s: %d\n", key, stats[key])
			}
			return nil
		},
	}
}
