package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JamesPrial/knowledge-core/internal/knowledge"
)

func showCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display an entity and the note it belongs in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			entity, err := a.engine.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, knowledge.Present(entity))
			fmt.Fprintf(out, "\nLocation: %s\n", knowledge.Locate(entity))
			return nil
		},
	}
}
