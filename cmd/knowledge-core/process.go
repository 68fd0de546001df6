package main

import (
	"github.com/spf13/cobra"

	"github.com/JamesPrial/knowledge-core/internal/knowledge"
)

func processCmd(opts *rootOptions) *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "process [file|-]",
		Short: "Detect entities in text, merge them into the store and print them as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			entities, err := a.engine.ProcessInformation(cmd.Context(), text, source)
			if err != nil {
				return err
			}
			return writeJSON(cmd, entities)
		},
	}
	cmd.Flags().StringVar(&source, "source", knowledge.DefaultSource, "Source recorded in entity history")
	return cmd
}
