package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func recordCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "record [file|-]",
		Short: "Record an entity from a JSON object {type, name, aliases, fields, confidence, source}",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			var raw map[string]interface{}
			if err := json.Unmarshal([]byte(text), &raw); err != nil {
				return fmt.Errorf("record must be a JSON object: %w", err)
			}

			a, err := openApp(opts)
			if err != nil {
				return err
			}
			defer a.Close()

			entity, err := a.engine.Record(cmd.Context(), raw)
			if err != nil {
				return err
			}
			return writeJSON(cmd, entity)
		},
	}
}
