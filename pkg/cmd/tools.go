package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// newToolsCommand prints the tool descriptors resolved from the configured
// catalog functions.
func newToolsCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Resolve the configured functions and print their tool descriptors",
		RunE: func(cmd *cobra.Command, args []string) error {
			tk, _, err := opts.buildToolkit(cmd.Context())
			if err != nil {
				return err
			}
			payload, err := json.MarshalIndent(tk.Tools(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}
}
