package commands

import "github.com/spf13/cobra"

// NewDecryptCommand creates the decrypt subcommand.
func NewDecryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "decrypt [flags] input [output]",
		Aliases: []string{"dec", "d"},
		Short:   "Decrypt a container",
		Args:    cobra.RangeArgs(1, 2),
		PreRunE: preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd, "decrypt", args)
		},
	}
}
