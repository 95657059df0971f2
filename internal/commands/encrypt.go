package commands

import "github.com/spf13/cobra"

// NewEncryptCommand creates the encrypt subcommand.
func NewEncryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "encrypt [flags] input [output]",
		Aliases: []string{"enc", "e"},
		Short:   "Encrypt a file",
		Args:    cobra.RangeArgs(1, 2),
		PreRunE: preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd, "encrypt", args)
		},
	}
}
