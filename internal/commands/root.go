// Package commands wires the CLI surface: flag parsing, password prompting
// and report rendering live here, never in the core packages.
package commands

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand creates the root command with the flags shared by all
// subcommands. Flags can also be set through AESCRYPT_* environment
// variables.
func NewRootCommand(version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "aescrypt [flags] command [flags]",
		Short: "Password-based file encryption utility",
		Long: `Encrypts and decrypts files with a password-derived key. Containers are
chunked and authenticated per chunk, so corruption and wrong passwords are
detected instead of producing garbage output.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("password", "p", "", "Password; prompted for when omitted")
	root.PersistentFlags().IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers for batch runs")
	root.PersistentFlags().BoolP("quiet", "q", false, "Suppress non-error output")
	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	root.PersistentFlags().String("extension", ".aes", "Extension marking encrypted containers")
	root.PersistentFlags().Bool("backup", false, "Keep a .bak copy of each original before encrypting")
	root.PersistentFlags().Bool("verify", true, "Verify round-trip integrity after encrypting")
	root.PersistentFlags().String("max-size", "100MiB", "Maximum input size accepted for encryption")

	root.AddCommand(NewEncryptCommand(), NewDecryptCommand(), NewBatchCommand())

	return root
}

// preRun binds the command's flags into viper and configures logging.
// It runs for every subcommand.
func preRun(cmd *cobra.Command, _ []string) error {
	viper.SetEnvPrefix("AESCRYPT")
	viper.AutomaticEnv()

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	if err := viper.BindPFlags(cmd.InheritedFlags()); err != nil {
		return err
	}

	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	return nil
}
