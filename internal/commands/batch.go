package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Mykhailo-Tr/AesCrypt/internal/filter"
	"github.com/Mykhailo-Tr/AesCrypt/internal/logic"
)

// NewBatchCommand creates the batch subcommand, which encrypts every file
// under a directory matching a pattern.
func NewBatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "batch [flags] root",
		Short:   "Encrypt every matching file under a directory",
		Args:    cobra.ExactArgs(1),
		PreRunE: preRun,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig()
			if err != nil {
				return err
			}

			password, err := resolvePassword()
			if err != nil {
				return err
			}

			opts := logic.BatchOptions{
				Pattern:   viper.GetString("pattern"),
				Recursive: viper.GetBool("recursive"),
			}

			if path := viper.GetString("exclude-from"); path != "" {
				patterns, err := filter.LoadPatterns(path)
				if err != nil {
					return fmt.Errorf("loading exclude patterns: %w", err)
				}

				opts.Excludes = patterns
			}

			start := time.Now()

			report, err := logic.RunBatch(cmd.Context(), args[0], password, opts, cfg)
			if err != nil {
				return err
			}

			printSummary(report, time.Since(start))

			if path := viper.GetString("report"); path != "" {
				if err := writeReport(report, path); err != nil {
					return err
				}
			}

			if report.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", report.Failed, report.Total)
			}

			return nil
		},
	}

	cmd.Flags().String("pattern", "*", "Glob pattern selecting files to encrypt")
	cmd.Flags().BoolP("recursive", "r", false, "Recurse into subdirectories")
	cmd.Flags().String("exclude-from", "", "JSONC file with extra exclude patterns")
	cmd.Flags().String("report", "", "Write the batch report as JSON to this path")

	return cmd
}

func printSummary(report *logic.BatchReport, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nBatch summary\n")
	fmt.Fprintf(os.Stderr, "  Total:      %d\n", report.Total)
	fmt.Fprintf(os.Stderr, "  Successful: %d\n", report.Successful)
	fmt.Fprintf(os.Stderr, "  Failed:     %d\n", report.Failed)
	//nolint:gosec // size totals are sums of file sizes, never negative
	fmt.Fprintf(os.Stderr, "  Original:   %s\n", humanize.IBytes(uint64(max(0, report.TotalOriginalSize))))
	//nolint:gosec // see above
	fmt.Fprintf(os.Stderr, "  Encrypted:  %s\n", humanize.IBytes(uint64(max(0, report.TotalEncryptedSize))))
	fmt.Fprintf(os.Stderr, "  Duration:   %s\n", duration.Round(time.Millisecond))
}

func writeReport(report *logic.BatchReport, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	const ownerReadWrite = 0o600

	if err := os.WriteFile(path, data, ownerReadWrite); err != nil {
		return fmt.Errorf("writing report %q: %w", path, err)
	}

	return nil
}
