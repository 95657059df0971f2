// Package logic implements batch orchestration on top of the single-file
// processor.
package logic

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/Mykhailo-Tr/AesCrypt/internal/config"
	"github.com/Mykhailo-Tr/AesCrypt/internal/encryption"
	"github.com/Mykhailo-Tr/AesCrypt/internal/filter"
)

// BatchOptions selects the files a batch run encrypts.
type BatchOptions struct {
	// Pattern is a glob matched against root-relative paths.
	Pattern string

	// Recursive walks subdirectories; otherwise only root's direct entries
	// are considered.
	Recursive bool

	// Excludes are extra glob patterns; matching paths are skipped.
	Excludes []string
}

// RunFile executes a single resolved operation and reports it to the user.
// The returned error is the operation's typed failure, suitable for an exit
// message.
func RunFile(ctx context.Context, req encryption.OperationRequest, cfg *config.Config) error {
	result := encryption.NewProcessor(cfg).Run(ctx, req)
	if !result.Success {
		return fmt.Errorf("processing %q: %w", req.Input, result.Err)
	}

	if !cfg.Quiet {
		fmt.Printf("Processed %q -> %q\n", result.Input, result.Output) //nolint:forbidigo

		if result.IntegrityVerified != nil {
			fmt.Printf("Integrity verified: %t\n", *result.IntegrityVerified) //nolint:forbidigo
		}
	}

	return nil
}

// RunBatch encrypts every file under root that matches the options. One
// file's failure is recorded in the report and never stops the rest; only a
// failure to enumerate root itself aborts the batch. The report is ordered
// by input path regardless of worker completion order.
func RunBatch(ctx context.Context, root, password string, opts BatchOptions, cfg *config.Config) (*BatchReport, error) {
	candidates, err := enumerate(root, opts.Recursive)
	if err != nil {
		return nil, err
	}

	flt, err := filter.New(opts.Pattern, opts.Excludes, cfg.DefaultExtension)
	if err != nil {
		return nil, fmt.Errorf("compiling filter: %w", err)
	}

	files := flt.Select(candidates)
	sort.Strings(files)

	slog.Debug("batch scan complete",
		"root", root,
		"candidates", len(candidates),
		"selected", len(files))

	proc := encryption.NewProcessor(cfg)

	// Indexed writes keep the report tied to the sorted file list; the
	// results channel only feeds the progress printer.
	results := make([]encryption.OperationResult, len(files))
	progress := make(chan encryption.OperationResult, len(files))

	printed := make(chan struct{})

	go func() {
		defer close(printed)

		for result := range progress {
			if result.Err != nil {
				fmt.Fprintf(os.Stderr, "Error processing %q: %v\n", result.Input, result.Err)
			} else if !cfg.Quiet {
				fmt.Printf("Processed %q -> %q\n", result.Input, result.Output) //nolint:forbidigo
			}
		}
	}()

	group := errgroup.Group{}
	group.SetLimit(max(1, cfg.Parallel))

	for i, file := range files {
		i := i
		input := filepath.Join(root, filepath.FromSlash(file))

		group.Go(func() error {
			req := encryption.OperationRequest{
				Action:   encryption.ActionEncrypt,
				Password: password,
				Input:    input,
				Output:   encryption.OutputPath(encryption.ActionEncrypt, input, cfg.DefaultExtension),
			}

			results[i] = proc.Run(ctx, req)
			progress <- results[i]

			// Isolation: a failed file is a report entry, never a group error.
			return nil
		})
	}

	group.Wait() //nolint:errcheck // workers always return nil

	close(progress)

	<-printed

	return fold(results), nil
}

// enumerate lists candidate files under root as root-relative slash paths.
// A missing root is a structural failure that aborts the batch; per-file
// problems are left to the processor.
func enumerate(root string, recursive bool) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: batch root %q", encryption.ErrNotFound, root)
		}

		return nil, fmt.Errorf("stat %q: %w", root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("batch root %q is not a directory", root)
	}

	if !recursive {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", root, err)
		}

		var paths []string

		for _, entry := range entries {
			if entry.Type().IsRegular() {
				paths = append(paths, entry.Name())
			}
		}

		return paths, nil
	}

	var paths []string

	err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		paths = append(paths, filepath.ToSlash(rel))

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %q: %w", root, err)
	}

	return paths, nil
}
