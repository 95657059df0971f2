// Package fileutil provides shared file operation helpers.
package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// AtomicWrite stages output in a temp file in the target directory so the
// destination only ever appears fully written.
type AtomicWrite struct {
	// File is the temp file the caller writes to.
	File *os.File

	name      string
	dest      string
	committed bool
}

// NewAtomicWrite creates a hidden temp file alongside dest.
// Caller must defer Cleanup.
func NewAtomicWrite(dest string) (*AtomicWrite, error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &AtomicWrite{File: tmp, name: tmp.Name(), dest: dest}, nil
}

// Commit closes the temp file and renames it over the destination.
func (aw *AtomicWrite) Commit() error {
	if err := aw.File.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}

	const ownerReadWrite = 0o600

	if err := os.Chmod(aw.name, ownerReadWrite); err != nil {
		return fmt.Errorf("setting file permissions: %w", err)
	}

	if err := os.Rename(aw.name, aw.dest); err != nil {
		return fmt.Errorf("renaming output file: %w", err)
	}

	aw.committed = true

	return nil
}

// Cleanup closes and removes the temp file if Commit never ran.
func (aw *AtomicWrite) Cleanup() {
	if aw.committed {
		return
	}

	aw.File.Close()    //nolint:gosec // best-effort cleanup
	os.Remove(aw.name) //nolint:gosec // best-effort cleanup
}

// CopyFile copies src to dst, preserving the source's permission bits.
// A partially written dst is removed on failure.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %q: %w", src, err)
	}

	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %q: %w", src, err)
	}

	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating %q: %w", dst, err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)

		return fmt.Errorf("copying to %q: %w", dst, err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("closing %q: %w", dst, err)
	}

	return nil
}
