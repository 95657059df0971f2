// Package checksum computes cipher-independent file digests used for
// round-trip verification.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

const bufferSize = 64 * 1024

// File returns the hex-encoded SHA-256 digest of the file at path, streaming
// through a fixed-size buffer so memory stays bounded for large files.
func File(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %q: %w", path, err)
	}

	defer file.Close()

	hash := sha256.New()

	buf := make([]byte, bufferSize)
	if _, err := io.CopyBuffer(hash, file, buf); err != nil {
		return "", fmt.Errorf("hashing %q: %w", path, err)
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}
