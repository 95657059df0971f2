package checksum_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mykhailo-Tr/AesCrypt/internal/checksum"
)

func TestFileKnownDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o600))

	sum, err := checksum.File(path)
	require.NoError(t, err)

	assert.Equal(t, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", sum)
}

func TestFileIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x01, 0x02, 0xff}, 0o600))

	first, err := checksum.File(path)
	require.NoError(t, err)

	second, err := checksum.File(path)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFileDetectsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte("before"), 0o600))

	before, err := checksum.File(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("after"), 0o600))

	after, err := checksum.File(path)
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestFileMissing(t *testing.T) {
	_, err := checksum.File(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	sum, err := checksum.File(path)
	require.NoError(t, err)

	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", sum)
}
