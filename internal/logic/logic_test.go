package logic_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mykhailo-Tr/AesCrypt/internal/config"
	"github.com/Mykhailo-Tr/AesCrypt/internal/encryption"
	"github.com/Mykhailo-Tr/AesCrypt/internal/logic"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.VerifyIntegrity = false
	cfg.Quiet = true

	return &cfg
}

func writeFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, content, 0o600))

	return path
}

func batchOptions(pattern string) logic.BatchOptions {
	return logic.BatchOptions{Pattern: pattern}
}

func TestRunBatchExcludesEncryptedOutputs(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "a.txt", []byte("content a"))
	writeFile(t, dir, "b.txt", []byte("content b"))
	writeFile(t, dir, "a.txt.aes", []byte("pre-existing container"))

	report, err := logic.RunBatch(context.Background(), dir, "p@ss", batchOptions("*.txt"), testConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, 0, report.Failed)

	assert.FileExists(t, filepath.Join(dir, "b.txt.aes"))

	// The pre-existing container was not re-encrypted.
	assert.NoFileExists(t, filepath.Join(dir, "a.txt.aes.aes"))
}

func TestRunBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()

	cfg := testConfig()
	cfg.MaxFileSize = 1024

	writeFile(t, dir, "a.txt", []byte("small"))
	oversized := writeFile(t, dir, "b.txt", bytes.Repeat([]byte{'x'}, 2048))
	writeFile(t, dir, "c.txt", []byte("also small"))

	report, err := logic.RunBatch(context.Background(), dir, "p@ss", batchOptions("*.txt"), cfg)
	require.NoError(t, err, "one bad file must not abort the batch")

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, 1, report.Failed)

	var failed []encryption.OperationResult

	for _, op := range report.Operations {
		if !op.Success {
			failed = append(failed, op)
		}
	}

	require.Len(t, failed, 1)
	assert.Equal(t, oversized, failed[0].Input)
	assert.ErrorIs(t, failed[0].Err, encryption.ErrSizeLimitExceeded)

	// Failed entries contribute zero to the size totals.
	assert.Equal(t, int64(len("small")+len("also small")), report.TotalOriginalSize)
	assert.Positive(t, report.TotalEncryptedSize)
}

func TestRunBatchIsolatesUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions are not enforced for root")
	}

	dir := t.TempDir()

	writeFile(t, dir, "a.txt", []byte("readable a"))
	locked := writeFile(t, dir, "b.txt", []byte("locked"))
	writeFile(t, dir, "c.txt", []byte("readable c"))

	require.NoError(t, os.Chmod(locked, 0o000))

	report, err := logic.RunBatch(context.Background(), dir, "p@ss", batchOptions("*.txt"), testConfig())
	require.NoError(t, err, "an unreadable file must not abort the batch")

	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Successful)
	assert.Equal(t, 1, report.Failed)

	for _, op := range report.Operations {
		if op.Success {
			continue
		}

		assert.Equal(t, locked, op.Input)
		assert.ErrorIs(t, op.Err, encryption.ErrPermissionDenied)
	}
}

func TestRunBatchMissingRoot(t *testing.T) {
	_, err := logic.RunBatch(context.Background(),
		filepath.Join(t.TempDir(), "absent"), "p@ss", batchOptions("*"), testConfig())

	assert.ErrorIs(t, err, encryption.ErrNotFound)
}

func TestRunBatchDeterministicOrder(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"c.txt", "a.txt", "b.txt"} {
		writeFile(t, dir, name, []byte(name))
	}

	cfg := testConfig()
	cfg.Parallel = 4

	report, err := logic.RunBatch(context.Background(), dir, "p@ss", batchOptions("*.txt"), cfg)
	require.NoError(t, err)

	require.Len(t, report.Operations, 3)

	// Report order follows the sorted file list, not completion order.
	assert.Equal(t, filepath.Join(dir, "a.txt"), report.Operations[0].Input)
	assert.Equal(t, filepath.Join(dir, "b.txt"), report.Operations[1].Input)
	assert.Equal(t, filepath.Join(dir, "c.txt"), report.Operations[2].Input)
}

func TestRunBatchRecursive(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "top.txt", []byte("top"))
	writeFile(t, dir, filepath.Join("nested", "deep.txt"), []byte("deep"))

	flat, err := logic.RunBatch(context.Background(), dir, "p@ss", batchOptions("*.txt"), testConfig())
	require.NoError(t, err)
	assert.Equal(t, 1, flat.Total)

	opts := batchOptions("*.txt")
	opts.Recursive = true

	deep, err := logic.RunBatch(context.Background(), dir, "p@ss", opts, testConfig())
	require.NoError(t, err)

	// top.txt.aes from the first run is skipped, so only the two plaintexts count.
	assert.Equal(t, 2, deep.Total)
	assert.FileExists(t, filepath.Join(dir, "nested", "deep.txt.aes"))
}

func TestRunBatchExtraExcludes(t *testing.T) {
	dir := t.TempDir()

	writeFile(t, dir, "a.txt", []byte("a"))
	writeFile(t, dir, "skip-me.txt", []byte("b"))

	opts := batchOptions("*.txt")
	opts.Excludes = []string{"skip-*"}

	report, err := logic.RunBatch(context.Background(), dir, "p@ss", opts, testConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, filepath.Join(dir, "a.txt"), report.Operations[0].Input)
}

func TestRunBatchRoundTrip(t *testing.T) {
	dir := t.TempDir()
	content := []byte("batch round trip content")

	writeFile(t, dir, "data.txt", content)

	report, err := logic.RunBatch(context.Background(), dir, "p@ss", batchOptions("*.txt"), testConfig())
	require.NoError(t, err)
	require.Equal(t, 1, report.Successful)

	cfg := testConfig()
	restored := filepath.Join(dir, "restored.txt")

	err = logic.RunFile(context.Background(), encryption.OperationRequest{
		Action:   encryption.ActionDecrypt,
		Password: "p@ss",
		Input:    filepath.Join(dir, "data.txt.aes"),
		Output:   restored,
	}, cfg)
	require.NoError(t, err)

	recovered, readErr := os.ReadFile(restored)
	require.NoError(t, readErr)
	assert.Equal(t, content, recovered)
}

func TestRunFileReportsFailure(t *testing.T) {
	err := logic.RunFile(context.Background(), encryption.OperationRequest{
		Action:   encryption.ActionEncrypt,
		Password: "p@ss",
		Input:    filepath.Join(t.TempDir(), "absent.txt"),
		Output:   filepath.Join(t.TempDir(), "absent.txt.aes"),
	}, testConfig())

	assert.ErrorIs(t, err, encryption.ErrNotFound)
}
