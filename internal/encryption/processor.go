package encryption

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/Mykhailo-Tr/AesCrypt/internal/checksum"
	"github.com/Mykhailo-Tr/AesCrypt/internal/config"
	"github.com/Mykhailo-Tr/AesCrypt/internal/fileutil"
)

const (
	backupSuffix  = ".bak"
	scratchSuffix = ".verify"
)

// Processor drives single-file operations against a fixed configuration.
type Processor struct {
	cfg *config.Config
}

// NewProcessor creates a Processor using the given configuration.
func NewProcessor(cfg *config.Config) *Processor {
	return &Processor{cfg: cfg}
}

// Run executes one resolved operation. Failures never escape as errors:
// every branch returns an OperationResult, which is what makes batch
// isolation possible.
func (p *Processor) Run(ctx context.Context, req OperationRequest) OperationResult {
	info, err := os.Stat(req.Input)
	if err != nil {
		return failedResult(req, classifyPathError(req.Input, err))
	}

	if info.IsDir() {
		return failedResult(req, fmt.Errorf("%w: %q is a directory", ErrNotFound, req.Input))
	}

	switch req.Action {
	case ActionEncrypt:
		return p.encryptFile(ctx, req, info)
	case ActionDecrypt:
		return p.decryptFile(ctx, req, info)
	default:
		return failedResult(req, fmt.Errorf("%w: %d", ErrInvalidAction, req.Action))
	}
}

//nolint:cyclop
func (p *Processor) encryptFile(ctx context.Context, req OperationRequest, info os.FileInfo) OperationResult {
	// The size cap is enforced before any I/O touches the output path.
	if p.cfg.MaxFileSize > 0 && info.Size() > p.cfg.MaxFileSize {
		return failedResult(req, fmt.Errorf("%w: %q is %d bytes (limit %d)",
			ErrSizeLimitExceeded, req.Input, info.Size(), p.cfg.MaxFileSize))
	}

	result := OperationResult{
		Input:        req.Input,
		Output:       req.Output,
		OriginalSize: info.Size(),
	}

	if p.cfg.VerifyIntegrity {
		sum, err := checksum.File(req.Input)
		if err != nil {
			return failedResult(req, classifyPathError(req.Input, err))
		}

		result.OriginalChecksum = sum
	}

	if p.cfg.BackupOriginals {
		if err := fileutil.CopyFile(req.Input, req.Input+backupSuffix); err != nil {
			return failedResult(req, fmt.Errorf("backing up original: %w", err))
		}
	}

	if err := p.transform(ctx, req); err != nil {
		return failedResult(req, err)
	}

	outInfo, err := os.Stat(req.Output)
	if err != nil {
		return failedResult(req, fmt.Errorf("stat output: %w", err))
	}

	result.EncryptedSize = outInfo.Size()

	if p.cfg.VerifyIntegrity {
		verified := p.verifyRoundTrip(ctx, req, result.OriginalChecksum)
		result.IntegrityVerified = &verified
	}

	result.Success = true

	return result
}

func (p *Processor) decryptFile(ctx context.Context, req OperationRequest, info os.FileInfo) OperationResult {
	if err := p.transform(ctx, req); err != nil {
		return failedResult(req, err)
	}

	outInfo, err := os.Stat(req.Output)
	if err != nil {
		return failedResult(req, fmt.Errorf("stat output: %w", err))
	}

	return OperationResult{
		Success:       true,
		Input:         req.Input,
		Output:        req.Output,
		OriginalSize:  outInfo.Size(),
		EncryptedSize: info.Size(),
	}
}

// transform streams the input through the cipher engine into a temp file in
// the output directory and renames it over the output path on success, so a
// partial output never becomes visible: integrity failures and mid-stream
// I/O errors leave no trace at req.Output.
func (p *Processor) transform(ctx context.Context, req OperationRequest) error {
	write, err := fileutil.NewAtomicWrite(req.Output)
	if err != nil {
		return classifyPathError(req.Output, err)
	}

	defer write.Cleanup()

	in, err := os.Open(req.Input)
	if err != nil {
		return classifyPathError(req.Input, err)
	}

	defer in.Close()

	if req.Action == ActionDecrypt {
		if err := Decrypt(ctx, in, write.File, req.Password); err != nil {
			return err
		}
	} else {
		if _, err := Encrypt(ctx, in, write.File, req.Password); err != nil {
			return err
		}
	}

	return write.Commit()
}

// verifyRoundTrip decrypts the freshly produced container to a scratch file,
// recomputes its checksum and compares it to the original. The scratch file
// is uniquely named so concurrent batch workers never collide, and it is
// removed on every exit path. A failed audit is recorded, not fatal: the
// per-chunk tags are the primary integrity guarantee.
func (p *Processor) verifyRoundTrip(ctx context.Context, req OperationRequest, want string) bool {
	scratch := req.Output + "." + uuid.NewString() + scratchSuffix
	defer os.Remove(scratch)

	verify := OperationRequest{
		Action:   ActionDecrypt,
		Password: req.Password,
		Input:    req.Output,
		Output:   scratch,
	}

	if err := p.transform(ctx, verify); err != nil {
		return false
	}

	got, err := checksum.File(scratch)
	if err != nil {
		return false
	}

	return got == want
}

// OutputPath derives an output name when the caller did not give one:
// encrypt appends ext, decrypt strips it, falling back to a ".dec" suffix
// when the input does not carry ext (so input and output never collide).
func OutputPath(action Action, input, ext string) string {
	if action == ActionDecrypt {
		trimmed := strings.TrimSuffix(input, ext)
		if trimmed == input {
			return input + ".dec"
		}

		return trimmed
	}

	return input + ext
}

// classifyPathError maps filesystem errors onto the error taxonomy.
func classifyPathError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %q", ErrNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %q", ErrPermissionDenied, path)
	default:
		return err
	}
}
