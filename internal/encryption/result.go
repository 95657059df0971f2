package encryption

// OperationRequest is a fully resolved request for a single file operation,
// as produced by the CLI or another caller: the core never collects input
// itself.
type OperationRequest struct {
	Action   Action
	Password string
	Input    string
	Output   string
}

// OperationResult records the outcome of a single file operation. It is
// immutable once returned; failures never leave the processor any other way.
type OperationResult struct {
	Success bool   `json:"success"`
	Input   string `json:"input_file"`
	Output  string `json:"output_file,omitempty"`

	// OriginalSize and EncryptedSize are the plaintext and container sizes
	// in bytes, regardless of operation direction. Zero is a legitimate
	// size, so both serialize unconditionally.
	OriginalSize  int64 `json:"original_size"`
	EncryptedSize int64 `json:"encrypted_size"`

	// OriginalChecksum is the hex SHA-256 of the plaintext, set only when
	// integrity verification is enabled.
	OriginalChecksum string `json:"original_checksum,omitempty"`

	// IntegrityVerified reports the round-trip audit outcome; nil when the
	// audit did not run.
	IntegrityVerified *bool `json:"integrity_verified,omitempty"`

	// Err carries the typed failure; ErrorMessage mirrors it for reports.
	Err          error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// failedResult builds the result for any failing branch.
func failedResult(req OperationRequest, err error) OperationResult {
	return OperationResult{
		Input:        req.Input,
		Output:       req.Output,
		Err:          err,
		ErrorMessage: err.Error(),
	}
}
