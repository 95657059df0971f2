package encryption

import "errors"

var (
	// ErrNotFound is returned when the input path does not reference an existing file.
	ErrNotFound = errors.New("input file not found")
	// ErrPermissionDenied is returned when the input cannot be read or the output cannot be written.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrSizeLimitExceeded is returned when an encrypt-side input exceeds the configured cap.
	ErrSizeLimitExceeded = errors.New("input exceeds configured size limit")
	// ErrWrongPasswordOrCorrupted is returned when a chunk fails authentication.
	// A wrong password and a tampered container are deliberately indistinguishable.
	ErrWrongPasswordOrCorrupted = errors.New("wrong password or corrupted container")
	// ErrUnsupportedVersion is returned when the container header declares an
	// unknown format version. No key derivation is attempted in that case.
	ErrUnsupportedVersion = errors.New("unsupported container version")
	// ErrInvalidContainer is returned when the container is structurally malformed.
	ErrInvalidContainer = errors.New("invalid container")
	// ErrInvalidAction is returned for action tokens outside encrypt/decrypt.
	ErrInvalidAction = errors.New("invalid action")
)
