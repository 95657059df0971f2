// Package config holds the runtime configuration for file operations.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config controls how file operations behave. It is immutable for the
// duration of an operation; construct a new one to change settings.
type Config struct {
	// DefaultExtension is appended to derive an output name when none is
	// given, and marks containers the batch walker must skip.
	DefaultExtension string `mapstructure:"extension" validate:"required,startswith=."`

	// BackupOriginals keeps a .bak copy of the plaintext next to it before
	// encrypting.
	BackupOriginals bool `mapstructure:"backup"`

	// VerifyIntegrity enables the checksum round-trip audit after encryption.
	VerifyIntegrity bool `mapstructure:"verify"`

	// MaxFileSize caps encrypt-side input size in bytes. Zero disables the cap.
	MaxFileSize int64 `mapstructure:"max-file-size" validate:"min=0"`

	// Parallel bounds the batch worker pool.
	Parallel int `mapstructure:"parallel" validate:"min=1"`

	// Quiet suppresses per-file progress output.
	Quiet bool `mapstructure:"quiet"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		DefaultExtension: ".aes",
		VerifyIntegrity:  true,
		MaxFileSize:      100 * 1024 * 1024,
		Parallel:         1,
	}
}

// Validate checks the configuration against its struct tags.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	return nil
}
