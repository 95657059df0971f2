package encryption

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
)

const (
	masterKeySize = 32
	cipherKeySize = 32
	macKeySize    = 32
)

// deriveKeys stretches the password into independent cipher and MAC keys:
// Argon2id produces a master key, which HKDF-SHA256 expands into the two
// outputs. Deterministic for a fixed password, salt and parameter set.
func deriveKeys(password string, salt []byte, params kdfParams) (cipherKey, macKey []byte, err error) {
	master := argon2.IDKey([]byte(password), salt, params.Time, params.MemoryKiB, params.Lanes, masterKeySize)

	reader := hkdf.New(sha256.New, master, salt, []byte("aescrypt/v1/keys"))

	derived := make([]byte, cipherKeySize+macKeySize)
	if _, err := io.ReadFull(reader, derived); err != nil {
		return nil, nil, fmt.Errorf("expanding keys: %w", err)
	}

	return derived[:cipherKeySize], derived[cipherKeySize:], nil
}

// newSalt returns a fresh random salt. The salt is a public diversifier,
// stored in the clear in the container header.
func newSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}

	return salt, nil
}
