package encryption

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSalt() []byte {
	salt := make([]byte, saltSize)
	for i := range salt {
		salt[i] = byte(i)
	}

	return salt
}

func TestHeaderRoundTrip(t *testing.T) {
	header := encodeHeader(defaultKDFParams, testSalt())
	require.Len(t, header, headerSize)

	params, salt, raw, err := readHeader(bytes.NewReader(header))
	require.NoError(t, err)

	assert.Equal(t, defaultKDFParams, params)
	assert.Equal(t, testSalt(), salt)
	assert.Equal(t, header, raw)
}

func TestReadHeaderRejectsBadMagic(t *testing.T) {
	header := encodeHeader(defaultKDFParams, testSalt())
	header[0] = 'X'

	_, _, _, err := readHeader(bytes.NewReader(header))
	assert.ErrorIs(t, err, ErrInvalidContainer)
}

func TestReadHeaderRejectsUnknownVersion(t *testing.T) {
	header := encodeHeader(defaultKDFParams, testSalt())
	header[len(containerMagic)] = 99

	_, _, _, err := readHeader(bytes.NewReader(header))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestReadHeaderRejectsTruncation(t *testing.T) {
	header := encodeHeader(defaultKDFParams, testSalt())

	_, _, _, err := readHeader(bytes.NewReader(header[:headerSize-1]))
	assert.ErrorIs(t, err, ErrInvalidContainer)
}

func TestReadHeaderCapsDerivationCost(t *testing.T) {
	hostile := defaultKDFParams
	hostile.MemoryKiB = kdfMaxMemoryKiB * 2

	header := encodeHeader(hostile, testSalt())

	_, _, _, err := readHeader(bytes.NewReader(header))
	assert.ErrorIs(t, err, ErrInvalidContainer)
}

func TestKDFParamsValidate(t *testing.T) {
	assert.NoError(t, defaultKDFParams.validate())

	assert.Error(t, kdfParams{Time: 0, MemoryKiB: 64 * 1024, Lanes: 4}.validate())
	assert.Error(t, kdfParams{Time: 3, MemoryKiB: 1, Lanes: 4}.validate())
	assert.Error(t, kdfParams{Time: 3, MemoryKiB: 64 * 1024, Lanes: 0}.validate())
}
