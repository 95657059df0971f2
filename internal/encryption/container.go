package encryption

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	containerMagic   = "AESC"
	containerVersion = byte(1)

	saltSize = 16

	// magic + version + time + memory + lanes + salt
	headerSize = len(containerMagic) + 1 + 4 + 4 + 1 + saltSize
)

// kdfParams are the Argon2id cost parameters recorded in the container
// header so decryption can re-derive the same keys.
type kdfParams struct {
	Time      uint32
	MemoryKiB uint32
	Lanes     uint8
}

// defaultKDFParams are used for every new container.
var defaultKDFParams = kdfParams{Time: 3, MemoryKiB: 64 * 1024, Lanes: 4}

// Bounds accepted when reading parameters back from a container. A hostile
// header must not be able to force an arbitrarily expensive derivation.
const (
	kdfMinTime      = 1
	kdfMaxTime      = 16
	kdfMinMemoryKiB = 8 * 1024
	kdfMaxMemoryKiB = 1024 * 1024
	kdfMinLanes     = 1
	kdfMaxLanes     = 16
)

func (p kdfParams) validate() error {
	if p.Time < kdfMinTime || p.Time > kdfMaxTime {
		return fmt.Errorf("%w: derivation time cost %d out of range", ErrInvalidContainer, p.Time)
	}

	if p.MemoryKiB < kdfMinMemoryKiB || p.MemoryKiB > kdfMaxMemoryKiB {
		return fmt.Errorf("%w: derivation memory cost %d KiB out of range", ErrInvalidContainer, p.MemoryKiB)
	}

	if p.Lanes < kdfMinLanes || p.Lanes > kdfMaxLanes {
		return fmt.Errorf("%w: derivation lane count %d out of range", ErrInvalidContainer, p.Lanes)
	}

	return nil
}

// encodeHeader serializes the container header. The exact bytes also serve
// as associated data for every chunk tag, binding chunks to their header.
func encodeHeader(params kdfParams, salt []byte) []byte {
	buf := make([]byte, 0, headerSize)
	buf = append(buf, containerMagic...)
	buf = append(buf, containerVersion)
	buf = binary.BigEndian.AppendUint32(buf, params.Time)
	buf = binary.BigEndian.AppendUint32(buf, params.MemoryKiB)
	buf = append(buf, params.Lanes)
	buf = append(buf, salt...)

	return buf
}

// readHeader reads and validates a container header, returning the KDF
// parameters, the salt, and the raw header bytes for use as associated data.
// The version gate runs before any parameter is interpreted, so unknown
// formats are rejected outright and no key derivation is attempted for them.
func readHeader(reader io.Reader) (kdfParams, []byte, []byte, error) {
	raw := make([]byte, headerSize)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return kdfParams{}, nil, nil, fmt.Errorf("%w: reading header: %v", ErrInvalidContainer, err)
	}

	if !bytes.Equal(raw[:len(containerMagic)], []byte(containerMagic)) {
		return kdfParams{}, nil, nil, fmt.Errorf("%w: bad magic", ErrInvalidContainer)
	}

	if version := raw[len(containerMagic)]; version != containerVersion {
		return kdfParams{}, nil, nil, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, version)
	}

	offset := len(containerMagic) + 1
	params := kdfParams{
		Time:      binary.BigEndian.Uint32(raw[offset:]),
		MemoryKiB: binary.BigEndian.Uint32(raw[offset+4:]),
		Lanes:     raw[offset+8],
	}

	if err := params.validate(); err != nil {
		return kdfParams{}, nil, nil, err
	}

	salt := raw[offset+9:]

	return params, salt, raw, nil
}
