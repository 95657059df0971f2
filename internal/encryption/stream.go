package encryption

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ChunkSize is the fixed plaintext block size. Memory usage of both
// directions is bounded by it regardless of total file size.
const ChunkSize = 64 * 1024

const (
	chunkLenSize   = 4
	chunkIndexSize = 8
	tagSize        = sha256.Size
)

// Encrypt writes a fresh authenticated container for everything read from
// reader: header first, then length-prefixed ciphertext chunks, each carrying
// an HMAC-SHA256 tag over (header, chunk index, ciphertext). The container
// always ends with a zero-length authenticated chunk acting as an
// end-of-stream marker, so removing whole trailing chunk records is detected
// and even an empty input carries at least one tag pinning the password.
// Returns the number of chunks written, terminator included.
func Encrypt(ctx context.Context, reader io.Reader, writer io.Writer, password string) (uint64, error) {
	salt, err := newSalt()
	if err != nil {
		return 0, err
	}

	params := defaultKDFParams

	cipherKey, macKey, err := deriveKeys(password, salt, params)
	if err != nil {
		return 0, err
	}

	header := encodeHeader(params, salt)
	if _, err := writer.Write(header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	return encryptStream(ctx, reader, writer, cipherKey, macKey, header)
}

// Decrypt reads a container from reader and writes the recovered plaintext
// to writer. The header version is checked before any key derivation; a
// failing chunk tag aborts immediately with ErrWrongPasswordOrCorrupted.
func Decrypt(ctx context.Context, reader io.Reader, writer io.Writer, password string) error {
	params, salt, header, err := readHeader(reader)
	if err != nil {
		return err
	}

	cipherKey, macKey, err := deriveKeys(password, salt, params)
	if err != nil {
		return err
	}

	return decryptStream(ctx, reader, writer, cipherKey, macKey, header)
}

func encryptStream(ctx context.Context, reader io.Reader, writer io.Writer, cipherKey, macKey, header []byte) (uint64, error) {
	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		return 0, fmt.Errorf("creating cipher: %w", err)
	}

	plainBuf := getChunkBuffer()
	defer putChunkBuffer(plainBuf)

	cipherBuf := getChunkBuffer()
	defer putChunkBuffer(cipherBuf)

	plain := *plainBuf
	encrypted := *cipherBuf

	var index uint64

	for {
		// Cancellation checkpoint once per chunk.
		if err := ctx.Err(); err != nil {
			return index, err
		}

		n, readErr := io.ReadFull(reader, plain)
		if readErr != nil && !errors.Is(readErr, io.EOF) && !errors.Is(readErr, io.ErrUnexpectedEOF) {
			return index, fmt.Errorf("reading plaintext: %w", readErr)
		}

		if n > 0 {
			if err := writeChunk(writer, block, macKey, header, plain[:n], encrypted[:n], index); err != nil {
				return index, err
			}

			index++
		}

		// A short read means the input is exhausted; the final data chunk
		// may be shorter than ChunkSize.
		if readErr != nil {
			break
		}
	}

	// Terminator: a zero-length authenticated chunk marks the end of the
	// stream. Without it, cutting the container at a chunk-record boundary
	// would look like a clean EOF and decrypt to truncated plaintext.
	if err := writeChunk(writer, block, macKey, header, nil, nil, index); err != nil {
		return index, err
	}

	return index + 1, nil
}

//nolint:cyclop
func decryptStream(ctx context.Context, reader io.Reader, writer io.Writer, cipherKey, macKey, header []byte) error {
	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		return fmt.Errorf("creating cipher: %w", err)
	}

	cipherBuf := getChunkBuffer()
	defer putChunkBuffer(cipherBuf)

	plainBuf := getChunkBuffer()
	defer putChunkBuffer(plainBuf)

	var (
		index  uint64
		lenBuf [chunkLenSize]byte
		tag    [tagSize]byte
	)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if _, err := io.ReadFull(reader, lenBuf[:]); err != nil {
			if errors.Is(err, io.EOF) {
				if index == 0 {
					return fmt.Errorf("%w: container has no chunks", ErrInvalidContainer)
				}

				// EOF is only legitimate after the zero-length terminator
				// chunk; reaching it here means trailing chunk records
				// were cut off.
				return fmt.Errorf("%w: container is not terminated", ErrWrongPasswordOrCorrupted)
			}

			return fmt.Errorf("%w: truncated chunk length", ErrWrongPasswordOrCorrupted)
		}

		length := binary.BigEndian.Uint32(lenBuf[:])
		if length > ChunkSize {
			return fmt.Errorf("%w: chunk length %d exceeds maximum", ErrInvalidContainer, length)
		}

		encrypted := (*cipherBuf)[:length]
		if _, err := io.ReadFull(reader, encrypted); err != nil {
			return fmt.Errorf("%w: truncated chunk", ErrWrongPasswordOrCorrupted)
		}

		if _, err := io.ReadFull(reader, tag[:]); err != nil {
			return fmt.Errorf("%w: truncated authentication tag", ErrWrongPasswordOrCorrupted)
		}

		if !hmac.Equal(chunkTag(macKey, header, encrypted, index), tag[:]) {
			return fmt.Errorf("%w: chunk %d failed authentication", ErrWrongPasswordOrCorrupted, index)
		}

		// An authenticated zero-length chunk is the end-of-stream marker;
		// its index pins how many data chunks must have preceded it.
		if length == 0 {
			var trailing [1]byte
			if _, err := io.ReadFull(reader, trailing[:]); !errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: data after terminator chunk", ErrInvalidContainer)
			}

			return nil
		}

		plain := (*plainBuf)[:length]
		chunkStream(block, index).XORKeyStream(plain, encrypted)

		if _, err := writer.Write(plain); err != nil {
			return fmt.Errorf("writing plaintext: %w", err)
		}

		index++
	}
}

func writeChunk(writer io.Writer, block cipher.Block, macKey, header, plain, encrypted []byte, index uint64) error {
	chunkStream(block, index).XORKeyStream(encrypted, plain)

	var lenBuf [chunkLenSize]byte

	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(encrypted))) //nolint:gosec // bounded by ChunkSize

	if _, err := writer.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("writing chunk length: %w", err)
	}

	if _, err := writer.Write(encrypted); err != nil {
		return fmt.Errorf("writing ciphertext: %w", err)
	}

	if _, err := writer.Write(chunkTag(macKey, header, encrypted, index)); err != nil {
		return fmt.Errorf("writing authentication tag: %w", err)
	}

	return nil
}

// chunkStream builds the CTR stream for a chunk. The chunk index occupies
// the high half of the counter block, so the low half is free for CTR's own
// counting and nonces never overlap between chunks.
func chunkStream(block cipher.Block, index uint64) cipher.Stream {
	iv := make([]byte, aes.BlockSize)
	binary.BigEndian.PutUint64(iv, index)

	return cipher.NewCTR(block, iv)
}

// chunkTag authenticates a single chunk: the tag covers the header, the
// chunk index and the ciphertext, so chunks cannot be reordered, dropped or
// moved between containers.
func chunkTag(macKey, header, encrypted []byte, index uint64) []byte {
	mac := hmac.New(sha256.New, macKey)
	mac.Write(header)

	var indexBuf [chunkIndexSize]byte

	binary.BigEndian.PutUint64(indexBuf[:], index)
	mac.Write(indexBuf[:])
	mac.Write(encrypted)

	return mac.Sum(nil)
}
