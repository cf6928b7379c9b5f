package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"crlock/internal/container"
)

// Encrypt streams plaintext from src into a ciphertext container written to
// dst. The first 48 bytes of dst are reserved for the header and written last,
// once the authentication tag over IV and ciphertext is known. Returns the
// number of plaintext bytes processed.
//
// dst holds a well-formed container only if Encrypt returns nil; on error the
// caller is expected to discard the partial output.
func Encrypt(src io.Reader, dst io.WriteSeeker, key KeyMaterial) (int64, error) {
	var hdr container.Header

	if _, err := io.ReadFull(rand.Reader, hdr.IV[:]); err != nil {
		return 0, fmt.Errorf("generating IV: %w", err)
	}

	block, err := aes.NewCipher(key.k[:])
	if err != nil {
		return 0, fmt.Errorf("creating cipher: %w", err)
	}

	// Header placeholder, overwritten after the tag is finalized.
	if _, err := dst.Write(make([]byte, container.HeaderLen)); err != nil {
		return 0, fmt.Errorf("reserving header: %w", err)
	}

	cbc := cipher.NewCBCEncrypter(block, hdr.IV[:])

	mac := hmac.New(sha256.New, key.k[:])
	mac.Write(hdr.IV[:])

	buf, ok := bufferPool.Get().([]byte)
	if !ok {
		return 0, errors.New("invalid buffer type from pool") //nolint:err113
	}

	defer bufferPool.Put(buf) //nolint:staticcheck

	var processed int64

	for {
		n, err := io.ReadFull(src, buf[:container.ChunkLen])
		processed += int64(n)

		chunk := buf[:n]
		last := false

		switch {
		case err == nil:
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			// Final chunk: pad to a block boundary. A full padding block is
			// appended even when the plaintext ended exactly on a chunk
			// boundary, so the decoder can always strip a pad.
			chunk = container.Pad(chunk)
			last = true
		default:
			return processed, fmt.Errorf("reading plaintext: %w", err)
		}

		cbc.CryptBlocks(chunk, chunk)
		mac.Write(chunk)

		if _, err := dst.Write(chunk); err != nil {
			return processed, fmt.Errorf("writing ciphertext: %w", err)
		}

		if last {
			break
		}
	}

	copy(hdr.Tag[:], mac.Sum(nil))

	if _, err := dst.Seek(0, io.SeekStart); err != nil {
		return processed, fmt.Errorf("seeking to header: %w", err)
	}

	if _, err := dst.Write(hdr.Marshal()); err != nil {
		return processed, fmt.Errorf("writing header: %w", err)
	}

	return processed, nil
}
