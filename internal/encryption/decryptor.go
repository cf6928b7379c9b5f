package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"crlock/internal/container"
)

// Decrypt verifies and decrypts a container read from src, writing the
// recovered plaintext to dst. Returns the number of plaintext bytes written.
//
// Verification happens first, over the entire container: the stored tag is
// recomputed from IV and ciphertext and compared in constant time. Not a
// single byte reaches dst unless the tag matches; on ErrIntegrity dst is
// untouched. Only then is src rewound and stream-decrypted.
func Decrypt(src io.ReadSeeker, dst io.Writer, key KeyMaterial) (int64, error) {
	hdr, err := container.ReadHeader(src)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	buf, ok := bufferPool.Get().([]byte)
	if !ok {
		return 0, errors.New("invalid buffer type from pool") //nolint:err113
	}

	defer bufferPool.Put(buf) //nolint:staticcheck

	bodyLen, err := verify(src, hdr, key, buf)
	if err != nil {
		return 0, err
	}

	if _, err := src.Seek(container.HeaderLen, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seeking to ciphertext: %w", err)
	}

	return decryptBody(src, dst, hdr, key, buf, bodyLen)
}

// verify recomputes the HMAC over IV and ciphertext and compares it against
// the stored tag. Returns the ciphertext body length.
func verify(src io.Reader, hdr container.Header, key KeyMaterial, buf []byte) (int64, error) {
	mac := hmac.New(sha256.New, key.k[:])
	mac.Write(hdr.IV[:])

	var bodyLen int64

	for {
		n, err := src.Read(buf[:container.ChunkLen])
		if n > 0 {
			mac.Write(buf[:n])

			bodyLen += int64(n)
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return 0, fmt.Errorf("reading ciphertext: %w", err)
		}
	}

	if !hmac.Equal(mac.Sum(nil), hdr.Tag[:]) {
		return 0, ErrIntegrity
	}

	if bodyLen == 0 || bodyLen%container.BlockLen != 0 {
		return 0, fmt.Errorf("%w: ciphertext length %d not block aligned", ErrFormat, bodyLen)
	}

	return bodyLen, nil
}

// decryptBody stream-decrypts the verified ciphertext with a one-chunk
// lookahead: each decrypted chunk is held back until the next read proves it
// is not the last one. Padding is only ever stripped from the true final
// chunk, never from an interior chunk that happens to end a read boundary.
func decryptBody(src io.Reader, dst io.Writer, hdr container.Header, key KeyMaterial, buf []byte, bodyLen int64) (int64, error) {
	block, err := aes.NewCipher(key.k[:])
	if err != nil {
		return 0, fmt.Errorf("creating cipher: %w", err)
	}

	cbc := cipher.NewCBCDecrypter(block, hdr.IV[:])

	held := make([]byte, 0, container.ChunkLen)

	var (
		written   int64
		remaining = bodyLen
	)

	for remaining > 0 {
		n := container.ChunkLen
		if remaining < int64(n) {
			n = int(remaining)
		}

		if _, err := io.ReadFull(src, buf[:n]); err != nil {
			return written, fmt.Errorf("reading ciphertext: %w", err)
		}

		remaining -= int64(n)

		if len(held) > 0 {
			if _, err := dst.Write(held); err != nil {
				return written, fmt.Errorf("writing plaintext: %w", err)
			}

			written += int64(len(held))
		}

		chunk := buf[:n]
		cbc.CryptBlocks(chunk, chunk)
		held = append(held[:0], chunk...)
	}

	final, err := container.Unpad(held)
	if err != nil {
		return written, err
	}

	if _, err := dst.Write(final); err != nil {
		return written, fmt.Errorf("writing plaintext: %w", err)
	}

	written += int64(len(final))

	return written, nil
}
