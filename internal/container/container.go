// Package container defines the on-disk layout of encrypted files.
//
// A container is a fixed 48-byte header (16-byte IV followed by a 32-byte
// HMAC-SHA-256 tag) and a ciphertext body of AES-256-CBC blocks. The body is
// produced from 64 KiB plaintext chunks; the final chunk is padded to a block
// boundary with bytes whose value equals the pad length.
package container

import (
	"errors"
	"fmt"
	"io"
)

const (
	// IVLen is the length of the initialization vector.
	IVLen = 16
	// TagLen is the length of the HMAC-SHA-256 authentication tag.
	TagLen = 32
	// HeaderLen is the total header size: IV followed by tag.
	HeaderLen = IVLen + TagLen
	// ChunkLen is the plaintext chunk size used by the streaming pipeline.
	ChunkLen = 64 * 1024
	// BlockLen is the AES block size the body is aligned to.
	BlockLen = 16
)

var (
	// ErrHeader is returned when a container header is truncated or malformed.
	ErrHeader = errors.New("invalid container header")
	// ErrPadding is returned when the trailing padding of the final block is malformed.
	ErrPadding = errors.New("invalid padding")
)

// Header is the fixed-size container header.
type Header struct {
	IV  [IVLen]byte
	Tag [TagLen]byte
}

// Marshal serializes the header as iv followed by tag.
func (h Header) Marshal() []byte {
	buf := make([]byte, HeaderLen)
	copy(buf, h.IV[:])
	copy(buf[IVLen:], h.Tag[:])

	return buf
}

// ReadHeader reads and parses a header from the start of r.
func ReadHeader(r io.Reader) (Header, error) {
	buf := make([]byte, HeaderLen)
	if _, err := io.ReadFull(r, buf); err != nil {
		return Header{}, fmt.Errorf("%w: %w", ErrHeader, err)
	}

	var h Header

	copy(h.IV[:], buf[:IVLen])
	copy(h.Tag[:], buf[IVLen:])

	return h, nil
}

// Pad appends padding to the final plaintext chunk so its length is a multiple
// of BlockLen. A full padding block is appended even when the chunk is already
// aligned, so the decoder can always strip a pad.
func Pad(chunk []byte) []byte {
	pad := BlockLen - len(chunk)%BlockLen
	if pad == 0 {
		pad = BlockLen
	}

	for i := 0; i < pad; i++ {
		chunk = append(chunk, byte(pad))
	}

	return chunk
}

// Unpad validates and strips the padding from the final decrypted chunk.
// The pad length is read from the last byte and must be in [1, BlockLen];
// every pad byte must carry that value.
func Unpad(chunk []byte) ([]byte, error) {
	if len(chunk) == 0 || len(chunk)%BlockLen != 0 {
		return nil, fmt.Errorf("%w: final chunk length %d not block aligned", ErrPadding, len(chunk))
	}

	pad := int(chunk[len(chunk)-1])
	if pad < 1 || pad > BlockLen {
		return nil, fmt.Errorf("%w: pad length %d out of range", ErrPadding, pad)
	}

	for i := len(chunk) - pad; i < len(chunk); i++ {
		if chunk[i] != byte(pad) {
			return nil, fmt.Errorf("%w: inconsistent pad bytes", ErrPadding)
		}
	}

	return chunk[:len(chunk)-pad], nil
}
