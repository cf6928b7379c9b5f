package encryption

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// KeyMaterial wraps the 32-byte symmetric key. It is immutable once derived
// and is never persisted or logged.
type KeyMaterial struct {
	k [KeySize]byte
}

// KeyFromFile derives key material by hashing the raw contents of the key
// file with SHA-256.
func KeyFromFile(path string) (KeyMaterial, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-supplied configuration
	if err != nil {
		return KeyMaterial{}, fmt.Errorf("reading key file: %w", err)
	}

	return KeyMaterial{k: sha256.Sum256(data)}, nil
}

// KeyFromHex parses a hex-encoded 32-byte key, used as-is without hashing.
func KeyFromHex(s string) (KeyMaterial, error) {
	raw, err := hex.DecodeString(s)
	if err != nil {
		return KeyMaterial{}, fmt.Errorf("decoding key: %w", err)
	}

	if len(raw) != KeySize {
		return KeyMaterial{}, fmt.Errorf("key must be %d bytes (%d hex characters), got %d bytes", KeySize, 2*KeySize, len(raw))
	}

	var km KeyMaterial

	copy(km.k[:], raw)

	return km, nil
}

// KeyFromPrompt reads a passphrase from the terminal without echo and derives
// key material by hashing it with SHA-256, like KeyFromFile does for file
// contents.
func KeyFromPrompt() (KeyMaterial, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return KeyMaterial{}, errors.New("no key provided and stdin is not a terminal")
	}

	fmt.Fprint(os.Stderr, "Key: ")

	secret, err := term.ReadPassword(fd)

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return KeyMaterial{}, fmt.Errorf("reading key from terminal: %w", err)
	}

	if len(secret) == 0 {
		return KeyMaterial{}, errors.New("empty key")
	}

	return KeyMaterial{k: sha256.Sum256(secret)}, nil
}
