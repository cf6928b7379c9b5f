// Package encryption implements streaming authenticated file encryption using
// AES-256-CBC with an HMAC-SHA-256 tag over IV and ciphertext. Files are
// processed in 64 KiB chunks so memory use stays constant regardless of file
// size, and decryption verifies the tag over the whole container before any
// plaintext is written.
package encryption
