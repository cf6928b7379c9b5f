package encryption

import "errors"

var (
	// ErrIntegrity is returned when the authentication tag does not match the
	// container contents. No plaintext is produced in that case.
	ErrIntegrity = errors.New("integrity check failed")
	// ErrFormat is returned when the container body is truncated or not aligned
	// to the cipher block size.
	ErrFormat = errors.New("malformed container")
)
