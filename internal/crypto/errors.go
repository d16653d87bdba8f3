package crypto

import "errors"

var (
	// ErrInvalidKey is returned when a key is not valid Base64 or does not
	// decode to exactly KeySize bytes.
	ErrInvalidKey = errors.New("invalid key")

	// ErrInvalidEncoding is returned for malformed hex or Base64 input.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrInvalidBlob is returned when a sealed blob cannot be decoded or is
	// shorter than Overhead bytes.
	ErrInvalidBlob = errors.New("invalid blob")

	// ErrAuthenticationFailed is returned when the authentication tag does not
	// verify. A wrong key and a corrupted blob are indistinguishable.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrPreconditionViolation marks a broken caller contract or an
	// unavailable secure random source. It is not recoverable by retrying.
	ErrPreconditionViolation = errors.New("precondition violation")
)
