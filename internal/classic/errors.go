package classic

import (
	"errors"

	"github.com/kryptkit/krypt/internal/crypto"
)

// ErrDecode is returned when XOR ciphertext is not valid Base64 or does not
// decode to valid UTF-8.
var ErrDecode = errors.New("decode error")

// Sentinels shared with the AEAD engine.
var (
	ErrInvalidKey            = crypto.ErrInvalidKey
	ErrInvalidEncoding       = crypto.ErrInvalidEncoding
	ErrPreconditionViolation = crypto.ErrPreconditionViolation
)
