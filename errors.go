package krypt

import (
	"errors"
	"fmt"

	"github.com/kryptkit/krypt/internal/classic"
	"github.com/kryptkit/krypt/internal/crypto"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrInvalidKey is returned when a key has the wrong length or encoding.
	ErrInvalidKey = crypto.ErrInvalidKey

	// ErrInvalidEncoding is returned for malformed hex or Base64 input.
	ErrInvalidEncoding = crypto.ErrInvalidEncoding

	// ErrInvalidBlob is returned when a sealed blob is undecodable or shorter
	// than Overhead bytes.
	ErrInvalidBlob = crypto.ErrInvalidBlob

	// ErrAuthenticationFailed is returned when a sealed blob fails tag
	// verification (wrong key, corruption or tampering).
	ErrAuthenticationFailed = crypto.ErrAuthenticationFailed

	// ErrDecode is returned when XOR ciphertext or Secure plaintext cannot be
	// decoded as text.
	ErrDecode = classic.ErrDecode

	// ErrPreconditionViolation marks a broken caller contract such as an
	// empty shift key.
	ErrPreconditionViolation = crypto.ErrPreconditionViolation

	// ErrEngineClosed is returned when operations are attempted on a closed engine.
	ErrEngineClosed = errors.New("engine has been closed")

	// ErrRoomClosed is returned when a closed room is asked to send or listen.
	ErrRoomClosed = errors.New("room has been closed")

	// ErrInvalidMode is returned for an unknown cipher mode.
	ErrInvalidMode = errors.New("invalid cipher mode")

	// ErrInvalidImportData is returned when imported history data is invalid.
	ErrInvalidImportData = errors.New("invalid import data")

	// ErrInvalidOutputFormat is returned for an unknown output format.
	ErrInvalidOutputFormat = errors.New("invalid output format")
)

// Error is implemented by the typed errors of this package.
type Error interface {
	error
	KryptError() // marker method
}

// CipherError reports a failed Encrypt or Decrypt call. It unwraps to one of
// the sentinel errors above.
type CipherError struct {
	Mode Mode
	Op   Action
	Err  error
}

func (e *CipherError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Mode, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *CipherError) Unwrap() error {
	return e.Err
}

// KryptError implements the Error interface.
func (e *CipherError) KryptError() {}

// StoreError reports a failed history load or save.
type StoreError struct {
	Op  string // "load" or "save"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// KryptError implements the Error interface.
func (e *StoreError) KryptError() {}

// Messages shown to users by UserMessage.
const (
	msgWrongKeyOrCorrupt = "wrong key or corrupted blob"
	msgInvalidKey        = "invalid key"
	msgDecode            = "could not decode input; check the Base64 text and key"
	msgInvalidEncoding   = "input is not valid hex or Base64"
	msgEmptyShiftKey     = "shift key must contain at least one number"
	msgInvalidMode       = "unknown mode; use secure, xor or shift"
)

// UserMessage returns a short message suitable for display. Blob and
// authentication failures share one message so that a user cannot tell a
// wrong key from a damaged blob.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidBlob), errors.Is(err, ErrAuthenticationFailed):
		return msgWrongKeyOrCorrupt
	case errors.Is(err, ErrInvalidKey):
		return msgInvalidKey
	case errors.Is(err, ErrDecode):
		return msgDecode
	case errors.Is(err, ErrInvalidEncoding):
		return msgInvalidEncoding
	case errors.Is(err, ErrPreconditionViolation):
		return msgEmptyShiftKey
	case errors.Is(err, ErrInvalidMode):
		return msgInvalidMode
	}
	return err.Error()
}
