package crypto

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"
)

// ToBase64 encodes bytes to standard base64 with padding.
func ToBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// FromBase64 decodes standard base64 (with padding) to bytes.
func FromBase64(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// NormalizeBase64 prepares user-supplied base64 for strict decoding.
// It removes all whitespace (including embedded newlines), maps the URL-safe
// alphabet ("-", "_") to the standard one ("+", "/") and pads with "=" to a
// multiple of four. It never fails; malformed input still fails to decode.
func NormalizeBase64(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 3)
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			continue
		case r == '-':
			b.WriteByte('+')
		case r == '_':
			b.WriteByte('/')
		default:
			b.WriteRune(r)
		}
	}
	if rem := b.Len() % 4; rem != 0 {
		b.WriteString(strings.Repeat("=", 4-rem))
	}
	return b.String()
}

// DecodeBase64 normalizes s and decodes it as standard base64.
// This version is lenient about whitespace, alphabet and padding.
func DecodeBase64(s string) ([]byte, error) {
	data, err := FromBase64(NormalizeBase64(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return data, nil
}
