// Package classic implements the two unauthenticated educational ciphers:
// a digit-keyed XOR over ASCII text and a numeric Vigenère letter shift.
//
// Neither cipher is a security boundary. They exist for compatibility with
// text produced by earlier releases.
package classic

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kryptkit/krypt/internal/crypto"
)

// KeyDigits returns the decimal digits of key in order. The sign is ignored,
// so -305 and 305 both yield [3 0 5]. The result is never empty.
func KeyDigits(key int64) []int {
	s := strconv.FormatInt(key, 10)
	digits := make([]int, 0, len(s))
	for _, c := range s {
		if c >= '0' && c <= '9' {
			digits = append(digits, int(c-'0'))
		}
	}
	return digits
}

// xorStream XORs every ASCII rune of s with the cycling key digit for its
// rune position. Non-ASCII runes still consume a position but are unchanged.
func xorStream(s string, digits []int) string {
	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for _, r := range s {
		if r < utf8.RuneSelf {
			r ^= rune(digits[i%len(digits)])
		}
		b.WriteRune(r)
		i++
	}
	return b.String()
}

// XOREncrypt applies the digit XOR stream to message and returns the Base64
// encoding of the resulting UTF-8 bytes. It never fails.
func XOREncrypt(message string, key int64) string {
	return crypto.ToBase64([]byte(xorStream(message, KeyDigits(key))))
}

// XORDecrypt reverses XOREncrypt. The input is normalized before decoding,
// so URL-safe, unpadded and line-wrapped Base64 is accepted.
func XORDecrypt(cipher string, key int64) (string, error) {
	data, err := crypto.DecodeBase64(cipher)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: ciphertext is not valid UTF-8", ErrDecode)
	}
	return xorStream(string(data), KeyDigits(key)), nil
}

// ParseXORKey parses a decimal integer key, allowing surrounding whitespace
// and a leading sign.
func ParseXORKey(s string) (int64, error) {
	key, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: xor key must be a decimal integer", ErrInvalidKey)
	}
	return key, nil
}
