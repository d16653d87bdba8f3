package classic

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

const alphabetSize = 26

// ShiftEncrypt shifts every ASCII letter of message forward by the key value
// for its rune position, wrapping within A-Z and preserving case. Other runes
// are copied unchanged but still consume a key position.
func ShiftEncrypt(message string, key []int) (string, error) {
	return shift(message, key, 1)
}

// ShiftDecrypt reverses ShiftEncrypt.
func ShiftDecrypt(message string, key []int) (string, error) {
	return shift(message, key, -1)
}

func shift(message string, key []int, dir int) (string, error) {
	if len(key) == 0 {
		return "", fmt.Errorf("%w: shift key must not be empty", ErrPreconditionViolation)
	}

	var b strings.Builder
	b.Grow(len(message))
	i := 0
	for _, r := range message {
		b.WriteRune(shiftRune(r, dir*(key[i%len(key)]%alphabetSize)))
		i++
	}
	return b.String(), nil
}

// shiftRune maps an ASCII letter to 1..26, adds k and maps the result back
// into 1..26. k must already be reduced to (-26, 26).
func shiftRune(r rune, k int) rune {
	var base rune
	switch {
	case r >= 'A' && r <= 'Z':
		base = 'A'
	case r >= 'a' && r <= 'z':
		base = 'a'
	default:
		return r
	}
	val := int(r-base) + 1
	shifted := ((val-1+k)%alphabetSize+alphabetSize)%alphabetSize + 1
	return base + rune(shifted-1)
}

// ParseShiftKey parses a list of integers separated by commas and/or
// whitespace, such as "3, 1, 4" or "3 1 4".
func ParseShiftKey(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: shift key is empty", ErrInvalidKey)
	}

	key := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidKey, f)
		}
		key = append(key, n)
	}
	return key, nil
}

// FormatShiftKey renders key in the form accepted by ParseShiftKey.
func FormatShiftKey(key []int) string {
	parts := make([]string, len(key))
	for i, n := range key {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
