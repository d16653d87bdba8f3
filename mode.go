package krypt

import (
	"fmt"
	"strings"
)

// Mode selects a cipher.
type Mode string

const (
	// ModeSecure is ChaCha20-Poly1305 with a 256-bit Base64 key.
	ModeSecure Mode = "Secure"
	// ModeXOR is the educational digit XOR cipher with an integer key.
	ModeXOR Mode = "XOR"
	// ModeShift is the educational numeric Vigenère cipher with an integer list key.
	ModeShift Mode = "Shift"
)

// Modes lists every supported mode.
var Modes = []Mode{ModeSecure, ModeXOR, ModeShift}

// ParseMode accepts secure, xor or shift in any case.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "secure":
		return ModeSecure, nil
	case "xor":
		return ModeXOR, nil
	case "shift":
		return ModeShift, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

func (m Mode) String() string { return string(m) }

// Valid reports whether m is one of Modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeSecure, ModeXOR, ModeShift:
		return true
	}
	return false
}

// Authenticated reports whether ciphertext in this mode is integrity protected.
func (m Mode) Authenticated() bool {
	return m == ModeSecure
}

// Action names a cipher direction in history entries.
type Action string

const (
	ActionEncrypt Action = "Encrypt"
	ActionDecrypt Action = "Decrypt"
)

func (a Action) String() string { return string(a) }

// Valid reports whether a is ActionEncrypt or ActionDecrypt.
func (a Action) Valid() bool {
	return a == ActionEncrypt || a == ActionDecrypt
}
