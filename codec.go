package krypt

import "github.com/kryptkit/krypt/internal/crypto"

// Wire format sizes for sealed blobs.
const (
	KeySize   = crypto.KeySize
	NonceSize = crypto.NonceSize
	TagSize   = crypto.TagSize
	Overhead  = crypto.Overhead
)

// Ciphersuite names the Secure-mode construction.
const Ciphersuite = crypto.Ciphersuite

// Box seals and opens messages with ChaCha20-Poly1305 under one 256-bit key.
// Sealed blobs are Base64 of nonce(12) || ciphertext || tag(16).
type Box = crypto.Box

// NewBox validates a Base64 key and returns a Box for it. The key must decode
// to exactly KeySize bytes; URL-safe and unpadded Base64 is accepted.
func NewBox(base64Key string) (*Box, error) {
	return crypto.NewBox(base64Key)
}

// GenerateKey returns a new random key as standard Base64. It panics if the
// operating system's secure random source fails.
func GenerateKey() string {
	return crypto.GenerateKey()
}

// HexEncode returns the lower-case hex encoding of b.
func HexEncode(b []byte) string {
	return crypto.HexEncode(b)
}

// HexDecode decodes an even-length hex string, ignoring surrounding whitespace.
func HexDecode(s string) ([]byte, error) {
	return crypto.HexDecode(s)
}

// NormalizeBase64 strips whitespace, maps the URL-safe alphabet to the
// standard one and restores padding.
func NormalizeBase64(s string) string {
	return crypto.NormalizeBase64(s)
}
