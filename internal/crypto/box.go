package crypto

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Box seals and opens messages under a single validated 256-bit key.
// A Box is immutable and safe for concurrent use.
type Box struct {
	aead cipher.AEAD
}

// NewBox decodes a base64 key and returns a Box for it.
// The decoded key must be exactly KeySize bytes.
func NewBox(base64Key string) (*Box, error) {
	key, err := DecodeBase64(base64Key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
	}
	return NewBoxFromBytes(key)
}

// NewBoxFromBytes returns a Box for a raw key.
func NewBoxFromBytes(key []byte) (*Box, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(key), KeySize)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return &Box{aead: aead}, nil
}

// Seal encrypts plaintext under a fresh random nonce and returns the base64
// encoding of nonce || ciphertext || tag. aad, if non-nil, is authenticated
// but not encrypted and must be passed unchanged to Open.
func (b *Box) Seal(plaintext, aad []byte) string {
	nonce := mustRandom(NonceSize)
	return ToBase64(b.sealWithNonce(nonce, plaintext, aad))
}

// sealWithNonce returns nonce || ciphertext || tag.
func (b *Box) sealWithNonce(nonce, plaintext, aad []byte) []byte {
	out := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	copy(out, nonce)
	return b.aead.Seal(out, nonce, plaintext, aad)
}

// Open decodes and authenticates a blob produced by Seal and returns the
// plaintext. No plaintext is returned unless the tag verifies.
func (b *Box) Open(blob string, aad []byte) ([]byte, error) {
	data, err := DecodeBase64(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBlob, err)
	}
	return b.OpenBytes(data, aad)
}

// OpenBytes authenticates and decrypts a raw nonce || ciphertext || tag blob.
func (b *Box) OpenBytes(data, aad []byte) ([]byte, error) {
	if len(data) < Overhead {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrInvalidBlob, len(data), Overhead)
	}

	nonce := data[:NonceSize]
	sealed := data[NonceSize:]

	plaintext, err := b.aead.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}
