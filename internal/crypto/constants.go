package crypto

const (
	// KeySize is the size of a ChaCha20-Poly1305 key in bytes.
	KeySize = 32
	// NonceSize is the size of a ChaCha20-Poly1305 nonce in bytes.
	NonceSize = 12
	// TagSize is the size of a Poly1305 authentication tag in bytes.
	TagSize = 16

	// Overhead is the number of bytes a sealed blob adds to its plaintext.
	Overhead = NonceSize + TagSize
)

// Ciphersuite names the AEAD construction used by Box.
const Ciphersuite = "ChaCha20-Poly1305"
