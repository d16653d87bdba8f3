package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
)

// randReader is the random source used for keys and nonces.
// It defaults to crypto/rand but can be overridden for testing.
var randReader io.Reader = rand.Reader

// mustRandom fills a new n-byte slice from randReader. A failing source is a
// process-level precondition violation, so it panics instead of returning.
func mustRandom(n int) []byte {
	buf := make([]byte, n)
	if _, err := io.ReadFull(randReader, buf); err != nil {
		panic(fmt.Errorf("%w: secure random source unavailable: %v", ErrPreconditionViolation, err))
	}
	return buf
}

// GenerateKey returns a new random 256-bit key encoded as standard base64.
func GenerateKey() string {
	return ToBase64(mustRandom(KeySize))
}
