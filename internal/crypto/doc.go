// Package crypto provides the cryptographic primitives behind krypt's
// Secure mode together with the text codecs shared by every mode.
//
// # Algorithm Suite
//
//   - ChaCha20-Poly1305 (RFC 8439): authenticated encryption with associated
//     data, 256-bit key, 96-bit nonce, 128-bit tag.
//
// # Wire Format
//
// A sealed blob is the Base64 (standard alphabet, padded) encoding of
//
//	nonce (12 bytes) || ciphertext (n bytes) || tag (16 bytes)
//
// There is no header, version byte or length prefix: n is the decoded
// length minus [Overhead]. The layout must stay byte-exact so that blobs
// produced by earlier releases keep opening.
//
// # Critical Security Notes
//
// Nonces MUST be unique for each seal under the same key. [Box.Seal] draws a
// fresh nonce from the operating system's secure random source on every call.
// Reusing a nonce with ChaCha20-Poly1305 reveals the XOR of the two
// plaintexts and lets an attacker forge tags.
//
// [Box.Open] deliberately does not distinguish a wrong key from a corrupted
// or tampered blob: both fail with [ErrAuthenticationFailed].
//
// If the secure random source fails, the package panics with an error
// wrapping [ErrPreconditionViolation]. It never falls back to a weaker
// source and never retries.
//
// # Codecs
//
//   - [NormalizeBase64]: strips whitespace, maps the URL-safe alphabet to the
//     standard one and restores padding. Used on every Base64 input.
//   - [ToBase64]/[FromBase64]: standard Base64 with padding (RFC 4648 §4).
//   - [HexEncode]/[HexDecode]: lower-case hex without separators.
package crypto
