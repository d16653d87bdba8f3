package krypt

import (
	"fmt"
	"strings"

	"github.com/kryptkit/krypt/internal/crypto"
)

// OutputFormat selects how ciphertext is presented.
type OutputFormat string

const (
	// FormatBase64 leaves ciphertext as standard Base64.
	FormatBase64 OutputFormat = "base64"
	// FormatHex re-encodes the decoded ciphertext bytes as lower-case hex.
	FormatHex OutputFormat = "hex"
	// FormatPretty wraps Base64 at PrettyWidth columns.
	FormatPretty OutputFormat = "pretty"
)

// PrettyWidth is the line width used by FormatPretty.
const PrettyWidth = 64

// ParseOutputFormat accepts base64, hex or pretty in any case. An empty
// string selects FormatBase64.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatBase64, nil
	case FormatBase64, FormatHex, FormatPretty:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOutputFormat, s)
}

// FormatOutput renders Base64 ciphertext in the requested format.
func FormatOutput(base64Text string, format OutputFormat) (string, error) {
	switch format {
	case "", FormatBase64:
		return base64Text, nil
	case FormatHex:
		raw, err := crypto.DecodeBase64(base64Text)
		if err != nil {
			return "", err
		}
		return crypto.HexEncode(raw), nil
	case FormatPretty:
		return wrap(base64Text, PrettyWidth), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOutputFormat, format)
}

// ParseInput converts ciphertext in the given format back to Base64 for
// Decrypt. Pretty input only needs its line breaks removed, which Decrypt
// already tolerates.
func ParseInput(text string, format OutputFormat) (string, error) {
	switch format {
	case "", FormatBase64, FormatPretty:
		return text, nil
	case FormatHex:
		raw, err := crypto.HexDecode(text)
		if err != nil {
			return "", err
		}
		return crypto.ToBase64(raw), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOutputFormat, format)
}

func wrap(s string, width int) string {
	if len(s) <= width {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + len(s)/width)
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteByte('\n')
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}
