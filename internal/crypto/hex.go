package crypto

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// HexEncode encodes bytes as lower-case hex without separators.
func HexEncode(data []byte) string {
	return hex.EncodeToString(data)
}

// HexDecode decodes hex text. Surrounding whitespace is ignored; the
// remainder must have even length and contain only hex digits in either case.
func HexDecode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd hex length %d", ErrInvalidEncoding, len(s))
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return data, nil
}
