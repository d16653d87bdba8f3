package crypto

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNormalizeBase64(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already standard", "aGVsbG8=", "aGVsbG8="},
		{"missing padding", "aGVsbG8", "aGVsbG8="},
		{"missing double padding", "YQ", "YQ=="},
		{"url-safe alphabet", "-_8", "+/8="},
		{"surrounding whitespace", "  aGVsbG8=\n", "aGVsbG8="},
		{"embedded newlines", "aGVs\r\nbG8=", "aGVsbG8="},
		{"embedded spaces and tabs", "aG Vs\tbG8", "aGVsbG8="},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeBase64(tt.input)
			if got != tt.expected {
				t.Errorf("NormalizeBase64(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeBase64_LengthMultipleOfFour(t *testing.T) {
	for _, s := range []string{"a", "ab", "abc", "abcd", "abcde"} {
		if got := NormalizeBase64(s); len(got)%4 != 0 {
			t.Errorf("NormalizeBase64(%q) = %q, length %d is not a multiple of 4", s, got, len(got))
		}
	}
}

func TestDecodeBase64_LenientFormats(t *testing.T) {
	original := []byte("hello world")

	tests := []struct {
		name    string
		encoded string
	}{
		{"standard encoding", "aGVsbG8gd29ybGQ="},
		{"raw url encoding", "aGVsbG8gd29ybGQ"},
		{"wrapped lines", "aGVsbG8g\nd29ybGQ="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeBase64(tt.encoded)
			if err != nil {
				t.Fatalf("DecodeBase64() error = %v", err)
			}
			if !bytes.Equal(decoded, original) {
				t.Errorf("DecodeBase64() = %v, want %v", decoded, original)
			}
		})
	}
}

func TestDecodeBase64_URLSafeChars(t *testing.T) {
	// 0xfb 0xff 0xbf encodes to "+/+/" in standard base64.
	decoded, err := DecodeBase64("-_-_")
	if err != nil {
		t.Fatalf("DecodeBase64() error = %v", err)
	}
	if !bytes.Equal(decoded, []byte{0xfb, 0xff, 0xbf}) {
		t.Errorf("DecodeBase64() = %x, want fbffbf", decoded)
	}
}

func TestDecodeBase64_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid chars", "!!!invalid!!!"},
		{"too short after padding", "a"},
		{"padding in the middle", "ab=c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBase64(tt.input)
			if !errors.Is(err, ErrInvalidEncoding) {
				t.Errorf("expected ErrInvalidEncoding, got %v", err)
			}
		})
	}
}

func TestToBase64_StandardEncoding(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected string
	}{
		{"empty", []byte{}, ""},
		{"hello", []byte("hello"), "aGVsbG8="},
		{"hello world", []byte("hello world"), "aGVsbG8gd29ybGQ="},
		{"one byte", []byte("a"), "YQ=="},
		{"two bytes", []byte("ab"), "YWI="},
		{"three bytes", []byte("abc"), "YWJj"},
		{"url unsafe chars", []byte{0xfb, 0xff}, "+/8="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := ToBase64(tt.data)
			if encoded != tt.expected {
				t.Errorf("ToBase64() = %s, want %s", encoded, tt.expected)
			}
		})
	}
}

func TestFromBase64_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"invalid chars", "!!!invalid!!!"},
		{"url-safe chars", "-_8"}, // URL-safe chars don't work with strict standard base64
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBase64(tt.encoded)
			if err == nil {
				t.Error("expected error for invalid input")
			}
		})
	}
}

func TestBase64StandardRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", []byte{}},
		{"simple", []byte("hello")},
		{"binary", []byte{0x00, 0xff, 0x7f, 0x80}},
		{"large", make([]byte, 1000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := ToBase64(tt.data)
			decoded, err := DecodeBase64(encoded)
			if err != nil {
				t.Fatalf("DecodeBase64() error = %v", err)
			}
			if !bytes.Equal(decoded, tt.data) {
				t.Errorf("round trip failed: got %v, want %v", decoded, tt.data)
			}
		})
	}
}

func TestToBase64_WithPadding(t *testing.T) {
	for _, data := range [][]byte{[]byte("a"), []byte("ab")} {
		if encoded := ToBase64(data); !strings.Contains(encoded, "=") {
			t.Errorf("encoded string should contain padding: %s", encoded)
		}
	}
}

func BenchmarkNormalizeBase64(b *testing.B) {
	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i % 256)
	}
	encoded := ToBase64(data)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = NormalizeBase64(encoded)
	}
}

// Example_normalizeBase64 demonstrates lenient decoding of pasted input.
func Example_normalizeBase64() {
	pasted := " SGVsbG8s\nIFdvcmxkIQ "

	fmt.Println(NormalizeBase64(pasted))

	decoded, _ := DecodeBase64(pasted)
	fmt.Println(string(decoded))

	// Output:
	// SGVsbG8sIFdvcmxkIQ==
	// Hello, World!
}
