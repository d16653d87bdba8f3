package krypt

import (
	"errors"
	"strings"
	"testing"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatBase64, false},
		{"base64", FormatBase64, false},
		{"HEX", FormatHex, false},
		{" Pretty ", FormatPretty, false},
		{"binary", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidOutputFormat) {
				t.Errorf("ParseOutputFormat(%q) expected ErrInvalidOutputFormat, got %v", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}
}

func TestFormatOutput_Base64(t *testing.T) {
	got, err := FormatOutput("SGVsbG8=", FormatBase64)
	if err != nil || got != "SGVsbG8=" {
		t.Errorf("FormatOutput() = %q, %v", got, err)
	}
}

func TestFormatOutput_HexMatchesDecodedBytes(t *testing.T) {
	box, err := NewBox(GenerateKey())
	if err != nil {
		t.Fatal(err)
	}
	blob := box.Seal([]byte("format me"), nil)

	got, err := FormatOutput(blob, FormatHex)
	if err != nil {
		t.Fatalf("FormatOutput() error = %v", err)
	}

	raw, err := HexDecode(got)
	if err != nil {
		t.Fatalf("output is not hex: %v", err)
	}
	if len(raw) != Overhead+len("format me") {
		t.Errorf("decoded length = %d", len(raw))
	}
	if got != strings.ToLower(got) {
		t.Error("hex output should be lower-case")
	}

	// Converting back yields a blob that still opens.
	back, err := ParseInput(got, FormatHex)
	if err != nil {
		t.Fatal(err)
	}
	plaintext, err := box.Open(back, nil)
	if err != nil || string(plaintext) != "format me" {
		t.Errorf("Open(ParseInput(hex)) = %q, %v", plaintext, err)
	}
}

func TestFormatOutput_HexInvalidBase64(t *testing.T) {
	_, err := FormatOutput("not base64!", FormatHex)
	if !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestFormatOutput_Pretty(t *testing.T) {
	input := strings.Repeat("A", 150)

	got, err := FormatOutput(input, FormatPretty)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if len(lines[0]) != 64 || len(lines[1]) != 64 || len(lines[2]) != 22 {
		t.Errorf("line lengths = %d, %d, %d", len(lines[0]), len(lines[1]), len(lines[2]))
	}
	if strings.Join(lines, "") != input {
		t.Error("wrapped text does not rejoin to the input")
	}
}

func TestFormatOutput_PrettyShortAndExact(t *testing.T) {
	for _, n := range []int{0, 10, 64} {
		input := strings.Repeat("b", n)
		got, _ := FormatOutput(input, FormatPretty)
		if got != input {
			t.Errorf("FormatOutput(len %d) = %q, want unchanged", n, got)
		}
	}
}

func TestFormatOutput_Unknown(t *testing.T) {
	if _, err := FormatOutput("x", OutputFormat("binary")); !errors.Is(err, ErrInvalidOutputFormat) {
		t.Errorf("expected ErrInvalidOutputFormat, got %v", err)
	}
	if _, err := ParseInput("x", OutputFormat("binary")); !errors.Is(err, ErrInvalidOutputFormat) {
		t.Errorf("expected ErrInvalidOutputFormat, got %v", err)
	}
}

func TestParseInput_InvalidHex(t *testing.T) {
	if _, err := ParseInput("abc", FormatHex); !errors.Is(err, ErrInvalidEncoding) {
		t.Errorf("expected ErrInvalidEncoding, got %v", err)
	}
}
