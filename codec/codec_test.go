package codec

import (
	"bytes"
	"testing"
)

func TestStripBOM(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected []byte
	}{
		{
			name:     "UTF-8 BOM",
			input:    []byte{0xEF, 0xBB, 0xBF, 'h', 'i'},
			expected: []byte("hi"),
		},
		{
			name:     "UTF-16 BE BOM",
			input:    []byte{0xFE, 0xFF, 'h', 'i'},
			expected: []byte("hi"),
		},
		{
			name:     "UTF-16 LE BOM",
			input:    []byte{0xFF, 0xFE, 'h', 'i'},
			expected: []byte("hi"),
		},
		{
			name:     "UTF-32 BE BOM",
			input:    []byte{0x00, 0x00, 0xFE, 0xFF, 'h', 'i'},
			expected: []byte("hi"),
		},
		{
			name:     "UTF-32 LE BOM wins over UTF-16 LE prefix",
			input:    []byte{0xFF, 0xFE, 0x00, 0x00, 'h', 'i'},
			expected: []byte("hi"),
		},
		{
			name:     "no BOM",
			input:    []byte("hi"),
			expected: []byte("hi"),
		},
		{
			name:     "empty",
			input:    []byte{},
			expected: []byte{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripBOM(tt.input); !bytes.Equal(got, tt.expected) {
				t.Errorf("StripBOM(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPassthrough_Parse(t *testing.T) {
	value, err := Passthrough{}.Parse([]byte("anything at all"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if value != "anything at all" {
		t.Errorf("Parse = %q, want input unchanged", value)
	}
}

func TestPassthrough_Serialize(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{name: "string", input: "hello", expected: "hello"},
		{name: "bytes", input: []byte("raw"), expected: "raw"},
		{name: "number", input: 42, expected: "42"},
		{name: "nil", input: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Passthrough{}.Serialize(tt.input)
			if err != nil {
				t.Fatalf("Serialize returned error: %v", err)
			}
			if string(got) != tt.expected {
				t.Errorf("Serialize(%v) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
