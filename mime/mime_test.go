package mime

import "testing"

func TestShortToFull(t *testing.T) {
	tests := []struct {
		short    string
		expected string
	}{
		{"json", "application/json"},
		{"xml", "application/xml"},
		{"xhtml", "application/html+xml"},
		{"form", "application/x-www-form-urlencoded"},
		{"upload", "multipart/form-data"},
		{"plain", "text/plain"},
		{"js", "text/javascript"},
		{"html", "text/html"},
		{"yaml", "application/x-yaml"},
		{"csv", "text/csv"},
		// Unrecognized input passes through unchanged.
		{"application/json", "application/json"},
		{"application/vnd.github+json", "application/vnd.github+json"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.short, func(t *testing.T) {
			if got := ShortToFull(tt.short); got != tt.expected {
				t.Errorf("ShortToFull(%q) = %q, want %q", tt.short, got, tt.expected)
			}
		})
	}
}
