package http

import (
	"strings"
)

// Headers is the read-only collection of response headers. Lookup is
// case-insensitive, iteration order follows first appearance on the wire,
// and duplicate header names are merged into one comma-joined entry.
type Headers struct {
	names  []string          // first-seen spelling, wire order
	values map[string]string // lowercased name -> joined value
}

// ParseHeaders builds a Headers collection from a raw header block. The
// first line (the status line) is skipped; every subsequent line splits on
// the first colon into a trimmed name/value pair.
func ParseHeaders(raw string) *Headers {
	h := &Headers{values: make(map[string]string)}

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if len(lines) <= 1 {
		return h
	}
	for _, line := range lines[1:] {
		name, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if existing, ok := h.values[key]; ok {
			h.values[key] = existing + "," + value
		} else {
			h.names = append(h.names, name)
			h.values[key] = value
		}
	}
	return h
}

// Get returns the value for name, case-insensitively. Missing headers
// return "".
func (h *Headers) Get(name string) string {
	return h.values[strings.ToLower(name)]
}

// Has reports whether name is present, case-insensitively.
func (h *Headers) Has(name string) bool {
	_, ok := h.values[strings.ToLower(name)]
	return ok
}

// Names returns the header names in wire order, with their original
// spelling.
func (h *Headers) Names() []string {
	names := make([]string, len(h.names))
	copy(names, h.names)
	return names
}

// Len returns the number of distinct headers.
func (h *Headers) Len() int { return len(h.names) }

// Set always fails: parsed headers are immutable.
func (h *Headers) Set(name, value string) error {
	return usageErrorf("headers are read-only: cannot set %q", name)
}

// Delete always fails: parsed headers are immutable.
func (h *Headers) Delete(name string) error {
	return usageErrorf("headers are read-only: cannot delete %q", name)
}

// String renders the collection back to header-block form, one "Name:
// value" line per entry, in wire order.
func (h *Headers) String() string {
	var sb strings.Builder
	for _, name := range h.names {
		sb.WriteString(name)
		sb.WriteString(": ")
		sb.WriteString(h.values[strings.ToLower(name)])
		sb.WriteString("\r\n")
	}
	return sb.String()
}
