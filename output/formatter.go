// Package output renders request and response traces for humans: the raw
// request mirror recorded at send time and the parsed response, colorized
// when the destination is a terminal.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	http "github.com/wesleyorama2/lasso/http"
)

// Formatter renders requests and responses in text form.
type Formatter struct {
	Verbose bool
	scheme  *ColorScheme
}

// NewFormatter creates a formatter. Colors are off when noColor is set.
func NewFormatter(verbose, noColor bool) *Formatter {
	scheme := DefaultColorScheme()
	if noColor {
		scheme.disable()
	}
	return &Formatter{Verbose: verbose, scheme: scheme}
}

// NewFormatterFor creates a formatter for the given destination, turning
// colors off when it is not a terminal.
func NewFormatterFor(w io.Writer, verbose bool) *Formatter {
	return NewFormatter(verbose, !isTerminal(w))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// FormatRequest renders a sent request: the method/URI summary followed by
// the raw request mirror recorded at send time.
func (f *Formatter) FormatRequest(req *http.Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "▶ REQUEST: %s %s\n",
		f.scheme.Method.Sprint(req.Method()),
		f.scheme.URL.Sprint(req.URI()))

	if raw := req.RawRequest(); raw != "" && f.Verbose {
		for _, line := range strings.Split(strings.TrimRight(raw, "\r\n"), "\r\n") {
			sb.WriteString("  ")
			if key, value, found := strings.Cut(line, ": "); found {
				sb.WriteString(f.scheme.HeaderKey.Sprint(key))
				sb.WriteString(": ")
				sb.WriteString(f.scheme.HeaderValue.Sprint(value))
			} else {
				sb.WriteString(line)
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FormatResponse renders a response: colored status, headers in wire
// order, and the body (pretty-printed when it is JSON).
func (f *Formatter) FormatResponse(resp *http.Response) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "◀ RESPONSE: %s\n", f.scheme.statusColor(resp.StatusCode).Sprint(resp.StatusCode))

	if f.Verbose {
		sb.WriteString("  Headers:\n")
		for _, name := range resp.Headers.Names() {
			fmt.Fprintf(&sb, "    %s: %s\n",
				f.scheme.HeaderKey.Sprint(name),
				f.scheme.HeaderValue.Sprint(resp.Headers.Get(name)))
		}
		fmt.Fprintf(&sb, "  Time: %v\n", resp.Timing.TotalTime)
	}

	if len(resp.RawBody) > 0 {
		sb.WriteString("  Body: ")
		sb.WriteString(formatBody(resp))
		sb.WriteString("\n")
	}
	return sb.String()
}

// formatBody pretty-prints JSON bodies and passes everything else through.
func formatBody(resp *http.Response) string {
	body := string(resp.RawBody)
	if !strings.Contains(resp.ContentType, "json") {
		return body
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, resp.RawBody, "  ", "  "); err != nil {
		return body
	}
	return buf.String()
}
