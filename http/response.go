package http

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/lasso/codec"
	"github.com/wesleyorama2/lasso/mime"
	"github.com/wesleyorama2/lasso/pkg/jsonpath"
	"github.com/wesleyorama2/lasso/pkg/jsonschema"
)

// Response is the parsed outcome of one exchange. It is constructed once
// from the raw wire bytes and never mutated.
type Response struct {
	// StatusCode is the HTTP status code (e.g. 200, 404, 500).
	StatusCode int

	// Headers is the parsed, read-only header collection.
	Headers *Headers

	// Body is the parsed body: the output of the negotiated codec, the
	// custom parser, or the raw body string when auto-parsing is off.
	Body interface{}

	// RawHeaders and RawBody retain the final header block and body
	// verbatim as they appeared on the wire.
	RawHeaders string
	RawBody    []byte

	// ContentType, Charset and ParentType classify the response payload.
	// ParentType is the base MIME implied by a structured "+xxx" subtype
	// suffix, expanded through the short-name table.
	ContentType string
	Charset     string
	ParentType  string

	// IsMimeVendorSpecific and IsMimePersonal report "vnd." and "prs."
	// subtype prefixes.
	IsMimeVendorSpecific bool
	IsMimePersonal       bool

	// Timing carries the per-phase durations captured by the transport.
	Timing TimingInfo

	request *Request
}

// NewResponse builds a Response from a raw transport result and the
// request that produced it. Construction fails with a *codec.ParseError
// when the status line is malformed or the body cannot be decoded; no
// partial Response is returned.
func NewResponse(result *Result, req *Request) (*Response, error) {
	raw := string(result.Raw)
	if result.UsedProxy {
		raw = stripProxyTunnelBlock(raw)
	}

	// One extra header block per redirect hop precedes the final one.
	parts := strings.SplitN(raw, "\r\n\r\n", result.RedirectCount+2)
	rawHeaders := parts[0]
	rawBody := ""
	if len(parts) > 1 {
		rawHeaders = parts[len(parts)-2]
		rawBody = parts[len(parts)-1]
	}

	code, err := parseStatusCode(rawHeaders)
	if err != nil {
		return nil, err
	}

	r := &Response{
		StatusCode: code,
		Headers:    ParseHeaders(rawHeaders),
		RawHeaders: rawHeaders,
		RawBody:    []byte(rawBody),
		Timing:     result.Timing,
		request:    req,
	}
	r.classifyContentType()

	body, err := r.parseBody(req)
	if err != nil {
		return nil, err
	}
	r.Body = body
	return r, nil
}

// stripProxyTunnelBlock drops a leading CONNECT tunnel-establishment
// header block left in the stream by some proxies.
func stripProxyTunnelBlock(raw string) string {
	head, rest, found := strings.Cut(raw, "\r\n\r\n")
	if !found {
		return raw
	}
	firstLine, _, _ := strings.Cut(head, "\r\n")
	if strings.Contains(strings.ToLower(firstLine), "connection established") {
		return rest
	}
	return raw
}

// parseStatusCode takes the second space-separated token of the status
// line; anything non-numeric makes the whole response malformed.
func parseStatusCode(rawHeaders string) (int, error) {
	statusLine, _, _ := strings.Cut(rawHeaders, "\r\n")
	fields := strings.Fields(statusLine)
	if len(fields) < 2 {
		return 0, &codec.ParseError{Message: fmt.Sprintf("unable to parse response code from %q", statusLine)}
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, &codec.ParseError{Message: fmt.Sprintf("unable to parse response code from %q", statusLine), Err: err}
	}
	return code, nil
}

// classifyContentType derives MIME type, charset, vendor/personal flags
// and the parent type from the Content-Type header.
func (r *Response) classifyContentType() {
	segments := strings.Split(r.Headers.Get("Content-Type"), ";")
	r.ContentType = strings.TrimSpace(segments[0])

	for _, segment := range segments[1:] {
		if _, value, found := strings.Cut(segment, "="); found {
			r.Charset = strings.TrimSpace(value)
			break
		}
	}
	if r.Charset == "" {
		// Historical HTTP defaulting: latin-1 for text types.
		if strings.HasPrefix(r.ContentType, "text/") {
			r.Charset = "iso-8859-1"
		} else {
			r.Charset = "utf-8"
		}
	}

	if _, subtype, found := strings.Cut(r.ContentType, "/"); found {
		r.IsMimeVendorSpecific = strings.HasPrefix(subtype, "vnd.")
		r.IsMimePersonal = strings.HasPrefix(subtype, "prs.")
		if i := strings.LastIndex(subtype, "+"); i >= 0 {
			r.ParentType = mime.ShortToFull(subtype[i+1:])
		}
	}
}

// parseBody applies the body-parse precedence: auto-parse off wins, then a
// custom parser, then the request's expected type, then the response's own
// content type when a codec is registered for it, then the parent type.
func (r *Response) parseBody(req *Request) (interface{}, error) {
	if req != nil && !req.autoParse {
		return string(r.RawBody), nil
	}
	if req != nil && req.customParse != nil {
		return req.customParse(r.RawBody)
	}

	parseAs := r.ContentType
	switch {
	case req != nil && req.expectedType != "":
		parseAs = req.expectedType
	case mime.IsRegistered(r.ContentType):
		parseAs = r.ContentType
	case r.ParentType != "":
		parseAs = r.ParentType
	}
	return mime.Resolve(parseAs).Parse(r.RawBody)
}

// GetHeader returns the named response header, case-insensitively.
func (r *Response) GetHeader(name string) string {
	return r.Headers.Get(name)
}

// IsSuccess returns true if the status code is in the 2xx range.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// IsRedirect returns true if the status code is in the 3xx range.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// IsClientError returns true if the status code is in the 4xx range.
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError returns true if the status code is in the 5xx range.
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// JSONPath extracts one value from the raw body using a JSONPath
// expression such as "$.users[0].name".
func (r *Response) JSONPath(path string) (string, error) {
	return jsonpath.Extract(string(r.RawBody), path)
}

// ValidateSchema validates the raw body against a JSON Schema document.
func (r *Response) ValidateSchema(schema string) (bool, error) {
	return jsonschema.Validate(string(r.RawBody), schema)
}

// Unmarshal decodes the raw body into v using the negotiated content
// type's native decoder (JSON, XML or YAML).
func (r *Response) Unmarshal(v interface{}) error {
	parseAs := r.ContentType
	if r.request != nil && r.request.expectedType != "" {
		parseAs = r.request.expectedType
	} else if !mime.IsRegistered(r.ContentType) && r.ParentType != "" {
		parseAs = r.ParentType
	}

	switch parseAs {
	case mime.JSON, mime.JS:
		return json.Unmarshal(codec.StripBOM(r.RawBody), v)
	case mime.XML, mime.XHTML:
		return xml.Unmarshal(codec.StripBOM(r.RawBody), v)
	case mime.YAML:
		return yaml.Unmarshal(codec.StripBOM(r.RawBody), v)
	default:
		return fmt.Errorf("no unmarshaler for content type %q", parseAs)
	}
}
