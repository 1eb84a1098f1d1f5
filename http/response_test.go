package http

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/wesleyorama2/lasso/codec"
)

func rawResult(body string, headerLines ...string) *Result {
	block := "HTTP/1.1 200 OK"
	for _, line := range headerLines {
		block += "\r\n" + line
	}
	return &Result{Raw: []byte(block + "\r\n\r\n" + body)}
}

func TestNewResponse_StatusCode(t *testing.T) {
	resp, err := NewResponse(&Result{Raw: []byte("HTTP/1.1 404 Not Found\r\nContent-Type: text/plain\r\n\r\nmissing")}, Get("http://e"))
	if err != nil {
		t.Fatalf("NewResponse returned error: %v", err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", resp.StatusCode)
	}
	if !resp.IsClientError() || resp.IsSuccess() {
		t.Error("classification helpers disagree with 404")
	}
}

func TestNewResponse_MalformedStatusLine(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "non-numeric code", raw: "HTTP/1.1 OK\r\n\r\n"},
		{name: "garbage token", raw: "HTTP/1.1 2x0 Weird\r\n\r\n"},
		{name: "empty status line", raw: "\r\n\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResponse(&Result{Raw: []byte(tt.raw)}, Get("http://e"))
			var parseErr *codec.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("err = %v, want *codec.ParseError", err)
			}
		})
	}
}

func TestNewResponse_ContentTypeClassification(t *testing.T) {
	resp, err := NewResponse(rawResult(`{}`, "Content-Type: application/vnd.custom+json; charset=UTF-8"), Get("http://e"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.ContentType != "application/vnd.custom+json" {
		t.Errorf("ContentType = %q", resp.ContentType)
	}
	if resp.Charset != "UTF-8" {
		t.Errorf("Charset = %q", resp.Charset)
	}
	if resp.ParentType != "application/json" {
		t.Errorf("ParentType = %q, want application/json", resp.ParentType)
	}
	if !resp.IsMimeVendorSpecific {
		t.Error("vnd. subtype should set the vendor flag")
	}
	if resp.IsMimePersonal {
		t.Error("prs. flag should be unset")
	}
}

func TestNewResponse_PersonalMimeFlag(t *testing.T) {
	resp, err := NewResponse(rawResult("", "Content-Type: application/prs.example"), Get("http://e"))
	if err != nil {
		t.Fatal(err)
	}
	if !resp.IsMimePersonal || resp.IsMimeVendorSpecific {
		t.Errorf("flags = vendor %v personal %v", resp.IsMimeVendorSpecific, resp.IsMimePersonal)
	}
}

func TestNewResponse_CharsetDefaults(t *testing.T) {
	tests := []struct {
		contentType string
		expected    string
	}{
		{"text/plain", "iso-8859-1"},
		{"text/html", "iso-8859-1"},
		{"application/json", "utf-8"},
		{"application/xml", "utf-8"},
	}
	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			resp, err := NewResponse(rawResult("", "Content-Type: "+tt.contentType), Get("http://e"))
			if err != nil {
				t.Fatal(err)
			}
			if resp.Charset != tt.expected {
				t.Errorf("Charset = %q, want %q", resp.Charset, tt.expected)
			}
		})
	}
}

func TestNewResponse_BodyParsedByContentType(t *testing.T) {
	resp, err := NewResponse(rawResult(`{"a":1}`, "Content-Type: application/json"), Get("http://e"))
	if err != nil {
		t.Fatal(err)
	}
	expected := map[string]interface{}{"a": float64(1)}
	if !reflect.DeepEqual(resp.Body, expected) {
		t.Errorf("Body = %v, want %v", resp.Body, expected)
	}
	if string(resp.RawBody) != `{"a":1}` {
		t.Errorf("RawBody = %q, raw body must be retained verbatim", resp.RawBody)
	}
}

func TestNewResponse_ExpectedTypeWins(t *testing.T) {
	// Content-Type says plain, but the request expects JSON.
	req := Get("http://e").Expects("json")
	resp, err := NewResponse(rawResult(`{"a":1}`, "Content-Type: text/plain"), req)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := resp.Body.(map[string]interface{}); !ok {
		t.Errorf("Body = %T, want JSON map via expected type", resp.Body)
	}
}

func TestNewResponse_ParentTypeFallback(t *testing.T) {
	// No codec for the vendor type itself, but its +xml parent resolves to
	// the registered XML codec.
	resp, err := NewResponse(rawResult("<doc><ok>yes</ok></doc>", "Content-Type: application/vnd.foo+xml"), Get("http://e"))
	if err != nil {
		t.Fatal(err)
	}
	node, ok := resp.Body.(*codec.XMLNode)
	if !ok {
		t.Fatalf("Body = %T, want *codec.XMLNode via parent-type fallback", resp.Body)
	}
	if child := node.Child("ok"); child == nil || child.Text != "yes" {
		t.Errorf("parsed tree = %+v", node)
	}
}

func TestNewResponse_UnregisteredTypeDegradesToPassthrough(t *testing.T) {
	resp, err := NewResponse(rawResult("rawbits", "Content-Type: application/x-unknown"), Get("http://e"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Body != "rawbits" {
		t.Errorf("Body = %v, want passthrough string", resp.Body)
	}
}

func TestNewResponse_AutoParseOff(t *testing.T) {
	req := Get("http://e").AutoParse(false)
	resp, err := NewResponse(rawResult(`{"a":1}`, "Content-Type: application/json"), req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Body != `{"a":1}` {
		t.Errorf("Body = %v, want raw string with auto-parse off", resp.Body)
	}
}

func TestNewResponse_CustomParserWins(t *testing.T) {
	req := Get("http://e").Expects("json").ParseWith(func(body []byte) (interface{}, error) {
		return strings.ToUpper(string(body)), nil
	})
	resp, err := NewResponse(rawResult("hello", "Content-Type: application/json"), req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Body != "HELLO" {
		t.Errorf("Body = %v, custom parser should bypass the registry", resp.Body)
	}
}

func TestNewResponse_ParseFailureAbortsConstruction(t *testing.T) {
	resp, err := NewResponse(rawResult(`{"truncated`, "Content-Type: application/json"), Get("http://e"))
	if resp != nil {
		t.Error("no partial Response may be returned on parse failure")
	}
	var parseErr *codec.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("err = %v, want *codec.ParseError", err)
	}
}

func TestNewResponse_RedirectHopBlocks(t *testing.T) {
	raw := "HTTP/1.1 301 Moved Permanently\r\nLocation: /new\r\n\r\n" +
		"HTTP/1.1 200 OK\r\nContent-Type: application/json\r\n\r\n" +
		`{"here":true}`
	resp, err := NewResponse(&Result{Raw: []byte(raw), RedirectCount: 1}, Get("http://e"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("StatusCode = %d, want final hop's 200", resp.StatusCode)
	}
	if resp.Headers.Has("Location") {
		t.Error("headers must come from the final block only")
	}
	if m, ok := resp.Body.(map[string]interface{}); !ok || m["here"] != true {
		t.Errorf("Body = %v", resp.Body)
	}
}

func TestNewResponse_ProxyTunnelBlockStripped(t *testing.T) {
	raw := "HTTP/1.1 200 Connection established\r\n\r\n" +
		"HTTP/1.1 204 No Content\r\nX-Served-By: origin\r\n\r\n"
	resp, err := NewResponse(&Result{Raw: []byte(raw), UsedProxy: true}, Get("http://e"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 204 {
		t.Errorf("StatusCode = %d, want 204 after tunnel block strip", resp.StatusCode)
	}
	if resp.Headers.Get("X-Served-By") != "origin" {
		t.Errorf("headers = %v", resp.Headers.Names())
	}
}

func TestResponse_EmptyBodyIsNilSafe(t *testing.T) {
	resp, err := NewResponse(rawResult("", "Content-Type: application/json"), Get("http://e"))
	if err != nil {
		t.Fatal(err)
	}
	if resp.Body != nil {
		t.Errorf("Body = %v, want nil for empty JSON body", resp.Body)
	}
}

func TestResponse_JSONPath(t *testing.T) {
	resp, err := NewResponse(rawResult(`{"users":[{"name":"John"}]}`, "Content-Type: application/json"), Get("http://e"))
	if err != nil {
		t.Fatal(err)
	}
	name, err := resp.JSONPath("$.users[0].name")
	if err != nil {
		t.Fatalf("JSONPath returned error: %v", err)
	}
	if name != "John" {
		t.Errorf("JSONPath = %q, want John", name)
	}
}

func TestResponse_ValidateSchema(t *testing.T) {
	schema := `{"type":"object","required":["id"],"properties":{"id":{"type":"integer"}}}`
	resp, err := NewResponse(rawResult(`{"id":7}`, "Content-Type: application/json"), Get("http://e"))
	if err != nil {
		t.Fatal(err)
	}
	valid, err := resp.ValidateSchema(schema)
	if err != nil {
		t.Fatalf("ValidateSchema returned error: %v", err)
	}
	if !valid {
		t.Error("body should validate")
	}

	resp, err = NewResponse(rawResult(`{"id":"seven"}`, "Content-Type: application/json"), Get("http://e"))
	if err != nil {
		t.Fatal(err)
	}
	valid, err = resp.ValidateSchema(schema)
	if err != nil {
		t.Fatal(err)
	}
	if valid {
		t.Error("body should fail validation")
	}
}

func TestResponse_Unmarshal(t *testing.T) {
	resp, err := NewResponse(rawResult(`{"name":"John","age":30}`, "Content-Type: application/json"), Get("http://e"))
	if err != nil {
		t.Fatal(err)
	}
	var target struct {
		Name string `json:"name"`
		Age  int    `json:"age"`
	}
	if err := resp.Unmarshal(&target); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if target.Name != "John" || target.Age != 30 {
		t.Errorf("Unmarshal = %+v", target)
	}
}
