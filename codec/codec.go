package codec

import (
	"bytes"
	"fmt"
)

// Codec converts between raw body bytes and structured values for one
// content type.
type Codec interface {
	// Parse decodes raw body bytes into a structured value. A failure to
	// decode returns a *ParseError.
	Parse(body []byte) (interface{}, error)

	// Serialize encodes a value into raw body bytes.
	Serialize(value interface{}) ([]byte, error)
}

// ParseError reports a body that could not be decoded by a codec.
type ParseError struct {
	MIME    string // content type the parse was attempted as, if known
	Message string
	Err     error // underlying decoder error, if any
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := e.Message
	if e.MIME != "" {
		msg = fmt.Sprintf("%s (as %s)", msg, e.MIME)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error { return e.Err }

// Byte-order marks recognized by stripBOM. UTF-32 marks are checked before
// their UTF-16 prefixes.
var boms = [][]byte{
	{0x00, 0x00, 0xFE, 0xFF}, // UTF-32 BE
	{0xFF, 0xFE, 0x00, 0x00}, // UTF-32 LE
	{0xEF, 0xBB, 0xBF},       // UTF-8
	{0xFE, 0xFF},             // UTF-16 BE
	{0xFF, 0xFE},             // UTF-16 LE
}

// StripBOM removes a leading byte-order mark from body, if present.
func StripBOM(body []byte) []byte {
	for _, bom := range boms {
		if bytes.HasPrefix(body, bom) {
			return body[len(bom):]
		}
	}
	return body
}

// Passthrough is the codec of last resort: Parse returns the body as a
// string, Serialize stringifies the value. It is used for unregistered
// content types and for requests configured to never serialize.
type Passthrough struct{}

// Parse returns the raw body unchanged, as a string.
func (Passthrough) Parse(body []byte) (interface{}, error) {
	return string(body), nil
}

// Serialize stringifies the value.
func (Passthrough) Serialize(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return []byte(fmt.Sprint(value)), nil
	}
}
