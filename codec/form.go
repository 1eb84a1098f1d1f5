package codec

import (
	"fmt"
	"net/url"
)

// Form is the codec for application/x-www-form-urlencoded bodies.
type Form struct{}

// Parse decodes an urlencoded query string into a flat string map. Repeated
// keys keep their first value.
func (Form) Parse(body []byte) (interface{}, error) {
	body = StripBOM(body)
	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, &ParseError{MIME: "application/x-www-form-urlencoded", Message: "unable to parse body as form data", Err: err}
	}

	parsed := make(map[string]string, len(values))
	for key, vals := range values {
		if len(vals) > 0 {
			parsed[key] = vals[0]
		}
	}
	return parsed, nil
}

// Serialize encodes a mapping as an urlencoded query string. Keys are
// emitted in sorted order so output is deterministic.
func (Form) Serialize(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case url.Values:
		return []byte(v.Encode()), nil
	case map[string]string:
		values := make(url.Values, len(v))
		for key, val := range v {
			values.Set(key, val)
		}
		return []byte(values.Encode()), nil
	case map[string]interface{}:
		values := make(url.Values, len(v))
		for key, val := range v {
			values.Set(key, fmt.Sprint(val))
		}
		return []byte(values.Encode()), nil
	default:
		return nil, fmt.Errorf("form codec: cannot encode %T as urlencoded data", value)
	}
}
