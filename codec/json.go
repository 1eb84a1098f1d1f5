package codec

import (
	"encoding/json"
	"strings"
)

// JSON is the codec for application/json bodies.
type JSON struct{}

// Parse decodes a JSON body. An empty body decodes to nil. A body that is
// the literal token "null" in any case also decodes to nil, even though the
// standard decoder would reject the uppercase spellings.
func (JSON) Parse(body []byte) (interface{}, error) {
	body = StripBOM(body)
	if len(body) == 0 {
		return nil, nil
	}

	var value interface{}
	if err := json.Unmarshal(body, &value); err != nil {
		if strings.EqualFold(strings.TrimSpace(string(body)), "null") {
			return nil, nil
		}
		return nil, &ParseError{MIME: "application/json", Message: "unable to parse response as JSON", Err: err}
	}
	return value, nil
}

// Serialize encodes a value as JSON text.
func (JSON) Serialize(value interface{}) ([]byte, error) {
	return json.Marshal(value)
}
