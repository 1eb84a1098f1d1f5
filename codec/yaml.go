package codec

import (
	"gopkg.in/yaml.v3"
)

// YAML is the codec for application/x-yaml bodies. It is not registered by
// default; callers opt in with mime.Register.
type YAML struct{}

// Parse decodes a YAML body. An empty body decodes to nil.
func (YAML) Parse(body []byte) (interface{}, error) {
	body = StripBOM(body)
	if len(body) == 0 {
		return nil, nil
	}

	var value interface{}
	if err := yaml.Unmarshal(body, &value); err != nil {
		return nil, &ParseError{MIME: "application/x-yaml", Message: "unable to parse response as YAML", Err: err}
	}
	return value, nil
}

// Serialize encodes a value as YAML text.
func (YAML) Serialize(value interface{}) ([]byte, error) {
	return yaml.Marshal(value)
}
