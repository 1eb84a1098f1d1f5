package codec

import (
	"reflect"
	"testing"
)

func TestForm_RoundTrip(t *testing.T) {
	original := map[string]string{"name": "John Doe", "role": "admin&ops"}
	body, err := (Form{}).Serialize(original)
	if err != nil {
		t.Fatalf("Serialize returned error: %v", err)
	}
	value, err := (Form{}).Parse(body)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if !reflect.DeepEqual(value, original) {
		t.Errorf("round trip = %v, want %v", value, original)
	}
}

func TestForm_SerializeDeterministic(t *testing.T) {
	body, err := (Form{}).Serialize(map[string]interface{}{"b": 2, "a": 1})
	if err != nil {
		t.Fatalf("Serialize returned error: %v", err)
	}
	if string(body) != "a=1&b=2" {
		t.Errorf("Serialize = %q, want %q", body, "a=1&b=2")
	}
}

func TestForm_ParseMalformed(t *testing.T) {
	if _, err := (Form{}).Parse([]byte("a=%zz")); err == nil {
		t.Fatal("expected parse error for bad percent-encoding")
	}
}

func TestForm_SerializeUnsupported(t *testing.T) {
	if _, err := (Form{}).Serialize(42); err == nil {
		t.Fatal("expected error for non-mapping value")
	}
}
