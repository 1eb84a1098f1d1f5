package codec

import (
	"errors"
	"reflect"
	"testing"
)

func TestCSV_Parse(t *testing.T) {
	value, err := (CSV{}).Parse([]byte("name,role\nJohn,admin\nJane,ops\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	expected := [][]string{
		{"name", "role"},
		{"John", "admin"},
		{"Jane", "ops"},
	}
	if !reflect.DeepEqual(value, expected) {
		t.Errorf("Parse = %v, want %v", value, expected)
	}
}

func TestCSV_ParseEmpty(t *testing.T) {
	value, err := (CSV{}).Parse(nil)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if value != nil {
		t.Errorf("Parse(empty) = %v, want nil", value)
	}
}

func TestCSV_ParseNoRows(t *testing.T) {
	_, err := (CSV{}).Parse([]byte("\n"))
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
}

func TestCSV_RoundTripWithHeaderRow(t *testing.T) {
	rows := []map[string]string{
		{"name": "John", "role": "admin"},
		{"name": "Jane", "role": "ops"},
	}
	body, err := (CSV{}).Serialize(rows)
	if err != nil {
		t.Fatalf("Serialize returned error: %v", err)
	}
	value, err := (CSV{}).Parse(body)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	expected := [][]string{
		{"name", "role"},
		{"John", "admin"},
		{"Jane", "ops"},
	}
	if !reflect.DeepEqual(value, expected) {
		t.Errorf("round trip = %v, want %v", value, expected)
	}
}
