package codec

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
)

// CSV is the codec for text/csv bodies.
type CSV struct{}

// Parse decodes a CSV body into rows of fields. An empty body decodes to
// nil; a non-empty body that yields no rows is a parse error.
func (CSV) Parse(body []byte) (interface{}, error) {
	body = StripBOM(body)
	if len(body) == 0 {
		return nil, nil
	}

	reader := csv.NewReader(bytes.NewReader(body))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &ParseError{MIME: "text/csv", Message: "unable to parse response as CSV", Err: err}
	}
	if len(rows) == 0 {
		return nil, &ParseError{MIME: "text/csv", Message: "unable to parse response as CSV"}
	}
	return rows, nil
}

// Serialize encodes a sequence of uniform mapping rows as CSV: a header row
// built from the first row's keys (sorted), then one line per row. Raw
// [][]string row sets are written as-is.
func (CSV) Serialize(value interface{}) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	switch rows := value.(type) {
	case nil:
		return nil, nil
	case [][]string:
		if err := writer.WriteAll(rows); err != nil {
			return nil, err
		}
	case []map[string]string:
		if len(rows) == 0 {
			return nil, nil
		}
		header := sortedKeys(rows[0])
		if err := writer.Write(header); err != nil {
			return nil, err
		}
		record := make([]string, len(header))
		for _, row := range rows {
			for i, key := range header {
				record[i] = row[key]
			}
			if err := writer.Write(record); err != nil {
				return nil, err
			}
		}
	case []map[string]interface{}:
		if len(rows) == 0 {
			return nil, nil
		}
		header := sortedKeys(rows[0])
		if err := writer.Write(header); err != nil {
			return nil, err
		}
		record := make([]string, len(header))
		for _, row := range rows {
			for i, key := range header {
				record[i] = fmt.Sprint(row[key])
			}
			if err := writer.Write(record); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("csv codec: cannot encode %T as CSV rows", value)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sortedKeys gives the header row a stable field order out of Go's
// unordered maps.
func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
