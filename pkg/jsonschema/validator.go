// Package jsonschema validates JSON response bodies against JSON Schema
// documents.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationErrors collects the individual failures of one validation.
type ValidationErrors []error

// Error implements the error interface.
func (ve ValidationErrors) Error() string {
	parts := make([]string, len(ve))
	for i, err := range ve {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

// Validate reports whether body conforms to the given schema. A malformed
// schema or body is an error; a body that merely fails the schema is not.
func Validate(body, schema string) (bool, error) {
	compiled, err := compile(schema)
	if err != nil {
		return false, err
	}

	var value interface{}
	if err := json.Unmarshal([]byte(body), &value); err != nil {
		return false, fmt.Errorf("invalid JSON: %w", err)
	}

	return compiled.Validate(value) == nil, nil
}

// ValidateWithErrors is Validate with the schema failures spelled out.
func ValidateWithErrors(body, schema string) (bool, ValidationErrors) {
	compiled, err := compile(schema)
	if err != nil {
		return false, ValidationErrors{err}
	}

	var value interface{}
	if err := json.Unmarshal([]byte(body), &value); err != nil {
		return false, ValidationErrors{fmt.Errorf("invalid JSON: %w", err)}
	}

	if err := compiled.Validate(value); err != nil {
		if verr, ok := err.(*jsonschema.ValidationError); ok {
			return false, flatten(verr)
		}
		return false, ValidationErrors{err}
	}
	return true, nil
}

func compile(schema string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return compiled, nil
}

func flatten(err *jsonschema.ValidationError) ValidationErrors {
	var errs ValidationErrors
	if err.Message != "" {
		errs = append(errs, fmt.Errorf("validation error at %s: %s", err.InstanceLocation, err.Message))
	}
	for _, cause := range err.Causes {
		errs = append(errs, flatten(cause)...)
	}
	return errs
}
