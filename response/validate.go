package response

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Validator checks documents against a resolved JSON schema. It is immutable
// and safe for concurrent use.
type Validator struct {
	raw      map[string]any
	resolved *jsonschema.Resolved
}

// NewValidator compiles a JSON schema given as a decoded map.
func NewValidator(schema map[string]any) (*Validator, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("encode response schema: %w", err)
	}

	var s jsonschema.Schema
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode response schema: %w", err)
	}

	return newValidator(&s, schema)
}

// NewValidatorFromSchema compiles an already typed schema.
func NewValidatorFromSchema(s *jsonschema.Schema) (*Validator, error) {
	if s == nil {
		return nil, fmt.Errorf("response schema is nil")
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode response schema: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode response schema: %w", err)
	}

	return newValidator(s, m)
}

func newValidator(s *jsonschema.Schema, m map[string]any) (*Validator, error) {
	resolved, err := s.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve response schema: %w", err)
	}

	return &Validator{raw: m, resolved: resolved}, nil
}

// Schema returns the schema as a JSON compatible map.
func (v *Validator) Schema() map[string]any { return v.raw }

// Validate checks doc, a decoded JSON value, against the schema.
func (v *Validator) Validate(doc any) error {
	return v.resolved.Validate(doc)
}
