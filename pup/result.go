package pup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/hupe1980/smartpup/core"
)

// ResultKind tells text answers from structured ones.
type ResultKind string

const (
	// KindText is a verbatim answer.
	KindText ResultKind = "text"
	// KindStructured is a JSON object validated against the response schema.
	KindStructured ResultKind = "structured"
)

// Result is the terminal value of a successful run.
type Result struct {
	Kind ResultKind `json:"kind"`
	// Text is the trimmed answer. For structured results it is the raw reply.
	Text string `json:"text"`
	// Data holds the cleaned, validated document of a structured result.
	Data       map[string]any `json:"data,omitempty"`
	Iterations int            `json:"iterations"`
	RunID      string         `json:"run_id"`
}

// Decode converts a structured result into v.
func (r *Result) Decode(v any) error {
	if r.Kind != KindStructured {
		return core.NewTechnicalError(core.SubkindInvalidJSON, "result is not structured",
			map[string]any{"content": r.Text}, nil)
	}

	raw, err := json.Marshal(r.Data)
	if err != nil {
		return core.NewTechnicalError(core.SubkindInvalidJSON, "failed to encode result",
			map[string]any{"error": err.Error()}, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return core.NewTechnicalError(core.SubkindSchemaViolation, "failed to decode result",
			map[string]any{"content": string(raw), "error": err.Error()}, err)
	}

	return nil
}

// String renders the answer: text verbatim, structured data as indented JSON.
func (r *Result) String() string {
	if r.Kind != KindStructured {
		return r.Text
	}

	raw, err := json.MarshalIndent(r.Data, "", "    ")
	if err != nil {
		return r.Text
	}

	return string(raw)
}

// RunAs runs p and decodes the structured answer into T.
func RunAs[T any](ctx context.Context, p *Pup, userMessage string, optFns ...func(o *RunOptions)) (T, error) {
	var out T

	res, err := p.Run(ctx, userMessage, optFns...)
	if err != nil {
		return out, err
	}

	if err := res.Decode(&out); err != nil {
		return out, err
	}

	return out, nil
}

// SchemaFor infers a response schema from T's exported fields. Field
// descriptions come from `jsonschema` struct tags.
func SchemaFor[T any]() (map[string]any, error) {
	s, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("infer schema: %w", err)
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode schema: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}

	return m, nil
}

// MustSchemaFor is SchemaFor that panics on error, for package level setup.
func MustSchemaFor[T any]() map[string]any {
	m, err := SchemaFor[T]()
	if err != nil {
		panic(err)
	}
	return m
}
