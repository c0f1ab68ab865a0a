package model

import (
	"context"
	"fmt"
	"sync"

	"github.com/hupe1980/smartpup/core"
)

// ToolDefinition declaratively exposes a callable function to the model.
type ToolDefinition struct {
	Type     string             `json:"type"` // "function"
	Function FunctionDefinition `json:"function"`
}

// FunctionDefinition describes an individual function (tool) exposed to the model.
// Parameters is a JSON Schema object (draft agnostic, minimal subset expected).
type FunctionDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON Schema
}

// ResponseFormat hints the provider about the expected reply encoding.
type ResponseFormat string

const (
	// ResponseFormatText is the provider default.
	ResponseFormatText ResponseFormat = ""
	// ResponseFormatJSONObject asks the provider to emit a JSON object.
	ResponseFormatJSONObject ResponseFormat = "json_object"
)

// Request captures one completion call.
type Request struct {
	Model          string           `json:"model,omitempty"` // Overrides the adapter default when set
	Contents       []core.Content   `json:"contents"`
	Tools          []ToolDefinition `json:"tools,omitempty"`
	Temperature    *float64         `json:"temperature,omitempty"`
	ResponseFormat ResponseFormat   `json:"response_format,omitempty"`
}

// TokenUsage captures token usage statistics for a response.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response is the single assistant message returned for a Request. Content
// holds optional text parts and zero or more core.FunctionCallPart values.
type Response struct {
	ID           string       `json:"id"`
	Content      core.Content `json:"content"`
	FinishReason string       `json:"finish_reason"` // "stop", "length", "tool_calls", etc.
	Usage        *TokenUsage  `json:"usage,omitempty"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name          string `json:"name"`
	Provider      string `json:"provider"` // "openai", "anthropic", "scripted", etc.
	SupportsTools bool   `json:"supports_tools"`
}

// Model is the completion endpoint consumed by the orchestrator.
type Model interface {
	// Generate issues one completion request.
	Generate(ctx context.Context, req Request) (*Response, error)

	// Info returns information about the model implementation.
	Info() Info
}

// Float returns a pointer to f, convenient for Request.Temperature.
func Float(f float64) *float64 { return &f }

// ScriptedModel is a deterministic in-memory Model for tests & examples. Each
// Generate call consumes the next scripted step; once exhausted it fails, or
// repeats the final step when RepeatLast was requested.
type ScriptedModel struct {
	mu         sync.Mutex
	info       Info
	steps      []func(Request) (*Response, error)
	next       int
	repeatLast bool
	requests   []Request
}

// NewScriptedModel constructs an empty script.
func NewScriptedModel(name string) *ScriptedModel {
	return &ScriptedModel{info: Info{Name: name, Provider: "scripted", SupportsTools: true}}
}

// Then appends a canned response.
func (m *ScriptedModel) Then(resp Response) *ScriptedModel {
	return m.ThenFunc(func(Request) (*Response, error) {
		r := resp
		return &r, nil
	})
}

// ThenError appends a failing step.
func (m *ScriptedModel) ThenError(err error) *ScriptedModel {
	return m.ThenFunc(func(Request) (*Response, error) { return nil, err })
}

// ThenFunc appends a step computed from the request.
func (m *ScriptedModel) ThenFunc(fn func(Request) (*Response, error)) *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.steps = append(m.steps, fn)
	return m
}

// RepeatLast makes the final step answer every further request.
func (m *ScriptedModel) RepeatLast() *ScriptedModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.repeatLast = true
	return m
}

// Generate implements Model.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	idx := m.next
	if idx >= len(m.steps) {
		if !m.repeatLast || len(m.steps) == 0 {
			m.mu.Unlock()
			return nil, fmt.Errorf("scripted model %s: no response scripted for request %d", m.info.Name, idx+1)
		}
		idx = len(m.steps) - 1
	} else {
		m.next++
	}
	step := m.steps[idx]
	m.mu.Unlock()

	return step(req)
}

// Requests returns a copy of every request received so far.
func (m *ScriptedModel) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns the number of Generate invocations.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Info implements Model.
func (m *ScriptedModel) Info() Info { return m.info }
