package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/model"
)

// ResponseBuilder provides a fluent helper for constructing model replies.
// Example:
//
//	resp := NewResponseBuilder().Call("echo", map[string]any{"message": "hi"}).Build()
//
// Chain only the parts you need; call ids default to call_1, call_2, ...
type ResponseBuilder struct {
	text  string
	calls []core.FunctionCall
	usage *model.TokenUsage
}

// NewResponseBuilder creates an empty reply builder.
func NewResponseBuilder() *ResponseBuilder { return &ResponseBuilder{} }

// Text sets the reply content.
func (b *ResponseBuilder) Text(text string) *ResponseBuilder {
	b.text = text
	return b
}

// Call appends a capability call with JSON encoded args.
func (b *ResponseBuilder) Call(name string, args map[string]any) *ResponseBuilder {
	raw, err := json.Marshal(args)
	if err != nil {
		panic(err)
	}
	return b.RawCall(fmt.Sprintf("call_%d", len(b.calls)+1), name, string(raw))
}

// RawCall appends a capability call with an explicit id and raw payload.
func (b *ResponseBuilder) RawCall(id, name, arguments string) *ResponseBuilder {
	b.calls = append(b.calls, core.FunctionCall{ID: id, Name: name, Arguments: arguments})
	return b
}

// Usage sets token usage.
func (b *ResponseBuilder) Usage(prompt, completion int) *ResponseBuilder {
	b.usage = &model.TokenUsage{PromptTokens: prompt, CompletionTokens: completion, TotalTokens: prompt + completion}
	return b
}

// Build assembles the reply.
func (b *ResponseBuilder) Build() model.Response {
	parts := make([]core.Part, 0, len(b.calls)+1)
	if b.text != "" {
		parts = append(parts, core.TextPart{Text: b.text})
	}
	for _, fc := range b.calls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: fc})
	}

	finish := "stop"
	if len(b.calls) > 0 {
		finish = "tool_calls"
	}

	return model.Response{
		ID:           "resp_test",
		Content:      core.Content{Role: core.RoleAssistant, Parts: parts},
		FinishReason: finish,
		Usage:        b.usage,
	}
}

// TextReply is shorthand for a plain text reply.
func TextReply(text string) model.Response {
	return NewResponseBuilder().Text(text).Build()
}

// CallReply is shorthand for a reply carrying a single capability call.
func CallReply(name string, args map[string]any) model.Response {
	return NewResponseBuilder().Call(name, args).Build()
}

// LastToolResults returns the tool responses of the most recent tool turn in req.
func LastToolResults(req model.Request) []core.FunctionResponse {
	var out []core.FunctionResponse
	for i := len(req.Contents) - 1; i >= 0; i-- {
		c := req.Contents[i]
		if c.Role != core.RoleTool {
			break
		}
		out = append(c.FunctionResponses(), out...)
	}
	return out
}
