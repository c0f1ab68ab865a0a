package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionJSON = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "openai/gpt-4o-mini",
  "choices": [{
    "index": 0,
    "finish_reason": "tool_calls",
    "logprobs": null,
    "message": {
      "role": "assistant",
      "content": "",
      "refusal": "",
      "tool_calls": [{
        "id": "call_1",
        "type": "function",
        "function": {"name": "echo", "arguments": "{\"message\":\"hello\"}"}
      }]
    }
  }],
  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func TestModel_GenerateRoundTrip(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionJSON))
	}))
	defer srv.Close()

	m := NewModel(func(o *Options) {
		o.BaseURL = srv.URL + "/v1"
		o.APIKey = "test-key"
		o.MaxRetries = 0
	})

	req := model.Request{
		Contents: []core.Content{
			core.NewTextContent(core.RoleSystem, "sys"),
			core.NewTextContent(core.RoleUser, "echo hello"),
		},
		Tools: []model.ToolDefinition{{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        "echo",
				Description: "Echo a message",
				Parameters: map[string]any{
					"type":       "object",
					"properties": map[string]any{"message": map[string]any{"type": "string"}},
					"required":   []string{"message"},
				},
			},
		}},
		Temperature:    model.Float(0.2),
		ResponseFormat: model.ResponseFormatJSONObject,
	}

	resp, err := m.Generate(context.Background(), req)
	require.NoError(t, err)

	calls := resp.Content.FunctionCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "call_1", calls[0].ID)
	assert.Equal(t, "echo", calls[0].Name)
	assert.JSONEq(t, `{"message":"hello"}`, calls[0].Arguments)
	assert.Equal(t, "", resp.Content.Text())
	assert.Equal(t, 15, resp.Usage.TotalTokens)

	assert.Equal(t, DefaultModel, body["model"])
	assert.Equal(t, 0.2, body["temperature"])
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
	tools, _ := body["tools"].([]any)
	assert.Len(t, tools, 1)
	msgs, _ := body["messages"].([]any)
	assert.Len(t, msgs, 2)
}

func TestBuildMessages_ToolTurn(t *testing.T) {
	conv := core.NewConversation("sys", "hi")
	require.NoError(t, conv.AppendToolTurn("",
		[]core.FunctionCall{{ID: "a", Name: "echo", Arguments: `{"message":"x"}`}, {ID: "b", Name: "echo", Arguments: `{}`}},
		[]core.FunctionResponse{{ID: "a", Name: "echo", Response: "x"}, {ID: "b", Name: "echo", Error: "boom"}},
	))

	msgs := buildMessages(conv.Messages())
	require.Len(t, msgs, 5)
	require.NotNil(t, msgs[2].OfAssistant)
	assert.Len(t, msgs[2].OfAssistant.ToolCalls, 2)
	require.NotNil(t, msgs[3].OfTool)
	assert.Equal(t, "a", msgs[3].OfTool.ToolCallID)
	require.NotNil(t, msgs[4].OfTool)
	assert.Equal(t, "b", msgs[4].OfTool.ToolCallID)
	assert.Equal(t, "error: boom", msgs[4].OfTool.Content.OfString.Value)
}

func TestModel_Info(t *testing.T) {
	m := NewModel(func(o *Options) { o.Model = "gpt-test"; o.APIKey = "k" })
	assert.Equal(t, model.Info{Name: "gpt-test", Provider: "openai", SupportsTools: true}, m.Info())
}
