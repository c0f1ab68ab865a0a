package response

import (
	"testing"

	"github.com/hupe1980/smartpup/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var personSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"name": map[string]any{"type": "string"},
		"age":  map[string]any{"type": "integer"},
		"address": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"city": map[string]any{"type": "string"},
			},
		},
	},
	"required": []string{"name", "age"},
}

func TestStripFence(t *testing.T) {
	cases := map[string]string{
		"here you go:\n```json\n{\"a\":1}\n```":           `{"a":1}`,
		"```\n{\"a\":1}\n```":                             `{"a":1}`,
		"```{\"a\":1}```":                                 `{"a":1}`,
		"  {\"a\":1}  ":                                   `{"a":1}`,
		"```json\n{\"a\":1}":                              "```json\n{\"a\":1}",
		"{\"code\":\"```go\\nx\\n```\"}":                  "{\"code\":\"```go\\nx\\n```\"}",
		"See:\n```\nls -la\n```\n```json\n{\"a\":1}\n```": `{"a":1}`,
		"See:\n```\nls -la\n```\nAnswer: {\"a\":1}":       "See:\n```\nls -la\n```\nAnswer: {\"a\":1}",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripFence(in), "input %q", in)
	}
}

func TestExtractObject(t *testing.T) {
	obj, err := ExtractObject(StripFence("here you go:\n```json\n{\"a\":1}\n```"))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, obj)

	obj, err = ExtractObject(`Sure! {"a":{"b":{"c":1}},"d":2} trailing {"x":1}`)
	require.NoError(t, err)
	assert.Equal(t, `{"a":{"b":{"c":1}},"d":2}`, obj)

	obj, err = ExtractObject(`{"s":"} not the end {","t":"\"}"}`)
	require.NoError(t, err)
	assert.Equal(t, `{"s":"} not the end {","t":"\"}"}`, obj)

	_, err = ExtractObject("no json here")
	assert.ErrorIs(t, err, ErrNoObject)

	_, err = ExtractObject(`{"a":{"b":1}`)
	assert.ErrorIs(t, err, ErrNoObject)
}

func TestClean(t *testing.T) {
	doc := Clean(map[string]any{
		"keep":   "x",
		"drop":   nil,
		"empty":  map[string]any{},
		"nested": map[string]any{"n": nil, "v": 1.0, "e": map[string]any{}},
		"list":   []any{nil, map[string]any{}},
	})

	assert.Equal(t, map[string]any{
		"keep":   "x",
		"nested": map[string]any{"v": 1.0},
		"list":   []any{nil, map[string]any{}},
	}, doc)
}

func TestClean_SchemaEcho(t *testing.T) {
	echo := Clean(map[string]any{"type": "object", "properties": map[string]any{"x": 1.0}, "required": []any{"name"}, "name": "ada"})
	assert.Equal(t, map[string]any{"name": "ada"}, echo)

	// A lone "type" key is data, not an echo.
	data := Clean(map[string]any{"type": "cat", "name": "tom"})
	assert.Equal(t, map[string]any{"type": "cat", "name": "tom"}, data)
}

func TestInterpret_Success(t *testing.T) {
	v, err := NewValidator(personSchema)
	require.NoError(t, err)

	doc, err := Interpret("Result:\n```json\n{\"name\":\"Ada\",\"age\":36,\"address\":{\"city\":null}}\n```", v)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "Ada", "age": 36.0, "address": map[string]any{}}, doc)

	codeSchema, err := NewValidator(map[string]any{
		"type":       "object",
		"properties": map[string]any{"code": map[string]any{"type": "string"}},
		"required":   []string{"code"},
	})
	require.NoError(t, err)

	doc, err = Interpret("{\"code\": \"```go\\nfmt.Println(1)\\n```\"}", codeSchema)
	require.NoError(t, err)
	assert.Equal(t, "```go\nfmt.Println(1)\n```", doc["code"])

	doc, err = Interpret("Here is the example:\n```\nls -la\n```\nAnswer: {\"code\": \"ls\"}", codeSchema)
	require.NoError(t, err)
	assert.Equal(t, "ls", doc["code"])

	doc, err = Interpret("```json\n{\"code\": \"```sh\\nls\\n```\"}\n```", codeSchema)
	require.NoError(t, err)
	assert.Equal(t, "```sh\nls\n```", doc["code"])

	// Re-validating an accepted result is idempotent.
	require.NoError(t, v.Validate(doc))
	require.NoError(t, v.Validate(doc))
}

func TestInterpret_Failures(t *testing.T) {
	v, err := NewValidator(personSchema)
	require.NoError(t, err)

	_, err = Interpret("I cannot produce JSON", v)
	require.True(t, core.IsTechnical(err, core.SubkindInvalidJSON))
	pe, _ := core.AsPupError(err)
	content, ok := pe.Detail("content")
	require.True(t, ok)
	assert.Equal(t, "I cannot produce JSON", content)

	_, err = Interpret(`{"name": "Ada", "age": }`, v)
	assert.True(t, core.IsTechnical(err, core.SubkindInvalidJSON))

	_, err = Interpret(`{"name": "Ada"}`, v)
	require.True(t, core.IsTechnical(err, core.SubkindSchemaViolation))
	pe, _ = core.AsPupError(err)
	content, _ = pe.Detail("content")
	assert.JSONEq(t, `{"name":"Ada"}`, content.(string))
	_, ok = pe.Detail("error")
	assert.True(t, ok)

	_, err = Interpret(`{"name": "Ada", "age": "old"}`, v)
	assert.True(t, core.IsTechnical(err, core.SubkindSchemaViolation))
}

func TestClassify(t *testing.T) {
	calls := []core.FunctionCall{{ID: "1", Name: "echo"}}

	c := Classify("  BAIL: no idea ", calls, "BAIL:")
	assert.Equal(t, KindBail, c.Kind)
	assert.Equal(t, "no idea", c.Content)

	c = Classify("answer", calls, "BAIL:")
	assert.Equal(t, KindAnswer, c.Kind)
	assert.Equal(t, "answer", c.Content)

	c = Classify("   ", calls, "BAIL:")
	assert.Equal(t, KindDispatch, c.Kind)
	assert.Len(t, c.Calls, 1)

	c = Classify("", nil, "BAIL:")
	assert.Equal(t, KindEmpty, c.Kind)
	assert.Equal(t, "empty", c.Kind.String())
}

func TestValidatorSchemaRoundTrip(t *testing.T) {
	v, err := NewValidator(personSchema)
	require.NoError(t, err)
	assert.Equal(t, "object", v.Schema()["type"])

	v2, err := NewValidatorFromSchema(nil)
	assert.Error(t, err)
	assert.Nil(t, v2)
}
