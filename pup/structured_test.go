package pup

import (
	"context"
	"testing"

	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/internal/testutil"
	"github.com/hupe1980/smartpup/model"
	"github.com/hupe1980/smartpup/response"
	"github.com/hupe1980/smartpup/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type weatherReport struct {
	Location    string  `json:"location" jsonschema:"City name"`
	Temperature float64 `json:"temperature"`
	Conditions  string  `json:"conditions"`
}

var reportSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"location":    map[string]any{"type": "string"},
		"temperature": map[string]any{"type": "number"},
		"conditions":  map[string]any{"type": "string"},
	},
	"required": []string{"location", "temperature"},
}

func TestRun_StructuredAnswer(t *testing.T) {
	m := model.NewScriptedModel("openai/gpt-4o-mini").Then(testutil.TextReply(
		"Here you go:\n```json\n{\"location\": \"Paris\", \"temperature\": 21.5, \"conditions\": \"sunny\", \"extra\": null}\n```",
	))

	p := newPup(t, m, func(o *Options) { o.ResponseSchema = reportSchema })

	res, err := p.Run(context.Background(), "weather in Paris")
	require.NoError(t, err)

	assert.Equal(t, KindStructured, res.Kind)
	assert.Equal(t, map[string]any{"location": "Paris", "temperature": 21.5, "conditions": "sunny"}, res.Data)

	// Validating the accepted result again gives the same verdict.
	v, err := response.NewValidator(reportSchema)
	require.NoError(t, err)
	require.NoError(t, v.Validate(res.Data))
	require.NoError(t, v.Validate(res.Data))

	var report weatherReport
	require.NoError(t, res.Decode(&report))
	assert.Equal(t, "Paris", report.Location)
	assert.JSONEq(t, `{"location":"Paris","temperature":21.5,"conditions":"sunny"}`, res.String())

	req := m.Requests()[0]
	assert.Equal(t, model.ResponseFormatJSONObject, req.ResponseFormat)
	assert.Contains(t, req.Contents[0].Text(), "You MUST respond with valid JSON matching this schema:")
}

func TestRun_SchemaViolationFailsImmediately(t *testing.T) {
	echo := &mockTool{name: "echo"}

	m := model.NewScriptedModel("claude").Then(
		testutil.NewResponseBuilder().
			Text(`{"location": "Paris"}`).
			Call("echo", map[string]any{"message": "x"}).
			Build(),
	)

	p := newPup(t, m, func(o *Options) {
		o.ResponseSchema = reportSchema
		o.Tools = tool.NewSet(echo)
	})

	_, err := p.Run(context.Background(), "weather in Paris")

	pe := requirePupError(t, err)
	assert.Equal(t, core.SubkindSchemaViolation, pe.Subkind)
	content, _ := pe.Detail("content")
	assert.JSONEq(t, `{"location":"Paris"}`, content.(string))
	assert.Equal(t, 1, m.Calls())
	echo.AssertNotCalled(t, "Call")

	assert.Equal(t, model.ResponseFormatText, m.Requests()[0].ResponseFormat)
}

func TestRun_InvalidJSONAnswer(t *testing.T) {
	m := model.NewScriptedModel("m").Then(testutil.TextReply("Sorry, it is sunny."))
	p := newPup(t, m, func(o *Options) { o.ResponseSchema = reportSchema })

	_, err := p.Run(context.Background(), "weather")
	assert.True(t, core.IsTechnical(err, core.SubkindInvalidJSON))
}

func TestRunAs_WithInferredSchema(t *testing.T) {
	schema, err := SchemaFor[weatherReport]()
	require.NoError(t, err)
	assert.Equal(t, "object", schema["type"])
	props := schema["properties"].(map[string]any)
	assert.Contains(t, props, "location")

	m := model.NewScriptedModel("m").Then(testutil.TextReply(
		`{"location": "Oslo", "temperature": -3, "conditions": "snow"}`,
	))
	p := newPup(t, m, func(o *Options) {
		o.ResponseSchema = schema
		o.ForceJSONResponseFormat = true
	})

	report, err := RunAs[weatherReport](context.Background(), p, "weather in Oslo")
	require.NoError(t, err)
	assert.Equal(t, weatherReport{Location: "Oslo", Temperature: -3, Conditions: "snow"}, report)
	assert.Equal(t, model.ResponseFormatJSONObject, m.Requests()[0].ResponseFormat)
}

func TestResultDecode_TextResult(t *testing.T) {
	res := &Result{Kind: KindText, Text: "plain"}
	var v map[string]any
	assert.True(t, core.IsTechnical(res.Decode(&v), core.SubkindInvalidJSON))
	assert.Equal(t, "plain", res.String())
}

func TestAsTool_NestedPup(t *testing.T) {
	inner := newPup(t,
		model.NewScriptedModel("inner").Then(testutil.TextReply(`{"location":"Rome","temperature":30}`)),
		func(o *Options) {
			o.Name = "weather_pup"
			o.Description = "Reports the weather"
			o.ResponseSchema = reportSchema
		},
	)

	reg := tool.NewRegistry()
	asTool := inner.RegisterAsTool(reg, "", "")
	assert.Equal(t, "weather_pup", asTool.Name())
	assert.Equal(t, "Reports the weather", asTool.Description())
	assert.Equal(t, []string{"prompt"}, asTool.Parameters()["required"])

	outer := model.NewScriptedModel("outer").
		Then(testutil.CallReply("weather_pup", map[string]any{"prompt": "Rome?"})).
		ThenFunc(func(req model.Request) (*model.Response, error) {
			r := testutil.TextReply("Inner said " + testutil.LastToolResults(req)[0].Response)
			return &r, nil
		})

	p := newPup(t, outer, func(o *Options) { o.Tools = reg.Get() })

	res, err := p.Run(context.Background(), "How is Rome?")
	require.NoError(t, err)
	assert.Contains(t, res.Text, `"location": "Rome"`)

	unnamed := newPup(t, model.NewScriptedModel("x")).AsTool("", "")
	assert.Contains(t, unnamed.Name(), "unnamed_pup_")
	assert.Equal(t, "No description provided", unnamed.Description())
}
