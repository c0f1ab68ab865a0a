package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level LogLevel) (*PupLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	cfg.Output = buf
	cfg.AddSource = false
	return NewLogger(cfg), buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestPupLogger_ForRun(t *testing.T) {
	l, buf := newBufferLogger(LogLevelDebug)

	run := l.ForRun("weather", "run-1")
	run.Info("pup.run.start", "iteration", 1, "model", "m")
	l.Info("outside")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "pup.run.start", lines[0]["msg"])
	assert.Equal(t, "pup", lines[0]["component"])
	assert.Equal(t, "weather", lines[0]["pup"])
	assert.Equal(t, "run-1", lines[0]["run_id"])
	assert.Equal(t, float64(1), lines[0]["iteration"])
	assert.Equal(t, "m", lines[0]["model"])

	// The parent logger is not affected by the run scope.
	assert.NotContains(t, lines[1], "run_id")
}

func TestPupLogger_LevelFiltering(t *testing.T) {
	l, buf := newBufferLogger(LogLevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.ErrorWithStack(errors.New("boom"), "also shown")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "shown", lines[0]["msg"])
	assert.Equal(t, "also shown", lines[1]["msg"])
}

func TestPupLogger_ErrorWithStack(t *testing.T) {
	l, buf := newBufferLogger(LogLevelInfo)

	l.ForRun("p", "r").ErrorWithStack(errors.New("boom"), "pup.tool.panic", "tool", "echo")

	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "boom", lines[0]["error"])
	assert.Equal(t, "*errors.errorString", lines[0]["error_type"])
	assert.Equal(t, "echo", lines[0]["tool"])
	assert.Equal(t, "r", lines[0]["run_id"])
	assert.Contains(t, lines[0]["stack_trace"], "TestPupLogger_ErrorWithStack")
}

func TestNewLogger_TextFormatAndAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewLogger(&LoggerConfig{
		Level:  LogLevelInfo,
		Format: "text",
		Output: buf,
		Attrs:  map[string]any{"service": "smartpup"},
	})

	l.Info("hello", "k", "v")

	out := buf.String()
	assert.Contains(t, out, "msg=hello")
	assert.Contains(t, out, "service=smartpup")
	assert.Contains(t, out, "k=v")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LogLevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LogLevelWarn, ParseLevel("warning"))
	assert.Equal(t, LogLevelError, ParseLevel("error"))
	assert.Equal(t, LogLevelInfo, ParseLevel("bogus"))
	assert.Equal(t, "WARN", LogLevelWarn.String())
}

func TestNoOpLogger(t *testing.T) {
	var l Logger = NoOpLogger{}
	l.Info("nothing", "k", "v")
}
