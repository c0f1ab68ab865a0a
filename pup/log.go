package pup

import (
	"time"

	"github.com/hupe1980/smartpup/logging"
)

// runLogger annotates every entry of a run with the pup name and run id.
func runLogger(l logging.Logger, pupName, runID string) logging.Logger {
	if pl, ok := l.(*logging.PupLogger); ok {
		return pl.ForRun(pupName, runID)
	}
	return &attrLogger{next: l, attrs: []any{"pup", pupName, "run_id", runID}}
}

func logModelCall(l logging.Logger, modelName string, tokens int, dur time.Duration, err error) {
	if err != nil {
		l.Error("pup.model.error", "model", modelName, "duration_ms", dur.Milliseconds(), "error", err.Error())
		return
	}
	l.Debug("pup.model.response", "model", modelName, "token_count", tokens, "duration_ms", dur.Milliseconds())
}

func logToolCall(l logging.Logger, toolName string, dur time.Duration, err error) {
	if err != nil {
		l.Warn("pup.tool.error", "tool", toolName, "duration_ms", dur.Milliseconds(), "error", err.Error())
		return
	}
	l.Debug("pup.tool.executed", "tool", toolName, "duration_ms", dur.Milliseconds())
}

func logRun(l logging.Logger, outcome string, iterations int, dur time.Duration, err error) {
	if err != nil {
		l.Error("pup.run.failed", "outcome", outcome, "iterations", iterations,
			"duration_ms", dur.Milliseconds(), "error", err.Error())
		return
	}
	l.Info("pup.run.completed", "outcome", outcome, "iterations", iterations, "duration_ms", dur.Milliseconds())
}

// attrLogger prefixes every entry with fixed key/value attributes.
type attrLogger struct {
	next  logging.Logger
	attrs []any
}

func (a *attrLogger) with(args []any) []any {
	return append(append(make([]any, 0, len(a.attrs)+len(args)), a.attrs...), args...)
}

func (a *attrLogger) Debug(msg string, args ...any) { a.next.Debug(msg, a.with(args)...) }
func (a *attrLogger) Info(msg string, args ...any)  { a.next.Info(msg, a.with(args)...) }
func (a *attrLogger) Warn(msg string, args ...any)  { a.next.Warn(msg, a.with(args)...) }
func (a *attrLogger) Error(msg string, args ...any) { a.next.Error(msg, a.with(args)...) }
