package core

import (
	"context"

	"github.com/hupe1980/smartpup/logging"
)

// ToolContext is the execution surface handed to a capability for one call.
// It carries the run scoped context, correlation identifiers and a logger
// already annotated with them.
type ToolContext struct {
	ctx            context.Context
	runID          string
	functionCallID string
	logger         logging.Logger
}

// NewToolContext constructs a tool context for a single capability call.
func NewToolContext(ctx context.Context, runID, functionCallID string, logger logging.Logger) *ToolContext {
	if ctx == nil {
		ctx = context.Background()
	}
	if logger == nil {
		logger = logging.NoOpLogger{}
	}

	return &ToolContext{
		ctx:            ctx,
		runID:          runID,
		functionCallID: functionCallID,
		logger:         logger,
	}
}

// Context returns the context associated with the tool invocation.
func (tc *ToolContext) Context() context.Context { return tc.ctx }

// RunID returns the id of the run that issued the call.
func (tc *ToolContext) RunID() string { return tc.runID }

// FunctionCallID returns the function call ID associated with the tool invocation.
func (tc *ToolContext) FunctionCallID() string { return tc.functionCallID }

// Logger returns the logger associated with the tool invocation.
func (tc *ToolContext) Logger() logging.Logger { return tc.logger }
