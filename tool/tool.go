// Package tool implements the capability subsystem: declarative call contracts,
// function backed tools with validated arguments, and the registry that
// discovers, holds and projects the capabilities advertised to the model.
package tool

import (
	"fmt"

	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/model"
)

// Tool is a named capability the model may invoke.
//
// Implementations should be safe for concurrent use: the orchestrator may
// run several calls of the same tool within one iteration.
type Tool interface {
	// Name returns the unique identifier for this tool (snake_case recommended).
	Name() string

	// Description returns a human-readable description shown to the model.
	Description() string

	// Parameters returns the JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with decoded arguments. The returned value is
	// rendered as text before it is fed back to the model.
	Call(toolCtx *core.ToolContext, args map[string]any) (any, error)
}

// Handler is the dispatchable entry point of a capability.
type Handler func(toolCtx *core.ToolContext, args map[string]any) (any, error)

// ValidationError describes a rejected argument.
type ValidationError struct {
	Field   string `json:"field,omitempty"`
	Value   any    `json:"value,omitempty"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Message
	}
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// Error codes carried by ToolError.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeExecution  = "EXECUTION_ERROR"
)

// ToolError represents errors that occur during tool execution.
type ToolError struct {
	Tool    string `json:"tool"`              // Name of the tool that failed
	Message string `json:"message"`           // Error message
	Code    string `json:"code"`              // Error code for categorization
	Details any    `json:"details,omitempty"` // Additional error details
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}
	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a new ToolError with the specified details.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{
		Tool:    tool,
		Message: message,
		Code:    code,
	}
}

// Describe converts a tool into the definition advertised to the model.
func Describe(t Tool) model.ToolDefinition {
	return model.ToolDefinition{
		Type: "function",
		Function: model.FunctionDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		},
	}
}
