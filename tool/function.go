package tool

import (
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/response"
)

// FunctionTool is a generic adapter that exposes a plain Go function as a tool.
//
// Responsibilities:
//   - Holds the JSON schema derived from a Contract (or supplied verbatim)
//   - Validates model supplied arguments against that schema before execution
//   - Fills advertised defaults for omitted optional arguments
//   - Normalizes error handling so callers receive *ToolError with consistent codes:
//     VALIDATION_ERROR  -> schema / argument mismatch
//     EXECUTION_ERROR   -> underlying function returned an error (non-ToolError)
//     (custom codes preserved if the function returns *ToolError directly)
//
// A FunctionTool has no mutable state after construction and is safe for
// concurrent use by multiple goroutines.
type FunctionTool struct {
	name        string
	description string
	parameters  map[string]any
	validator   *response.Validator
	warnings    []string
	fn          Handler
}

// NewFunctionTool constructs a FunctionTool from an explicit schema and function.
// A schema that does not compile disables argument validation and is reported
// through Warnings.
func NewFunctionTool(name, description string, parameters map[string]any, fn Handler) *FunctionTool {
	t := &FunctionTool{
		name:        name,
		description: description,
		parameters:  parameters,
		fn:          fn,
	}

	if parameters != nil {
		v, err := response.NewValidator(parameters)
		if err != nil {
			t.warnings = append(t.warnings, fmt.Sprintf("%s: parameter schema not enforced: %v", name, err))
		} else {
			t.validator = v
		}
	}

	return t
}

// New derives the contract from the declared parameters and wraps fn.
//
// Example:
//
//	greet := tool.New("greet", "Greet someone",
//	  func(tc *core.ToolContext, args map[string]any) (any, error) {
//	    return fmt.Sprintf("hello %s (x%v)", args["name"], args["count"]), nil
//	  },
//	  tool.Required("name", tool.String(), "Who to greet"),
//	  tool.Optional("count", tool.Integer(), 3, "How many times"),
//	)
func New(name, description string, fn Handler, params ...Param) *FunctionTool {
	contract, warnings := DeriveContract(name, description, params...)
	t := FromContract(contract, fn)
	t.warnings = append(warnings, t.warnings...)
	return t
}

// FromContract wraps fn behind an already derived contract.
func FromContract(c Contract, fn Handler) *FunctionTool {
	return NewFunctionTool(c.Name, c.Description, c.Schema(), fn)
}

// Name returns the unique tool name used in function call declarations and routing.
func (t *FunctionTool) Name() string { return t.name }

// Description returns the short natural language description exposed to models.
func (t *FunctionTool) Description() string { return t.description }

// Parameters returns the JSON schema describing expected arguments.
func (t *FunctionTool) Parameters() map[string]any { return t.parameters }

// Warnings returns the contract derivation warnings, if any.
func (t *FunctionTool) Warnings() []string { return t.warnings }

// Call validates the provided args against the declared schema, fills
// defaults and invokes the underlying function.
//
// Logging Fields:
//
//	tool: tool name
//	fc_id: function call identifier (correlates model request & tool execution)
//	duration_ms: execution time in milliseconds
func (t *FunctionTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	logger := toolCtx.Logger()
	start := time.Now()

	logger.Debug("tool.call.start", "tool", t.name, "fc_id", toolCtx.FunctionCallID())

	args = withoutNulls(args)

	if t.validator != nil {
		if err := t.validator.Validate(args); err != nil {
			logger.Warn("tool.call.validation_failed", "tool", t.name, "error", err.Error())

			return nil, &ToolError{
				Tool:    t.name,
				Message: fmt.Sprintf("parameter validation failed: %v", err),
				Code:    CodeValidation,
				Details: &ValidationError{Message: err.Error()},
			}
		}
	}

	result, err := t.fn(toolCtx, withDefaults(args, t.parameters))
	if err != nil {
		var toolErr *ToolError
		if errors.As(err, &toolErr) { // Already a ToolError -> just log and forward
			logger.Error("tool.call.error", "tool", t.name, "error", toolErr.Message)

			return nil, toolErr
		}

		logger.Error("tool.call.error", "tool", t.name, "error", err.Error())

		return nil, &ToolError{
			Tool:    t.name,
			Message: err.Error(),
			Code:    CodeExecution,
		}
	}

	logger.Info("tool.call.success", "tool", t.name, "duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

// withDefaults returns a copy of args with schema defaults filled in.
// withoutNulls drops null arguments so they count as omitted.
func withoutNulls(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if v != nil {
			out[k] = v
		}
	}
	return out
}

func withDefaults(args map[string]any, schema map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	maps.Copy(out, args)

	props, _ := schema["properties"].(map[string]any)
	for name, raw := range props {
		prop, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		def, ok := prop["default"]
		if !ok {
			continue
		}
		if _, present := out[name]; !present {
			out[name] = def
		}
	}

	return out
}
