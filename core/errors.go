package core

import (
	"errors"
	"fmt"
)

// Kind is the top-level classification of a failed run.
type Kind string

const (
	// KindCognitive means the model itself signaled that it cannot proceed.
	KindCognitive Kind = "cognitive"
	// KindTechnical covers protocol, validation and system failures.
	KindTechnical Kind = "technical"
)

// Subkind refines a Kind.
type Subkind string

const (
	// SubkindNone is the unclassified default.
	SubkindNone Subkind = ""
	// SubkindInvalidJSON marks payloads that could not be parsed as JSON.
	SubkindInvalidJSON Subkind = "invalid_json"
	// SubkindSchemaViolation marks structured answers that fail the response schema.
	SubkindSchemaViolation Subkind = "schema_violation"
	// SubkindMissingRequirements marks absent configuration required by a capability.
	SubkindMissingRequirements Subkind = "missing_requirements"
	// SubkindUncertain marks a bail emitted by the model.
	SubkindUncertain Subkind = "uncertain"
)

var (
	// ErrIterationBudgetExhausted is wrapped when a run spends its model request budget.
	ErrIterationBudgetExhausted = errors.New("iteration budget exhausted")
	// ErrUnknownCapability is wrapped when the model requests a capability that is not in the active set.
	ErrUnknownCapability = errors.New("unknown capability")
	// ErrMalformedArguments is wrapped when a capability argument payload is not a JSON object.
	ErrMalformedArguments = errors.New("malformed capability arguments")
	// ErrCapabilityFailed is wrapped when a capability handler fails or panics.
	ErrCapabilityFailed = errors.New("capability failed")
	// ErrNoAnswer is wrapped when a reply carries neither content nor capability calls.
	ErrNoAnswer = errors.New("model produced neither an answer nor a capability request")
	// ErrMissingConfiguration is wrapped when a capability lacks required configuration values.
	ErrMissingConfiguration = errors.New("missing configuration")
)

// PupError is the terminal value of a failed run. Every failure surfaced by the
// orchestrator or the capability registry is a *PupError.
type PupError struct {
	Kind    Kind           `json:"kind"`
	Subkind Subkind        `json:"subkind,omitempty"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
	Err     error          `json:"-"` // Underlying cause, if any
}

// Error implements the error interface.
func (e *PupError) Error() string {
	if e.Subkind != SubkindNone {
		return fmt.Sprintf("%s(%s): %s", e.Kind, e.Subkind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *PupError) Unwrap() error { return e.Err }

// Detail returns a diagnostic value by key.
func (e *PupError) Detail(key string) (any, bool) {
	v, ok := e.Details[key]
	return v, ok
}

// NewBailError builds a cognitive failure from a model bail.
func NewBailError(reason, userMessage string) *PupError {
	return &PupError{
		Kind:    KindCognitive,
		Subkind: SubkindUncertain,
		Message: reason,
		Details: map[string]any{"user_message": userMessage},
	}
}

// NewTechnicalError builds a technical failure. cause may be nil.
func NewTechnicalError(subkind Subkind, message string, details map[string]any, cause error) *PupError {
	return &PupError{
		Kind:    KindTechnical,
		Subkind: subkind,
		Message: message,
		Details: details,
		Err:     cause,
	}
}

// Wrap converts any error into a *PupError. PupErrors anywhere in the chain are
// returned as is; everything else becomes an unclassified technical error.
func Wrap(err error) *PupError {
	if err == nil {
		return nil
	}
	if pe, ok := AsPupError(err); ok {
		return pe
	}
	return &PupError{
		Kind:    KindTechnical,
		Message: "unexpected error",
		Details: map[string]any{"error": err.Error()},
		Err:     err,
	}
}

// AsPupError extracts a *PupError from the error chain.
func AsPupError(err error) (*PupError, bool) {
	var pe *PupError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// IsBail reports whether err is a cognitive failure.
func IsBail(err error) bool {
	pe, ok := AsPupError(err)
	return ok && pe.Kind == KindCognitive
}

// IsTechnical reports whether err is a technical failure, optionally of one of the given subkinds.
func IsTechnical(err error, subkinds ...Subkind) bool {
	pe, ok := AsPupError(err)
	if !ok || pe.Kind != KindTechnical {
		return false
	}
	if len(subkinds) == 0 {
		return true
	}
	for _, sk := range subkinds {
		if pe.Subkind == sk {
			return true
		}
	}
	return false
}
