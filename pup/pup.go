package pup

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/internal/util"
	"github.com/hupe1980/smartpup/logging"
	"github.com/hupe1980/smartpup/model"
	"github.com/hupe1980/smartpup/response"
	"github.com/hupe1980/smartpup/tool"
)

// DefaultBailSentinel prefixes replies in which the model gives up.
const DefaultBailSentinel = "BAIL:"

// Options configures a Pup. The zero value of every field except those noted
// is usable; defaults are applied before the functional options run.
type Options struct {
	// Name and Description identify the pup in logs, metrics and AsTool.
	Name        string
	Description string

	// Instructions is the base system prompt. It may use text/template
	// syntax rendered once against InstructionState.
	Instructions     string
	InstructionState map[string]any

	// ResponseSchema, when set, turns every answer into a structured answer
	// that must validate against it.
	ResponseSchema map[string]any

	// ModelName overrides the model adapter default per request.
	ModelName string

	// MaxIterations bounds the number of model requests of one run (default 10).
	MaxIterations int

	// Temperature is sent with every request (default 0.7).
	Temperature float64

	// Tools is the default capability set; RunOptions.Tools overrides it per run.
	Tools tool.Set

	// Logger defaults to NoOpLogger.
	Logger logging.Logger

	// MaxParallelTools bounds concurrent handlers within one iteration (0 = unbounded).
	MaxParallelTools int

	// BailSentinel defaults to DefaultBailSentinel.
	BailSentinel string

	// FeedToolErrors returns handler errors and panics to the model as error
	// results and continues the run. By default the first failure ends the
	// run with a technical error.
	FeedToolErrors bool

	// ForceJSONResponseFormat requests provider side JSON mode whenever a
	// schema is set. Without it JSON mode is only requested for OpenAI models.
	ForceJSONResponseFormat bool
}

// RunOptions adjusts a single run.
type RunOptions struct {
	// Tools replaces the default capability set for this run only.
	Tools tool.Set
}

// Pup is a configured orchestrator. It is immutable after New and safe for
// concurrent runs; runs share no state.
type Pup struct {
	model          model.Model
	opts           Options
	systemPrompt   string
	validator      *response.Validator
	responseFormat model.ResponseFormat
}

// New validates the options and prepares the system prompt.
func New(m model.Model, optFns ...func(o *Options)) (*Pup, error) {
	opts := Options{
		MaxIterations: 10,
		Temperature:   0.7,
		Logger:        logging.NoOpLogger{},
		BailSentinel:  DefaultBailSentinel,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if m == nil {
		return nil, core.NewTechnicalError(core.SubkindMissingRequirements, "a model is required", nil, nil)
	}
	if opts.MaxIterations <= 0 {
		return nil, core.NewTechnicalError(core.SubkindMissingRequirements,
			fmt.Sprintf("max iterations must be positive, got %d", opts.MaxIterations),
			map[string]any{"max_iterations": opts.MaxIterations}, nil)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.BailSentinel == "" {
		opts.BailSentinel = DefaultBailSentinel
	}

	instructions, err := util.RenderTemplate(opts.Instructions, opts.InstructionState)
	if err != nil {
		return nil, core.NewTechnicalError(core.SubkindNone, "failed to render instructions",
			map[string]any{"error": err.Error()}, err)
	}

	p := &Pup{
		model:        m,
		opts:         opts,
		systemPrompt: instructions + "\n\n" + bailDirective(opts.BailSentinel),
	}

	if opts.ResponseSchema != nil {
		v, err := response.NewValidator(opts.ResponseSchema)
		if err != nil {
			return nil, core.NewTechnicalError(core.SubkindSchemaViolation, "invalid response schema",
				map[string]any{"error": err.Error()}, err)
		}
		p.validator = v

		directive, err := jsonDirective(opts.ResponseSchema)
		if err != nil {
			return nil, core.Wrap(err)
		}
		p.systemPrompt += "\n\n" + directive

		modelName := opts.ModelName
		if modelName == "" {
			modelName = m.Info().Name
		}
		if opts.ForceJSONResponseFormat || strings.Contains(strings.ToLower(modelName), "openai") {
			p.responseFormat = model.ResponseFormatJSONObject
		}
	}

	return p, nil
}

// Name returns the configured pup name.
func (p *Pup) Name() string { return p.opts.Name }

// Description returns the configured pup description.
func (p *Pup) Description() string { return p.opts.Description }

// SystemPrompt returns the fully assembled system message.
func (p *Pup) SystemPrompt() string { return p.systemPrompt }

func bailDirective(sentinel string) string {
	return fmt.Sprintf(`Important Instructions:
1. You are a specialized assistant with a specific task. Stay focused on that task.
2. Do not engage in conversation or ask follow-up questions.
3. If you cannot complete the task with the information and tools provided, respond with %[1]s

When to bail:
- If required information is missing
- If the request is unclear or ambiguous
- If you're unsure about anything
- If the task is outside your specific role

How to bail:
Respond with: %[1]s <clear explanation of why you cannot proceed>

Remember: It's better to bail clearly than to guess wildly or ask for clarification.`, sentinel)
}

func jsonDirective(schema map[string]any) (string, error) {
	raw, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode response schema: %w", err)
	}

	return "You MUST respond with valid JSON matching this schema:\n" + string(raw) +
		"\nAlways respond with properly formatted JSON, never with plain text.", nil
}
