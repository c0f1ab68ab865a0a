// Package smartpup wires configuration, a model adapter, the built-in
// capability registry and a structured logger into a ready to run pup.Pup.
//
// Typical use:
//
//	p, err := smartpup.New("You are a weather assistant.", func(o *smartpup.Options) {
//		o.Tools = []string{"get_current_weather"}
//	})
//	res, err := p.Run(ctx, "What's the weather like in Amsterdam?")
//
// Every collaborator can be replaced through Options; unset ones are built
// from config.Load.
package smartpup

import (
	"fmt"
	"strings"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/hupe1980/smartpup/config"
	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/logging"
	"github.com/hupe1980/smartpup/model"
	"github.com/hupe1980/smartpup/model/anthropic"
	"github.com/hupe1980/smartpup/model/openai"
	"github.com/hupe1980/smartpup/pup"
	"github.com/hupe1980/smartpup/tool"
	"github.com/hupe1980/smartpup/tool/builtin"
)

// Options configures New.
type Options struct {
	// Config defaults to config.Load(ConfigPath).
	Config     *config.Config
	ConfigPath string

	// Model defaults to NewModel(Config.Model).
	Model model.Model

	// Registry defaults to NewRegistry over the built-in catalog.
	Registry *tool.Registry

	// Logger defaults to NewLogger(Config.Logging).
	Logger logging.Logger

	// Tools names the registered capabilities the pup may call.
	Tools []string

	Name           string
	Description    string
	ResponseSchema map[string]any

	// PupOptions run after the config derived pup options.
	PupOptions []func(o *pup.Options)
}

// New builds a pup with the given instructions.
func New(instructions string, optFns ...func(o *Options)) (*pup.Pup, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, core.NewTechnicalError(core.SubkindMissingRequirements, "failed to load configuration",
				map[string]any{"error": err.Error()}, err)
		}
		cfg = loaded
	}

	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(cfg.Logging)
	}

	m := opts.Model
	if m == nil {
		built, err := NewModel(cfg.Model)
		if err != nil {
			return nil, err
		}
		m = built
	}

	reg := opts.Registry
	if reg == nil {
		reg = NewRegistry(cfg, logger)
	}

	tools := tool.Set{}
	if len(opts.Tools) > 0 {
		tools = reg.Get(opts.Tools...)
	}
	if missing := missingTools(tools, opts.Tools); len(missing) > 0 {
		return nil, core.NewTechnicalError(core.SubkindMissingRequirements,
			fmt.Sprintf("tools not registered: %s", strings.Join(missing, ", ")),
			map[string]any{"missing": missing, "available": reg.Names()},
			core.ErrUnknownCapability)
	}

	pupOpts := append([]func(o *pup.Options){func(o *pup.Options) {
		o.Name = opts.Name
		o.Description = opts.Description
		o.Instructions = instructions
		o.ResponseSchema = opts.ResponseSchema
		o.MaxIterations = cfg.Pup.MaxIterations
		o.MaxParallelTools = cfg.Pup.MaxParallelTools
		o.BailSentinel = cfg.Pup.BailSentinel
		o.FeedToolErrors = cfg.Pup.FeedToolErrors
		o.Temperature = cfg.Model.Temperature
		o.Tools = tools
		o.Logger = logger
	}}, opts.PupOptions...)

	return pup.New(m, pupOpts...)
}

// NewModel builds the model adapter selected by cfg.Provider.
func NewModel(cfg config.ModelConfig) (model.Model, error) {
	switch cfg.ProviderName() {
	case config.ProviderOpenAI, config.ProviderOpenRouter:
		return openai.NewModel(func(o *openai.Options) {
			if cfg.Name != "" {
				o.Model = cfg.Name
			}
			o.BaseURL = cfg.BaseURL
			o.APIKey = cfg.APIKey
			o.Temperature = cfg.Temperature
			o.MaxRetries = cfg.MaxRetries
		}), nil
	case config.ProviderAnthropic:
		return anthropic.NewModel(func(o *anthropic.Options) {
			if cfg.Name != "" {
				o.Model = anthropicsdk.Model(cfg.Name)
			}
			o.BaseURL = cfg.BaseURL
			o.APIKey = cfg.APIKey
			o.Temperature = cfg.Temperature
		}), nil
	default:
		return nil, core.NewTechnicalError(core.SubkindMissingRequirements,
			fmt.Sprintf("unsupported model provider %q", cfg.Provider),
			map[string]any{"provider": cfg.Provider}, core.ErrMissingConfiguration)
	}
}

// NewRegistry discovers the built-in catalog below cfg.Tools.Root. The memory
// file falls back to cfg.Memory.File when MEMORY_FILE is unset.
func NewRegistry(cfg *config.Config, logger logging.Logger) *tool.Registry {
	reg := tool.NewRegistry(func(o *tool.RegistryOptions) {
		o.Catalog = builtin.Catalog()
		o.Logger = logger
		o.LookupEnv = func(name string) (string, bool) {
			if v, ok := tool.OSLookup(name); ok && v != "" {
				return v, true
			}
			if name == builtin.EnvMemoryFile && cfg.Memory.File != "" {
				return cfg.Memory.File, true
			}
			return "", false
		}
	})

	reg.Discover(cfg.Tools.Root, cfg.Tools.Enabled...)

	return reg
}

// NewLogger builds the slog backed logger described by cfg.
func NewLogger(cfg config.LoggingConfig) *logging.PupLogger {
	return logging.NewSlogLogger(logging.ParseLevel(cfg.Level), cfg.Format, cfg.AddSource)
}

func missingTools(set tool.Set, names []string) []string {
	var missing []string
	for _, n := range names {
		if _, ok := set.Lookup(n); !ok {
			missing = append(missing, n)
		}
	}
	return missing
}
