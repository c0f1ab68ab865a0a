package tool

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/logging"
	"github.com/hupe1980/smartpup/model"
	"github.com/hupe1980/smartpup/observability"
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Catalog is the static table Discover walks.
	Catalog Catalog
	// Logger receives registration events. Defaults to NoOpLogger.
	Logger logging.Logger
	// LookupEnv resolves configuration values. Defaults to the process environment.
	LookupEnv LookupFunc
}

// Info summarizes a registered tool.
type Info struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Report is the outcome of one Discover pass.
type Report struct {
	Registered []string
	Skipped    map[string]error
}

type entry struct {
	def  Definition
	tool Tool
}

// Registry holds the capabilities advertised to the model. Reads are pure
// projections over the current registration set; all methods are safe for
// concurrent use.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string
	opts    RegistryOptions
}

// NewRegistry creates an empty registry.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{
		Logger:    logging.NoOpLogger{},
		LookupEnv: OSLookup,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Registry{
		entries: make(map[string]entry),
		opts:    opts,
	}
}

// Discover clears the registry and instantiates every catalog entry under
// root, optionally restricted to names. A failing entry is logged and skipped;
// it never aborts the pass.
func (r *Registry) Discover(root string, names ...string) Report {
	r.mu.Lock()
	r.entries = make(map[string]entry)
	r.order = nil
	r.mu.Unlock()

	report := Report{Skipped: make(map[string]error)}
	logger := r.opts.Logger

	logger.Info("registry.discover.start", "root", root, "filter", strings.Join(names, ","))

	for _, def := range r.opts.Catalog.Under(root) {
		if len(names) > 0 && !slices.Contains(names, def.Name) {
			logger.Debug("registry.discover.filtered", "tool", def.Name)
			continue
		}

		if err := r.Register(def); err != nil {
			logger.Warn("registry.discover.skip", "tool", def.Name, "error", err.Error())
			report.Skipped[def.Name] = err
			continue
		}

		report.Registered = append(report.Registered, def.Name)
	}

	logger.Info("registry.discover.done", "registered", len(report.Registered), "skipped", len(report.Skipped))

	return report
}

// Register instantiates def and stores it, replacing any previous entry with
// the same name.
func (r *Registry) Register(def Definition) error {
	return r.register(def, nil)
}

// RegisterTool stores an already constructed tool, replacing any previous
// entry with the same name.
func (r *Registry) RegisterTool(t Tool) {
	r.store(Definition{Name: t.Name(), Description: t.Description()}, t)
}

// Configure re-instantiates a registered definition with explicit values
// layered over the environment.
func (r *Registry) Configure(name string, values map[string]string) error {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return core.NewTechnicalError(core.SubkindNone, fmt.Sprintf("tool %s not found", name),
			map[string]any{"tool": name}, core.ErrUnknownCapability)
	}
	if e.def.New == nil {
		return core.NewTechnicalError(core.SubkindNone, fmt.Sprintf("tool %s does not support configuration", name),
			map[string]any{"tool": name}, nil)
	}

	return r.register(e.def, values)
}

func (r *Registry) register(def Definition, overrides map[string]string) (err error) {
	logger := r.opts.Logger

	defer func() {
		if rec := recover(); rec != nil {
			err = core.NewTechnicalError(core.SubkindNone, fmt.Sprintf("tool %s panicked during construction", def.Name),
				map[string]any{"tool": def.Name, "panic": fmt.Sprint(rec)}, nil)
		}
		observability.ToolRegistrationsTotal.WithLabelValues(observability.Status(err)).Inc()
	}()

	if def.New == nil {
		return core.NewTechnicalError(core.SubkindNone, fmt.Sprintf("tool %s has no constructor", def.Name),
			map[string]any{"tool": def.Name}, nil)
	}

	env, missing := ResolveEnv(def.Env, r.opts.LookupEnv, overrides)
	if len(missing) > 0 {
		for _, name := range missing {
			logger.Warn("registry.env.missing", "tool", def.Name, "var", name, "description", describeVar(def.Env, name))
		}
		return core.NewTechnicalError(core.SubkindMissingRequirements,
			fmt.Sprintf("tool %s is missing required environment variables: %s", def.Name, strings.Join(missing, ", ")),
			map[string]any{"tool": def.Name, "missing": missing}, core.ErrMissingConfiguration)
	}

	t, cerr := def.New(env)
	if cerr != nil {
		return core.NewTechnicalError(core.SubkindNone, fmt.Sprintf("failed to create tool %s", def.Name),
			map[string]any{"tool": def.Name, "error": cerr.Error()}, cerr)
	}

	if w, ok := t.(interface{ Warnings() []string }); ok {
		for _, msg := range w.Warnings() {
			logger.Warn("registry.contract.warning", "tool", def.Name, "warning", msg)
		}
	}

	r.store(def, t)
	logger.Info("registry.register", "tool", t.Name())

	return nil
}

func (r *Registry) store(def Definition, t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := t.Name()
	if _, exists := r.entries[name]; !exists {
		r.order = append(r.order, name)
	}
	r.entries[name] = entry{def: def, tool: t}
}

func describeVar(vars []EnvVar, name string) string {
	for _, v := range vars {
		if v.Name == name {
			return v.Description
		}
	}
	return ""
}

// selected returns the entries in registration order, filtered by names.
func (r *Registry) selected(names []string) []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entry, 0, len(r.order))
	for _, name := range r.order {
		if len(names) > 0 && !slices.Contains(names, name) {
			continue
		}
		out = append(out, r.entries[name])
	}
	return out
}

// Get returns the registered tools, optionally restricted to names.
func (r *Registry) Get(names ...string) Set {
	s := make(Set)
	for _, e := range r.selected(names) {
		s[e.tool.Name()] = e.tool
	}
	return s
}

// Schemas returns the model facing definitions in registration order.
func (r *Registry) Schemas(names ...string) []model.ToolDefinition {
	entries := r.selected(names)
	defs := make([]model.ToolDefinition, 0, len(entries))
	for _, e := range entries {
		defs = append(defs, Describe(e.tool))
	}
	return defs
}

// Handles returns the dispatchable handlers keyed by name.
func (r *Registry) Handles(names ...string) map[string]Handler {
	out := make(map[string]Handler)
	for _, e := range r.selected(names) {
		out[e.tool.Name()] = e.tool.Call
	}
	return out
}

// List describes every registered tool in registration order.
func (r *Registry) List() []Info {
	entries := r.selected(nil)
	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		out = append(out, Info{
			Name:        e.tool.Name(),
			Description: e.tool.Description(),
			Parameters:  maps.Clone(e.tool.Parameters()),
		})
	}
	return out
}

// Names returns the registered names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.order)
}
