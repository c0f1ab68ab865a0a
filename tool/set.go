package tool

import (
	"sort"

	"github.com/hupe1980/smartpup/model"
)

// Set is a name keyed collection of tools, the active capability set of a run.
type Set map[string]Tool

// NewSet builds a set from tools. Later tools replace earlier ones with the
// same name.
func NewSet(tools ...Tool) Set {
	s := make(Set, len(tools))
	for _, t := range tools {
		s[t.Name()] = t
	}
	return s
}

// Lookup resolves a tool by name.
func (s Set) Lookup(name string) (Tool, bool) {
	t, ok := s[name]
	return t, ok
}

// Names returns the tool names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Definitions returns the model facing definitions sorted by name.
func (s Set) Definitions() []model.ToolDefinition {
	defs := make([]model.ToolDefinition, 0, len(s))
	for _, name := range s.Names() {
		defs = append(defs, Describe(s[name]))
	}
	return defs
}
