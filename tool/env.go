package tool

import "os"

// EnvVar names an external configuration value a capability depends on.
type EnvVar struct {
	Name        string
	Description string
	Required    bool
}

// Env holds the configuration values resolved for one capability instance.
type Env map[string]string

// Get returns the value for name or "".
func (e Env) Get(name string) string { return e[name] }

// LookupFunc resolves a configuration value by name.
type LookupFunc func(name string) (string, bool)

// OSLookup resolves values from the process environment.
func OSLookup(name string) (string, bool) { return os.LookupEnv(name) }

// ResolveEnv resolves vars through overrides first and lookup second. Empty
// values count as absent. The second return lists missing required names in
// declaration order.
func ResolveEnv(vars []EnvVar, lookup LookupFunc, overrides map[string]string) (Env, []string) {
	if lookup == nil {
		lookup = OSLookup
	}

	env := make(Env, len(vars))
	var missing []string

	for _, v := range vars {
		val, ok := overrides[v.Name]
		if !ok || val == "" {
			val, ok = lookup(v.Name)
		}
		if ok && val != "" {
			env[v.Name] = val
			continue
		}
		if v.Required {
			missing = append(missing, v.Name)
		}
	}

	return env, missing
}

// MissingEnv returns the required names in vars that lookup cannot resolve.
func MissingEnv(vars []EnvVar, lookup LookupFunc) []string {
	_, missing := ResolveEnv(vars, lookup, nil)
	return missing
}
