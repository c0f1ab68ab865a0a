package tool

import (
	"path"
	"strings"
)

// Definition is one entry of a static capability table. Path places the entry
// in a slash separated hierarchy used by Registry.Discover; Env lists the
// configuration values New receives.
type Definition struct {
	Path        string
	Name        string
	Description string
	Env         []EnvVar
	New         func(env Env) (Tool, error)
}

// Catalog is an ordered static registration table.
type Catalog []Definition

// Under returns the discoverable entries below root. Utility entries, whose
// path has a segment starting with "_" or named "internal", are excluded. An
// empty root selects everything.
func (c Catalog) Under(root string) Catalog {
	root = strings.Trim(path.Clean("/"+root), "/")

	var out Catalog
	for _, def := range c {
		p := strings.Trim(path.Clean("/"+def.Path), "/")
		if isUtilityPath(p) {
			continue
		}
		if root != "" && p != root && !strings.HasPrefix(p, root+"/") {
			continue
		}
		out = append(out, def)
	}

	return out
}

// Lookup returns the entry with the given capability name.
func (c Catalog) Lookup(name string) (Definition, bool) {
	for _, def := range c {
		if def.Name == name {
			return def, true
		}
	}
	return Definition{}, false
}

func isUtilityPath(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, "_") || seg == "internal" {
			return true
		}
	}
	return false
}
