package tool

import (
	"fmt"
	"strings"
)

// Type is the declared static type of a capability parameter.
type Type struct {
	kind     string
	enum     []string
	items    *Type
	nullable bool
	opaque   string
}

// String declares a string parameter.
func String() Type { return Type{kind: "string"} }

// Integer declares an integer parameter.
func Integer() Type { return Type{kind: "integer"} }

// Number declares a floating point parameter.
func Number() Type { return Type{kind: "number"} }

// Boolean declares a boolean parameter.
func Boolean() Type { return Type{kind: "boolean"} }

// EnumOf declares a string parameter restricted to values.
func EnumOf(values ...string) Type {
	return Type{kind: "string", enum: append([]string(nil), values...)}
}

// Nullable wraps t as optional. Contracts unwrap it to t.
func Nullable(t Type) Type {
	t.nullable = true
	return t
}

// ListOf declares an array of t.
func ListOf(t Type) Type {
	inner := t
	return Type{kind: "array", items: &inner}
}

// Opaque declares a type the contract cannot express. It is advertised as a
// string and produces a derivation warning.
func Opaque(name string) Type { return Type{opaque: name} }

// schema renders the JSON schema fragment for t and collects warnings.
func (t Type) schema(warn func(string)) map[string]any {
	if t.opaque != "" || t.kind == "" {
		name := t.opaque
		if name == "" {
			name = "<nil>"
		}
		warn(fmt.Sprintf("unsupported type %s, defaulting to string", name))
		return map[string]any{"type": "string"}
	}

	s := map[string]any{"type": t.kind}
	if len(t.enum) > 0 {
		s["enum"] = append([]string(nil), t.enum...)
	}
	if t.items != nil {
		s["items"] = t.items.schema(warn)
	}
	return s
}

// Param declares one capability parameter.
type Param struct {
	Name        string
	Type        Type
	Description string
	// HasDefault makes the parameter optional. A nil Default on an optional
	// parameter is not advertised.
	HasDefault bool
	Default    any
}

// Required declares a parameter without a default.
func Required(name string, t Type, description string) Param {
	return Param{Name: name, Type: t, Description: description}
}

// Optional declares a parameter with a default value.
func Optional(name string, t Type, def any, description string) Param {
	return Param{Name: name, Type: t, Description: description, HasDefault: true, Default: def}
}

// Property is the derived description of one parameter.
type Property struct {
	Name        string
	Schema      map[string]any
	Description string
	Default     any
	HasDefault  bool
}

// Contract is the immutable call contract of a capability.
type Contract struct {
	Name        string
	Description string
	Properties  []Property
	Required    []string
}

// DeriveContract maps declared parameters to a contract. A parameter is
// required iff it has no default. The returned warnings name parameters whose
// type could not be expressed.
func DeriveContract(name, description string, params ...Param) (Contract, []string) {
	var warnings []string

	c := Contract{
		Name:        name,
		Description: description,
		Properties:  make([]Property, 0, len(params)),
		Required:    []string{},
	}

	for _, p := range params {
		warn := func(msg string) {
			warnings = append(warnings, fmt.Sprintf("%s.%s: %s", name, p.Name, msg))
		}

		desc := p.Description
		if desc == "" {
			desc = "Parameter " + p.Name
		}
		if len(p.Type.enum) > 0 {
			oneOf := "One of: " + strings.Join(p.Type.enum, ", ")
			if p.Description == "" {
				desc = oneOf
			} else {
				desc = strings.TrimSuffix(p.Description, ".") + ". " + oneOf
			}
		}

		schema := p.Type.schema(warn)
		schema["description"] = desc

		prop := Property{
			Name:        p.Name,
			Schema:      schema,
			Description: desc,
		}
		if p.HasDefault && p.Default != nil {
			schema["default"] = p.Default
			prop.Default = p.Default
			prop.HasDefault = true
		}
		if !p.HasDefault {
			c.Required = append(c.Required, p.Name)
		}

		c.Properties = append(c.Properties, prop)
	}

	return c, warnings
}

// Schema renders the contract as a JSON schema object.
func (c Contract) Schema() map[string]any {
	props := make(map[string]any, len(c.Properties))
	for _, p := range c.Properties {
		props[p.Name] = p.Schema
	}

	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   append([]string{}, c.Required...),
	}
}

// Property returns the derived property by name.
func (c Contract) Property(name string) (Property, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return Property{}, false
}
