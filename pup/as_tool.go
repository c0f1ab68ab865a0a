package pup

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/tool"
)

// AsTool exposes p as a capability taking a single prompt. Empty name and
// description fall back to the pup's own metadata. Structured answers are
// returned as indented JSON.
func (p *Pup) AsTool(name, description string) tool.Tool {
	if name == "" {
		name = p.opts.Name
	}
	if name == "" {
		name = "unnamed_pup_" + uuid.NewString()[:8]
	}
	if description == "" {
		description = p.opts.Description
	}
	if description == "" {
		description = "No description provided"
	}

	return tool.New(name, description, func(tc *core.ToolContext, args map[string]any) (any, error) {
		prompt, _ := args["prompt"].(string)

		res, err := p.Run(tc.Context(), prompt)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}

		return res.String(), nil
	}, tool.Required("prompt", tool.String(), "The input prompt for the pup"))
}

// RegisterAsTool registers p in reg under AsTool(name, description).
func (p *Pup) RegisterAsTool(reg *tool.Registry, name, description string) tool.Tool {
	t := p.AsTool(name, description)
	reg.RegisterTool(t)
	return t
}
