package builtin

import (
	"fmt"
	"strings"

	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/model"
	"github.com/hupe1980/smartpup/tool"
)

// TranslateName is the capability name of the translator.
const TranslateName = "translate"

// DefaultTranslationModel is the OpenRouter model used for translations.
const DefaultTranslationModel = "anthropic/claude-3.5-haiku"

const translateDescription = "Translate text from one language to another"

// TranslateOptions configures the translation capability.
type TranslateOptions struct {
	// ModelName is sent with every request. Empty uses the adapter default.
	ModelName string
}

// NewTranslate returns a capability that delegates translation to m.
func NewTranslate(m model.Model, optFns ...func(o *TranslateOptions)) tool.Tool {
	opts := TranslateOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	return tool.New(TranslateName, translateDescription, func(tc *core.ToolContext, args map[string]any) (any, error) {
		text, _ := args["text"].(string)
		target, _ := args["target_language"].(string)
		source, _ := args["source_language"].(string)

		conv := core.NewConversation(translatorPrompt(target, source), text)

		resp, err := m.Generate(tc.Context(), model.Request{
			Model:    opts.ModelName,
			Contents: conv.Messages(),
		})
		if err != nil {
			return nil, fmt.Errorf("translation failed: %w", err)
		}

		out := strings.TrimSpace(resp.Content.Text())
		if out == "" {
			return nil, fmt.Errorf("translation failed: empty reply")
		}

		return out, nil
	},
		tool.Required("text", tool.String(), "Text to translate"),
		tool.Required("target_language", tool.String(), "Language to translate to (e.g. 'Spanish', 'French')"),
		tool.Optional("source_language", tool.Nullable(tool.String()), nil, "Source language (if known)"),
	)
}

func translatorPrompt(target, source string) string {
	prompt := fmt.Sprintf("You are a translator. Translate the following text to %s. "+
		"Respond with ONLY the translated text, no explanations.", target)
	if source != "" {
		prompt += fmt.Sprintf(" The source language is %s.", source)
	}
	return prompt
}
