package response

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/hupe1980/smartpup/core"
)

// Kind classifies a model reply.
type Kind int

const (
	// KindEmpty is a reply with neither content nor capability calls.
	KindEmpty Kind = iota
	// KindBail is content starting with the bail sentinel.
	KindBail
	// KindAnswer is terminal content.
	KindAnswer
	// KindDispatch is a reply carrying only capability calls.
	KindDispatch
)

func (k Kind) String() string {
	switch k {
	case KindBail:
		return "bail"
	case KindAnswer:
		return "answer"
	case KindDispatch:
		return "dispatch"
	default:
		return "empty"
	}
}

// Classification is the interpretation of one reply.
type Classification struct {
	Kind Kind
	// Content is the trimmed reply text; for a bail, the reason following the sentinel.
	Content string
	Calls   []core.FunctionCall
}

// Classify decides what a reply means. A bail wins over pending calls, and
// content wins over calls.
func Classify(content string, calls []core.FunctionCall, sentinel string) Classification {
	text := strings.TrimSpace(content)

	switch {
	case text != "" && sentinel != "" && strings.HasPrefix(text, sentinel):
		return Classification{Kind: KindBail, Content: strings.TrimSpace(strings.TrimPrefix(text, sentinel)), Calls: calls}
	case text != "":
		return Classification{Kind: KindAnswer, Content: text, Calls: calls}
	case len(calls) > 0:
		return Classification{Kind: KindDispatch, Calls: calls}
	default:
		return Classification{Kind: KindEmpty}
	}
}

// Interpret extracts, parses, cleans and validates a structured answer.
// Extraction and parse failures are invalid_json errors, validation failures
// schema_violation errors; both carry the offending text in details.content.
func Interpret(content string, v *Validator) (map[string]any, error) {
	text := StripFence(content)

	doc, err := parseObject(text)
	if err != nil {
		// A fence inside a string value can cut the unwrapped body short.
		raw := strings.TrimSpace(content)
		if raw == text {
			return nil, err
		}
		whole, rawErr := parseObject(raw)
		if rawErr != nil {
			return nil, err
		}
		doc = whole
	}

	doc = Clean(doc)

	if v != nil {
		if err := v.Validate(doc); err != nil {
			cleaned, _ := json.Marshal(doc)
			return nil, core.NewTechnicalError(core.SubkindSchemaViolation,
				"response does not match schema",
				map[string]any{"content": string(cleaned), "error": err.Error()}, err)
		}
	}

	return doc, nil
}

func parseObject(text string) (map[string]any, error) {
	obj, err := ExtractObject(text)
	if err != nil {
		return nil, invalidJSON(text, err)
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(obj), &doc); err != nil {
		return nil, invalidJSON(obj, err)
	}
	if doc == nil {
		return nil, invalidJSON(obj, errors.New("response is not a JSON object"))
	}

	return doc, nil
}

func invalidJSON(text string, err error) error {
	return core.NewTechnicalError(core.SubkindInvalidJSON,
		"response is not valid JSON",
		map[string]any{"content": text, "error": err.Error()}, err)
}
