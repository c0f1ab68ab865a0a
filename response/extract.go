package response

import (
	"errors"
	"strings"
)

// ErrNoObject is returned when content holds no balanced JSON object.
var ErrNoObject = errors.New("no JSON object found in response")

const fence = "```"

// StripFence unwraps the first fenced block whose body is a JSON object. The
// opening fence may carry a language label and may follow leading prose.
// Fenced blocks holding anything else are skipped. Content that starts with
// an object, or holds no such block, is returned trimmed.
func StripFence(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "{") {
		return content
	}

	rest := content
	for {
		start := strings.Index(rest, fence)
		if start < 0 {
			return content
		}

		body := rest[start+len(fence):]
		end := strings.Index(body, fence)
		if end < 0 {
			return content
		}

		if obj, ok := fencedObject(body[:end]); ok {
			return obj
		}
		rest = body[end+len(fence):]
	}
}

func fencedObject(body string) (string, bool) {
	// Drop the label line ("json", "JSON", ...) when the block starts with one.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		if label := strings.TrimSpace(body[:nl]); label != "" && !strings.ContainsAny(label, "{[\"") {
			body = body[nl+1:]
		}
	}

	body = strings.TrimSpace(body)
	if !strings.HasPrefix(body, "{") {
		return "", false
	}

	return body, true
}

// ExtractObject returns the outermost balanced JSON object starting at the
// first '{'. Braces inside string literals are ignored.
func ExtractObject(content string) (string, error) {
	first := strings.IndexByte(content, '{')
	if first < 0 {
		return "", ErrNoObject
	}

	depth := 0
	inString := false
	escaped := false

	for i := first; i < len(content); i++ {
		c := content[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return content[first : i+1], nil
			}
		}
	}

	return "", ErrNoObject
}

// Clean removes an accidental schema echo and prunes null and empty object
// values from mappings. Arrays are not descended into.
func Clean(doc map[string]any) map[string]any {
	_, hasType := doc["type"]
	_, hasProps := doc["properties"]
	if hasType && hasProps {
		stripped := make(map[string]any, len(doc))
		for k, v := range doc {
			if k == "type" || k == "properties" || k == "required" {
				continue
			}
			stripped[k] = v
		}
		doc = stripped
	}

	return cleanNulls(doc)
}

func cleanNulls(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			if len(nested) == 0 {
				continue
			}
			out[k] = cleanNulls(nested)
			continue
		}
		out[k] = v
	}
	return out
}
