package builtin

import (
	"fmt"
	"strings"

	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/tool"
)

// Capability names of the key-value memory.
const (
	RememberName = "remember"
	RecallName   = "recall"
)

const (
	rememberDescription = "Save information to memory for future use"
	recallDescription   = "Recall information from key-value memory by key"
)

// NewRemember returns a capability storing string values in store.
func NewRemember(store core.KVStore) tool.Tool {
	return tool.New(RememberName, rememberDescription, func(_ *core.ToolContext, args map[string]any) (any, error) {
		key, err := nonEmpty(args, "key")
		if err != nil {
			return nil, err
		}
		value, err := nonEmpty(args, "value")
		if err != nil {
			return nil, err
		}

		confirmation, err := store.Set(key, value)
		if err != nil {
			return nil, fmt.Errorf("failed to save to memory: %w", err)
		}

		return confirmation, nil
	},
		tool.Required("key", tool.String(), "The key to store the value under"),
		tool.Required("value", tool.String(), "The value to remember"),
	)
}

// NewRecall returns a capability reading values from store.
func NewRecall(store core.KVStore) tool.Tool {
	return tool.New(RecallName, recallDescription, func(_ *core.ToolContext, args map[string]any) (any, error) {
		key, err := nonEmpty(args, "key")
		if err != nil {
			return nil, err
		}

		value, ok, err := store.Get(key)
		if err != nil {
			return nil, fmt.Errorf("failed to recall from memory: %w", err)
		}
		if !ok {
			return fmt.Sprintf("No memory found for key: %s", key), nil
		}

		return fmt.Sprintf("Remembered value for %s: %v", key, value), nil
	}, tool.Required("key", tool.String(), "The key to recall the value for"))
}

func nonEmpty(args map[string]any, name string) (string, error) {
	v, _ := args[name].(string)
	if strings.TrimSpace(v) == "" {
		return "", &tool.ValidationError{Field: name, Message: "must not be empty"}
	}
	return v, nil
}
