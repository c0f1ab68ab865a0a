package core

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// Conversation is the append-only message history of a single run.
//
// A tool turn is one assistant message restating the pending calls followed by
// exactly one tool message per call, in call order. AppendToolTurn enforces that
// shape so adapters can rely on every tool message answering a call of the
// immediately preceding assistant message.
type Conversation struct {
	mu       sync.RWMutex
	messages []Content
}

// NewConversation seeds a conversation with a system and a user message.
func NewConversation(system, user string) *Conversation {
	return &Conversation{messages: []Content{
		NewTextContent(RoleSystem, system),
		NewTextContent(RoleUser, user),
	}}
}

// Append adds a plain message. Tool messages must go through AppendToolTurn.
func (c *Conversation) Append(msg Content) error {
	if msg.Role == RoleTool {
		return fmt.Errorf("tool messages must be appended with AppendToolTurn")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, msg)

	return nil
}

// AppendToolTurn appends the assistant message carrying calls followed by one
// tool message per response. responses[i] must answer calls[i].
func (c *Conversation) AppendToolTurn(text string, calls []FunctionCall, responses []FunctionResponse) error {
	if len(calls) == 0 {
		return fmt.Errorf("tool turn without calls")
	}
	if len(calls) != len(responses) {
		return fmt.Errorf("tool turn has %d calls but %d responses", len(calls), len(responses))
	}

	seen := make(map[string]struct{}, len(calls))
	for i, fc := range calls {
		if fc.ID == "" {
			return fmt.Errorf("call %d (%s) has no id", i, fc.Name)
		}
		if _, dup := seen[fc.ID]; dup {
			return fmt.Errorf("duplicate call id %q", fc.ID)
		}
		seen[fc.ID] = struct{}{}
		if responses[i].ID != fc.ID {
			return fmt.Errorf("response %d references %q, expected %q", i, responses[i].ID, fc.ID)
		}
	}

	parts := make([]Part, 0, len(calls)+1)
	if text != "" {
		parts = append(parts, TextPart{Text: text})
	}
	for _, fc := range calls {
		parts = append(parts, FunctionCallPart{FunctionCall: fc})
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages, Content{Role: RoleAssistant, Parts: parts})
	for _, fr := range responses {
		c.messages = append(c.messages, Content{
			Role:  RoleTool,
			Parts: []Part{FunctionResponsePart{FunctionResponse: fr}},
		})
	}

	return nil
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []Content {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Content, len(c.messages))
	copy(out, c.messages)

	return out
}

// Len returns the number of messages.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.messages)
}

// NormalizeCallIDs assigns a fresh call_<uuid> id to calls without one and to
// calls repeating an id already used in the same turn.
func NormalizeCallIDs(calls []FunctionCall) []FunctionCall {
	out := make([]FunctionCall, len(calls))
	seen := make(map[string]struct{}, len(calls))

	for i, fc := range calls {
		if _, dup := seen[fc.ID]; fc.ID == "" || dup {
			fc.ID = "call_" + uuid.NewString()
		}
		seen[fc.ID] = struct{}{}
		out[i] = fc
	}

	return out
}
