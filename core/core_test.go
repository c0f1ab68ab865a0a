package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPupError_Format(t *testing.T) {
	bail := NewBailError("missing city", "weather?")
	assert.Equal(t, "cognitive(uncertain): missing city", bail.Error())
	v, ok := bail.Detail("user_message")
	assert.True(t, ok)
	assert.Equal(t, "weather?", v)

	tech := NewTechnicalError(SubkindNone, "boom", nil, nil)
	assert.Equal(t, "technical: boom", tech.Error())
}

func TestPupError_WrapAndPredicates(t *testing.T) {
	cause := NewTechnicalError(SubkindInvalidJSON, "bad payload", nil, ErrMalformedArguments)
	wrapped := fmt.Errorf("dispatch: %w", cause)

	pe := Wrap(wrapped)
	require.NotNil(t, pe)
	assert.Same(t, cause, pe)
	assert.True(t, errors.Is(wrapped, ErrMalformedArguments))
	assert.True(t, IsTechnical(wrapped))
	assert.True(t, IsTechnical(wrapped, SubkindSchemaViolation, SubkindInvalidJSON))
	assert.False(t, IsTechnical(wrapped, SubkindSchemaViolation))
	assert.False(t, IsBail(wrapped))

	plain := Wrap(errors.New("io failure"))
	assert.Equal(t, KindTechnical, plain.Kind)
	assert.Equal(t, SubkindNone, plain.Subkind)
	assert.Equal(t, "io failure", plain.Details["error"])

	assert.Nil(t, Wrap(nil))
	assert.True(t, IsBail(NewBailError("x", "y")))
}

func TestModelLimiter_NeverExceedsBudget(t *testing.T) {
	ml := NewModelLimiter(3)

	for i := 1; i <= 3; i++ {
		n, err := ml.Acquire()
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	n, err := ml.Acquire()
	assert.Error(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, ml.Count())
	assert.Equal(t, 0, ml.Remaining())
}

func TestModelLimiter_Unlimited(t *testing.T) {
	ml := NewModelLimiter(0)
	for i := 0; i < 50; i++ {
		_, err := ml.Acquire()
		require.NoError(t, err)
	}
	assert.Equal(t, -1, ml.Remaining())
}

func TestConversation_AppendToolTurn(t *testing.T) {
	conv := NewConversation("sys", "hi")

	calls := []FunctionCall{{ID: "a", Name: "echo"}, {ID: "b", Name: "echo"}}
	resps := []FunctionResponse{{ID: "a", Name: "echo", Response: "1"}, {ID: "b", Name: "echo", Response: "2"}}
	require.NoError(t, conv.AppendToolTurn("", calls, resps))

	msgs := conv.Messages()
	require.Len(t, msgs, 5)
	assert.Equal(t, RoleAssistant, msgs[2].Role)
	assert.Equal(t, calls, msgs[2].FunctionCalls())
	assert.Equal(t, RoleTool, msgs[3].Role)
	assert.Equal(t, "a", msgs[3].FunctionResponses()[0].ID)
	assert.Equal(t, "b", msgs[4].FunctionResponses()[0].ID)
}

func TestConversation_RejectsBrokenTurns(t *testing.T) {
	conv := NewConversation("sys", "hi")

	err := conv.AppendToolTurn("", []FunctionCall{{ID: "a"}}, nil)
	assert.Error(t, err)

	err = conv.AppendToolTurn("", []FunctionCall{{ID: "a"}, {ID: "a"}}, []FunctionResponse{{ID: "a"}, {ID: "a"}})
	assert.ErrorContains(t, err, "duplicate")

	err = conv.AppendToolTurn("", []FunctionCall{{ID: "a"}}, []FunctionResponse{{ID: "z"}})
	assert.ErrorContains(t, err, "references")

	assert.Error(t, conv.Append(Content{Role: RoleTool}))
	assert.Equal(t, 2, conv.Len())
}

func TestNormalizeCallIDs(t *testing.T) {
	calls := NormalizeCallIDs([]FunctionCall{{ID: "x"}, {ID: ""}, {ID: "x"}})

	assert.Equal(t, "x", calls[0].ID)
	assert.NotEmpty(t, calls[1].ID)
	assert.NotEqual(t, "x", calls[2].ID)
	assert.NotEqual(t, calls[1].ID, calls[2].ID)
}

func TestContent_Accessors(t *testing.T) {
	c := Content{Role: RoleAssistant, Parts: []Part{
		TextPart{Text: "hello "},
		FunctionCallPart{FunctionCall: FunctionCall{ID: "1", Name: "n"}},
		TextPart{Text: "world"},
	}}

	assert.Equal(t, "hello world", c.Text())
	assert.Len(t, c.FunctionCalls(), 1)
	assert.Empty(t, c.FunctionResponses())
}
