package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Model = (*anthropicModel)(nil)
	_ Model = (*openaiModel)(nil)
)

var conversation = []Message{
	{Role: RoleSystem, Content: "be nice"},
	{Role: RoleUser, Content: "hello"},
	{Role: RoleAssistant, Content: "hi there"},
	{Role: RoleUser, Content: "question"},
}

func TestAnthropicParams(t *testing.T) {
	m, err := newAnthropicModel(testConfig("claude-sonnet-4-5"))
	require.NoError(t, err)

	params, err := m.params(conversation)
	require.NoError(t, err)

	// System text travels out of band, the rest in order.
	require.Len(t, params.System, 1)
	assert.Equal(t, "be nice", params.System[0].Text)
	require.Len(t, params.Messages, 3)
	assert.Equal(t, int64(anthropicMaxTokens), params.MaxTokens)
}

func TestAnthropicParamsRejectsUnknownRole(t *testing.T) {
	m, err := newAnthropicModel(testConfig("claude-sonnet-4-5"))
	require.NoError(t, err)

	_, err = m.params([]Message{{Role: "tool", Content: "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestAnthropicParamsRejectsEmptyConversation(t *testing.T) {
	m, err := newAnthropicModel(testConfig("claude-sonnet-4-5"))
	require.NoError(t, err)

	_, err = m.params(nil)
	require.Error(t, err)

	_, err = m.params([]Message{{Role: RoleSystem, Content: "alone"}})
	require.Error(t, err)
}

func TestOpenAIParams(t *testing.T) {
	m, err := newOpenAIModel(testConfig("gpt-4o"))
	require.NoError(t, err)

	params, err := m.params(conversation)
	require.NoError(t, err)
	assert.Len(t, params.Messages, 4)
}

func TestOpenAIParamsRejectsUnknownRole(t *testing.T) {
	m, err := newOpenAIModel(testConfig("gpt-4o"))
	require.NoError(t, err)

	_, err = m.params([]Message{{Role: "function", Content: "x"}})
	require.Error(t, err)
}

func TestAdapterRejectsBadBaseURL(t *testing.T) {
	cfg := testConfig("claude-sonnet-4-5")
	cfg.BaseURL = "not a url"

	_, err := newAnthropicModel(cfg)
	require.Error(t, err)

	cfg.Model = "gpt-4o"
	_, err = newOpenAIModel(cfg)
	require.Error(t, err)
}
