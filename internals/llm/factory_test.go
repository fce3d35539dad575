package llm

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jadenj13/courier/internals/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(model string) config.Config {
	cfg := config.Default()
	cfg.APIKey = "test-key"
	cfg.Model = model
	return cfg
}

func TestNewResolvesFromModelName(t *testing.T) {
	log := discardLogger()

	m, err := New(context.Background(), testConfig("claude-sonnet-4-5"), log)
	require.NoError(t, err)
	assert.IsType(t, &anthropicModel{}, m)

	m, err = New(context.Background(), testConfig("gpt-4o"), log)
	require.NoError(t, err)
	assert.IsType(t, &openaiModel{}, m)
}

func TestNewExplicitProviderWins(t *testing.T) {
	cfg := testConfig("claude-sonnet-4-5")
	cfg.Provider = "openai" // e.g. a claude model served through an OpenAI-compatible proxy

	m, err := New(context.Background(), cfg, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &openaiModel{}, m)
}

func TestNewBadProvider(t *testing.T) {
	cfg := testConfig("gpt-4o")
	cfg.Provider = "mistral"

	_, err := New(context.Background(), cfg, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestNewUnresolvableModel(t *testing.T) {
	_, err := New(context.Background(), testConfig("llama-3-70b"), discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot determine provider")
}

func TestNewConstructionFailureSpendsBudget(t *testing.T) {
	cfg := testConfig("gpt-4o")
	cfg.BaseURL = "not a url"
	cfg.MaxRetries = 0 // one attempt, no waiting

	_, err := New(context.Background(), cfg, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 1 attempts")
	assert.Contains(t, err.Error(), "invalid base URL")
}

func TestNewConstructionRetryHonorsCancellation(t *testing.T) {
	cfg := testConfig("claude-sonnet-4-5")
	cfg.BaseURL = "::bad::"
	cfg.MaxRetries = 3

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	_, err := New(ctx, cfg, discardLogger())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestConstructionDelayIsLinear(t *testing.T) {
	assert.Equal(t, time.Second, constructionDelay(0))
	assert.Equal(t, 2*time.Second, constructionDelay(1))
	assert.Equal(t, 4*time.Second, constructionDelay(3))
}

func TestNewAcceptsBaseURLOverride(t *testing.T) {
	cfg := testConfig("gpt-4o")
	cfg.BaseURL = "https://proxy.internal:8443/v1"

	_, err := New(context.Background(), cfg, discardLogger())
	assert.NoError(t, err)
}
