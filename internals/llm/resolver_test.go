package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		model   string
		want    Provider
		wantErr bool
	}{
		{name: "claude sonnet", model: "claude-sonnet-4-5", want: ProviderAnthropic},
		{name: "claude legacy", model: "claude-3-haiku-20240307", want: ProviderAnthropic},
		{name: "claude mixed case", model: "Claude-Opus-4", want: ProviderAnthropic},
		{name: "gpt", model: "gpt-4o", want: ProviderOpenAI},
		{name: "gpt mini", model: "gpt-4o-mini", want: ProviderOpenAI},
		{name: "o series", model: "o3-mini", want: ProviderOpenAI},
		{name: "o series plain", model: "o1", want: ProviderOpenAI},
		{name: "padded", model: "  gpt-4o  ", want: ProviderOpenAI},
		{name: "not o series", model: "ollama-local", wantErr: true},
		{name: "unknown", model: "llama-3-70b", wantErr: true},
		{name: "empty", model: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.model)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseProvider(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Provider
		wantErr bool
	}{
		{name: "empty means unresolved", in: "", want: ProviderUnknown},
		{name: "anthropic", in: "anthropic", want: ProviderAnthropic},
		{name: "openai", in: "openai", want: ProviderOpenAI},
		{name: "case insensitive", in: "OpenAI", want: ProviderOpenAI},
		{name: "padded", in: " anthropic ", want: ProviderAnthropic},
		{name: "unknown", in: "mistral", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProvider(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProviderString(t *testing.T) {
	assert.Equal(t, "anthropic", ProviderAnthropic.String())
	assert.Equal(t, "openai", ProviderOpenAI.String())
	assert.Equal(t, "unknown", ProviderUnknown.String())
}
