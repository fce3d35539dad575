package llm

import (
	"fmt"
	"strings"
)

type Provider int

const (
	ProviderUnknown Provider = iota
	ProviderAnthropic
	ProviderOpenAI
)

func (p Provider) String() string {
	switch p {
	case ProviderAnthropic:
		return "anthropic"
	case ProviderOpenAI:
		return "openai"
	default:
		return "unknown"
	}
}

// ParseProvider maps an explicit provider name (e.g. from config) to a
// Provider. An empty name means "resolve from the model id instead".
func ParseProvider(name string) (Provider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return ProviderUnknown, nil
	case "anthropic":
		return ProviderAnthropic, nil
	case "openai":
		return ProviderOpenAI, nil
	default:
		return ProviderUnknown, fmt.Errorf("unknown provider %q — expected anthropic or openai", name)
	}
}

// Resolve detects the provider from a model identifier: claude-* models
// belong to Anthropic, gpt-* and the o-series to OpenAI.
func Resolve(model string) (Provider, error) {
	m := strings.ToLower(strings.TrimSpace(model))

	switch {
	case strings.HasPrefix(m, "claude"):
		return ProviderAnthropic, nil
	case strings.HasPrefix(m, "gpt"), isOSeries(m):
		return ProviderOpenAI, nil
	default:
		return ProviderUnknown, fmt.Errorf("cannot determine provider for model %q — set provider explicitly", model)
	}
}

// isOSeries matches OpenAI reasoning models: "o" followed by a digit,
// e.g. o1, o3-mini, o4-mini-high.
func isOSeries(m string) bool {
	return len(m) >= 2 && m[0] == 'o' && m[1] >= '0' && m[1] <= '9'
}
