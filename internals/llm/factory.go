package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jadenj13/courier/internals/config"
)

// constructionBaseDelay is the wait unit between handle-construction
// attempts. Separate from the per-request retry policy in chat.
const constructionBaseDelay = time.Second

// New resolves the provider for cfg and constructs a model handle.
// Construction is attempted up to cfg.MaxRetries+1 times with linear
// backoff between attempts; the last error is returned once the budget
// is spent. An explicit cfg.Provider wins over model-name resolution.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (Model, error) {
	provider, err := ParseProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	if provider == ProviderUnknown {
		provider, err = Resolve(cfg.Model)
		if err != nil {
			return nil, err
		}
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		model, err := build(provider, cfg)
		if err == nil {
			if attempt > 0 {
				log.Info("model handle created", "provider", provider.String(), "attempts", attempt+1)
			}
			return model, nil
		}

		lastErr = err
		if attempt < cfg.MaxRetries {
			delay := constructionDelay(attempt)
			log.Warn("model handle creation failed",
				"provider", provider.String(), "attempt", attempt+1, "retry_in", delay, "err", err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("model handle creation canceled: %w", ctx.Err())
			}
		}
	}

	return nil, fmt.Errorf("create model handle after %d attempts: %w", cfg.MaxRetries+1, lastErr)
}

func constructionDelay(attempt int) time.Duration {
	return constructionBaseDelay * time.Duration(attempt+1)
}

func build(provider Provider, cfg config.Config) (Model, error) {
	switch provider {
	case ProviderAnthropic:
		return newAnthropicModel(cfg)
	case ProviderOpenAI:
		return newOpenAIModel(cfg)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
