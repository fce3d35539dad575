package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jadenj13/courier/internals/llm"
)

// ErrRetryExhausted marks the defensive exit of the retry loop. Every
// loop iteration either returns a result or returns an error, so
// observing this sentinel means the loop itself is broken.
var ErrRetryExhausted = errors.New("retry budget exhausted without an outcome")

// Generator runs single-shot and streaming calls against one model
// handle. Safe for concurrent use: each call owns its own attempt
// counter and timers.
type Generator struct {
	model  llm.Model
	policy Policy
	log    *slog.Logger
}

type GeneratorOption func(*Generator)

func WithPolicy(p Policy) GeneratorOption {
	return func(g *Generator) { g.policy = p }
}

func NewGenerator(model llm.Model, log *slog.Logger, opts ...GeneratorOption) *Generator {
	g := &Generator{
		model:  model,
		policy: DefaultPolicy,
		log:    log,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate performs exactly one call and normalises the result into a
// single assistant message. The underlying error propagates to the
// caller unchanged apart from wrapping; Generate itself never retries.
func (g *Generator) Generate(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	start := time.Now()
	completion, err := g.model.Generate(ctx, messages)
	duration := time.Since(start)

	if err != nil {
		g.log.Error("generate failed", "duration", duration, "err", err)
		return llm.Message{}, fmt.Errorf("generate: %w", err)
	}

	g.log.Info("generate completed", "duration", duration)
	return normalize(completion), nil
}

// normalize collapses the three completion shapes into one message:
// first choice of a candidate list, the direct message as-is, or bare
// text wrapped as an assistant turn.
func normalize(c llm.Completion) llm.Message {
	if len(c.Choices) > 0 {
		return c.Choices[0].Message
	}
	if c.Message != nil {
		return *c.Message
	}
	return llm.Message{Role: llm.RoleAssistant, Content: c.Text}
}

// GenerateWithRetry calls Generate up to policy.MaxAttempts times.
// Retryable failures wait Delay(attempt) between attempts; the wait is
// a suspension point that honours ctx. Non-retryable failures and the
// final attempt's failure propagate immediately, wrapped with the
// attempt count.
func (g *Generator) GenerateWithRetry(ctx context.Context, messages []llm.Message) (llm.Message, error) {
	for attempt := 0; attempt < g.policy.MaxAttempts; attempt++ {
		out, err := g.Generate(ctx, messages)
		if err == nil {
			if attempt > 0 {
				g.log.Info("generate succeeded on retry", "attempt", attempt+1)
			}
			return out, nil
		}

		if g.policy.Retryable(err) && attempt < g.policy.MaxAttempts-1 {
			delay := g.policy.Delay(attempt)
			g.log.Warn("generate attempt failed", "attempt", attempt+1, "retry_in", delay, "err", err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return llm.Message{}, fmt.Errorf("generate retry canceled: %w", ctx.Err())
			}
			continue
		}

		return llm.Message{}, fmt.Errorf("after %d attempts: %w", attempt+1, err)
	}

	return llm.Message{}, ErrRetryExhausted
}
