package llm

import (
	"context"
	"fmt"
	"net/url"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"github.com/jadenj13/courier/internals/config"
)

const anthropicMaxTokens = 8096

type anthropicModel struct {
	client      anthropic.Client
	model       anthropic.Model
	temperature float64
}

func newAnthropicModel(cfg config.Config) (*anthropicModel, error) {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0), // retries are handled by the caller
	}
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
		}
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &anthropicModel{
		client:      anthropic.NewClient(opts...),
		model:       anthropic.Model(cfg.Model),
		temperature: cfg.Temperature,
	}, nil
}

func (m *anthropicModel) Generate(ctx context.Context, messages []Message) (Completion, error) {
	params, err := m.params(messages)
	if err != nil {
		return Completion{}, err
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return Completion{}, fmt.Errorf("anthropic api: %w", err)
	}

	if len(resp.Content) == 0 {
		return Completion{}, fmt.Errorf("anthropic returned empty content")
	}

	switch block := resp.Content[0]; block.Type {
	case "text":
		return Completion{Message: &Message{Role: RoleAssistant, Content: block.Text}}, nil
	default:
		return Completion{}, fmt.Errorf("unexpected content block type: %s", block.Type)
	}
}

func (m *anthropicModel) Stream(ctx context.Context, messages []Message) (Stream, error) {
	params, err := m.params(messages)
	if err != nil {
		return nil, err
	}
	return &anthropicStream{
		events: m.client.Messages.NewStreaming(ctx, params),
		model:  string(m.model),
	}, nil
}

func (m *anthropicModel) params(messages []Message) (anthropic.MessageNewParams, error) {
	if len(messages) == 0 {
		return anthropic.MessageNewParams{}, fmt.Errorf("messages cannot be empty")
	}

	// Anthropic takes system text out of band, not as a conversation turn.
	var system []anthropic.TextBlockParam
	out := make([]anthropic.MessageParam, 0, len(messages))
	for i, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case RoleUser:
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		case RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			return anthropic.MessageNewParams{}, fmt.Errorf("message[%d]: unknown role %q", i, m.Role)
		}
	}

	if len(out) == 0 {
		return anthropic.MessageNewParams{}, fmt.Errorf("at least one non-system message is required")
	}

	return anthropic.MessageNewParams{
		Model:       m.model,
		MaxTokens:   anthropicMaxTokens,
		Temperature: anthropic.Float(m.temperature),
		System:      system,
		Messages:    out,
	}, nil
}

// anthropicStream forwards every SSE event as one chunk, in receipt
// order. Only text deltas carry content; other event kinds come through
// with empty content and are skipped downstream.
type anthropicStream struct {
	events *ssestream.Stream[anthropic.MessageStreamEventUnion]
	cur    Chunk
	model  string
}

func (s *anthropicStream) Next() bool {
	if !s.events.Next() {
		return false
	}
	s.cur = Chunk{Model: s.model}
	if ev, ok := s.events.Current().AsAny().(anthropic.ContentBlockDeltaEvent); ok {
		if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok {
			s.cur.Content = delta.Text
		}
	}
	return true
}

func (s *anthropicStream) Current() Chunk { return s.cur }

func (s *anthropicStream) Err() error {
	if err := s.events.Err(); err != nil {
		return fmt.Errorf("anthropic stream: %w", err)
	}
	return nil
}

func (s *anthropicStream) Close() error { return s.events.Close() }
