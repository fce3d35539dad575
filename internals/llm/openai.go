package llm

import (
	"context"
	"fmt"
	"net/url"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/ssestream"

	"github.com/jadenj13/courier/internals/config"
)

type openaiModel struct {
	client      openai.Client
	model       openai.ChatModel
	temperature float64
}

func newOpenAIModel(cfg config.Config) (*openaiModel, error) {
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

	return &openaiModel{
		client:      openai.NewClient(opts...),
		model:       openai.ChatModel(cfg.Model),
		temperature: cfg.Temperature,
	}, nil
}

func (m *openaiModel) Generate(ctx context.Context, messages []Message) (Completion, error) {
	params, err := m.params(messages)
	if err != nil {
		return Completion{}, err
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return Completion{}, fmt.Errorf("openai api: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Completion{}, fmt.Errorf("openai returned no choices")
	}

	choices := make([]Choice, 0, len(resp.Choices))
	for _, c := range resp.Choices {
		choices = append(choices, Choice{
			Message:      Message{Role: RoleAssistant, Content: c.Message.Content},
			FinishReason: string(c.FinishReason),
		})
	}
	return Completion{Choices: choices}, nil
}

func (m *openaiModel) Stream(ctx context.Context, messages []Message) (Stream, error) {
	params, err := m.params(messages)
	if err != nil {
		return nil, err
	}
	return &openaiStream{
		events: m.client.Chat.Completions.NewStreaming(ctx, params),
	}, nil
}

func (m *openaiModel) params(messages []Message) (openai.ChatCompletionNewParams, error) {
	if len(messages) == 0 {
		return openai.ChatCompletionNewParams{}, fmt.Errorf("messages cannot be empty")
	}

	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for i, m := range messages {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleUser:
			out = append(out, openai.UserMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			return openai.ChatCompletionNewParams{}, fmt.Errorf("message[%d]: unknown role %q", i, m.Role)
		}
	}

	return openai.ChatCompletionNewParams{
		Model:       m.model,
		Temperature: openai.Float(m.temperature),
		Messages:    out,
	}, nil
}

// openaiStream forwards completion chunks in receipt order. Chunks
// without a content delta (role preambles, the final usage frame) come
// through with empty content.
type openaiStream struct {
	events *ssestream.Stream[openai.ChatCompletionChunk]
	cur    Chunk
}

func (s *openaiStream) Next() bool {
	if !s.events.Next() {
		return false
	}
	chunk := s.events.Current()
	s.cur = Chunk{Model: chunk.Model}
	if len(chunk.Choices) > 0 {
		s.cur.Content = chunk.Choices[0].Delta.Content
	}
	return true
}

func (s *openaiStream) Current() Chunk { return s.cur }

func (s *openaiStream) Err() error {
	if err := s.events.Err(); err != nil {
		return fmt.Errorf("openai stream: %w", err)
	}
	return nil
}

func (s *openaiStream) Close() error { return s.events.Close() }
