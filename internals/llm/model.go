package llm

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged turn of a conversation. Order within a
// slice of messages is conversation order.
type Message struct {
	Role    Role
	Content string
}

// Choice is one candidate answer inside a Completion.
type Choice struct {
	Message      Message
	FinishReason string
}

// Completion is the result of a single-shot call. Providers return one
// of three shapes; exactly one of the fields below is populated:
//
//   - Choices: a candidate list (OpenAI chat completions)
//   - Message: a single direct message (Anthropic messages)
//   - Text:    a bare string payload (minimal or proxy backends)
//
// Callers normalise via chat.Generator rather than inspecting the
// fields directly.
type Completion struct {
	Choices []Choice
	Message *Message
	Text    string
}

// Chunk is one incremental delta of a streaming call. Content may be
// empty (e.g. for non-text stream events); consumers skip those.
type Chunk struct {
	Content string
	Model   string // reporting model id, when the provider sends one
}

// Stream is a lazy, single-pass sequence of chunks. Next advances and
// reports whether a chunk is available; after Next returns false, Err
// distinguishes normal end-of-stream (nil) from abnormal termination.
// Not restartable once consumed.
type Stream interface {
	Next() bool
	Current() Chunk
	Err() error
	Close() error
}

// Model is a configured handle to a remote chat model.
type Model interface {
	Generate(ctx context.Context, messages []Message) (Completion, error)
	Stream(ctx context.Context, messages []Message) (Stream, error)
}
