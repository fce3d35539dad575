package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jadenj13/courier/internals/llm"
)

// Stream opens a streaming call and returns the chunk sequence in
// receipt order. The returned stream logs its total lifetime when it
// terminates, normally or not. Single-pass; not restartable.
func (g *Generator) Stream(ctx context.Context, messages []llm.Message) (llm.Stream, error) {
	start := time.Now()
	inner, err := g.model.Stream(ctx, messages)
	if err != nil {
		g.log.Error("stream failed to open", "duration", time.Since(start), "err", err)
		return nil, fmt.Errorf("stream: %w", err)
	}

	return &timedStream{inner: inner, start: start, log: g.log}, nil
}

// timedStream passes chunks through untouched and logs elapsed time at
// the terminal event.
type timedStream struct {
	inner llm.Stream
	start time.Time
	log   *slog.Logger
	done  bool
}

func (s *timedStream) Next() bool {
	if s.inner.Next() {
		return true
	}
	if !s.done {
		s.done = true
		duration := time.Since(s.start)
		if err := s.inner.Err(); err != nil {
			s.log.Error("stream failed", "duration", duration, "err", err)
		} else {
			s.log.Info("stream completed", "duration", duration)
		}
	}
	return false
}

func (s *timedStream) Current() llm.Chunk { return s.inner.Current() }
func (s *timedStream) Err() error         { return s.inner.Err() }

// Close records the lifetime even when the stream is abandoned before
// exhaustion, e.g. on cancellation or an early sink failure.
func (s *timedStream) Close() error {
	err := s.inner.Close()
	if !s.done {
		s.done = true
		s.log.Info("stream closed", "duration", time.Since(s.start))
	}
	return err
}

// Cancellable makes a stream observe ctx between chunks: once ctx is
// done, Next returns false and Err reports the cancellation instead of
// absorbing it. Chunks already delivered stay with the caller, and
// end-of-stream and stream errors pass through untouched.
type Cancellable struct {
	ctx       context.Context
	inner     llm.Stream
	log       *slog.Logger
	cancelErr error
}

func NewCancellable(ctx context.Context, s llm.Stream, log *slog.Logger) *Cancellable {
	return &Cancellable{ctx: ctx, inner: s, log: log}
}

func (c *Cancellable) Next() bool {
	if c.cancelErr != nil {
		return false
	}
	select {
	case <-c.ctx.Done():
		c.cancelErr = c.ctx.Err()
		c.log.Info("stream canceled", "err", c.cancelErr)
		c.inner.Close()
		return false
	default:
	}
	return c.inner.Next()
}

func (c *Cancellable) Current() llm.Chunk { return c.inner.Current() }

func (c *Cancellable) Err() error {
	if c.cancelErr != nil {
		return c.cancelErr
	}
	return c.inner.Err()
}

func (c *Cancellable) Close() error { return c.inner.Close() }
