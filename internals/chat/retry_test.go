package chat

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPolicyRetryable(t *testing.T) {
	p := DefaultPolicy

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "timeout", err: errors.New("request timeout"), want: true},
		{name: "timeout uppercase", err: errors.New("TIMEOUT waiting for response"), want: true},
		{name: "connection refused", err: errors.New("connection refused"), want: true},
		{name: "network unreachable", err: errors.New("Network is unreachable"), want: true},
		{name: "rate limit", err: errors.New("Rate Limit exceeded"), want: true},
		{name: "status 429", err: errors.New("unexpected status 429"), want: true},
		{name: "wrapped timeout", err: fmt.Errorf("generate: %w", errors.New("dial timeout")), want: true},
		{name: "auth failure", err: errors.New("invalid api key"), want: false},
		{name: "bad request", err: errors.New("400 bad request"), want: false},
		{name: "context canceled", err: errors.New("context canceled"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Retryable(tt.err))
		})
	}
}

func TestPolicyDelay(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Second}

	for attempt := 0; attempt < 5; attempt++ {
		want := time.Duration(attempt+1) * time.Second
		assert.Equal(t, want, p.Delay(attempt), "attempt %d", attempt)
	}
}

func TestPolicyDelayScalesWithBase(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: 250 * time.Millisecond}

	assert.Equal(t, 250*time.Millisecond, p.Delay(0))
	assert.Equal(t, 750*time.Millisecond, p.Delay(2))
}
