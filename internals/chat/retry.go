// Package chat is the request lifecycle around a model handle: the
// single-shot call with retries, the streaming call with cooperative
// cancellation, and incremental delivery of stream output to a sink.
package chat

import (
	"strings"
	"time"
)

// Policy decides whether a failed call is worth retrying and how long
// to wait before the next attempt. Pure; no clock or network access.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// DefaultPolicy allows three attempts with a one-second backoff unit.
var DefaultPolicy = Policy{
	MaxAttempts: 3,
	BaseDelay:   time.Second,
}

// retryableFragments are matched case-insensitively against the error
// text. Substring matching is crude but provider-agnostic: both SDKs
// surface transport failures as formatted strings.
var retryableFragments = []string{
	"timeout",
	"connection",
	"network",
	"rate limit",
	"429",
}

// Retryable reports whether err looks like a transient transport
// failure. A nil error is never retryable.
func (p Policy) Retryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, fragment := range retryableFragments {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// Delay returns the wait before retrying after the given 0-based
// attempt: BaseDelay * (attempt+1). Linear, no jitter, no cap — fine
// for the small attempt budgets this package uses.
func (p Policy) Delay(attempt int) time.Duration {
	return p.BaseDelay * time.Duration(attempt+1)
}
