// Package notify delivers completed assistant replies to Slack. The
// integration is optional: an unconfigured notifier is nil and every
// method on it is a no-op.
package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

type SlackNotifier struct {
	client    *slack.Client
	channelID string // channel to post replies to, e.g. "C01234ABCDE"
}

// NewSlackNotifier returns nil when botToken or channelID is empty,
// which callers use as "notifications disabled".
func NewSlackNotifier(botToken, channelID string) *SlackNotifier {
	if botToken == "" || channelID == "" {
		return nil
	}
	return &SlackNotifier{
		client:    slack.New(botToken),
		channelID: channelID,
	}
}

// Notify posts one assistant reply to the configured channel.
func (n *SlackNotifier) Notify(ctx context.Context, question, reply string) error {
	if n == nil {
		return nil
	}

	text := fmt.Sprintf(":speech_balloon: *%s*\n%s", question, reply)
	_, _, err := n.client.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionText(text, false),
	)
	if err != nil {
		return fmt.Errorf("slack notify: %w", err)
	}
	return nil
}
