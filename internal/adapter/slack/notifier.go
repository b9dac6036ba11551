package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"taskbot/internal/core/ports"
)

// Notifier sends direct messages through the Slack Web API.
type Notifier struct {
	client *slack.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewClient builds the Web API client shared by the notifier and the events
// handler. apiURL is only set to point at a test server and must end in "/".
func NewClient(token, apiURL string) *slack.Client {
	options := []slack.Option{}
	if apiURL != "" {
		options = append(options, slack.OptionAPIURL(apiURL))
	}
	return slack.New(token, options...)
}

func NewNotifier(client *slack.Client) *Notifier {
	return &Notifier{client: client}
}

// SendDirectMessage opens (or reuses) the DM channel with userID and posts
// text to it. The returned reference is "<channel>/<ts>".
func (n *Notifier) SendDirectMessage(ctx context.Context, userID, text string) (string, error) {
	channel, _, _, err := n.client.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{userID},
	})
	if err != nil {
		return "", fmt.Errorf("open dm with %s: %w", userID, err)
	}

	channelID, ts, err := n.client.PostMessageContext(ctx, channel.ID, slack.MsgOptionText(text, false))
	if err != nil {
		return "", fmt.Errorf("post dm to %s: %w", userID, err)
	}
	return channelID + "/" + ts, nil
}
