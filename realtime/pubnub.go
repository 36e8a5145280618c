package realtime

import (
	"fmt"
	"log/slog"

	pubnub "github.com/pubnub/go"
)

// Publisher pushes server-side notifications to per-user PubNub channels.
type Publisher struct {
	pn *pubnub.PubNub
}

func NewPublisher(publishKey, subscribeKey, secretKey string) *Publisher {
	cfg := pubnub.NewConfig()
	cfg.PublishKey = publishKey
	cfg.SubscribeKey = subscribeKey
	cfg.SecretKey = secretKey

	return &Publisher{pn: pubnub.NewPubNub(cfg)}
}

// NotifyUser publishes to the user's channel. Delivery is best effort;
// failures are logged and dropped.
func (p *Publisher) NotifyUser(userID string, message map[string]any) {
	channel := fmt.Sprintf("user-%s", userID)

	_, _, err := p.pn.Publish().
		Channel(channel).
		Message(message).
		Execute()
	if err != nil {
		slog.Warn("pubnub publish failed", "channel", channel, "error", err)
	}
}
