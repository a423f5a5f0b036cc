package push

import (
	"fmt"

	"github.com/padelclub/turnero/internal/metrics"
	"github.com/padelclub/turnero/internal/notifier"
	"github.com/padelclub/turnero/internal/pubsub"
)

// Message is the payload published for the external delivery worker that
// owns device tokens and talks to the push gateway.
type Message struct {
	Type   pubsub.EventType  `msgpack:"type"`
	UserID string            `msgpack:"user_id"`
	Title  string            `msgpack:"title"`
	Body   string            `msgpack:"body"`
	Data   map[string]string `msgpack:"data"`
}

type pushNotifier struct {
	pubsub  pubsub.PubSubClient
	topic   string
	metrics metrics.MetricsStore
}

// NewNotifier creates a Notifier that publishes notifications to a
// Pub/Sub topic instead of talking to a push gateway directly. Delivery
// counts are persisted through the metrics store.
func NewNotifier(ps pubsub.PubSubClient, topic string, metricsStore metrics.MetricsStore) notifier.Notifier {
	return &pushNotifier{
		pubsub:  ps,
		topic:   topic,
		metrics: metricsStore,
	}
}

func (n *pushNotifier) Notify(userID, title, body string, data map[string]string) error {
	msg := Message{
		Type:   pubsub.EventPushNotification,
		UserID: userID,
		Title:  title,
		Body:   body,
		Data:   data,
	}
	if err := n.pubsub.SendMessage(n.topic, msg); err != nil {
		n.metrics.Increment("push_notifications_failed")
		return fmt.Errorf("failed to publish notification for %s: %w", userID, err)
	}
	n.metrics.Increment("push_notifications_sent")
	return nil
}
