package pubsub

import (
	"context"

	"cloud.google.com/go/pubsub"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// New creates a Pub/Sub client for the project and returns it together
// with its teardown function.
func New(projectID string) (PubSubClient, func()) {
	ctx := context.Background()
	pubSubC, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		log.Fatalf("Failed to create pubsub client: %v", err)
	}
	teardown := func() {
		pubSubC.Close()
	}

	return &client{
		client:   pubSubC,
		teardown: teardown,
	}, teardown
}

// SendMessage publishes data to the topic as MessagePack.
func (c *client) SendMessage(topic string, data any) error {
	ctx := context.Background()
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		log.Error("MessagePack marshal error", "error", err)
		return err
	}
	message := &pubsub.Message{
		Data: msgpackData,
	}
	result := c.client.Topic(topic).Publish(ctx, message)
	serverID, err := result.Get(ctx)
	if err != nil {
		log.Error("Failed to publish message", "error", err, "topic", topic)
		return err
	}
	log.Debug("Published message", "serverID", serverID, "topic", topic)
	return nil
}

// ProcessMessage unmarshals MessagePack payloads received from a subscription.
func (c *client) ProcessMessage(data []byte, returnValue any) error {
	err := msgpack.Unmarshal(data, returnValue)
	if err != nil {
		log.Error("MessagePack unmarshal error", "error", err)
		return err
	}
	return nil
}
