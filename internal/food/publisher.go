package food

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub/v2"
)

// JobFoodEntryChanged is the job type of ChangeEvent messages.
const JobFoodEntryChanged = "food_entry_changed"

// ChangeEvent announces that the entries of a user's day changed.
type ChangeEvent struct {
	JobType string `json:"job_type"`
	UserID  string `json:"user_id"`
	Date    string `json:"date"`
}

// Publisher publishes entry change events.
type Publisher interface {
	Publish(ctx context.Context, ev ChangeEvent) error
}

// NoopPublisher discards events.
type NoopPublisher struct{}

// Publish does nothing.
func (NoopPublisher) Publish(context.Context, ChangeEvent) error { return nil }

// PubSubPublisher publishes change events to a Pub/Sub topic.
type PubSubPublisher struct {
	client    *pubsub.Client
	publisher *pubsub.Publisher
}

// NewPubSubPublisher creates a publisher for the given topic.
func NewPubSubPublisher(ctx context.Context, projectID, topic string) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	return &PubSubPublisher{
		client:    client,
		publisher: client.Publisher(topic),
	}, nil
}

// Publish sends ev and waits for the server to acknowledge it.
func (p *PubSubPublisher) Publish(ctx context.Context, ev ChangeEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding change event: %w", err)
	}

	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: map[string]string{"job_type": ev.JobType},
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("publishing change event: %w", err)
	}
	return nil
}

// Close flushes pending messages and closes the client.
func (p *PubSubPublisher) Close() error {
	p.publisher.Stop()
	return p.client.Close()
}

var (
	_ Publisher = NoopPublisher{}
	_ Publisher = (*PubSubPublisher)(nil)
)
