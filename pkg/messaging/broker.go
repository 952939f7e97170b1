package messaging

import (
	"context"
	"time"
)

// Broker defines the interface for message brokers
type Broker interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Subscribe(ctx context.Context, channel string) (<-chan []byte, error)
	Close() error
}

// Publisher emits typed domain events.
type Publisher interface {
	Publish(ctx context.Context, eventType string, payload interface{}) error
}

// Event is the envelope written to the broker channel.
type Event struct {
	Type       string      `json:"type"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// EventPublisher publishes every event on one broker channel.
type EventPublisher struct {
	broker  Broker
	channel string
	now     func() time.Time
}

func NewEventPublisher(broker Broker, channel string) *EventPublisher {
	return &EventPublisher{broker: broker, channel: channel, now: time.Now}
}

func (p *EventPublisher) Publish(ctx context.Context, eventType string, payload interface{}) error {
	return p.broker.Publish(ctx, p.channel, Event{
		Type:       eventType,
		Payload:    payload,
		OccurredAt: p.now().UTC(),
	})
}
