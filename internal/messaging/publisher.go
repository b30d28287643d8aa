package messaging

import (
	"context"
)

// Publisher defines the interface for publishing claim lifecycle events to the message broker
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// Publish publishes a claim event
	Publish(ctx context.Context, event ClaimEvent) error
	// Close closes the connection
	Close()
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

// NewNoopPublisher creates a publisher that discards events
func NewNoopPublisher() Publisher {
	return NoopPublisher{}
}

func (NoopPublisher) Publish(context.Context, ClaimEvent) error {
	return nil
}

func (NoopPublisher) Close() {}
