package ports

import (
	"context"
	"time"

	"fastship/internal/core/domain/model/kernel"
)

// OutboxMessage is a domain event waiting to be published to the event stream.
// Messages are written in the same transaction as the timeline events they describe.
type OutboxMessage struct {
	ID        kernel.UUID
	Key       string
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository is used by the relay job outside of any unit of work.
type OutboxRepository interface {
	// ListUnpublished returns up to limit messages in creation order.
	ListUnpublished(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error
}

// EventPublisher delivers outbox messages to the event stream.
type EventPublisher interface {
	Publish(ctx context.Context, messages []OutboxMessage) error
}
