package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fastship/internal/core/domain/model/kernel"
	"fastship/internal/core/ports"
	"fastship/internal/pkg/errs"
	"fastship/internal/pkg/guard"
)

// DefaultRelayBatchSize bounds one relay run.
const DefaultRelayBatchSize = 100

var ErrRelayOutboxCommandIsNotConstructed = errors.New(
	"RelayOutboxCommand must be created via NewRelayOutboxCommand constructor",
)

// RelayOutboxCommand publishes pending outbox messages to the event stream.
type RelayOutboxCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewRelayOutboxCommand(batchSize int) (RelayOutboxCommand, error) {
	if batchSize < 1 {
		return RelayOutboxCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	return RelayOutboxCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c RelayOutboxCommand) Validate() error {
	return c.guard.Validate(ErrRelayOutboxCommandIsNotConstructed)
}

func (c RelayOutboxCommand) BatchSize() int {
	return c.batchSize
}

// RelayOutboxCommandHandler moves one batch from the outbox to the publisher.
// Messages are marked only after the publisher accepted the whole batch; a crash in
// between publishes them again, so consumers must tolerate duplicates.
type RelayOutboxCommandHandler struct {
	outbox    ports.OutboxRepository
	publisher ports.EventPublisher
	now       func() time.Time
}

func NewRelayOutboxCommandHandler(outbox ports.OutboxRepository, publisher ports.EventPublisher) RelayOutboxCommandHandler {
	return RelayOutboxCommandHandler{outbox: outbox, publisher: publisher, now: time.Now}
}

// Handle returns the number of messages published.
func (h RelayOutboxCommandHandler) Handle(ctx context.Context, cmd RelayOutboxCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	messages, err := h.outbox.ListUnpublished(ctx, cmd.BatchSize())
	if err != nil {
		return 0, fmt.Errorf("list outbox: %w", err)
	}
	if len(messages) == 0 {
		return 0, nil
	}

	if err := h.publisher.Publish(ctx, messages); err != nil {
		return 0, fmt.Errorf("publish outbox: %w", err)
	}

	ids := make([]kernel.UUID, len(messages))
	for i, m := range messages {
		ids[i] = m.ID
	}
	if err := h.outbox.MarkPublished(ctx, ids, h.now()); err != nil {
		return 0, fmt.Errorf("mark outbox published: %w", err)
	}

	return len(messages), nil
}
