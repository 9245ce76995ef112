// Package worker consumes the asynq tasks enqueued by the API process.
package worker

import (
	"context"
	"fmt"

	"fastship/internal/adapters/out/queue"
	"fastship/internal/core/ports"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NoticeHandler reacts to a shipment status notice.
type NoticeHandler interface {
	Handle(ctx context.Context, notice ports.ShipmentNotice)
}

// Consumer routes tasks to use cases.
type Consumer struct {
	notices NoticeHandler
	logger  *zap.Logger
}

func NewConsumer(notices NoticeHandler, logger *zap.Logger) *Consumer {
	return &Consumer{notices: notices, logger: logger.With(zap.String("component", "worker"))}
}

// Register binds every task type to its handler.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TaskShipmentNotify, c.handleShipmentNotify)
}

// NewServeMux returns a mux with the consumer registered.
func (c *Consumer) NewServeMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	c.Register(mux)
	return mux
}

func (c *Consumer) handleShipmentNotify(ctx context.Context, task *asynq.Task) error {
	notice, err := queue.ParseShipmentNotifyTask(task.Payload())
	if err != nil {
		c.logger.Warn("dropping malformed task", zap.String("type", task.Type()), zap.Error(err))
		return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
	}

	c.notices.Handle(ctx, notice)
	return nil
}
