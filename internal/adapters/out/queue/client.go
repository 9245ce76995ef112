package queue

import (
	"context"

	"fastship/internal/core/ports"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Options configures the asynq connection and the worker.
type Options struct {
	Addr        string
	Password    string
	DB          int
	Concurrency int
	Queues      map[string]int
}

// RedisOpt returns the asynq connection settings.
func (o Options) RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     o.Addr,
		Password: o.Password,
		DB:       o.DB,
	}
}

// ServerConfig returns the worker settings, defaulting to 10 workers on DefaultQueue.
func (o Options) ServerConfig(logger *zap.Logger) asynq.Config {
	concurrency := 10
	if o.Concurrency > 0 {
		concurrency = o.Concurrency
	}
	queues := map[string]int{DefaultQueue: 1}
	if len(o.Queues) > 0 {
		queues = o.Queues
	}
	return asynq.Config{
		Concurrency: concurrency,
		Queues:      queues,
		Logger:      logger.Named("asynq").Sugar(),
	}
}

// Enqueuer is the part of *asynq.Client used here.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ShipmentNotifier hands status notices to the worker. A notice is tried once: a lost
// notification is preferred over a duplicated verification code.
type ShipmentNotifier struct {
	client Enqueuer
	queue  string
	logger *zap.Logger
}

func NewShipmentNotifier(client Enqueuer, logger *zap.Logger) *ShipmentNotifier {
	return &ShipmentNotifier{
		client: client,
		queue:  DefaultQueue,
		logger: logger.With(zap.String("component", "shipment_notifier")),
	}
}

// Notify enqueues the notice. Statuses without a notification are skipped and enqueue
// failures are only logged.
func (n *ShipmentNotifier) Notify(ctx context.Context, notice ports.ShipmentNotice) {
	if !notice.Status.Notifies() {
		return
	}

	log := n.logger.With(
		zap.String("shipment_id", notice.ShipmentID.String()),
		zap.String("status", string(notice.Status)),
	)

	task, err := NewShipmentNotifyTask(notice)
	if err != nil {
		log.Error("failed to build notification task", zap.Error(err))
		return
	}

	info, err := n.client.EnqueueContext(ctx, task, asynq.Queue(n.queue), asynq.MaxRetry(0))
	if err != nil {
		log.Error("failed to enqueue notification", zap.Error(err))
		return
	}
	log.Debug("notification enqueued", zap.String("task_id", info.ID))
}
