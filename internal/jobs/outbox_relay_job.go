package jobs

import (
	"context"

	"fastship/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// OutboxRelayer publishes one batch of outbox messages.
type OutboxRelayer interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (int, error)
}

// OutboxRelayJob drains the transactional outbox into the event stream.
type OutboxRelayJob struct {
	handler   OutboxRelayer
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *zap.Logger
}

func NewOutboxRelayJob(handler OutboxRelayer, schedule string, batchSize int, logger *zap.Logger) *OutboxRelayJob {
	return &OutboxRelayJob{
		handler:   handler,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With(zap.String("component", "outbox_relay_job")),
	}
}

// Start schedules the relay. Overlapping runs are skipped.
func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("outbox relay job started", zap.String("schedule", j.schedule))
	return nil
}

// RunOnce relays batches until the outbox is empty or a batch fails.
func (j *OutboxRelayJob) RunOnce(ctx context.Context) {
	cmd, err := commands.NewRelayOutboxCommand(j.batchSize)
	if err != nil {
		j.logger.Error("invalid relay batch size", zap.Error(err))
		return
	}

	total := 0
	for {
		published, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.Error("outbox relay failed", zap.Int("published", total), zap.Error(err))
			return
		}
		total += published
		if published < j.batchSize {
			break
		}
	}

	if total > 0 {
		j.logger.Debug("outbox relayed", zap.Int("published", total))
	}
}

// Stop waits for a running relay to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("outbox relay job stopped")
}
