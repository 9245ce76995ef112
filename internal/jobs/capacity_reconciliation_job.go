package jobs

import (
	"context"

	"fastship/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CapacityReconciler recomputes the partners' active shipment counters.
type CapacityReconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcileCapacityCommand) (int64, error)
}

// CapacityReconciliationJob periodically repairs drifted partner counters.
type CapacityReconciliationJob struct {
	handler  CapacityReconciler
	schedule string
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewCapacityReconciliationJob(handler CapacityReconciler, schedule string, logger *zap.Logger) *CapacityReconciliationJob {
	return &CapacityReconciliationJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With(zap.String("component", "capacity_reconciliation_job")),
	}
}

func (j *CapacityReconciliationJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.RunOnce(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("capacity reconciliation job started", zap.String("schedule", j.schedule))
	return nil
}

func (j *CapacityReconciliationJob) RunOnce(ctx context.Context) {
	corrected, err := j.handler.Handle(ctx, commands.NewReconcileCapacityCommand())
	if err != nil {
		j.logger.Error("capacity reconciliation failed", zap.Error(err))
		return
	}

	// A correction means some path bypassed the claim and release bookkeeping.
	if corrected > 0 {
		j.logger.Warn("partner counters corrected", zap.Int64("partners", corrected))
	}
}

func (j *CapacityReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("capacity reconciliation job stopped")
}
