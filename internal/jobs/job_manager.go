package jobs

import (
	"fmt"

	"go.uber.org/zap"
)

// Schedules are cron expressions (with seconds) or descriptors such as "@every 5s".
type Schedules struct {
	OutboxRelay       string
	OutboxBatchSize   int
	CapacityReconcile string
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	outboxRelayJob       *OutboxRelayJob
	capacityReconcileJob *CapacityReconciliationJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	relay OutboxRelayer,
	reconciler CapacityReconciler,
	schedules Schedules,
	logger *zap.Logger,
) *JobManager {
	return &JobManager{
		outboxRelayJob:       NewOutboxRelayJob(relay, schedules.OutboxRelay, schedules.OutboxBatchSize, logger),
		capacityReconcileJob: NewCapacityReconciliationJob(reconciler, schedules.CapacityReconcile, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxRelayJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox relay job: %w", err)
	}

	if err := jm.capacityReconcileJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.outboxRelayJob.Stop()
		return fmt.Errorf("failed to start capacity reconciliation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.capacityReconcileJob.Stop()
	jm.outboxRelayJob.Stop()
}
