// Package jobs provides scheduled background tasks for the shipment tracking service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. OutboxRelayJob - drains the transactional outbox into the Kafka topic
// 2. CapacityReconciliationJob - recomputes partner active shipment counters
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(relayHandler, reconcileHandler, jobs.Schedules{
//		OutboxRelay:       "@every 5s",
//		OutboxBatchSize:   100,
//		CapacityReconcile: "@every 10m",
//	}, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Failed runs are logged and retried on the next tick
// - Overlapping runs of the same job are skipped
// - Failed job starts will stop any already running jobs
package jobs
