// Package jobs provides scheduled background tasks for the fulfillment service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// RollupReconciliationJob re-derives item category and order statuses from the
// assignment ledgers of every order that is not Completed, and persists the
// statuses that moved forward. The fulfillment update coordinator already does
// this inside each transaction, so the job only finds work after a failure
// outside the database, such as a process killed between two transactions of a
// multi-order import.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(reconcileHandler, "0 */5 * * * *", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		logger.Fatal("Failed to start jobs", zap.Error(err))
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Schedules use six-field cron expressions with seconds. A pass that is still
// running when the next one is due makes the next one skip.
//
// # Error Handling
//
// Failures are logged at ERROR and retried on the next tick. Repaired orders are
// logged at WARN because they point at an interrupted writer.
package jobs
