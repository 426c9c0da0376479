package jobs

import (
	"context"
	"sync"
	"time"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DefaultReconcileSchedule runs the reconciliation every five minutes.
const DefaultReconcileSchedule = "0 */5 * * * *"

// RollupReconciler is the command handler the job drives.
type RollupReconciler interface {
	Handle(ctx context.Context, cmd commands.ReconcileRollupsCommand) (commands.ReconcileRollupsResult, error)
}

// RollupReconciliationJob periodically re-runs the status rollup of every order
// that is not Completed. It repairs statuses left stale by writers that stopped
// between a ledger write and the rollup; in normal operation it finds nothing.
type RollupReconciliationJob struct {
	handler  RollupReconciler
	schedule string
	timeout  time.Duration
	cron     *cron.Cron
	logger   *zap.Logger

	// running guards against overlapping passes when one outlasts the interval.
	running sync.Mutex
}

// NewRollupReconciliationJob creates the job. schedule is a six-field cron
// expression (with seconds); an empty schedule means DefaultReconcileSchedule.
func NewRollupReconciliationJob(handler RollupReconciler, schedule string, logger *zap.Logger) *RollupReconciliationJob {
	if schedule == "" {
		schedule = DefaultReconcileSchedule
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RollupReconciliationJob{
		handler:  handler,
		schedule: schedule,
		timeout:  time.Minute,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With(zap.String("component", "rollup_reconciliation_job")),
	}
}

// Start registers the job with its schedule and starts the scheduler.
func (j *RollupReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		if !j.running.TryLock() {
			j.logger.Warn("Previous rollup reconciliation still running, skipping")
			return
		}
		defer j.running.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		defer cancel()
		_, _ = j.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.Info("Rollup reconciliation job started", zap.String("schedule", j.schedule))
	return nil
}

// RunOnce performs a single reconciliation pass and logs its outcome.
func (j *RollupReconciliationJob) RunOnce(ctx context.Context) (commands.ReconcileRollupsResult, error) {
	result, err := j.handler.Handle(ctx, commands.NewReconcileRollupsCommand())
	if err != nil {
		j.logger.Error("Rollup reconciliation failed",
			zap.Int("checked", result.Checked),
			zap.Int("reconciled", len(result.Reconciled)),
			zap.Error(err),
		)
		return result, err
	}

	if len(result.Reconciled) > 0 {
		numbers := make([]string, 0, len(result.Reconciled))
		for _, n := range result.Reconciled {
			numbers = append(numbers, n.String())
		}
		j.logger.Warn("Rollup reconciliation repaired stale statuses",
			zap.Int("checked", result.Checked),
			zap.Strings("orders", numbers),
		)
		return result, nil
	}

	j.logger.Debug("Rollup reconciliation found nothing to repair", zap.Int("checked", result.Checked))
	return result, nil
}

// Stop stops the scheduler and waits for a running pass to finish.
func (j *RollupReconciliationJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("Rollup reconciliation job stopped")
}
