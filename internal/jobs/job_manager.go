package jobs

import (
	"fmt"

	"go.uber.org/zap"
)

// scheduledJob is a background task driven by its own cron scheduler.
type scheduledJob interface {
	Start() error
	Stop()
}

// JobManager starts and stops the background jobs of the service as one unit.
type JobManager struct {
	jobs   []namedJob
	logger *zap.Logger
}

type namedJob struct {
	name string
	job  scheduledJob
}

// NewJobManager creates the manager with every job of the service.
// reconcileSchedule is passed to the rollup reconciliation job.
func NewJobManager(reconciler RollupReconciler, reconcileSchedule string, logger *zap.Logger) *JobManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobManager{
		jobs: []namedJob{
			{name: "rollup reconciliation", job: NewRollupReconciliationJob(reconciler, reconcileSchedule, logger)},
		},
		logger: logger.With(zap.String("component", "job_manager")),
	}
}

// StartAll starts every job. If one fails to start, the jobs already started
// are stopped again and the error is returned.
func (jm *JobManager) StartAll() error {
	for i, j := range jm.jobs {
		if err := j.job.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.job.Stop()
			}
			return fmt.Errorf("failed to start %s job: %w", j.name, err)
		}
	}
	jm.logger.Info("Jobs started", zap.Int("count", len(jm.jobs)))
	return nil
}

// StopAll stops every job, waiting for running passes to finish.
func (jm *JobManager) StopAll() {
	for _, j := range jm.jobs {
		j.job.Stop()
	}
}
