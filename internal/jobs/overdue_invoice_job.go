package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// OverdueSweepJobName is the name of the overdue invoice sweep job
const OverdueSweepJobName = "overdue_invoice_sweep"

// DefaultSweepTimeout bounds a single sweep run
const DefaultSweepTimeout = 2 * time.Minute

// OverdueSweeper reclassifies pending invoices past their due date.
// This interface allows the job to call the service without importing
// the service package directly.
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context) (int64, error)
}

// OverdueInvoiceJob periodically marks pending invoices past their due
// date as overdue. The sweep is idempotent, so overlapping or repeated
// runs are harmless.
type OverdueInvoiceJob struct {
	sweeper OverdueSweeper
	logger  *zap.Logger
	timeout time.Duration
}

// NewOverdueInvoiceJob creates a new overdue invoice sweep job.
func NewOverdueInvoiceJob(sweeper OverdueSweeper, logger *zap.Logger, timeout time.Duration) *OverdueInvoiceJob {
	if timeout <= 0 {
		timeout = DefaultSweepTimeout
	}
	return &OverdueInvoiceJob{
		sweeper: sweeper,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the overdue sweep. This is called by the scheduler
// according to the cron expression.
func (j *OverdueInvoiceJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	changed, err := j.sweeper.SweepOverdue(ctx)
	if err != nil {
		j.logger.Error("overdue invoice sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	j.logger.Info("overdue invoice sweep completed",
		zap.Int64("marked_overdue", changed),
		zap.Duration("duration", time.Since(start)))
}

// RegisterOverdueInvoiceJob registers the sweep with the scheduler and
// runs one sweep immediately in the background so invoices that went
// overdue while the service was down are picked up at startup.
func RegisterOverdueInvoiceJob(scheduler *Scheduler, sweeper OverdueSweeper, logger *zap.Logger, cronExpr string) error {
	job := NewOverdueInvoiceJob(sweeper, logger, DefaultSweepTimeout)

	go job.Run()

	return scheduler.AddJob(OverdueSweepJobName, cronExpr, job.Run)
}
