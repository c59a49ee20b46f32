package batch

import (
	"context"
	"credit-engine/internal/domain/loan"
	"credit-engine/internal/infrastructure/monitoring"
	"fmt"
	"log/slog"
	"time"
)

// OverdueReportJob publishes the number and amount of overdue installments as gauges.
// Overdue installments stay payable; nothing is written back.
type OverdueReportJob struct {
	loanService loan.LoanService
	logger      *slog.Logger
}

func NewOverdueReportJob(loanSvc loan.LoanService, logger *slog.Logger) *OverdueReportJob {
	if loanSvc == nil || logger == nil {
		panic("OverdueReportJob dependencies cannot be nil")
	}
	return &OverdueReportJob{
		loanService: loanSvc,
		logger:      logger.With("job", "OverdueReport"),
	}
}

func (j *OverdueReportJob) Run(ctx context.Context) error {
	startTime := time.Now()
	j.logger.InfoContext(ctx, "Starting overdue installment report job.")

	summary, err := j.loanService.OverdueReport(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to build overdue report, aborting job.", slog.Any("error", err))
		return fmt.Errorf("cannot run job, failed to summarize overdue installments: %w", err)
	}

	monitoring.SetOverdue(summary.Count, summary.Amount)

	summaryLog := j.logger.With(
		slog.Duration("duration", time.Since(startTime)),
		slog.Int("overdue_installments", summary.Count),
		slog.String("overdue_amount", summary.Amount.StringFixed(2)),
	)
	if summary.Count > 0 {
		summaryLog.WarnContext(ctx, "Overdue installment report job finished, overdue installments found.")
	} else {
		summaryLog.InfoContext(ctx, "Overdue installment report job finished, nothing overdue.")
	}
	return nil
}
