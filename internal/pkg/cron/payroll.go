package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
)

// PayrollJobs contains payroll-related cron jobs
type PayrollJobs struct {
	payrollRepo payroll.PayrollRepository
	logger      *slog.Logger
	interval    time.Duration
}

// NewPayrollJobs creates payroll cron jobs
func NewPayrollJobs(payrollRepo payroll.PayrollRepository, logger *slog.Logger, interval time.Duration) *PayrollJobs {
	return &PayrollJobs{
		payrollRepo: payrollRepo,
		logger:      logger,
		interval:    interval,
	}
}

// RegisterJobs registers all payroll-related cron jobs
func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(
		"payroll_payment_due_scan",
		j.interval,
		j.ScanPaymentDue,
	)
}

// ScanPaymentDue flags approved periods whose payment date has arrived so
// finance can release the transfer. Payment itself stays a human action.
func (j *PayrollJobs) ScanPaymentDue(ctx context.Context) error {
	now := time.Now()
	periods, _, err := j.payrollRepo.ListPeriods(ctx, "", payroll.PeriodFilter{
		Status: string(payroll.PeriodStatusApproved),
		Limit:  100,
		Page:   1,
	})
	if err != nil {
		return err
	}

	for _, p := range periods {
		if p.PaymentDate.After(now) {
			continue
		}
		j.logger.Warn("payroll payment due",
			slog.String("period_id", p.ID),
			slog.String("company_id", p.CompanyID),
			slog.Time("payment_date", p.PaymentDate),
		)
	}
	return nil
}
