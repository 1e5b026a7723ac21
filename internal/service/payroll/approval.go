package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
)

// ApprovePeriod approves a processing period. It fails fast with the list of
// blocking employees while any summary still carries a high severity anomaly;
// resolving or overriding those is the caller's job. On success every
// calculated summary and the period move to approved.
func (s *PayrollServiceImpl) ApprovePeriod(ctx context.Context, req payroll.ApprovePeriodRequest) (payroll.PeriodResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	period, err := s.payrollRepo.GetPeriodByID(ctx, req.PeriodID, companyID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	stats, err := s.payrollRepo.GetPeriodStats(ctx, req.PeriodID, companyID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}
	if stats.HighSeverityCount > 0 {
		summaries, err := s.payrollRepo.ListSummariesByPeriod(ctx, req.PeriodID, companyID)
		if err != nil {
			return payroll.PeriodResponse{}, err
		}

		var blocked []string
		for _, sum := range summaries {
			if sum.HighestSeverity() == payroll.SeverityHigh {
				blocked = append(blocked, sum.EmployeeID)
			}
		}
		return payroll.PeriodResponse{}, &payroll.AnomalyBlockError{EmployeeIDs: blocked}
	}

	period, err = period.Approve(userID, req.Notes, time.Now())
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	if err := s.payrollRepo.UpdateSummaryStatuses(ctx, req.PeriodID, companyID, payroll.SummaryStatusCalculated, payroll.SummaryStatusApproved); err != nil {
		return payroll.PeriodResponse{}, fmt.Errorf("approve summaries: %w", err)
	}
	if err := s.payrollRepo.UpdatePeriodStatus(ctx, period); err != nil {
		return payroll.PeriodResponse{}, fmt.Errorf("approve period: %w", err)
	}

	return toPeriodResponse(period), nil
}

// MarkPeriodPaid finalizes an approved period. Paid is terminal.
func (s *PayrollServiceImpl) MarkPeriodPaid(ctx context.Context, periodID string) (payroll.PeriodResponse, error) {
	companyID, userID, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	period, err := s.payrollRepo.GetPeriodByID(ctx, periodID, companyID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	period, err = period.MarkPaid(userID, time.Now())
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	if err := s.payrollRepo.UpdateSummaryStatuses(ctx, periodID, companyID, payroll.SummaryStatusApproved, payroll.SummaryStatusPaid); err != nil {
		return payroll.PeriodResponse{}, fmt.Errorf("pay summaries: %w", err)
	}
	if err := s.payrollRepo.UpdatePeriodStatus(ctx, period); err != nil {
		return payroll.PeriodResponse{}, fmt.Errorf("pay period: %w", err)
	}

	return toPeriodResponse(period), nil
}

// CancelPeriod cancels a period that has not been paid yet. Its unpaid
// summaries are removed so a later rerun starts clean.
func (s *PayrollServiceImpl) CancelPeriod(ctx context.Context, periodID string) (payroll.PeriodResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	period, err := s.payrollRepo.GetPeriodByID(ctx, periodID, companyID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	period, err = period.Cancel(time.Now())
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	if err := s.payrollRepo.DeleteSummariesByPeriod(ctx, periodID, companyID); err != nil {
		return payroll.PeriodResponse{}, fmt.Errorf("cancel summaries: %w", err)
	}
	if err := s.payrollRepo.UpdatePeriodStatus(ctx, period); err != nil {
		return payroll.PeriodResponse{}, fmt.Errorf("cancel period: %w", err)
	}

	return toPeriodResponse(period), nil
}
