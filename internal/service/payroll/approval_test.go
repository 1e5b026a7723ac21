package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func processedPeriod(t *testing.T, svc payroll.PayrollService, repo *memPayrollRepo, att *memAttendanceRepo, ctx context.Context) payroll.PeriodResponse {
	t.Helper()
	presentWeekdays(att, "emp-1", 22)
	period := april2025Period(t, repo)

	result, err := svc.ProcessPeriod(ctx, payroll.ProcessPeriodRequest{PeriodID: period.ID})
	require.NoError(t, err)
	require.Equal(t, 1, result.SummariesCreated)

	resp, err := svc.GetPeriod(ctx, period.ID)
	require.NoError(t, err)
	return resp
}

func TestApprovePeriod(t *testing.T) {
	svc, repo, _, att := newTestService(t)
	ctx := authedContext(t, "company-1", "approver-1")

	period := processedPeriod(t, svc, repo, att, ctx)

	notes := "verified against bank file"
	approved, err := svc.ApprovePeriod(ctx, payroll.ApprovePeriodRequest{PeriodID: period.ID, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "approved", approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "approver-1", *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovalNotes)

	// Every calculated summary moved with the period.
	summaries, err := repo.ListSummariesByPeriod(context.Background(), period.ID, "company-1")
	require.NoError(t, err)
	for _, s := range summaries {
		assert.Equal(t, payroll.SummaryStatusApproved, s.Status)
	}

	// Approving twice is rejected.
	_, err = svc.ApprovePeriod(ctx, payroll.ApprovePeriodRequest{PeriodID: period.ID})
	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyApproved)
}

func TestApprovePeriodBlockedByHighSeverityAnomaly(t *testing.T) {
	svc, repo, _, att := newTestService(t)
	ctx := authedContext(t, "company-1", "approver-1")

	period := processedPeriod(t, svc, repo, att, ctx)

	// Attach a high severity anomaly to the only summary.
	summaries, err := repo.ListSummariesByPeriod(context.Background(), period.ID, "company-1")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	flagged := summaries[0].WithAnomalies([]payroll.AnomalyDetail{
		{Type: "salary_spike", Description: "net pay tripled", Severity: payroll.SeverityHigh},
	}, 0.95, nil)
	repo.summaries[flagged.ID] = flagged

	_, err = svc.ApprovePeriod(ctx, payroll.ApprovePeriodRequest{PeriodID: period.ID})
	require.Error(t, err)
	assert.ErrorIs(t, err, payroll.ErrSummaryBlocked)

	var blockErr *payroll.AnomalyBlockError
	require.ErrorAs(t, err, &blockErr)
	assert.Equal(t, []string{"emp-1"}, blockErr.EmployeeIDs)

	// The period stays in processing.
	current, err := svc.GetPeriod(ctx, period.ID)
	require.NoError(t, err)
	assert.Equal(t, "processing", current.Status)
}

func TestMarkPeriodPaid(t *testing.T) {
	svc, repo, _, att := newTestService(t)
	ctx := authedContext(t, "company-1", "approver-1")

	period := processedPeriod(t, svc, repo, att, ctx)

	// Draft/processing periods cannot be paid.
	_, err := svc.MarkPeriodPaid(ctx, period.ID)
	assert.ErrorIs(t, err, payroll.ErrPeriodNotPayable)

	_, err = svc.ApprovePeriod(ctx, payroll.ApprovePeriodRequest{PeriodID: period.ID})
	require.NoError(t, err)

	paid, err := svc.MarkPeriodPaid(ctx, period.ID)
	require.NoError(t, err)
	assert.Equal(t, "paid", paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.WithinDuration(t, time.Now(), *paid.PaidAt, time.Minute)

	summaries, err := repo.ListSummariesByPeriod(context.Background(), period.ID, "company-1")
	require.NoError(t, err)
	for _, s := range summaries {
		assert.Equal(t, payroll.SummaryStatusPaid, s.Status)
	}

	// Paid is terminal.
	_, err = svc.MarkPeriodPaid(ctx, period.ID)
	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyPaid)
	_, err = svc.CancelPeriod(ctx, period.ID)
	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyPaid)
}

func TestCancelPeriod(t *testing.T) {
	svc, repo, _, att := newTestService(t)
	ctx := authedContext(t, "company-1", "user-1")

	period := processedPeriod(t, svc, repo, att, ctx)

	summaries, err := svc.ListSummaries(ctx, period.ID)
	require.NoError(t, err)
	require.NotEmpty(t, summaries)

	cancelled, err := svc.CancelPeriod(ctx, period.ID)
	require.NoError(t, err)
	assert.Equal(t, "cancelled", cancelled.Status)

	// Cancelling discards the unpaid summaries so a rerun starts clean.
	summaries, err = svc.ListSummaries(ctx, period.ID)
	require.NoError(t, err)
	assert.Empty(t, summaries)

	_, err = svc.CancelPeriod(ctx, period.ID)
	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyCancelled)
}
