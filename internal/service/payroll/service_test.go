package payroll

import (
	"context"
	"testing"
	"time"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// authedContext builds a context carrying the JWT claims the service reads.
func authedContext(t *testing.T, companyID, userID string) context.Context {
	t.Helper()
	token := jwt.New()
	require.NoError(t, token.Set("company_id", companyID))
	require.NoError(t, token.Set("user_id", userID))
	require.NoError(t, token.Set("type", "access"))
	return jwtauth.NewContext(context.Background(), token, nil)
}

func newTestService(t *testing.T) (payroll.PayrollService, *memPayrollRepo, *memEmployeeRepo, *memAttendanceRepo) {
	t.Helper()
	repo := newMemPayrollRepo()
	empRepo := newMemEmployeeRepo(testEmployee("emp-1", 10_000_000))
	att := newMemAttendanceRepo()
	proc := NewProcessor(repo, empRepo, att, nil, testLogger, 2, time.Second)
	return NewPayrollService(repo, empRepo, proc), repo, empRepo, att
}

func TestServiceCreateComponent(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := authedContext(t, "company-1", "user-1")

	amount := decimal.NewFromInt(750_000)
	created, err := svc.CreateComponent(ctx, payroll.CreateComponentRequest{
		Code:       "TRANSPORT",
		Name:       "Transport Allowance",
		Type:       "earning",
		CalcMethod: "fixed",
		Amount:     &amount,
	})
	require.NoError(t, err)
	assert.Equal(t, "TRANSPORT", created.Code)
	assert.Equal(t, "company-1", created.CompanyID)
	assert.True(t, created.IsActive)

	// Duplicate code in the same company is rejected.
	_, err = svc.CreateComponent(ctx, payroll.CreateComponentRequest{
		Code:       "TRANSPORT",
		Name:       "Other",
		Type:       "earning",
		CalcMethod: "fixed",
		Amount:     &amount,
	})
	assert.ErrorIs(t, err, payroll.ErrComponentCodeExists)
}

func TestServiceCreateComponentValidates(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := authedContext(t, "company-1", "user-1")

	_, err := svc.CreateComponent(ctx, payroll.CreateComponentRequest{
		Code: "", Name: "", Type: "bogus", CalcMethod: "fixed",
	})
	require.Error(t, err)
}

func TestServiceSystemComponentReadOnly(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	ctx := authedContext(t, "company-1", "user-1")

	system, err := repo.CreateComponent(context.Background(), payroll.PayrollComponent{
		CompanyID: "company-1", Code: "BASE", Name: "Base Salary",
		Type: payroll.ComponentTypeEarning, CalcMethod: payroll.CalcMethodFixed,
		IsSystem: true, IsActive: true,
	})
	require.NoError(t, err)

	name := "Renamed"
	err = svc.UpdateComponent(ctx, payroll.UpdateComponentRequest{ID: system.ID, Name: &name})
	assert.ErrorIs(t, err, payroll.ErrSystemComponentReadOnly)

	err = svc.DeleteComponent(ctx, system.ID)
	assert.ErrorIs(t, err, payroll.ErrSystemComponentReadOnly)
}

func TestServiceCreatePeriod(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := authedContext(t, "company-1", "user-1")

	req := payroll.CreatePeriodRequest{
		Month: 4, Year: 2025,
		StartDate: "2025-04-01", EndDate: "2025-04-30", PaymentDate: "2025-05-05",
	}
	created, err := svc.CreatePeriod(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 4, created.Month)
	assert.Equal(t, "draft", created.Status)

	// One period per company per month.
	_, err = svc.CreatePeriod(ctx, req)
	assert.ErrorIs(t, err, payroll.ErrPeriodAlreadyExists)
}

func TestServiceCreatePeriodRejectsBadDates(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := authedContext(t, "company-1", "user-1")

	_, err := svc.CreatePeriod(ctx, payroll.CreatePeriodRequest{
		Month: 4, Year: 2025,
		StartDate: "2025-04-30", EndDate: "2025-04-01", PaymentDate: "2025-05-05",
	})
	assert.ErrorIs(t, err, payroll.ErrInvalidPeriodDates)
}

func TestServiceCompanyScoping(t *testing.T) {
	svc, repo, _, _ := newTestService(t)

	period := april2025Period(t, repo)

	// Another company's token cannot see the period.
	otherCtx := authedContext(t, "company-2", "user-9")
	_, err := svc.GetPeriod(otherCtx, period.ID)
	assert.ErrorIs(t, err, payroll.ErrPeriodNotFound)

	ownCtx := authedContext(t, "company-1", "user-1")
	found, err := svc.GetPeriod(ownCtx, period.ID)
	require.NoError(t, err)
	assert.Equal(t, period.ID, found.ID)
}

func TestServiceMissingClaims(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.ListComponents(context.Background(), false)
	require.Error(t, err)
}

func TestServiceProcessAndPayslip(t *testing.T) {
	svc, repo, _, att := newTestService(t)
	ctx := authedContext(t, "company-1", "user-1")

	presentWeekdays(att, "emp-1", 22)
	period := april2025Period(t, repo)

	result, err := svc.ProcessPeriod(ctx, payroll.ProcessPeriodRequest{PeriodID: period.ID})
	require.NoError(t, err)
	require.Equal(t, 1, result.SummariesCreated)

	summaries, err := svc.ListSummaries(ctx, period.ID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	slip, err := svc.GetPayslip(ctx, summaries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Employee emp-1", slip.EmployeeName)
	assert.Equal(t, 4, slip.PeriodMonth)
	assert.Equal(t, 2025, slip.PeriodYear)
	assert.NotEmpty(t, slip.Earnings)
	assert.NotEmpty(t, slip.Deductions)
	assert.True(t, slip.TotalEarnings.Sub(slip.TotalDeductions).Equal(slip.NetPay))
}

func TestServiceSeedDefaultComponents(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	ctx := authedContext(t, "company-1", "user-1")

	seeded, err := svc.SeedDefaultComponents(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, seeded)

	codes := make(map[string]bool)
	for _, c := range seeded {
		codes[c.Code] = true
	}
	for _, code := range []string{"BASE", "OT", "BPJS_KES", "PPH21"} {
		assert.True(t, codes[code], "missing default component %s", code)
	}

	// Idempotent: a second call inserts nothing new.
	again, err := svc.SeedDefaultComponents(ctx)
	require.NoError(t, err)
	assert.Empty(t, again)
}
