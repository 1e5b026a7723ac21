package payroll

import (
	"context"

	"github.com/shopspring/decimal"
)

// EmployeeMonthlyTotal is one month of historical payroll for an employee,
// fed to the anomaly validator as context.
type EmployeeMonthlyTotal struct {
	Month         int
	Year          int
	TotalEarnings decimal.Decimal
	NetPay        decimal.Decimal
}

// PeriodSummaryStats are period-scoped aggregate counts used by the approval
// workflow and reporting.
type PeriodSummaryStats struct {
	SummaryCount      int
	AnomalyCount      int
	HighSeverityCount int
}

// PayrollRepository defines data access for periods, summaries and
// components. All methods are company-scoped to prevent cross-company access.
type PayrollRepository interface {
	// Periods
	CreatePeriod(ctx context.Context, period PayrollPeriod) (PayrollPeriod, error)
	GetPeriodByID(ctx context.Context, id, companyID string) (PayrollPeriod, error)
	GetPeriodByMonthYear(ctx context.Context, companyID string, month, year int) (PayrollPeriod, error)
	ListPeriods(ctx context.Context, companyID string, filter PeriodFilter) ([]PayrollPeriod, int64, error)
	UpdatePeriodStatus(ctx context.Context, period PayrollPeriod) error
	// UpdatePeriodTotals writes aggregate totals and the processing status in
	// one statement; the orchestrator calls it exactly once per run.
	UpdatePeriodTotals(ctx context.Context, period PayrollPeriod) error

	// Summaries
	CreateSummary(ctx context.Context, summary PayrollSummary) (PayrollSummary, error)
	GetSummaryByID(ctx context.Context, id, companyID string) (PayrollSummary, error)
	ListSummariesByPeriod(ctx context.Context, periodID, companyID string) ([]PayrollSummary, error)
	UpdateSummaryStatuses(ctx context.Context, periodID, companyID string, from, to SummaryStatus) error
	DeleteSummariesByPeriod(ctx context.Context, periodID, companyID string) error

	// Components
	CreateComponent(ctx context.Context, component PayrollComponent) (PayrollComponent, error)
	GetComponentByID(ctx context.Context, id, companyID string) (PayrollComponent, error)
	ListComponents(ctx context.Context, companyID string, activeOnly bool) ([]PayrollComponent, error)
	UpdateComponent(ctx context.Context, companyID string, req UpdateComponentRequest) error
	DeleteComponent(ctx context.Context, id, companyID string) error

	// Employee components
	AssignComponent(ctx context.Context, assignment EmployeeComponent, companyID string) (EmployeeComponent, error)
	GetEmployeeComponents(ctx context.Context, employeeID, companyID string, activeOnly bool) ([]EmployeeComponent, error)
	RemoveEmployeeComponent(ctx context.Context, id, companyID string) error

	// Aggregations
	EmployeeMonthlyTotals(ctx context.Context, employeeID, companyID string, months int) ([]EmployeeMonthlyTotal, error)
	GetPeriodStats(ctx context.Context, periodID, companyID string) (PeriodSummaryStats, error)
}

// ValidationContext is the full computed payroll context handed to the
// advisory anomaly validator.
type ValidationContext struct {
	EmployeeID      string
	EmployeeName    string
	PeriodMonth     int
	PeriodYear      int
	BaseSalary      decimal.Decimal
	ProratedSalary  decimal.Decimal
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	PresentDays     int
	WorkingDays     int
	OvertimeHours   decimal.Decimal
	History         []EmployeeMonthlyTotal
}

// ValidationResult is the validator's advisory verdict. A zero result means
// "no opinion".
type ValidationResult struct {
	HasErrors  bool
	Errors     []AnomalyDetail
	Confidence float64
	ReviewText string
}

// AnomalyValidator is an advisory, best-effort collaborator. Callers must
// bound it with a timeout and treat any error as "no opinion"; it is never a
// hard dependency for correctness.
type AnomalyValidator interface {
	Validate(ctx context.Context, vc ValidationContext) (ValidationResult, error)
}
