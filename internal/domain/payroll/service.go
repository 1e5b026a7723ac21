package payroll

import "context"

// PayrollService defines business logic for payroll operations. Company and
// actor identity come from JWT claims in the request context.
type PayrollService interface {
	// Components
	SeedDefaultComponents(ctx context.Context) ([]ComponentResponse, error)
	CreateComponent(ctx context.Context, req CreateComponentRequest) (ComponentResponse, error)
	GetComponent(ctx context.Context, id string) (ComponentResponse, error)
	ListComponents(ctx context.Context, activeOnly bool) ([]ComponentResponse, error)
	UpdateComponent(ctx context.Context, req UpdateComponentRequest) error
	DeleteComponent(ctx context.Context, id string) error

	// Employee components
	AssignComponent(ctx context.Context, req AssignComponentRequest) (EmployeeComponentResponse, error)
	GetEmployeeComponents(ctx context.Context, employeeID string) ([]EmployeeComponentResponse, error)
	RemoveEmployeeComponent(ctx context.Context, id string) error

	// Periods
	CreatePeriod(ctx context.Context, req CreatePeriodRequest) (PeriodResponse, error)
	GetPeriod(ctx context.Context, id string) (PeriodResponse, error)
	ListPeriods(ctx context.Context, filter PeriodFilter) (ListPeriodResponse, error)

	// ProcessPeriod runs the batch calculation for a draft period.
	ProcessPeriod(ctx context.Context, req ProcessPeriodRequest) (BatchResult, error)

	// Approval workflow
	ApprovePeriod(ctx context.Context, req ApprovePeriodRequest) (PeriodResponse, error)
	MarkPeriodPaid(ctx context.Context, periodID string) (PeriodResponse, error)
	CancelPeriod(ctx context.Context, periodID string) (PeriodResponse, error)

	// Summaries and payslips
	ListSummaries(ctx context.Context, periodID string) ([]SummaryResponse, error)
	GetPayslip(ctx context.Context, summaryID string) (PayslipResponse, error)
}
