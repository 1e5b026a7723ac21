package employee

import "context"

// EmployeeRepository is the employee directory contract consumed by the
// payroll engine. All methods are company-scoped.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id, companyID string) (Employee, error)
	GetByIDs(ctx context.Context, ids []string, companyID string) ([]Employee, error)
	ActiveEmployees(ctx context.Context, companyID string) ([]Employee, error)
}
