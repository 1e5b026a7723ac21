package response

import (
	"errors"
	"net/http"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/employee"
	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/gajiku-hq/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Anomaly blocks carry the offending employees
	var blockErr *payroll.AnomalyBlockError
	if errors.As(err, &blockErr) {
		Conflict(w, blockErr.Error())
		return
	}

	switch {
	// Not found
	case errors.Is(err, payroll.ErrPeriodNotFound):
		NotFound(w, "Payroll period not found")
	case errors.Is(err, payroll.ErrSummaryNotFound):
		NotFound(w, "Payroll summary not found")
	case errors.Is(err, payroll.ErrComponentNotFound):
		NotFound(w, "Payroll component not found")
	case errors.Is(err, payroll.ErrEmployeeComponentNotFound):
		NotFound(w, "Employee component assignment not found")
	case errors.Is(err, payroll.ErrEmployeeNotFound), errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Conflicts against the state machines
	case errors.Is(err, payroll.ErrPeriodAlreadyExists):
		Conflict(w, "Payroll period already exists for this month")
	case errors.Is(err, payroll.ErrSummaryAlreadyExists):
		Conflict(w, "Payroll summary already exists for this employee and period")
	case errors.Is(err, payroll.ErrComponentCodeExists):
		Conflict(w, "Payroll component code already exists")
	case errors.Is(err, payroll.ErrPeriodNotProcessable):
		Conflict(w, "Payroll period can only be processed from draft status")
	case errors.Is(err, payroll.ErrPeriodNotApprovable):
		Conflict(w, "Payroll period can only be approved from processing status")
	case errors.Is(err, payroll.ErrPeriodAlreadyApproved):
		Conflict(w, "Payroll period already approved")
	case errors.Is(err, payroll.ErrPeriodNotPayable):
		Conflict(w, "Payroll period can only be paid from approved status")
	case errors.Is(err, payroll.ErrPeriodAlreadyPaid):
		Conflict(w, "Payroll period already paid")
	case errors.Is(err, payroll.ErrPeriodAlreadyCancelled):
		Conflict(w, "Payroll period already cancelled")
	case errors.Is(err, payroll.ErrSummaryBlocked):
		Conflict(w, "Payroll summary has an unresolved high severity anomaly")

	// Forbidden
	case errors.Is(err, payroll.ErrSystemComponentReadOnly):
		Forbidden(w, "System payroll component cannot be modified")

	// Bad input
	case errors.Is(err, payroll.ErrInvalidPeriodDates),
		errors.Is(err, payroll.ErrInvalidComponentType),
		errors.Is(err, payroll.ErrEmployeeComponentInvalid),
		errors.Is(err, payroll.ErrNegativeSalary),
		errors.Is(err, payroll.ErrInvalidRiskClass),
		errors.Is(err, payroll.ErrInvalidDependents),
		errors.Is(err, payroll.ErrInvalidProrateDays),
		errors.Is(err, payroll.ErrNoAttendanceRecords),
		errors.Is(err, employee.ErrEmployeeInactive),
		errors.Is(err, employee.ErrNoBaseSalary):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
