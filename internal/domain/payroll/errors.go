package payroll

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPeriodNotFound            = errors.New("payroll period not found")
	ErrPeriodAlreadyExists       = errors.New("payroll period already exists for this month")
	ErrInvalidPeriodDates        = errors.New("payment date must not precede end date, end date must not precede start date")
	ErrPeriodNotProcessable      = errors.New("payroll period can only be processed from draft status")
	ErrPeriodNotApprovable       = errors.New("payroll period can only be approved from processing status")
	ErrPeriodAlreadyApproved     = errors.New("payroll period already approved")
	ErrPeriodNotPayable          = errors.New("payroll period can only be paid from approved status")
	ErrPeriodAlreadyPaid         = errors.New("payroll period already paid, cannot modify")
	ErrPeriodAlreadyCancelled    = errors.New("payroll period already cancelled")
	ErrNegativeTotals            = errors.New("period totals must be non-negative")
	ErrSummaryNotFound           = errors.New("payroll summary not found")
	ErrSummaryAlreadyExists      = errors.New("payroll summary already exists for this employee and period")
	ErrSummaryNotCalculated      = errors.New("payroll summary has not been calculated")
	ErrSummaryBlocked            = errors.New("payroll summary has an unresolved high severity anomaly")
	ErrSummaryInvariant          = errors.New("payroll summary violates a calculation invariant")
	ErrComponentNotFound         = errors.New("payroll component not found")
	ErrComponentCodeExists       = errors.New("payroll component code already exists")
	ErrSystemComponentReadOnly   = errors.New("system payroll component cannot be modified")
	ErrInvalidComponentType      = errors.New("invalid payroll component type")
	ErrEmployeeComponentNotFound = errors.New("employee component assignment not found")
	ErrEmployeeComponentInvalid  = errors.New("employee component assignment references an unknown employee")

	ErrNegativeSalary      = errors.New("salary must be non-negative")
	ErrInvalidRiskClass    = errors.New("work accident risk class must be between 1 and 5")
	ErrInvalidDependents   = errors.New("dependent count must be non-negative")
	ErrInvalidProrateDays  = errors.New("working days must be between 0 and total days in month")
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrNoAttendanceRecords = errors.New("no attendance records for period")
)

// AnomalyBlockError rejects an approval while any summary still carries a
// high severity anomaly. It lists the blocking employees so the caller can
// resolve or override them first.
type AnomalyBlockError struct {
	EmployeeIDs []string
}

func (e *AnomalyBlockError) Error() string {
	return fmt.Sprintf("approval blocked by high severity anomalies for employees: %s",
		strings.Join(e.EmployeeIDs, ", "))
}

func (e *AnomalyBlockError) Is(target error) bool {
	return target == ErrSummaryBlocked
}
