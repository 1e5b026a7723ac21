package attendance

import (
	"context"
	"time"
)

// AttendanceRepository exposes resolved attendance days to the payroll
// engine. The capture workflow (clock-in/out, approvals) lives elsewhere.
type AttendanceRepository interface {
	RecordsForEmployeeInRange(ctx context.Context, employeeID, companyID string, start, end time.Time) ([]DayRecord, error)
}
