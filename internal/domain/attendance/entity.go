package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// AttendanceStatus enum
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusLate    AttendanceStatus = "late"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLeave   AttendanceStatus = "leave"
)

// DayRecord is one resolved attendance day for an employee, as produced by
// the clock-in/out capture subsystem.
type DayRecord struct {
	EmployeeID    string
	CompanyID     string
	Date          time.Time
	Status        AttendanceStatus
	LateMinutes   int
	OvertimeHours decimal.Decimal
}

// Present reports whether the day counts toward presence (late days are
// present days that also bump the late counter).
func (r DayRecord) Present() bool {
	return r.Status == StatusPresent || r.Status == StatusLate
}
