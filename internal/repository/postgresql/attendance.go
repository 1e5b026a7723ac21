package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/attendance"
	"github.com/gajiku-hq/payroll-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) RecordsForEmployeeInRange(ctx context.Context, employeeID, companyID string, start, end time.Time) ([]attendance.DayRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, company_id, date, status, late_minutes, overtime_hours
		FROM attendance_days
		WHERE employee_id = $1 AND company_id = $2 AND date BETWEEN $3 AND $4
		ORDER BY date
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get attendance records: %w", err)
	}
	defer rows.Close()

	var records []attendance.DayRecord
	for rows.Next() {
		var rec attendance.DayRecord
		err := rows.Scan(
			&rec.EmployeeID, &rec.CompanyID, &rec.Date,
			&rec.Status, &rec.LateMinutes, &rec.OvertimeHours,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
