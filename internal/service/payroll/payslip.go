package payroll

import (
	"context"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
)

// GetPayslip assembles a presentation-ready breakdown for one summary. Line
// ordering follows the component display order captured at calculation time.
func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, summaryID string) (payroll.PayslipResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	summary, err := s.payrollRepo.GetSummaryByID(ctx, summaryID, companyID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	period, err := s.payrollRepo.GetPeriodByID(ctx, summary.PeriodID, companyID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, summary.EmployeeID, companyID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	return AssemblePayslip(summary, period, emp.FullName), nil
}

// AssemblePayslip maps a calculated summary onto the payslip shape.
func AssemblePayslip(summary payroll.PayrollSummary, period payroll.PayrollPeriod, employeeName string) payroll.PayslipResponse {
	return payroll.PayslipResponse{
		SummaryID:       summary.ID,
		EmployeeID:      summary.EmployeeID,
		EmployeeName:    employeeName,
		PeriodMonth:     period.Month,
		PeriodYear:      period.Year,
		WorkingDays:     summary.WorkingDays,
		PresentDays:     summary.PresentDays,
		AbsentDays:      summary.AbsentDays,
		LateDays:        summary.LateDays,
		OvertimeHours:   summary.OvertimeHours,
		Earnings:        summary.Earnings,
		Deductions:      summary.Deductions,
		EmployerCosts:   summary.EmployerCosts,
		TotalEarnings:   summary.TotalEarnings,
		TotalDeductions: summary.TotalDeductions,
		NetPay:          summary.NetPay,
	}
}
