package fixtures

import (
	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// DefaultPayrollComponents returns the system components every company starts
// with. System components back the fixed payslip lines (base salary, overtime,
// statutory deductions) and cannot be edited or deleted afterwards.
func DefaultPayrollComponents(companyID string) []payroll.PayrollComponent {
	return []payroll.PayrollComponent{
		{
			CompanyID:         companyID,
			Code:              "BASE",
			Name:              "Base Salary",
			Type:              payroll.ComponentTypeEarning,
			CalcMethod:        payroll.CalcMethodFormula,
			IsTaxable:         true,
			IncludeInBPJSBase: true,
			DisplayOrder:      1,
			IsSystem:          true,
			IsActive:          true,
		},
		{
			CompanyID:    companyID,
			Code:         "OT",
			Name:         "Overtime",
			Type:         payroll.ComponentTypeEarning,
			CalcMethod:   payroll.CalcMethodFormula,
			IsTaxable:    true,
			DisplayOrder: 2,
			IsSystem:     true,
			IsActive:     true,
		},
		{
			CompanyID:    companyID,
			Code:         "BPJS_KES",
			Name:         "BPJS Kesehatan",
			Type:         payroll.ComponentTypeDeduction,
			CalcMethod:   payroll.CalcMethodFormula,
			DisplayOrder: 10,
			IsSystem:     true,
			IsActive:     true,
		},
		{
			CompanyID:    companyID,
			Code:         "BPJS_JHT",
			Name:         "BPJS JHT",
			Type:         payroll.ComponentTypeDeduction,
			CalcMethod:   payroll.CalcMethodFormula,
			DisplayOrder: 11,
			IsSystem:     true,
			IsActive:     true,
		},
		{
			CompanyID:    companyID,
			Code:         "BPJS_JP",
			Name:         "BPJS JP",
			Type:         payroll.ComponentTypeDeduction,
			CalcMethod:   payroll.CalcMethodFormula,
			DisplayOrder: 12,
			IsSystem:     true,
			IsActive:     true,
		},
		{
			CompanyID:    companyID,
			Code:         "PPH21",
			Name:         "PPh 21",
			Type:         payroll.ComponentTypeDeduction,
			CalcMethod:   payroll.CalcMethodFormula,
			DisplayOrder: 13,
			IsSystem:     true,
			IsActive:     true,
		},
		{
			CompanyID:    companyID,
			Code:         "MEAL",
			Name:         "Meal Allowance",
			Type:         payroll.ComponentTypeEarning,
			CalcMethod:   payroll.CalcMethodFixed,
			Amount:       decimal.NewFromInt(500_000),
			IsTaxable:    true,
			DisplayOrder: 3,
			IsActive:     true,
		},
		{
			CompanyID:    companyID,
			Code:         "TRANSPORT",
			Name:         "Transport Allowance",
			Type:         payroll.ComponentTypeEarning,
			CalcMethod:   payroll.CalcMethodFixed,
			Amount:       decimal.NewFromInt(500_000),
			IsTaxable:    true,
			DisplayOrder: 4,
			IsActive:     true,
		},
	}
}
