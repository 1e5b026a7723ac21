package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComponentType enum
type ComponentType string

const (
	ComponentTypeEarning   ComponentType = "earning"
	ComponentTypeDeduction ComponentType = "deduction"
	ComponentTypeBenefit   ComponentType = "benefit"
)

// CalcMethod enum
type CalcMethod string

const (
	CalcMethodFixed      CalcMethod = "fixed"
	CalcMethodPercentage CalcMethod = "percentage"
	CalcMethodFormula    CalcMethod = "formula"
)

// PayrollComponent - company-defined earning/deduction/benefit definition.
// System components are seeded at company creation and immutable afterwards.
type PayrollComponent struct {
	ID                string
	CompanyID         string
	Code              string
	Name              string
	Type              ComponentType
	CalcMethod        CalcMethod
	Amount            decimal.Decimal
	Percentage        decimal.Decimal
	Formula           *string
	IsTaxable         bool
	IncludeInBPJSBase bool
	DisplayOrder      int
	IsSystem          bool
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// AmountFor resolves the component amount for a base salary according to the
// calculation method. Formula components are resolved upstream and fall back
// to the fixed amount here.
func (c PayrollComponent) AmountFor(baseSalary decimal.Decimal) decimal.Decimal {
	switch c.CalcMethod {
	case CalcMethodPercentage:
		return baseSalary.Mul(c.Percentage).Round(0)
	default:
		return c.Amount
	}
}

// EmployeeComponent - assignment of a component to an employee, optionally
// overriding the amount, bounded by an effective window.
type EmployeeComponent struct {
	ID            string
	EmployeeID    string
	ComponentID   string
	Amount        *decimal.Decimal
	EffectiveDate time.Time
	EndDate       *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	Component *PayrollComponent
}

// ActiveOn reports whether the assignment applies on the given date.
func (e EmployeeComponent) ActiveOn(date time.Time) bool {
	if date.Before(e.EffectiveDate) {
		return false
	}
	if e.EndDate != nil && date.After(*e.EndDate) {
		return false
	}
	return true
}

// ResolvedAmount applies the per-employee override when present.
func (e EmployeeComponent) ResolvedAmount(baseSalary decimal.Decimal) decimal.Decimal {
	if e.Amount != nil {
		return *e.Amount
	}
	if e.Component == nil {
		return decimal.Zero
	}
	return e.Component.AmountFor(baseSalary)
}
