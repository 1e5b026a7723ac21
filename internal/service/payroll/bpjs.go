package payroll

import (
	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// BPJSContribution is one sub-scheme split between employee and employer.
type BPJSContribution struct {
	Employee decimal.Decimal `json:"employee"`
	Employer decimal.Decimal `json:"employer"`
}

// BPJSResult carries the full sub-scheme breakdown so a payslip can justify
// every rupiah. It is never persisted directly; only its totals are copied
// into a summary.
type BPJSResult struct {
	HealthBase     decimal.Decimal  `json:"health_base"`
	EmploymentBase decimal.Decimal  `json:"employment_base"`
	Health         BPJSContribution `json:"health"`
	JKK            BPJSContribution `json:"jkk"`
	JKM            BPJSContribution `json:"jkm"`
	JHT            BPJSContribution `json:"jht"`
	JP             BPJSContribution `json:"jp"`
	TotalEmployee  decimal.Decimal  `json:"total_employee"`
	TotalEmployer  decimal.Decimal  `json:"total_employer"`
	GrandTotal     decimal.Decimal  `json:"grand_total"`
}

// BPJSCalculator computes statutory social security contributions.
type BPJSCalculator struct{}

func NewBPJSCalculator() *BPJSCalculator {
	return &BPJSCalculator{}
}

// Calculate splits health and employment insurance between employee and
// employer for the given contribution base. additionalBase holds taxable
// allowances that count toward the social security base. riskClass selects
// the JKK rate and must be 1..5; anything else is a caller contract
// violation.
//
// Every sub-scheme amount is rounded to the whole rupiah before summation.
// Official payslips round per scheme, so the order matters.
func (c *BPJSCalculator) Calculate(baseSalary, additionalBase decimal.Decimal, riskClass int) (BPJSResult, error) {
	if baseSalary.IsNegative() || additionalBase.IsNegative() {
		return BPJSResult{}, payroll.ErrNegativeSalary
	}
	if riskClass < 1 || riskClass > len(payroll.JKKRates) {
		return BPJSResult{}, payroll.ErrInvalidRiskClass
	}

	contributionBase := baseSalary.Add(additionalBase)
	healthBase := decimal.Min(contributionBase, payroll.HealthSalaryCap)
	employmentBase := decimal.Min(contributionBase, payroll.EmploymentSalaryCap)

	r := BPJSResult{
		HealthBase:     healthBase,
		EmploymentBase: employmentBase,
		Health: BPJSContribution{
			Employee: healthBase.Mul(payroll.HealthEmployeeRate).Round(0),
			Employer: healthBase.Mul(payroll.HealthEmployerRate).Round(0),
		},
		JKK: BPJSContribution{
			Employee: decimal.Zero,
			Employer: employmentBase.Mul(payroll.JKKRates[riskClass-1]).Round(0),
		},
		JKM: BPJSContribution{
			Employee: decimal.Zero,
			Employer: employmentBase.Mul(payroll.JKMEmployerRate).Round(0),
		},
		JHT: BPJSContribution{
			Employee: employmentBase.Mul(payroll.JHTEmployeeRate).Round(0),
			Employer: employmentBase.Mul(payroll.JHTEmployerRate).Round(0),
		},
		JP: BPJSContribution{
			Employee: employmentBase.Mul(payroll.JPEmployeeRate).Round(0),
			Employer: employmentBase.Mul(payroll.JPEmployerRate).Round(0),
		},
	}

	return c.withTotals(r), nil
}

// CalculateProrated scales every sub-scheme amount by
// workingDays/totalDaysInMonth for employees joining or exiting mid-period,
// rounding each sub-scheme independently after scaling. With
// workingDays == totalDaysInMonth the result equals Calculate exactly.
func (c *BPJSCalculator) CalculateProrated(baseSalary, additionalBase decimal.Decimal, riskClass, workingDays, totalDaysInMonth int) (BPJSResult, error) {
	if totalDaysInMonth <= 0 || workingDays < 0 || workingDays > totalDaysInMonth {
		return BPJSResult{}, payroll.ErrInvalidProrateDays
	}

	full, err := c.Calculate(baseSalary, additionalBase, riskClass)
	if err != nil {
		return BPJSResult{}, err
	}
	if workingDays == totalDaysInMonth {
		return full, nil
	}

	factor := decimal.NewFromInt(int64(workingDays)).Div(decimal.NewFromInt(int64(totalDaysInMonth)))
	scale := func(cn BPJSContribution) BPJSContribution {
		return BPJSContribution{
			Employee: cn.Employee.Mul(factor).Round(0),
			Employer: cn.Employer.Mul(factor).Round(0),
		}
	}

	full.Health = scale(full.Health)
	full.JKK = scale(full.JKK)
	full.JKM = scale(full.JKM)
	full.JHT = scale(full.JHT)
	full.JP = scale(full.JP)

	return c.withTotals(full), nil
}

func (c *BPJSCalculator) withTotals(r BPJSResult) BPJSResult {
	r.TotalEmployee = r.Health.Employee.
		Add(r.JKK.Employee).
		Add(r.JKM.Employee).
		Add(r.JHT.Employee).
		Add(r.JP.Employee)
	r.TotalEmployer = r.Health.Employer.
		Add(r.JKK.Employer).
		Add(r.JKM.Employer).
		Add(r.JHT.Employer).
		Add(r.JP.Employer)
	r.GrandTotal = r.TotalEmployee.Add(r.TotalEmployer)
	return r
}
