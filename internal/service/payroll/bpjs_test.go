package payroll

import (
	"testing"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "want %s, got %s", want, got)
}

func TestBPJSCalculate(t *testing.T) {
	calc := NewBPJSCalculator()

	result, err := calc.Calculate(decimal.NewFromInt(10_000_000), decimal.Zero, 2)
	require.NoError(t, err)

	assertDecimal(t, "10000000", result.HealthBase)
	assertDecimal(t, "10000000", result.EmploymentBase)

	assertDecimal(t, "100000", result.Health.Employee) // 1%
	assertDecimal(t, "400000", result.Health.Employer) // 4%
	assertDecimal(t, "54000", result.JKK.Employer)     // risk class 2, 0.54%
	assertDecimal(t, "30000", result.JKM.Employer)     // 0.3%
	assertDecimal(t, "200000", result.JHT.Employee)    // 2%
	assertDecimal(t, "370000", result.JHT.Employer)    // 3.7%
	assertDecimal(t, "100000", result.JP.Employee)     // 1%
	assertDecimal(t, "200000", result.JP.Employer)     // 2%

	assertDecimal(t, "400000", result.TotalEmployee)
	assertDecimal(t, "1054000", result.TotalEmployer)
	assertDecimal(t, "1454000", result.GrandTotal)
}

func TestBPJSCalculateTotalsConsistent(t *testing.T) {
	calc := NewBPJSCalculator()

	salaries := []int64{0, 1, 4_500_000, 10_042_300, 12_000_000, 25_000_000, 100_000_000}
	for _, salary := range salaries {
		for riskClass := 1; riskClass <= 5; riskClass++ {
			result, err := calc.Calculate(decimal.NewFromInt(salary), decimal.Zero, riskClass)
			require.NoError(t, err)

			assert.True(t, result.GrandTotal.Equal(result.TotalEmployee.Add(result.TotalEmployer)),
				"salary %d risk %d: grand total mismatch", salary, riskClass)

			for _, v := range []decimal.Decimal{
				result.Health.Employee, result.Health.Employer,
				result.JKK.Employer, result.JKM.Employer,
				result.JHT.Employee, result.JHT.Employer,
				result.JP.Employee, result.JP.Employer,
			} {
				assert.False(t, v.IsNegative(), "salary %d risk %d: negative contribution", salary, riskClass)
				assert.True(t, v.Equal(v.Round(0)), "salary %d risk %d: non-integer rupiah %s", salary, riskClass, v)
			}
		}
	}
}

func TestBPJSCalculateCaps(t *testing.T) {
	calc := NewBPJSCalculator()

	result, err := calc.Calculate(decimal.NewFromInt(20_000_000), decimal.Zero, 1)
	require.NoError(t, err)

	assertDecimal(t, "12000000", result.HealthBase)
	assertDecimal(t, "10042300", result.EmploymentBase)

	assertDecimal(t, "120000", result.Health.Employee)
	assertDecimal(t, "480000", result.Health.Employer)
	assertDecimal(t, "24102", result.JKK.Employer)  // 10042300 * 0.24%
	assertDecimal(t, "30127", result.JKM.Employer)  // 10042300 * 0.3%
	assertDecimal(t, "200846", result.JHT.Employee) // 10042300 * 2%
	assertDecimal(t, "371565", result.JHT.Employer) // 10042300 * 3.7%
	assertDecimal(t, "100423", result.JP.Employee)  // 10042300 * 1%
	assertDecimal(t, "200846", result.JP.Employer)  // 10042300 * 2%

	// Raising the salary further must not raise any contribution.
	higher, err := calc.Calculate(decimal.NewFromInt(50_000_000), decimal.Zero, 1)
	require.NoError(t, err)
	assert.True(t, higher.GrandTotal.Equal(result.GrandTotal))
}

func TestBPJSCalculateAdditionalBase(t *testing.T) {
	calc := NewBPJSCalculator()

	withAllowance, err := calc.Calculate(decimal.NewFromInt(8_000_000), decimal.NewFromInt(2_000_000), 2)
	require.NoError(t, err)
	plain, err := calc.Calculate(decimal.NewFromInt(10_000_000), decimal.Zero, 2)
	require.NoError(t, err)

	assert.True(t, withAllowance.GrandTotal.Equal(plain.GrandTotal))
}

func TestBPJSCalculateZeroSalary(t *testing.T) {
	calc := NewBPJSCalculator()

	result, err := calc.Calculate(decimal.Zero, decimal.Zero, 3)
	require.NoError(t, err)
	assert.True(t, result.GrandTotal.IsZero())
}

func TestBPJSCalculateRejectsInvalidInput(t *testing.T) {
	calc := NewBPJSCalculator()

	_, err := calc.Calculate(decimal.NewFromInt(-1), decimal.Zero, 1)
	assert.ErrorIs(t, err, payroll.ErrNegativeSalary)

	_, err = calc.Calculate(decimal.NewFromInt(5_000_000), decimal.NewFromInt(-1), 1)
	assert.ErrorIs(t, err, payroll.ErrNegativeSalary)

	for _, riskClass := range []int{0, 6, -1} {
		_, err := calc.Calculate(decimal.NewFromInt(5_000_000), decimal.Zero, riskClass)
		assert.ErrorIs(t, err, payroll.ErrInvalidRiskClass, "risk class %d", riskClass)
	}
}

func TestBPJSCalculateProrated(t *testing.T) {
	calc := NewBPJSCalculator()

	full, err := calc.Calculate(decimal.NewFromInt(10_000_000), decimal.Zero, 2)
	require.NoError(t, err)

	// Full month proration must be the identity.
	prorated, err := calc.CalculateProrated(decimal.NewFromInt(10_000_000), decimal.Zero, 2, 30, 30)
	require.NoError(t, err)
	assert.True(t, prorated.GrandTotal.Equal(full.GrandTotal))

	// Half month: health employee 100000 * 15/30 = 50000.
	half, err := calc.CalculateProrated(decimal.NewFromInt(10_000_000), decimal.Zero, 2, 15, 30)
	require.NoError(t, err)
	assertDecimal(t, "50000", half.Health.Employee)
	assertDecimal(t, "727000", half.GrandTotal)

	// Zero days worked contributes nothing.
	none, err := calc.CalculateProrated(decimal.NewFromInt(10_000_000), decimal.Zero, 2, 0, 30)
	require.NoError(t, err)
	assert.True(t, none.GrandTotal.IsZero())
}

func TestBPJSCalculateProratedRejectsBadDays(t *testing.T) {
	calc := NewBPJSCalculator()

	_, err := calc.CalculateProrated(decimal.NewFromInt(10_000_000), decimal.Zero, 2, 31, 30)
	assert.ErrorIs(t, err, payroll.ErrInvalidProrateDays)

	_, err = calc.CalculateProrated(decimal.NewFromInt(10_000_000), decimal.Zero, 2, -1, 30)
	assert.ErrorIs(t, err, payroll.ErrInvalidProrateDays)

	_, err = calc.CalculateProrated(decimal.NewFromInt(10_000_000), decimal.Zero, 2, 0, 0)
	assert.ErrorIs(t, err, payroll.ErrInvalidProrateDays)
}
