package payroll

import (
	"testing"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPPh21CalculateSingleNoDependents(t *testing.T) {
	calc := NewPPh21Calculator()

	result, err := calc.Calculate(decimal.NewFromInt(10_000_000), decimal.Zero, false, 0)
	require.NoError(t, err)

	assertDecimal(t, "500000", result.OccupationalCost) // 5% capped at 500k
	assertDecimal(t, "9500000", result.NetMonthly)
	assertDecimal(t, "114000000", result.NetAnnual)
	assertDecimal(t, "54000000", result.PTKP)
	assertDecimal(t, "60000000", result.TaxableAnnual)
	assertDecimal(t, "3000000", result.AnnualTax) // first bracket only, 5%
	assertDecimal(t, "250000", result.MonthlyTax)
}

func TestPPh21CalculateMarriedWithDependents(t *testing.T) {
	calc := NewPPh21Calculator()

	result, err := calc.Calculate(decimal.NewFromInt(15_000_000), decimal.NewFromInt(300_000), true, 2)
	require.NoError(t, err)

	assertDecimal(t, "500000", result.OccupationalCost)
	assertDecimal(t, "300000", result.BPJSDeduction)
	assertDecimal(t, "67500000", result.PTKP) // 54M + 4.5M + 2*4.5M
	assertDecimal(t, "102900000", result.TaxableAnnual)
	// 60M at 5% + 42.9M at 15%
	assertDecimal(t, "9435000", result.AnnualTax)
	assertDecimal(t, "786250", result.MonthlyTax)
}

func TestPPh21CalculateBelowPTKP(t *testing.T) {
	calc := NewPPh21Calculator()

	result, err := calc.Calculate(decimal.NewFromInt(4_000_000), decimal.Zero, false, 0)
	require.NoError(t, err)

	assert.True(t, result.TaxableAnnual.IsZero())
	assert.True(t, result.AnnualTax.IsZero())
	assert.True(t, result.MonthlyTax.IsZero())
}

func TestPPh21CalculateZeroGross(t *testing.T) {
	calc := NewPPh21Calculator()

	result, err := calc.Calculate(decimal.Zero, decimal.Zero, true, 3)
	require.NoError(t, err)
	assert.True(t, result.MonthlyTax.IsZero())
}

func TestPPh21TaxableFlooredToThousand(t *testing.T) {
	calc := NewPPh21Calculator()

	// Gross chosen so the annual taxable lands between thousands.
	result, err := calc.Calculate(decimal.RequireFromString("10000037"), decimal.Zero, false, 0)
	require.NoError(t, err)

	thousand := decimal.NewFromInt(1000)
	assert.True(t, result.TaxableAnnual.Mod(thousand).IsZero(),
		"taxable %s not a multiple of 1000", result.TaxableAnnual)
	assert.True(t, result.TaxableAnnual.LessThanOrEqual(result.NetAnnual.Sub(result.PTKP)))
}

func TestPPh21MonthlyTimesTwelveNearAnnual(t *testing.T) {
	calc := NewPPh21Calculator()

	for _, gross := range []int64{6_000_000, 10_000_000, 27_500_000, 60_000_000, 500_000_000} {
		result, err := calc.Calculate(decimal.NewFromInt(gross), decimal.Zero, true, 1)
		require.NoError(t, err)

		diff := result.MonthlyTax.Mul(decimal.NewFromInt(12)).Sub(result.AnnualTax).Abs()
		assert.True(t, diff.LessThanOrEqual(decimal.NewFromInt(6)),
			"gross %d: monthly*12 drifts %s from annual", gross, diff)
	}
}

func TestPPh21HighIncomeWalksAllBrackets(t *testing.T) {
	calc := NewPPh21Calculator()

	// 500M/month: annual taxable far above the 5B top bracket floor.
	result, err := calc.Calculate(decimal.NewFromInt(500_000_000), decimal.Zero, false, 0)
	require.NoError(t, err)

	require.Len(t, result.Brackets, 5)
	for _, line := range result.Brackets {
		assert.False(t, line.TaxableAmount.IsNegative())
		assert.True(t, line.Tax.Equal(line.TaxableAmount.Mul(line.Rate).Round(0)))
	}
	// Top bracket is unbounded and must carry the remainder.
	assert.True(t, result.Brackets[4].TaxableAmount.IsPositive())

	var sum decimal.Decimal
	for _, line := range result.Brackets {
		sum = sum.Add(line.TaxableAmount)
	}
	assert.True(t, sum.Equal(result.TaxableAnnual))
}

func TestPPh21DependentsClamped(t *testing.T) {
	calc := NewPPh21Calculator()

	atMax, err := calc.Calculate(decimal.NewFromInt(20_000_000), decimal.Zero, true, 3)
	require.NoError(t, err)
	beyondMax, err := calc.Calculate(decimal.NewFromInt(20_000_000), decimal.Zero, true, 7)
	require.NoError(t, err)

	assert.True(t, atMax.MonthlyTax.Equal(beyondMax.MonthlyTax))
	assert.True(t, atMax.PTKP.Equal(beyondMax.PTKP))
}

func TestPPh21RejectsInvalidInput(t *testing.T) {
	calc := NewPPh21Calculator()

	_, err := calc.Calculate(decimal.NewFromInt(-1), decimal.Zero, false, 0)
	assert.ErrorIs(t, err, payroll.ErrNegativeSalary)

	_, err = calc.Calculate(decimal.NewFromInt(10_000_000), decimal.Zero, false, -1)
	assert.ErrorIs(t, err, payroll.ErrInvalidDependents)
}

func TestPPh21CalculateBonus(t *testing.T) {
	calc := NewPPh21Calculator()

	result, err := calc.CalculateBonus(decimal.NewFromInt(10_000_000), decimal.NewFromInt(20_000_000), decimal.Zero, false, 0)
	require.NoError(t, err)

	// Regular annual: net 114M, taxable 60M, tax 3M. With the bonus added
	// once: net 134M, taxable 80M, tax 60M*5% + 20M*15% = 6M.
	assertDecimal(t, "3000000", result.Regular.AnnualTax)
	assertDecimal(t, "134000000", result.WithBonus.NetAnnual)
	assertDecimal(t, "80000000", result.WithBonus.TaxableAnnual)
	assertDecimal(t, "6000000", result.WithBonus.AnnualTax)
	assertDecimal(t, "3000000", result.BonusTax)
	assertDecimal(t, "0.15", result.EffectiveRate)

	assert.False(t, result.BonusTax.IsNegative())
	assert.True(t, result.EffectiveRate.IsPositive())
}

func TestPPh21BonusTaxNeverExceedsBonus(t *testing.T) {
	calc := NewPPh21Calculator()

	// 30M salary pushes regular income into the 25% bracket already; a 10M
	// bonus is taxed entirely at that marginal rate.
	result, err := calc.CalculateBonus(decimal.NewFromInt(30_000_000), decimal.NewFromInt(10_000_000), decimal.Zero, false, 0)
	require.NoError(t, err)

	assertDecimal(t, "44000000", result.Regular.AnnualTax)
	assertDecimal(t, "2500000", result.BonusTax)
	assertDecimal(t, "0.25", result.EffectiveRate)

	for _, tc := range []struct{ gross, bonus int64 }{
		{8_000_000, 1_000_000},
		{10_000_000, 20_000_000},
		{60_000_000, 120_000_000},
		{500_000_000, 1_000_000_000},
	} {
		result, err := calc.CalculateBonus(decimal.NewFromInt(tc.gross), decimal.NewFromInt(tc.bonus), decimal.Zero, true, 2)
		require.NoError(t, err)

		assert.False(t, result.BonusTax.IsNegative(),
			"gross %d bonus %d: negative bonus tax %s", tc.gross, tc.bonus, result.BonusTax)
		assert.True(t, result.BonusTax.LessThanOrEqual(decimal.NewFromInt(tc.bonus)),
			"gross %d bonus %d: bonus tax %s exceeds the bonus", tc.gross, tc.bonus, result.BonusTax)
	}
}

func TestPPh21CalculateBonusZero(t *testing.T) {
	calc := NewPPh21Calculator()

	result, err := calc.CalculateBonus(decimal.NewFromInt(10_000_000), decimal.Zero, decimal.Zero, false, 0)
	require.NoError(t, err)

	assert.True(t, result.BonusTax.IsZero())
	assert.True(t, result.EffectiveRate.IsZero())
}

func TestPPh21CalculateBonusRejectsNegative(t *testing.T) {
	calc := NewPPh21Calculator()

	_, err := calc.CalculateBonus(decimal.NewFromInt(10_000_000), decimal.NewFromInt(-1), decimal.Zero, false, 0)
	assert.ErrorIs(t, err, payroll.ErrNegativeSalary)
}

func TestPPh21CalculateSeverance(t *testing.T) {
	calc := NewPPh21Calculator()

	result, err := calc.CalculateSeverance(decimal.NewFromInt(120_000_000))
	require.NoError(t, err)

	// 50M at 0% + 50M at 5% + 20M at 15%
	assertDecimal(t, "5500000", result.TotalTax)
	require.Len(t, result.Brackets, 4)
	assert.True(t, result.Brackets[0].Tax.IsZero())
}

func TestPPh21CalculateSeveranceBelowThreshold(t *testing.T) {
	calc := NewPPh21Calculator()

	result, err := calc.CalculateSeverance(decimal.NewFromInt(40_000_000))
	require.NoError(t, err)
	assert.True(t, result.TotalTax.IsZero())
}
