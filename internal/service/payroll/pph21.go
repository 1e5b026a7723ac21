package payroll

import (
	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// TaxBracketLine is one row of the bracket-by-bracket audit trail.
type TaxBracketLine struct {
	Ceiling       decimal.Decimal `json:"ceiling"` // zero means unbounded
	Rate          decimal.Decimal `json:"rate"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	Tax           decimal.Decimal `json:"tax"`
}

// PPh21Result carries the monthly withholding with every intermediate figure
// needed to reproduce it on a payslip.
type PPh21Result struct {
	GrossMonthly     decimal.Decimal  `json:"gross_monthly"`
	OccupationalCost decimal.Decimal  `json:"occupational_cost"`
	BPJSDeduction    decimal.Decimal  `json:"bpjs_deduction"`
	NetMonthly       decimal.Decimal  `json:"net_monthly"`
	NetAnnual        decimal.Decimal  `json:"net_annual"`
	PTKP             decimal.Decimal  `json:"ptkp"`
	TaxableAnnual    decimal.Decimal  `json:"taxable_annual"`
	Brackets         []TaxBracketLine `json:"brackets"`
	AnnualTax        decimal.Decimal  `json:"annual_tax"`
	MonthlyTax       decimal.Decimal  `json:"monthly_tax"`
}

// BonusTaxResult reports the differential tax on a one-off bonus.
type BonusTaxResult struct {
	Regular       PPh21Result     `json:"regular"`
	WithBonus     PPh21Result     `json:"with_bonus"`
	BonusAmount   decimal.Decimal `json:"bonus_amount"`
	BonusTax      decimal.Decimal `json:"bonus_tax"`
	EffectiveRate decimal.Decimal `json:"effective_rate"`
}

// SeveranceTaxResult reports the one-time tax on a severance lump sum.
type SeveranceTaxResult struct {
	LumpSum  decimal.Decimal  `json:"lump_sum"`
	Brackets []TaxBracketLine `json:"brackets"`
	TotalTax decimal.Decimal  `json:"total_tax"`
}

// PPh21Calculator computes monthly progressive income tax withholding.
type PPh21Calculator struct{}

func NewPPh21Calculator() *PPh21Calculator {
	return &PPh21Calculator{}
}

// Calculate returns the monthly PPh21 withholding for a regular salary.
// Dependents above the statutory maximum are clamped, mirroring the PTKP
// rule; a negative count is a caller error.
func (c *PPh21Calculator) Calculate(monthlyGross, monthlyBPJSEmployee decimal.Decimal, married bool, dependents int) (PPh21Result, error) {
	if monthlyGross.IsNegative() {
		return PPh21Result{}, payroll.ErrNegativeSalary
	}
	if dependents < 0 {
		return PPh21Result{}, payroll.ErrInvalidDependents
	}
	if dependents > payroll.MaxDependents {
		dependents = payroll.MaxDependents
	}

	ptkp := payroll.PTKPSelf
	if married {
		ptkp = ptkp.Add(payroll.PTKPMarried)
	}
	ptkp = ptkp.Add(payroll.PTKPPerDependent.Mul(decimal.NewFromInt(int64(dependents))))

	fivePercent := monthlyGross.Mul(payroll.OccupationalCostRate)
	occupationalCost := decimal.Min(fivePercent, payroll.OccupationalCostCap)
	bpjsDeduction := decimal.Min(monthlyBPJSEmployee, fivePercent)

	netMonthly := monthlyGross.Sub(occupationalCost).Sub(bpjsDeduction)
	netAnnual := netMonthly.Mul(decimal.NewFromInt(12))

	taxable := netAnnual.Sub(ptkp)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	// Statutory rounding: always floor to the nearest 1,000, never round.
	taxable = taxable.Div(payroll.TaxableRoundingUnit).Floor().Mul(payroll.TaxableRoundingUnit)

	brackets, annualTax := walkBrackets(taxable, payroll.ProgressiveBrackets)

	return PPh21Result{
		GrossMonthly:     monthlyGross,
		OccupationalCost: occupationalCost,
		BPJSDeduction:    bpjsDeduction,
		NetMonthly:       netMonthly,
		NetAnnual:        netAnnual,
		PTKP:             ptkp,
		TaxableAnnual:    taxable,
		Brackets:         brackets,
		AnnualTax:        annualTax,
		MonthlyTax:       annualTax.Div(decimal.NewFromInt(12)).Round(0),
	}, nil
}

// CalculateBonus taxes a one-off bonus with the differential method: annual
// tax on twelve months of regular income plus the bonus received once, minus
// annual tax on the regular income alone. The bonus enters the annual figure
// a single time, so the differential stays within the top marginal rate of
// the bonus itself. The difference is never negative.
func (c *PPh21Calculator) CalculateBonus(monthlyGross, bonus, monthlyBPJSEmployee decimal.Decimal, married bool, dependents int) (BonusTaxResult, error) {
	if bonus.IsNegative() {
		return BonusTaxResult{}, payroll.ErrNegativeSalary
	}

	regular, err := c.Calculate(monthlyGross, monthlyBPJSEmployee, married, dependents)
	if err != nil {
		return BonusTaxResult{}, err
	}

	withBonus := regular
	withBonus.NetAnnual = regular.NetAnnual.Add(bonus)

	taxable := withBonus.NetAnnual.Sub(regular.PTKP)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	taxable = taxable.Div(payroll.TaxableRoundingUnit).Floor().Mul(payroll.TaxableRoundingUnit)
	withBonus.TaxableAnnual = taxable

	withBonus.Brackets, withBonus.AnnualTax = walkBrackets(taxable, payroll.ProgressiveBrackets)
	withBonus.MonthlyTax = withBonus.AnnualTax.Div(decimal.NewFromInt(12)).Round(0)

	bonusTax := withBonus.AnnualTax.Sub(regular.AnnualTax)
	if bonusTax.IsNegative() {
		bonusTax = decimal.Zero
	}

	effectiveRate := decimal.Zero
	if bonus.IsPositive() {
		effectiveRate = bonusTax.Div(bonus)
	}

	return BonusTaxResult{
		Regular:       regular,
		WithBonus:     withBonus,
		BonusAmount:   bonus,
		BonusTax:      bonusTax,
		EffectiveRate: effectiveRate,
	}, nil
}

// CalculateSeverance applies the one-time severance bracket table to a lump
// sum with the same independent per-bracket rounding as the regular tariff.
func (c *PPh21Calculator) CalculateSeverance(lumpSum decimal.Decimal) (SeveranceTaxResult, error) {
	if lumpSum.IsNegative() {
		return SeveranceTaxResult{}, payroll.ErrNegativeSalary
	}

	brackets, total := walkBrackets(lumpSum, payroll.SeveranceBrackets)

	return SeveranceTaxResult{
		LumpSum:  lumpSum,
		Brackets: brackets,
		TotalTax: total,
	}, nil
}

// walkBrackets distributes a taxable amount over progressive tiers. Each
// line's tax is rounded independently; the total is the sum of the rounded
// lines. Every tier appears in the audit trail even when its share is zero.
func walkBrackets(taxable decimal.Decimal, table []payroll.TaxBracket) ([]TaxBracketLine, decimal.Decimal) {
	lines := make([]TaxBracketLine, 0, len(table))
	total := decimal.Zero
	remaining := taxable
	floor := decimal.Zero

	for _, b := range table {
		var amount decimal.Decimal
		if b.Ceiling.IsZero() {
			amount = remaining
		} else {
			amount = decimal.Min(remaining, b.Ceiling.Sub(floor))
			floor = b.Ceiling
		}
		if amount.IsNegative() {
			amount = decimal.Zero
		}

		tax := amount.Mul(b.Rate).Round(0)
		lines = append(lines, TaxBracketLine{
			Ceiling:       b.Ceiling,
			Rate:          b.Rate,
			TaxableAmount: amount,
			Tax:           tax,
		})
		total = total.Add(tax)
		remaining = remaining.Sub(amount)
	}

	return lines, total
}
