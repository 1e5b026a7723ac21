package payroll

import "github.com/shopspring/decimal"

// Statutory contribution rates and caps. Values follow the current BPJS and
// DJP regulations; update here when the government revises them.
var (
	// BPJS Kesehatan
	HealthEmployeeRate = decimal.RequireFromString("0.01")
	HealthEmployerRate = decimal.RequireFromString("0.04")
	HealthSalaryCap    = decimal.NewFromInt(12_000_000)

	// BPJS Ketenagakerjaan base cap (JP ceiling, applied to the whole
	// employment-insurance base)
	EmploymentSalaryCap = decimal.RequireFromString("10042300")

	// JKK employer rates indexed by risk class 1..5
	JKKRates = []decimal.Decimal{
		decimal.RequireFromString("0.0024"),
		decimal.RequireFromString("0.0054"),
		decimal.RequireFromString("0.0089"),
		decimal.RequireFromString("0.0127"),
		decimal.RequireFromString("0.0174"),
	}

	JKMEmployerRate = decimal.RequireFromString("0.003")
	JHTEmployeeRate = decimal.RequireFromString("0.02")
	JHTEmployerRate = decimal.RequireFromString("0.037")
	JPEmployeeRate  = decimal.RequireFromString("0.01")
	JPEmployerRate  = decimal.RequireFromString("0.02")
)

// PTKP (non-taxable income) annual allowances.
var (
	PTKPSelf         = decimal.NewFromInt(54_000_000)
	PTKPMarried      = decimal.NewFromInt(4_500_000)
	PTKPPerDependent = decimal.NewFromInt(4_500_000)
)

// MaxDependents is the statutory cap on dependents counted for PTKP. Higher
// counts are clamped, not rejected.
const MaxDependents = 3

// Occupational cost deduction: 5% of gross income, capped per month.
var (
	OccupationalCostRate = decimal.RequireFromString("0.05")
	OccupationalCostCap  = decimal.NewFromInt(500_000)
)

// TaxBracket is one progressive income tax tier. Ceiling is the cumulative
// annual income upper bound; a zero Ceiling marks the unbounded last tier.
type TaxBracket struct {
	Ceiling decimal.Decimal
	Rate    decimal.Decimal
}

// ProgressiveBrackets are the annual PPh21 tiers (UU HPP).
var ProgressiveBrackets = []TaxBracket{
	{Ceiling: decimal.NewFromInt(60_000_000), Rate: decimal.RequireFromString("0.05")},
	{Ceiling: decimal.NewFromInt(250_000_000), Rate: decimal.RequireFromString("0.15")},
	{Ceiling: decimal.NewFromInt(500_000_000), Rate: decimal.RequireFromString("0.25")},
	{Ceiling: decimal.NewFromInt(5_000_000_000), Rate: decimal.RequireFromString("0.30")},
	{Ceiling: decimal.Decimal{}, Rate: decimal.RequireFromString("0.35")},
}

// SeveranceBrackets are the one-time brackets for severance lump sums.
var SeveranceBrackets = []TaxBracket{
	{Ceiling: decimal.NewFromInt(50_000_000), Rate: decimal.Decimal{}},
	{Ceiling: decimal.NewFromInt(100_000_000), Rate: decimal.RequireFromString("0.05")},
	{Ceiling: decimal.NewFromInt(500_000_000), Rate: decimal.RequireFromString("0.15")},
	{Ceiling: decimal.Decimal{}, Rate: decimal.RequireFromString("0.25")},
}

// Overtime uses the statutory 173 monthly-hours divisor for the hourly rate,
// with 1.5x for the first hour and 2x afterwards.
var (
	MonthlyHoursDivisor     = decimal.NewFromInt(173)
	OvertimeFirstHourRate   = decimal.RequireFromString("1.5")
	OvertimeNextHoursRate   = decimal.RequireFromString("2")
	TaxableRoundingUnit     = decimal.NewFromInt(1_000)
	NetPayRoundingTolerance = decimal.NewFromInt(1)
)
