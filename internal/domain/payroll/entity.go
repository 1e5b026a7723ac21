package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStatus enum
type PeriodStatus string

const (
	PeriodStatusDraft      PeriodStatus = "draft"
	PeriodStatusProcessing PeriodStatus = "processing"
	PeriodStatusApproved   PeriodStatus = "approved"
	PeriodStatusPaid       PeriodStatus = "paid"
	PeriodStatusCancelled  PeriodStatus = "cancelled"
)

// PeriodTotals aggregates every summary of a period. Owned by the processing
// run; only WithTotals may replace them.
type PeriodTotals struct {
	GrossPay        decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal
	BPJSEmployee    decimal.Decimal
	BPJSEmployer    decimal.Decimal
	PPh21           decimal.Decimal
}

func (t PeriodTotals) validate() error {
	for _, v := range []decimal.Decimal{
		t.GrossPay, t.TotalDeductions, t.NetPay, t.BPJSEmployee, t.BPJSEmployer, t.PPh21,
	} {
		if v.IsNegative() {
			return ErrNegativeTotals
		}
	}
	return nil
}

// PayrollPeriod - one calendar payroll cycle per company, unique on
// company+month+year. Transition methods return an updated copy; the stored
// value is never mutated in place.
type PayrollPeriod struct {
	ID            string
	CompanyID     string
	Month         int
	Year          int
	StartDate     time.Time
	EndDate       time.Time
	PaymentDate   time.Time
	Totals        PeriodTotals
	Status        PeriodStatus
	ProcessedAt   *time.Time
	ApprovedAt    *time.Time
	ApprovedBy    *string
	ApprovalNotes *string
	PaidAt        *time.Time
	PaidBy        *string
	CancelledAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPayrollPeriod validates the date range invariant at construction:
// paymentDate >= endDate >= startDate.
func NewPayrollPeriod(companyID string, month, year int, start, end, payment time.Time) (PayrollPeriod, error) {
	if end.Before(start) || payment.Before(end) {
		return PayrollPeriod{}, ErrInvalidPeriodDates
	}
	if month < 1 || month > 12 {
		return PayrollPeriod{}, ErrInvalidPeriodDates
	}
	return PayrollPeriod{
		CompanyID:   companyID,
		Month:       month,
		Year:        year,
		StartDate:   start,
		EndDate:     end,
		PaymentDate: payment,
		Status:      PeriodStatusDraft,
	}, nil
}

// MarkProcessing transitions draft -> processing at the start of a batch run.
func (p PayrollPeriod) MarkProcessing(at time.Time) (PayrollPeriod, error) {
	if p.Status != PeriodStatusDraft {
		return p, ErrPeriodNotProcessable
	}
	p.Status = PeriodStatusProcessing
	p.ProcessedAt = &at
	return p, nil
}

// WithTotals replaces the aggregate totals. The orchestrator is the only
// caller; totals are never accumulated incrementally.
func (p PayrollPeriod) WithTotals(t PeriodTotals) (PayrollPeriod, error) {
	if err := t.validate(); err != nil {
		return p, err
	}
	p.Totals = t
	return p, nil
}

// Approve transitions processing -> approved, recording the approver.
func (p PayrollPeriod) Approve(approverID string, notes *string, at time.Time) (PayrollPeriod, error) {
	switch p.Status {
	case PeriodStatusApproved:
		return p, ErrPeriodAlreadyApproved
	case PeriodStatusProcessing:
	default:
		return p, ErrPeriodNotApprovable
	}
	p.Status = PeriodStatusApproved
	p.ApprovedAt = &at
	p.ApprovedBy = &approverID
	p.ApprovalNotes = notes
	return p, nil
}

// MarkPaid transitions approved -> paid. Paid is terminal.
func (p PayrollPeriod) MarkPaid(payerID string, at time.Time) (PayrollPeriod, error) {
	if p.Status == PeriodStatusPaid {
		return p, ErrPeriodAlreadyPaid
	}
	if p.Status != PeriodStatusApproved {
		return p, ErrPeriodNotPayable
	}
	p.Status = PeriodStatusPaid
	p.PaidAt = &at
	p.PaidBy = &payerID
	return p, nil
}

// Cancel is allowed from any state except paid. Cancelled is terminal too.
func (p PayrollPeriod) Cancel(at time.Time) (PayrollPeriod, error) {
	if p.Status == PeriodStatusPaid {
		return p, ErrPeriodAlreadyPaid
	}
	if p.Status == PeriodStatusCancelled {
		return p, ErrPeriodAlreadyCancelled
	}
	p.Status = PeriodStatusCancelled
	p.CancelledAt = &at
	return p, nil
}

// SummaryStatus enum
type SummaryStatus string

const (
	SummaryStatusDraft      SummaryStatus = "draft"
	SummaryStatusCalculated SummaryStatus = "calculated"
	SummaryStatusApproved   SummaryStatus = "approved"
	SummaryStatusPaid       SummaryStatus = "paid"
)

// AnomalySeverity enum
type AnomalySeverity string

const (
	SeverityLow    AnomalySeverity = "low"
	SeverityMedium AnomalySeverity = "medium"
	SeverityHigh   AnomalySeverity = "high"
)

// AnomalyDetail is one structured finding attached to a summary, either from
// the advisory AI validator or a local sanity check.
type AnomalyDetail struct {
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Severity    AnomalySeverity `json:"severity"`
}

// SummaryLine is one earning or deduction entry on a summary, ordered by the
// component display order for payslip rendering.
type SummaryLine struct {
	Code   string          `json:"code"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// PayrollSummary - the atomic unit of calculation, one per (period, employee).
// Created and owned by the processing run; approval and payment transitions
// belong to the approval workflow.
type PayrollSummary struct {
	ID         string
	PeriodID   string
	EmployeeID string
	CompanyID  string

	WorkingDays   int
	PresentDays   int
	AbsentDays    int
	LateDays      int
	OvertimeHours decimal.Decimal

	BaseSalary      decimal.Decimal
	ProratedSalary  decimal.Decimal
	OvertimePay     decimal.Decimal
	Earnings        []SummaryLine
	Deductions      []SummaryLine
	EmployerCosts   []SummaryLine
	TotalEarnings   decimal.Decimal
	TotalDeductions decimal.Decimal
	NetPay          decimal.Decimal

	BPJSEmployee decimal.Decimal
	BPJSEmployer decimal.Decimal
	PPh21        decimal.Decimal

	HasAnomaly   bool
	Anomalies    []AnomalyDetail
	AIConfidence float64
	AIReview     *string

	Status    SummaryStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate enforces the summary invariants: attendance counters consistent,
// net pay non-negative and equal to earnings minus deductions within one
// rupiah, AI confidence within [0,1].
func (s PayrollSummary) Validate() error {
	if s.PresentDays > s.WorkingDays || s.PresentDays < 0 || s.WorkingDays < 0 {
		return ErrSummaryInvariant
	}
	if s.NetPay.IsNegative() {
		return ErrSummaryInvariant
	}
	if s.TotalEarnings.Sub(s.TotalDeductions).Sub(s.NetPay).Abs().GreaterThan(NetPayRoundingTolerance) {
		return ErrSummaryInvariant
	}
	if s.AIConfidence < 0 || s.AIConfidence > 1 {
		return ErrSummaryInvariant
	}
	return nil
}

// HighestSeverity returns the worst severity among attached anomalies, or
// empty when the summary is clean.
func (s PayrollSummary) HighestSeverity() AnomalySeverity {
	var worst AnomalySeverity
	rank := map[AnomalySeverity]int{SeverityLow: 1, SeverityMedium: 2, SeverityHigh: 3}
	for _, a := range s.Anomalies {
		if rank[a.Severity] > rank[worst] {
			worst = a.Severity
		}
	}
	return worst
}

// MarkCalculated transitions draft -> calculated after local validation.
func (s PayrollSummary) MarkCalculated() (PayrollSummary, error) {
	if s.Status != SummaryStatusDraft {
		return s, ErrSummaryInvariant
	}
	if err := s.Validate(); err != nil {
		return s, err
	}
	s.Status = SummaryStatusCalculated
	return s, nil
}

// Approve transitions calculated -> approved. A high severity anomaly makes
// the summary unapprovable until resolved.
func (s PayrollSummary) Approve() (PayrollSummary, error) {
	if s.Status != SummaryStatusCalculated {
		return s, ErrSummaryNotCalculated
	}
	if s.HighestSeverity() == SeverityHigh {
		return s, ErrSummaryBlocked
	}
	s.Status = SummaryStatusApproved
	return s, nil
}

// MarkPaid transitions approved -> paid.
func (s PayrollSummary) MarkPaid() (PayrollSummary, error) {
	if s.Status != SummaryStatusApproved {
		return s, ErrSummaryNotCalculated
	}
	s.Status = SummaryStatusPaid
	return s, nil
}

// WithAnomalies attaches validator findings and flips the anomaly flag.
func (s PayrollSummary) WithAnomalies(details []AnomalyDetail, confidence float64, review *string) PayrollSummary {
	s.Anomalies = append(s.Anomalies, details...)
	s.HasAnomaly = len(s.Anomalies) > 0
	s.AIConfidence = confidence
	s.AIReview = review
	return s
}
