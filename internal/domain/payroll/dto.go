package payroll

import (
	"time"

	"github.com/gajiku-hq/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== COMPONENT DTOs ==========

type CreateComponentRequest struct {
	Code              string           `json:"code"`
	Name              string           `json:"name"`
	Type              string           `json:"type"` // "earning", "deduction" or "benefit"
	CalcMethod        string           `json:"calc_method"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	Percentage        *decimal.Decimal `json:"percentage,omitempty"`
	IsTaxable         *bool            `json:"is_taxable,omitempty"`
	IncludeInBPJSBase *bool            `json:"include_in_bpjs_base,omitempty"`
	DisplayOrder      int              `json:"display_order"`
}

func (r *CreateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "is required"})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "is required"})
	}
	switch ComponentType(r.Type) {
	case ComponentTypeEarning, ComponentTypeDeduction, ComponentTypeBenefit:
	default:
		errs = append(errs, validator.ValidationError{Field: "type", Message: "must be 'earning', 'deduction' or 'benefit'"})
	}
	switch CalcMethod(r.CalcMethod) {
	case CalcMethodFixed:
		if r.Amount == nil || r.Amount.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be a non-negative amount"})
		}
	case CalcMethodPercentage:
		if r.Percentage == nil || r.Percentage.IsNegative() || r.Percentage.GreaterThan(decimal.NewFromInt(1)) {
			errs = append(errs, validator.ValidationError{Field: "percentage", Message: "must be between 0 and 1"})
		}
	case CalcMethodFormula:
	default:
		errs = append(errs, validator.ValidationError{Field: "calc_method", Message: "must be 'fixed', 'percentage' or 'formula'"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateComponentRequest struct {
	ID           string
	Name         *string          `json:"name,omitempty"`
	Amount       *decimal.Decimal `json:"amount,omitempty"`
	Percentage   *decimal.Decimal `json:"percentage,omitempty"`
	IsTaxable    *bool            `json:"is_taxable,omitempty"`
	IsActive     *bool            `json:"is_active,omitempty"`
	DisplayOrder *int             `json:"display_order,omitempty"`
}

func (r *UpdateComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Amount != nil && r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}
	if r.Percentage != nil && (r.Percentage.IsNegative() || r.Percentage.GreaterThan(decimal.NewFromInt(1))) {
		errs = append(errs, validator.ValidationError{Field: "percentage", Message: "must be between 0 and 1"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ComponentResponse struct {
	ID                string          `json:"id"`
	CompanyID         string          `json:"company_id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	CalcMethod        string          `json:"calc_method"`
	Amount            decimal.Decimal `json:"amount"`
	Percentage        decimal.Decimal `json:"percentage"`
	IsTaxable         bool            `json:"is_taxable"`
	IncludeInBPJSBase bool            `json:"include_in_bpjs_base"`
	DisplayOrder      int             `json:"display_order"`
	IsSystem          bool            `json:"is_system"`
	IsActive          bool            `json:"is_active"`
}

type AssignComponentRequest struct {
	EmployeeID    string           `json:"-"`
	ComponentID   string           `json:"component_id"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	EffectiveDate *string          `json:"effective_date,omitempty"`
	EndDate       *string          `json:"end_date,omitempty"`
}

func (r *AssignComponentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ComponentID) {
		errs = append(errs, validator.ValidationError{Field: "component_id", Message: "is required"})
	}
	if r.Amount != nil && r.Amount.IsNegative() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be non-negative"})
	}
	if r.EffectiveDate != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_date", Message: "must be YYYY-MM-DD"})
		}
	}
	if r.EndDate != nil {
		if _, ok := validator.IsValidDate(*r.EndDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeComponentResponse struct {
	ID            string           `json:"id"`
	EmployeeID    string           `json:"employee_id"`
	ComponentID   string           `json:"component_id"`
	ComponentName *string          `json:"component_name,omitempty"`
	ComponentType *string          `json:"component_type,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	EffectiveDate time.Time        `json:"effective_date"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
}

// ========== PERIOD DTOs ==========

type CreatePeriodRequest struct {
	Month       int    `json:"month"`
	Year        int    `json:"year"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	PaymentDate string `json:"payment_date"`
}

func (r *CreatePeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 2000 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a valid year"})
	}
	for field, value := range map[string]string{
		"start_date":   r.StartDate,
		"end_date":     r.EndDate,
		"payment_date": r.PaymentDate,
	} {
		if _, ok := validator.IsValidDate(value); !ok {
			errs = append(errs, validator.ValidationError{Field: field, Message: "must be YYYY-MM-DD"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PeriodFilter struct {
	Year   int
	Status string
	Page   int
	Limit  int
}

type PeriodResponse struct {
	ID            string          `json:"id"`
	CompanyID     string          `json:"company_id"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	StartDate     time.Time       `json:"start_date"`
	EndDate       time.Time       `json:"end_date"`
	PaymentDate   time.Time       `json:"payment_date"`
	Status        string          `json:"status"`
	GrossPay      decimal.Decimal `json:"gross_pay"`
	Deductions    decimal.Decimal `json:"deductions"`
	NetPay        decimal.Decimal `json:"net_pay"`
	BPJSEmployee  decimal.Decimal `json:"bpjs_employee"`
	BPJSEmployer  decimal.Decimal `json:"bpjs_employer"`
	PPh21         decimal.Decimal `json:"pph21"`
	ApprovedBy    *string         `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time      `json:"approved_at,omitempty"`
	ApprovalNotes *string         `json:"approval_notes,omitempty"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

type ListPeriodResponse struct {
	Periods    []PeriodResponse `json:"periods"`
	TotalItems int64            `json:"total_items"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
}

// ========== PROCESSING DTOs ==========

type ProcessPeriodRequest struct {
	PeriodID    string   `json:"-"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // empty means all active employees
}

// OutcomeStatus enum
type OutcomeStatus string

const (
	OutcomeCalculated OutcomeStatus = "calculated"
	OutcomeSkipped    OutcomeStatus = "skipped"
)

// EmployeeOutcome reports one employee's fate in a batch run.
type EmployeeOutcome struct {
	EmployeeID string          `json:"employee_id"`
	Status     OutcomeStatus   `json:"status"`
	Reason     string          `json:"reason,omitempty"`
	NetPay     decimal.Decimal `json:"net_pay"`
	HasAnomaly bool            `json:"has_anomaly"`
}

// BatchResult is the outcome of one process-period run. It always
// distinguishes completed from skipped employees.
type BatchResult struct {
	PeriodID             string            `json:"period_id"`
	SummariesCreated     int               `json:"summaries_created"`
	SummariesSkipped     int               `json:"summaries_skipped"`
	SummariesWithAnomaly int               `json:"summaries_with_anomaly"`
	TotalGrossPay        decimal.Decimal   `json:"total_gross_pay"`
	TotalNetPay          decimal.Decimal   `json:"total_net_pay"`
	Outcomes             []EmployeeOutcome `json:"outcomes"`
}

type ApprovePeriodRequest struct {
	PeriodID string  `json:"-"`
	Notes    *string `json:"notes,omitempty"`
}

// ========== SUMMARY / PAYSLIP DTOs ==========

type SummaryResponse struct {
	ID              string          `json:"id"`
	PeriodID        string          `json:"period_id"`
	EmployeeID      string          `json:"employee_id"`
	WorkingDays     int             `json:"working_days"`
	PresentDays     int             `json:"present_days"`
	AbsentDays      int             `json:"absent_days"`
	LateDays        int             `json:"late_days"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	BaseSalary      decimal.Decimal `json:"base_salary"`
	ProratedSalary  decimal.Decimal `json:"prorated_salary"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	BPJSEmployee    decimal.Decimal `json:"bpjs_employee"`
	BPJSEmployer    decimal.Decimal `json:"bpjs_employer"`
	PPh21           decimal.Decimal `json:"pph21"`
	HasAnomaly      bool            `json:"has_anomaly"`
	Anomalies       []AnomalyDetail `json:"anomalies,omitempty"`
	AIConfidence    float64         `json:"ai_confidence"`
	AIReview        *string         `json:"ai_review,omitempty"`
	Status          string          `json:"status"`
}

// PayslipResponse is the presentation-ready breakdown of one summary.
type PayslipResponse struct {
	SummaryID       string          `json:"summary_id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    string          `json:"employee_name"`
	PeriodMonth     int             `json:"period_month"`
	PeriodYear      int             `json:"period_year"`
	WorkingDays     int             `json:"working_days"`
	PresentDays     int             `json:"present_days"`
	AbsentDays      int             `json:"absent_days"`
	LateDays        int             `json:"late_days"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	Earnings        []SummaryLine   `json:"earnings"`
	Deductions      []SummaryLine   `json:"deductions"`
	EmployerCosts   []SummaryLine   `json:"employer_costs"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
}
