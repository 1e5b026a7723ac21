package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/attendance"
	"github.com/gajiku-hq/payroll-backend-go/internal/domain/employee"
	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const historyMonths = 3

// Processor runs the per-employee payroll calculation batch for a period.
// Each employee is independent, so the batch fans out over a bounded worker
// pool and reduces totals only after every worker has joined.
type Processor struct {
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	bpjs           *BPJSCalculator
	pph21          *PPh21Calculator
	validator      payroll.AnomalyValidator
	logger         *slog.Logger
	workerCount    int
	aiTimeout      time.Duration
}

// NewProcessor wires the batch processor. validator may be nil to disable
// advisory validation entirely.
func NewProcessor(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	validator payroll.AnomalyValidator,
	logger *slog.Logger,
	workerCount int,
	aiTimeout time.Duration,
) *Processor {
	if workerCount < 1 {
		workerCount = 4
	}
	if aiTimeout <= 0 {
		aiTimeout = 10 * time.Second
	}
	return &Processor{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		bpjs:           NewBPJSCalculator(),
		pph21:          NewPPh21Calculator(),
		validator:      validator,
		logger:         logger,
		workerCount:    workerCount,
		aiTimeout:      aiTimeout,
	}
}

// ProcessPeriod creates one summary per employee and writes the aggregate
// totals to the period, transitioning it draft -> processing. Per-employee
// failures are counted and skipped, never aborting the batch. Cancellation
// stops further employees; summaries already persisted stay, and the period
// remains in processing for a later retry.
func (p *Processor) ProcessPeriod(ctx context.Context, companyID string, req payroll.ProcessPeriodRequest) (payroll.BatchResult, error) {
	period, err := p.payrollRepo.GetPeriodByID(ctx, req.PeriodID, companyID)
	if err != nil {
		return payroll.BatchResult{}, err
	}

	period, err = period.MarkProcessing(time.Now())
	if err != nil {
		return payroll.BatchResult{}, err
	}
	if err := p.payrollRepo.UpdatePeriodStatus(ctx, period); err != nil {
		return payroll.BatchResult{}, fmt.Errorf("mark period processing: %w", err)
	}

	employees, err := p.resolveEmployees(ctx, companyID, req.EmployeeIDs)
	if err != nil {
		return payroll.BatchResult{}, err
	}

	p.logger.Info("starting payroll batch",
		slog.String("period_id", period.ID),
		slog.Int("employees", len(employees)),
		slog.Int("workers", p.workerCount),
	)

	outcomes := make([]payroll.EmployeeOutcome, len(employees))
	summaries := make([]*payroll.PayrollSummary, len(employees))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workerCount)
	for i, emp := range employees {
		// Cooperative cancellation: stop handing out work once the run is
		// cancelled. Already-persisted summaries are not retracted.
		if gctx.Err() != nil {
			outcomes[i] = payroll.EmployeeOutcome{
				EmployeeID: emp.ID,
				Status:     payroll.OutcomeSkipped,
				Reason:     "batch cancelled",
			}
			continue
		}

		g.Go(func() error {
			summary, err := p.calculateEmployee(gctx, period, emp)
			if err != nil {
				p.logger.Warn("skipping employee",
					slog.String("period_id", period.ID),
					slog.String("employee_id", emp.ID),
					slog.Any("error", err),
				)
				outcomes[i] = payroll.EmployeeOutcome{
					EmployeeID: emp.ID,
					Status:     payroll.OutcomeSkipped,
					Reason:     err.Error(),
				}
				return nil
			}

			created, err := p.payrollRepo.CreateSummary(gctx, summary)
			if err != nil {
				outcomes[i] = payroll.EmployeeOutcome{
					EmployeeID: emp.ID,
					Status:     payroll.OutcomeSkipped,
					Reason:     fmt.Sprintf("persist summary: %v", err),
				}
				return nil
			}

			summaries[i] = &created
			outcomes[i] = payroll.EmployeeOutcome{
				EmployeeID: emp.ID,
				Status:     payroll.OutcomeCalculated,
				NetPay:     created.NetPay,
				HasAnomaly: created.HasAnomaly,
			}
			return nil
		})
	}
	// Workers never return errors; skips are recorded per employee.
	_ = g.Wait()

	result := payroll.BatchResult{
		PeriodID:      period.ID,
		Outcomes:      outcomes,
		TotalGrossPay: decimal.Zero,
		TotalNetPay:   decimal.Zero,
	}

	// Reduce after join: totals come from the completed result set only,
	// never incrementally from running workers.
	totals := payroll.PeriodTotals{
		GrossPay:        decimal.Zero,
		TotalDeductions: decimal.Zero,
		NetPay:          decimal.Zero,
		BPJSEmployee:    decimal.Zero,
		BPJSEmployer:    decimal.Zero,
		PPh21:           decimal.Zero,
	}
	for i := range summaries {
		s := summaries[i]
		if s == nil {
			result.SummariesSkipped++
			continue
		}
		result.SummariesCreated++
		if s.HasAnomaly {
			result.SummariesWithAnomaly++
		}
		totals.GrossPay = totals.GrossPay.Add(s.TotalEarnings)
		totals.TotalDeductions = totals.TotalDeductions.Add(s.TotalDeductions)
		totals.NetPay = totals.NetPay.Add(s.NetPay)
		totals.BPJSEmployee = totals.BPJSEmployee.Add(s.BPJSEmployee)
		totals.BPJSEmployer = totals.BPJSEmployer.Add(s.BPJSEmployer)
		totals.PPh21 = totals.PPh21.Add(s.PPh21)
	}
	result.TotalGrossPay = totals.GrossPay
	result.TotalNetPay = totals.NetPay

	if ctx.Err() != nil {
		// Leave the period in processing with whatever summaries landed so
		// the run can be retried.
		return result, ctx.Err()
	}

	period, err = period.WithTotals(totals)
	if err != nil {
		return result, err
	}
	if err := p.payrollRepo.UpdatePeriodTotals(ctx, period); err != nil {
		return result, fmt.Errorf("update period totals: %w", err)
	}

	p.logger.Info("completed payroll batch",
		slog.String("period_id", period.ID),
		slog.Int("created", result.SummariesCreated),
		slog.Int("skipped", result.SummariesSkipped),
		slog.Int("anomalies", result.SummariesWithAnomaly),
	)

	return result, nil
}

func (p *Processor) resolveEmployees(ctx context.Context, companyID string, ids []string) ([]employee.Employee, error) {
	if len(ids) > 0 {
		return p.employeeRepo.GetByIDs(ctx, ids, companyID)
	}
	return p.employeeRepo.ActiveEmployees(ctx, companyID)
}

// calculateEmployee computes one summary: attendance counters, prorated base,
// components, overtime, BPJS, PPh21, then advisory validation.
func (p *Processor) calculateEmployee(ctx context.Context, period payroll.PayrollPeriod, emp employee.Employee) (payroll.PayrollSummary, error) {
	if emp.BaseSalary.IsZero() {
		return payroll.PayrollSummary{}, employee.ErrNoBaseSalary
	}

	records, err := p.attendanceRepo.RecordsForEmployeeInRange(ctx, emp.ID, emp.CompanyID, period.StartDate, period.EndDate)
	if err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("attendance for %s: %w", emp.ID, err)
	}
	if len(records) == 0 {
		return payroll.PayrollSummary{}, payroll.ErrNoAttendanceRecords
	}

	workingDays := countWorkingDays(period.StartDate, period.EndDate)
	presentDays, lateDays := 0, 0
	overtimeHours := decimal.Zero
	for _, r := range records {
		if r.Present() {
			presentDays++
		}
		if r.Status == attendance.StatusLate {
			lateDays++
		}
		overtimeHours = overtimeHours.Add(r.OvertimeHours)
	}
	if presentDays > workingDays {
		presentDays = workingDays
	}
	absentDays := workingDays - presentDays

	prorated := emp.BaseSalary.
		Mul(decimal.NewFromInt(int64(presentDays))).
		Div(decimal.NewFromInt(int64(workingDays))).
		Round(0)

	overtimePay := overtimeAmount(emp.BaseSalary, overtimeHours)

	earnings := []payroll.SummaryLine{
		{Code: "BASE", Name: "Base Salary", Amount: prorated},
	}
	if overtimePay.IsPositive() {
		earnings = append(earnings, payroll.SummaryLine{Code: "OT", Name: "Overtime", Amount: overtimePay})
	}

	assignments, err := p.payrollRepo.GetEmployeeComponents(ctx, emp.ID, emp.CompanyID, true)
	if err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("components for %s: %w", emp.ID, err)
	}

	taxableAllowances := decimal.Zero
	bpjsBaseAllowances := decimal.Zero
	componentDeductions := decimal.Zero
	var deductionLines []payroll.SummaryLine
	for _, a := range sortedByDisplayOrder(assignments) {
		if a.Component == nil || !a.ActiveOn(period.EndDate) || !a.Component.IsActive {
			continue
		}
		amount := a.ResolvedAmount(emp.BaseSalary)
		switch a.Component.Type {
		case payroll.ComponentTypeEarning:
			earnings = append(earnings, payroll.SummaryLine{
				Code: a.Component.Code, Name: a.Component.Name, Amount: amount,
			})
			if a.Component.IsTaxable {
				taxableAllowances = taxableAllowances.Add(amount)
			}
			if a.Component.IncludeInBPJSBase {
				bpjsBaseAllowances = bpjsBaseAllowances.Add(amount)
			}
		case payroll.ComponentTypeDeduction:
			deductionLines = append(deductionLines, payroll.SummaryLine{
				Code: a.Component.Code, Name: a.Component.Name, Amount: amount,
			})
			componentDeductions = componentDeductions.Add(amount)
		}
		// Benefits are employer-side only and never touch net pay.
	}

	bpjsResult, err := p.bpjs.Calculate(emp.BaseSalary, bpjsBaseAllowances, emp.BPJSRiskClass)
	if err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("bpjs for %s: %w", emp.ID, err)
	}

	taxableGross := prorated.Add(overtimePay).Add(taxableAllowances)
	taxResult, err := p.pph21.Calculate(taxableGross, bpjsResult.TotalEmployee, emp.Married(), emp.DependentCount)
	if err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("pph21 for %s: %w", emp.ID, err)
	}

	totalEarnings := decimal.Zero
	for _, l := range earnings {
		totalEarnings = totalEarnings.Add(l.Amount)
	}

	deductions := []payroll.SummaryLine{
		{Code: "BPJS_KES", Name: "BPJS Kesehatan", Amount: bpjsResult.Health.Employee},
		{Code: "BPJS_JHT", Name: "BPJS JHT", Amount: bpjsResult.JHT.Employee},
		{Code: "BPJS_JP", Name: "BPJS JP", Amount: bpjsResult.JP.Employee},
		{Code: "PPH21", Name: "PPh 21", Amount: taxResult.MonthlyTax},
	}
	deductions = append(deductions, deductionLines...)

	totalDeductions := decimal.Zero
	for _, l := range deductions {
		totalDeductions = totalDeductions.Add(l.Amount)
	}

	netPay := totalEarnings.Sub(totalDeductions)
	if netPay.IsNegative() {
		return payroll.PayrollSummary{}, fmt.Errorf("net pay for %s would be negative: %w", emp.ID, payroll.ErrSummaryInvariant)
	}

	employerCosts := []payroll.SummaryLine{
		{Code: "BPJS_KES", Name: "BPJS Kesehatan", Amount: bpjsResult.Health.Employer},
		{Code: "BPJS_JKK", Name: "BPJS JKK", Amount: bpjsResult.JKK.Employer},
		{Code: "BPJS_JKM", Name: "BPJS JKM", Amount: bpjsResult.JKM.Employer},
		{Code: "BPJS_JHT", Name: "BPJS JHT", Amount: bpjsResult.JHT.Employer},
		{Code: "BPJS_JP", Name: "BPJS JP", Amount: bpjsResult.JP.Employer},
	}

	summary := payroll.PayrollSummary{
		PeriodID:        period.ID,
		EmployeeID:      emp.ID,
		CompanyID:       emp.CompanyID,
		WorkingDays:     workingDays,
		PresentDays:     presentDays,
		AbsentDays:      absentDays,
		LateDays:        lateDays,
		OvertimeHours:   overtimeHours,
		BaseSalary:      emp.BaseSalary,
		ProratedSalary:  prorated,
		OvertimePay:     overtimePay,
		Earnings:        earnings,
		Deductions:      deductions,
		EmployerCosts:   employerCosts,
		TotalEarnings:   totalEarnings,
		TotalDeductions: totalDeductions,
		NetPay:          netPay,
		BPJSEmployee:    bpjsResult.TotalEmployee,
		BPJSEmployer:    bpjsResult.TotalEmployer,
		PPh21:           taxResult.MonthlyTax,
		Status:          payroll.SummaryStatusDraft,
	}

	// Local sanity check independent of the AI validator.
	if presentDays*2 < workingDays {
		summary = summary.WithAnomalies([]payroll.AnomalyDetail{{
			Type:        "low_attendance",
			Description: fmt.Sprintf("present %d of %d working days", presentDays, workingDays),
			Severity:    payroll.SeverityMedium,
		}}, summary.AIConfidence, summary.AIReview)
	}

	summary = p.validateSummary(ctx, period, emp, summary)

	return summary.MarkCalculated()
}

// validateSummary asks the advisory validator for an opinion. Any failure,
// including timeout, leaves the summary unannotated; AI is never a hard
// dependency for correctness.
func (p *Processor) validateSummary(ctx context.Context, period payroll.PayrollPeriod, emp employee.Employee, summary payroll.PayrollSummary) payroll.PayrollSummary {
	if p.validator == nil {
		return summary
	}

	history, err := p.payrollRepo.EmployeeMonthlyTotals(ctx, emp.ID, emp.CompanyID, historyMonths)
	if err != nil {
		p.logger.Warn("history lookup failed, validating without it",
			slog.String("employee_id", emp.ID), slog.Any("error", err))
		history = nil
	}

	vctx, cancel := context.WithTimeout(ctx, p.aiTimeout)
	defer cancel()

	result, err := p.validator.Validate(vctx, payroll.ValidationContext{
		EmployeeID:      emp.ID,
		EmployeeName:    emp.FullName,
		PeriodMonth:     period.Month,
		PeriodYear:      period.Year,
		BaseSalary:      emp.BaseSalary,
		ProratedSalary:  summary.ProratedSalary,
		TotalEarnings:   summary.TotalEarnings,
		TotalDeductions: summary.TotalDeductions,
		NetPay:          summary.NetPay,
		PresentDays:     summary.PresentDays,
		WorkingDays:     summary.WorkingDays,
		OvertimeHours:   summary.OvertimeHours,
		History:         history,
	})
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			p.logger.Warn("anomaly validation unavailable, proceeding without it",
				slog.String("employee_id", emp.ID), slog.Any("error", err))
		}
		return summary
	}

	review := &result.ReviewText
	if result.ReviewText == "" {
		review = nil
	}
	if result.HasErrors {
		return summary.WithAnomalies(result.Errors, result.Confidence, review)
	}
	return summary.WithAnomalies(nil, result.Confidence, review)
}

// overtimeAmount pays the first overtime hour at 1.5x and subsequent hours at
// 2x of the statutory hourly rate (monthly salary over 173 hours).
func overtimeAmount(baseSalary, hours decimal.Decimal) decimal.Decimal {
	if !hours.IsPositive() {
		return decimal.Zero
	}
	hourly := baseSalary.Div(payroll.MonthlyHoursDivisor)

	one := decimal.NewFromInt(1)
	if hours.LessThanOrEqual(one) {
		return hours.Mul(payroll.OvertimeFirstHourRate).Mul(hourly).Round(0)
	}
	first := payroll.OvertimeFirstHourRate.Mul(hourly)
	rest := hours.Sub(one).Mul(payroll.OvertimeNextHoursRate).Mul(hourly)
	return first.Add(rest).Round(0)
}

// countWorkingDays counts Monday..Friday within [start, end].
func countWorkingDays(start, end time.Time) int {
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	if days == 0 {
		days = 1
	}
	return days
}

func sortedByDisplayOrder(assignments []payroll.EmployeeComponent) []payroll.EmployeeComponent {
	out := make([]payroll.EmployeeComponent, len(assignments))
	copy(out, assignments)
	sort.SliceStable(out, func(i, j int) bool {
		var a, b int
		if out[i].Component != nil {
			a = out[i].Component.DisplayOrder
		}
		if out[j].Component != nil {
			b = out[j].Component.DisplayOrder
		}
		return a < b
	})
	return out
}
