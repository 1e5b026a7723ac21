package payroll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/attendance"
	"github.com/gajiku-hq/payroll-backend-go/internal/domain/employee"
	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
)

// memPayrollRepo is an in-memory PayrollRepository for service tests.
type memPayrollRepo struct {
	mu         sync.Mutex
	periods    map[string]payroll.PayrollPeriod
	summaries  map[string]payroll.PayrollSummary
	components map[string]payroll.PayrollComponent
	assigned   map[string][]payroll.EmployeeComponent // by employee ID
	history    map[string][]payroll.EmployeeMonthlyTotal
	nextID     int
}

func newMemPayrollRepo() *memPayrollRepo {
	return &memPayrollRepo{
		periods:    make(map[string]payroll.PayrollPeriod),
		summaries:  make(map[string]payroll.PayrollSummary),
		components: make(map[string]payroll.PayrollComponent),
		assigned:   make(map[string][]payroll.EmployeeComponent),
		history:    make(map[string][]payroll.EmployeeMonthlyTotal),
	}
}

func (r *memPayrollRepo) genID(prefix string) string {
	r.nextID++
	return fmt.Sprintf("%s-%d", prefix, r.nextID)
}

func (r *memPayrollRepo) CreatePeriod(_ context.Context, period payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.periods {
		if p.CompanyID == period.CompanyID && p.Month == period.Month && p.Year == period.Year {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodAlreadyExists
		}
	}
	period.ID = r.genID("period")
	period.CreatedAt = time.Now()
	r.periods[period.ID] = period
	return period, nil
}

func (r *memPayrollRepo) GetPeriodByID(_ context.Context, id, companyID string) (payroll.PayrollPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.periods[id]
	if !ok || p.CompanyID != companyID {
		return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
	}
	return p, nil
}

func (r *memPayrollRepo) GetPeriodByMonthYear(_ context.Context, companyID string, month, year int) (payroll.PayrollPeriod, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.periods {
		if p.CompanyID == companyID && p.Month == month && p.Year == year {
			return p, nil
		}
	}
	return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
}

func (r *memPayrollRepo) ListPeriods(_ context.Context, companyID string, filter payroll.PeriodFilter) ([]payroll.PayrollPeriod, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.PayrollPeriod
	for _, p := range r.periods {
		if companyID != "" && p.CompanyID != companyID {
			continue
		}
		if filter.Year > 0 && p.Year != filter.Year {
			continue
		}
		if filter.Status != "" && string(p.Status) != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (r *memPayrollRepo) UpdatePeriodStatus(_ context.Context, period payroll.PayrollPeriod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.periods[period.ID]; !ok {
		return payroll.ErrPeriodNotFound
	}
	r.periods[period.ID] = period
	return nil
}

func (r *memPayrollRepo) UpdatePeriodTotals(_ context.Context, period payroll.PayrollPeriod) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.periods[period.ID]; !ok {
		return payroll.ErrPeriodNotFound
	}
	r.periods[period.ID] = period
	return nil
}

func (r *memPayrollRepo) CreateSummary(_ context.Context, summary payroll.PayrollSummary) (payroll.PayrollSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.summaries {
		if s.PeriodID == summary.PeriodID && s.EmployeeID == summary.EmployeeID {
			return payroll.PayrollSummary{}, payroll.ErrSummaryAlreadyExists
		}
	}
	summary.ID = r.genID("summary")
	summary.CreatedAt = time.Now()
	r.summaries[summary.ID] = summary
	return summary, nil
}

func (r *memPayrollRepo) GetSummaryByID(_ context.Context, id, companyID string) (payroll.PayrollSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.summaries[id]
	if !ok || s.CompanyID != companyID {
		return payroll.PayrollSummary{}, payroll.ErrSummaryNotFound
	}
	return s, nil
}

func (r *memPayrollRepo) ListSummariesByPeriod(_ context.Context, periodID, companyID string) ([]payroll.PayrollSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.PayrollSummary
	for _, s := range r.summaries {
		if s.PeriodID == periodID && s.CompanyID == companyID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *memPayrollRepo) UpdateSummaryStatuses(_ context.Context, periodID, companyID string, from, to payroll.SummaryStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.summaries {
		if s.PeriodID == periodID && s.CompanyID == companyID && s.Status == from {
			s.Status = to
			r.summaries[id] = s
		}
	}
	return nil
}

func (r *memPayrollRepo) DeleteSummariesByPeriod(_ context.Context, periodID, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.summaries {
		if s.PeriodID == periodID && s.CompanyID == companyID && s.Status != payroll.SummaryStatusPaid {
			delete(r.summaries, id)
		}
	}
	return nil
}

func (r *memPayrollRepo) CreateComponent(_ context.Context, component payroll.PayrollComponent) (payroll.PayrollComponent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.components {
		if c.CompanyID == component.CompanyID && c.Code == component.Code {
			return payroll.PayrollComponent{}, payroll.ErrComponentCodeExists
		}
	}
	component.ID = r.genID("component")
	r.components[component.ID] = component
	return component, nil
}

func (r *memPayrollRepo) GetComponentByID(_ context.Context, id, companyID string) (payroll.PayrollComponent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.components[id]
	if !ok || c.CompanyID != companyID {
		return payroll.PayrollComponent{}, payroll.ErrComponentNotFound
	}
	return c, nil
}

func (r *memPayrollRepo) ListComponents(_ context.Context, companyID string, activeOnly bool) ([]payroll.PayrollComponent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.PayrollComponent
	for _, c := range r.components {
		if c.CompanyID != companyID {
			continue
		}
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *memPayrollRepo) UpdateComponent(_ context.Context, companyID string, req payroll.UpdateComponentRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.components[req.ID]
	if !ok || c.CompanyID != companyID {
		return payroll.ErrComponentNotFound
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Amount != nil {
		c.Amount = *req.Amount
	}
	if req.Percentage != nil {
		c.Percentage = *req.Percentage
	}
	if req.IsTaxable != nil {
		c.IsTaxable = *req.IsTaxable
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if req.DisplayOrder != nil {
		c.DisplayOrder = *req.DisplayOrder
	}
	r.components[req.ID] = c
	return nil
}

func (r *memPayrollRepo) DeleteComponent(_ context.Context, id, companyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.components[id]
	if !ok || c.CompanyID != companyID {
		return payroll.ErrComponentNotFound
	}
	delete(r.components, id)
	return nil
}

func (r *memPayrollRepo) AssignComponent(_ context.Context, assignment payroll.EmployeeComponent, _ string) (payroll.EmployeeComponent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	assignment.ID = r.genID("assignment")
	if c, ok := r.components[assignment.ComponentID]; ok {
		assignment.Component = &c
	}
	r.assigned[assignment.EmployeeID] = append(r.assigned[assignment.EmployeeID], assignment)
	return assignment, nil
}

func (r *memPayrollRepo) GetEmployeeComponents(_ context.Context, employeeID, _ string, activeOnly bool) ([]payroll.EmployeeComponent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []payroll.EmployeeComponent
	for _, a := range r.assigned[employeeID] {
		if activeOnly && a.Component != nil && !a.Component.IsActive {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *memPayrollRepo) RemoveEmployeeComponent(_ context.Context, id, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for empID, list := range r.assigned {
		for i, a := range list {
			if a.ID == id {
				r.assigned[empID] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return payroll.ErrEmployeeComponentNotFound
}

func (r *memPayrollRepo) EmployeeMonthlyTotals(_ context.Context, employeeID, _ string, months int) ([]payroll.EmployeeMonthlyTotal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.history[employeeID]
	if len(h) > months {
		h = h[:months]
	}
	return h, nil
}

func (r *memPayrollRepo) GetPeriodStats(_ context.Context, periodID, companyID string) (payroll.PeriodSummaryStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var stats payroll.PeriodSummaryStats
	for _, s := range r.summaries {
		if s.PeriodID != periodID || s.CompanyID != companyID {
			continue
		}
		stats.SummaryCount++
		if s.HasAnomaly {
			stats.AnomalyCount++
		}
		if s.HighestSeverity() == payroll.SeverityHigh {
			stats.HighSeverityCount++
		}
	}
	return stats, nil
}

// memEmployeeRepo is an in-memory EmployeeRepository.
type memEmployeeRepo struct {
	employees map[string]employee.Employee
}

func newMemEmployeeRepo(employees ...employee.Employee) *memEmployeeRepo {
	r := &memEmployeeRepo{employees: make(map[string]employee.Employee)}
	for _, e := range employees {
		r.employees[e.ID] = e
	}
	return r
}

func (r *memEmployeeRepo) GetByID(_ context.Context, id, companyID string) (employee.Employee, error) {
	e, ok := r.employees[id]
	if !ok || e.CompanyID != companyID {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *memEmployeeRepo) GetByIDs(_ context.Context, ids []string, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, id := range ids {
		if e, ok := r.employees[id]; ok && e.CompanyID == companyID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEmployeeRepo) ActiveEmployees(_ context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.CompanyID == companyID && e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

// memAttendanceRepo serves canned day records per employee.
type memAttendanceRepo struct {
	records map[string][]attendance.DayRecord
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{records: make(map[string][]attendance.DayRecord)}
}

func (r *memAttendanceRepo) RecordsForEmployeeInRange(_ context.Context, employeeID, _ string, start, end time.Time) ([]attendance.DayRecord, error) {
	var out []attendance.DayRecord
	for _, rec := range r.records[employeeID] {
		if rec.Date.Before(start) || rec.Date.After(end) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// stubValidator returns a fixed verdict or error.
type stubValidator struct {
	result payroll.ValidationResult
	err    error
	calls  int
	mu     sync.Mutex
}

func (v *stubValidator) Validate(_ context.Context, _ payroll.ValidationContext) (payroll.ValidationResult, error) {
	v.mu.Lock()
	v.calls++
	v.mu.Unlock()
	if v.err != nil {
		return payroll.ValidationResult{}, v.err
	}
	return v.result, nil
}
