package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/employee"
	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/gajiku-hq/payroll-backend-go/internal/fixtures"
	"github.com/go-chi/jwtauth/v5"
)

type PayrollServiceImpl struct {
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	processor    *Processor
}

func NewPayrollService(
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	processor *Processor,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		processor:    processor,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", fmt.Errorf("company_id claim is missing or invalid")
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

// ========== COMPONENTS ==========

// SeedDefaultComponents inserts the system component set for the calling
// company, skipping codes that already exist. Safe to call repeatedly.
func (s *PayrollServiceImpl) SeedDefaultComponents(ctx context.Context) ([]payroll.ComponentResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var seeded []payroll.ComponentResponse
	for _, component := range fixtures.DefaultPayrollComponents(companyID) {
		created, err := s.payrollRepo.CreateComponent(ctx, component)
		if err != nil {
			if errors.Is(err, payroll.ErrComponentCodeExists) {
				continue
			}
			return nil, fmt.Errorf("seed component %s: %w", component.Code, err)
		}
		seeded = append(seeded, toComponentResponse(created))
	}
	return seeded, nil
}

func (s *PayrollServiceImpl) CreateComponent(ctx context.Context, req payroll.CreateComponentRequest) (payroll.ComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ComponentResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ComponentResponse{}, err
	}

	component := payroll.PayrollComponent{
		CompanyID:    companyID,
		Code:         req.Code,
		Name:         req.Name,
		Type:         payroll.ComponentType(req.Type),
		CalcMethod:   payroll.CalcMethod(req.CalcMethod),
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}
	if req.Amount != nil {
		component.Amount = *req.Amount
	}
	if req.Percentage != nil {
		component.Percentage = *req.Percentage
	}
	if req.IsTaxable != nil {
		component.IsTaxable = *req.IsTaxable
	}
	if req.IncludeInBPJSBase != nil {
		component.IncludeInBPJSBase = *req.IncludeInBPJSBase
	}

	created, err := s.payrollRepo.CreateComponent(ctx, component)
	if err != nil {
		return payroll.ComponentResponse{}, err
	}

	return toComponentResponse(created), nil
}

func (s *PayrollServiceImpl) GetComponent(ctx context.Context, id string) (payroll.ComponentResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ComponentResponse{}, err
	}

	component, err := s.payrollRepo.GetComponentByID(ctx, id, companyID)
	if err != nil {
		return payroll.ComponentResponse{}, err
	}

	return toComponentResponse(component), nil
}

func (s *PayrollServiceImpl) ListComponents(ctx context.Context, activeOnly bool) ([]payroll.ComponentResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	components, err := s.payrollRepo.ListComponents(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.ComponentResponse, 0, len(components))
	for _, c := range components {
		responses = append(responses, toComponentResponse(c))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) UpdateComponent(ctx context.Context, req payroll.UpdateComponentRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	current, err := s.payrollRepo.GetComponentByID(ctx, req.ID, companyID)
	if err != nil {
		return err
	}
	// System components are seeded at company creation and immutable.
	if current.IsSystem {
		return payroll.ErrSystemComponentReadOnly
	}

	return s.payrollRepo.UpdateComponent(ctx, companyID, req)
}

func (s *PayrollServiceImpl) DeleteComponent(ctx context.Context, id string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	current, err := s.payrollRepo.GetComponentByID(ctx, id, companyID)
	if err != nil {
		return err
	}
	if current.IsSystem {
		return payroll.ErrSystemComponentReadOnly
	}

	return s.payrollRepo.DeleteComponent(ctx, id, companyID)
}

// ========== EMPLOYEE COMPONENTS ==========

func (s *PayrollServiceImpl) AssignComponent(ctx context.Context, req payroll.AssignComponentRequest) (payroll.EmployeeComponentResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.EmployeeComponentResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.EmployeeComponentResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID); err != nil {
		return payroll.EmployeeComponentResponse{}, err
	}
	if _, err := s.payrollRepo.GetComponentByID(ctx, req.ComponentID, companyID); err != nil {
		return payroll.EmployeeComponentResponse{}, err
	}

	assignment := payroll.EmployeeComponent{
		EmployeeID:    req.EmployeeID,
		ComponentID:   req.ComponentID,
		Amount:        req.Amount,
		EffectiveDate: time.Now(),
	}
	if req.EffectiveDate != nil {
		assignment.EffectiveDate, _ = time.Parse("2006-01-02", *req.EffectiveDate)
	}
	if req.EndDate != nil {
		end, _ := time.Parse("2006-01-02", *req.EndDate)
		assignment.EndDate = &end
	}

	created, err := s.payrollRepo.AssignComponent(ctx, assignment, companyID)
	if err != nil {
		return payroll.EmployeeComponentResponse{}, err
	}

	return toEmployeeComponentResponse(created), nil
}

func (s *PayrollServiceImpl) GetEmployeeComponents(ctx context.Context, employeeID string) ([]payroll.EmployeeComponentResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	assignments, err := s.payrollRepo.GetEmployeeComponents(ctx, employeeID, companyID, false)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.EmployeeComponentResponse, 0, len(assignments))
	for _, a := range assignments {
		responses = append(responses, toEmployeeComponentResponse(a))
	}
	return responses, nil
}

func (s *PayrollServiceImpl) RemoveEmployeeComponent(ctx context.Context, id string) error {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.payrollRepo.RemoveEmployeeComponent(ctx, id, companyID)
}

// ========== PERIODS ==========

func (s *PayrollServiceImpl) CreatePeriod(ctx context.Context, req payroll.CreatePeriodRequest) (payroll.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PeriodResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	start, _ := time.Parse("2006-01-02", req.StartDate)
	end, _ := time.Parse("2006-01-02", req.EndDate)
	payment, _ := time.Parse("2006-01-02", req.PaymentDate)

	period, err := payroll.NewPayrollPeriod(companyID, req.Month, req.Year, start, end, payment)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	if _, err := s.payrollRepo.GetPeriodByMonthYear(ctx, companyID, req.Month, req.Year); err == nil {
		return payroll.PeriodResponse{}, payroll.ErrPeriodAlreadyExists
	}

	created, err := s.payrollRepo.CreatePeriod(ctx, period)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	return toPeriodResponse(created), nil
}

func (s *PayrollServiceImpl) GetPeriod(ctx context.Context, id string) (payroll.PeriodResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	period, err := s.payrollRepo.GetPeriodByID(ctx, id, companyID)
	if err != nil {
		return payroll.PeriodResponse{}, err
	}

	return toPeriodResponse(period), nil
}

func (s *PayrollServiceImpl) ListPeriods(ctx context.Context, filter payroll.PeriodFilter) (payroll.ListPeriodResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPeriodResponse{}, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	periods, total, err := s.payrollRepo.ListPeriods(ctx, companyID, filter)
	if err != nil {
		return payroll.ListPeriodResponse{}, err
	}

	responses := make([]payroll.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		responses = append(responses, toPeriodResponse(p))
	}
	return payroll.ListPeriodResponse{
		Periods:    responses,
		TotalItems: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ========== PROCESSING ==========

func (s *PayrollServiceImpl) ProcessPeriod(ctx context.Context, req payroll.ProcessPeriodRequest) (payroll.BatchResult, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.BatchResult{}, err
	}

	return s.processor.ProcessPeriod(ctx, companyID, req)
}

// ========== SUMMARIES ==========

func (s *PayrollServiceImpl) ListSummaries(ctx context.Context, periodID string) ([]payroll.SummaryResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	summaries, err := s.payrollRepo.ListSummariesByPeriod(ctx, periodID, companyID)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.SummaryResponse, 0, len(summaries))
	for _, sum := range summaries {
		responses = append(responses, toSummaryResponse(sum))
	}
	return responses, nil
}

// ========== MAPPERS ==========

func toComponentResponse(c payroll.PayrollComponent) payroll.ComponentResponse {
	return payroll.ComponentResponse{
		ID:                c.ID,
		CompanyID:         c.CompanyID,
		Code:              c.Code,
		Name:              c.Name,
		Type:              string(c.Type),
		CalcMethod:        string(c.CalcMethod),
		Amount:            c.Amount,
		Percentage:        c.Percentage,
		IsTaxable:         c.IsTaxable,
		IncludeInBPJSBase: c.IncludeInBPJSBase,
		DisplayOrder:      c.DisplayOrder,
		IsSystem:          c.IsSystem,
		IsActive:          c.IsActive,
	}
}

func toEmployeeComponentResponse(a payroll.EmployeeComponent) payroll.EmployeeComponentResponse {
	resp := payroll.EmployeeComponentResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		ComponentID:   a.ComponentID,
		Amount:        a.Amount,
		EffectiveDate: a.EffectiveDate,
		EndDate:       a.EndDate,
	}
	if a.Component != nil {
		resp.ComponentName = &a.Component.Name
		componentType := string(a.Component.Type)
		resp.ComponentType = &componentType
	}
	return resp
}

func toPeriodResponse(p payroll.PayrollPeriod) payroll.PeriodResponse {
	return payroll.PeriodResponse{
		ID:            p.ID,
		CompanyID:     p.CompanyID,
		Month:         p.Month,
		Year:          p.Year,
		StartDate:     p.StartDate,
		EndDate:       p.EndDate,
		PaymentDate:   p.PaymentDate,
		Status:        string(p.Status),
		GrossPay:      p.Totals.GrossPay,
		Deductions:    p.Totals.TotalDeductions,
		NetPay:        p.Totals.NetPay,
		BPJSEmployee:  p.Totals.BPJSEmployee,
		BPJSEmployer:  p.Totals.BPJSEmployer,
		PPh21:         p.Totals.PPh21,
		ApprovedBy:    p.ApprovedBy,
		ApprovedAt:    p.ApprovedAt,
		ApprovalNotes: p.ApprovalNotes,
		PaidAt:        p.PaidAt,
	}
}

func toSummaryResponse(s payroll.PayrollSummary) payroll.SummaryResponse {
	return payroll.SummaryResponse{
		ID:              s.ID,
		PeriodID:        s.PeriodID,
		EmployeeID:      s.EmployeeID,
		WorkingDays:     s.WorkingDays,
		PresentDays:     s.PresentDays,
		AbsentDays:      s.AbsentDays,
		LateDays:        s.LateDays,
		OvertimeHours:   s.OvertimeHours,
		BaseSalary:      s.BaseSalary,
		ProratedSalary:  s.ProratedSalary,
		TotalEarnings:   s.TotalEarnings,
		TotalDeductions: s.TotalDeductions,
		NetPay:          s.NetPay,
		BPJSEmployee:    s.BPJSEmployee,
		BPJSEmployer:    s.BPJSEmployer,
		PPh21:           s.PPh21,
		HasAnomaly:      s.HasAnomaly,
		Anomalies:       s.Anomalies,
		AIConfidence:    s.AIConfidence,
		AIReview:        s.AIReview,
		Status:          string(s.Status),
	}
}
