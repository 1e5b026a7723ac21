package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/gajiku-hq/payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== PERIODS ==========

const periodColumns = `
	id, company_id, month, year, start_date, end_date, payment_date,
	gross_pay, total_deductions, net_pay, bpjs_employee, bpjs_employer, pph21,
	status, processed_at, approved_at, approved_by, approval_notes,
	paid_at, paid_by, cancelled_at, created_at, updated_at`

func scanPeriod(row pgx.Row) (payroll.PayrollPeriod, error) {
	var p payroll.PayrollPeriod
	err := row.Scan(
		&p.ID, &p.CompanyID, &p.Month, &p.Year, &p.StartDate, &p.EndDate, &p.PaymentDate,
		&p.Totals.GrossPay, &p.Totals.TotalDeductions, &p.Totals.NetPay,
		&p.Totals.BPJSEmployee, &p.Totals.BPJSEmployer, &p.Totals.PPh21,
		&p.Status, &p.ProcessedAt, &p.ApprovedAt, &p.ApprovedBy, &p.ApprovalNotes,
		&p.PaidAt, &p.PaidBy, &p.CancelledAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

func (r *payrollRepository) CreatePeriod(ctx context.Context, period payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_periods (
			company_id, month, year, start_date, end_date, payment_date, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + periodColumns

	p, err := scanPeriod(q.QueryRow(ctx, query,
		period.CompanyID, period.Month, period.Year,
		period.StartDate, period.EndDate, period.PaymentDate, period.Status,
	))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodAlreadyExists
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to create payroll period: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) GetPeriodByID(ctx context.Context, id, companyID string) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE id = $1 AND company_id = $2`

	p, err := scanPeriod(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) GetPeriodByMonthYear(ctx context.Context, companyID string, month, year int) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + periodColumns + ` FROM payroll_periods WHERE company_id = $1 AND month = $2 AND year = $3`

	p, err := scanPeriod(q.QueryRow(ctx, query, companyID, month, year))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollPeriod{}, payroll.ErrPeriodNotFound
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to get payroll period: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) ListPeriods(ctx context.Context, companyID string, filter payroll.PeriodFilter) ([]payroll.PayrollPeriod, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"1=1"}
	args := []any{}
	argN := 1

	// Empty companyID means all companies (cron scans run unscoped).
	if companyID != "" {
		conditions = append(conditions, fmt.Sprintf("company_id = $%d", argN))
		args = append(args, companyID)
		argN++
	}
	if filter.Year > 0 {
		conditions = append(conditions, fmt.Sprintf("year = $%d", argN))
		args = append(args, filter.Year)
		argN++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argN))
		args = append(args, filter.Status)
		argN++
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM payroll_periods WHERE ` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll periods: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	query := fmt.Sprintf(`
		SELECT %s FROM payroll_periods
		WHERE %s
		ORDER BY year DESC, month DESC
		LIMIT $%d OFFSET $%d`,
		periodColumns, where, argN, argN+1,
	)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll periods: %w", err)
	}
	defer rows.Close()

	var periods []payroll.PayrollPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll period: %w", err)
		}
		periods = append(periods, p)
	}

	return periods, total, rows.Err()
}

func (r *payrollRepository) UpdatePeriodStatus(ctx context.Context, period payroll.PayrollPeriod) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods SET
			status = $1, processed_at = $2, approved_at = $3, approved_by = $4,
			approval_notes = $5, paid_at = $6, paid_by = $7, cancelled_at = $8,
			updated_at = NOW()
		WHERE id = $9 AND company_id = $10
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		period.Status, period.ProcessedAt, period.ApprovedAt, period.ApprovedBy,
		period.ApprovalNotes, period.PaidAt, period.PaidBy, period.CancelledAt,
		period.ID, period.CompanyID,
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPeriodNotFound
		}
		return fmt.Errorf("failed to update period status: %w", err)
	}

	return nil
}

func (r *payrollRepository) UpdatePeriodTotals(ctx context.Context, period payroll.PayrollPeriod) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods SET
			gross_pay = $1, total_deductions = $2, net_pay = $3,
			bpjs_employee = $4, bpjs_employer = $5, pph21 = $6,
			status = $7, updated_at = NOW()
		WHERE id = $8 AND company_id = $9
		RETURNING id
	`

	var id string
	err := q.QueryRow(ctx, query,
		period.Totals.GrossPay, period.Totals.TotalDeductions, period.Totals.NetPay,
		period.Totals.BPJSEmployee, period.Totals.BPJSEmployer, period.Totals.PPh21,
		period.Status, period.ID, period.CompanyID,
	).Scan(&id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrPeriodNotFound
		}
		return fmt.Errorf("failed to update period totals: %w", err)
	}

	return nil
}

// ========== SUMMARIES ==========

const summaryColumns = `
	id, period_id, employee_id, company_id,
	working_days, present_days, absent_days, late_days, overtime_hours,
	base_salary, prorated_salary, overtime_pay,
	earnings, deductions, employer_costs,
	total_earnings, total_deductions, net_pay,
	bpjs_employee, bpjs_employer, pph21,
	has_anomaly, anomalies, ai_confidence, ai_review,
	status, created_at, updated_at`

func scanSummary(row pgx.Row) (payroll.PayrollSummary, error) {
	var s payroll.PayrollSummary
	var earnings, deductions, employerCosts, anomalies []byte

	err := row.Scan(
		&s.ID, &s.PeriodID, &s.EmployeeID, &s.CompanyID,
		&s.WorkingDays, &s.PresentDays, &s.AbsentDays, &s.LateDays, &s.OvertimeHours,
		&s.BaseSalary, &s.ProratedSalary, &s.OvertimePay,
		&earnings, &deductions, &employerCosts,
		&s.TotalEarnings, &s.TotalDeductions, &s.NetPay,
		&s.BPJSEmployee, &s.BPJSEmployer, &s.PPh21,
		&s.HasAnomaly, &anomalies, &s.AIConfidence, &s.AIReview,
		&s.Status, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return s, err
	}

	for _, pair := range []struct {
		raw []byte
		out any
	}{
		{earnings, &s.Earnings},
		{deductions, &s.Deductions},
		{employerCosts, &s.EmployerCosts},
		{anomalies, &s.Anomalies},
	} {
		if len(pair.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.raw, pair.out); err != nil {
			return s, fmt.Errorf("failed to decode summary lines: %w", err)
		}
	}

	return s, nil
}

func (r *payrollRepository) CreateSummary(ctx context.Context, summary payroll.PayrollSummary) (payroll.PayrollSummary, error) {
	q := GetQuerier(ctx, r.db)

	if summary.ID == "" {
		summary.ID = uuid.New().String()
	}

	earnings, err := json.Marshal(summary.Earnings)
	if err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("failed to encode earnings: %w", err)
	}
	deductions, err := json.Marshal(summary.Deductions)
	if err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("failed to encode deductions: %w", err)
	}
	employerCosts, err := json.Marshal(summary.EmployerCosts)
	if err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("failed to encode employer costs: %w", err)
	}
	anomalies, err := json.Marshal(summary.Anomalies)
	if err != nil {
		return payroll.PayrollSummary{}, fmt.Errorf("failed to encode anomalies: %w", err)
	}

	query := `
		INSERT INTO payroll_summaries (
			id, period_id, employee_id, company_id,
			working_days, present_days, absent_days, late_days, overtime_hours,
			base_salary, prorated_salary, overtime_pay,
			earnings, deductions, employer_costs,
			total_earnings, total_deductions, net_pay,
			bpjs_employee, bpjs_employer, pph21,
			has_anomaly, anomalies, ai_confidence, ai_review, status
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		)
		RETURNING ` + summaryColumns

	s, err := scanSummary(q.QueryRow(ctx, query,
		summary.ID, summary.PeriodID, summary.EmployeeID, summary.CompanyID,
		summary.WorkingDays, summary.PresentDays, summary.AbsentDays, summary.LateDays, summary.OvertimeHours,
		summary.BaseSalary, summary.ProratedSalary, summary.OvertimePay,
		earnings, deductions, employerCosts,
		summary.TotalEarnings, summary.TotalDeductions, summary.NetPay,
		summary.BPJSEmployee, summary.BPJSEmployer, summary.PPh21,
		summary.HasAnomaly, anomalies, summary.AIConfidence, summary.AIReview, summary.Status,
	))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return payroll.PayrollSummary{}, payroll.ErrSummaryAlreadyExists
		}
		return payroll.PayrollSummary{}, fmt.Errorf("failed to create payroll summary: %w", err)
	}

	return s, nil
}

func (r *payrollRepository) GetSummaryByID(ctx context.Context, id, companyID string) (payroll.PayrollSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + summaryColumns + ` FROM payroll_summaries WHERE id = $1 AND company_id = $2`

	s, err := scanSummary(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollSummary{}, payroll.ErrSummaryNotFound
		}
		return payroll.PayrollSummary{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	return s, nil
}

func (r *payrollRepository) ListSummariesByPeriod(ctx context.Context, periodID, companyID string) ([]payroll.PayrollSummary, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + summaryColumns + `
		FROM payroll_summaries
		WHERE period_id = $1 AND company_id = $2
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, periodID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll summaries: %w", err)
	}
	defer rows.Close()

	var summaries []payroll.PayrollSummary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll summary: %w", err)
		}
		summaries = append(summaries, s)
	}

	return summaries, rows.Err()
}

func (r *payrollRepository) UpdateSummaryStatuses(ctx context.Context, periodID, companyID string, from, to payroll.SummaryStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_summaries SET status = $1, updated_at = NOW()
		WHERE period_id = $2 AND company_id = $3 AND status = $4
	`

	if _, err := q.Exec(ctx, query, to, periodID, companyID, from); err != nil {
		return fmt.Errorf("failed to update summary statuses: %w", err)
	}

	return nil
}

func (r *payrollRepository) DeleteSummariesByPeriod(ctx context.Context, periodID, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM payroll_summaries WHERE period_id = $1 AND company_id = $2 AND status != 'paid'`

	if _, err := q.Exec(ctx, query, periodID, companyID); err != nil {
		return fmt.Errorf("failed to delete payroll summaries: %w", err)
	}

	return nil
}

// ========== COMPONENTS ==========

const componentColumns = `
	id, company_id, code, name, type, calc_method, amount, percentage, formula,
	is_taxable, include_in_bpjs_base, display_order, is_system, is_active,
	created_at, updated_at`

func scanComponent(row pgx.Row) (payroll.PayrollComponent, error) {
	var c payroll.PayrollComponent
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.Type, &c.CalcMethod,
		&c.Amount, &c.Percentage, &c.Formula,
		&c.IsTaxable, &c.IncludeInBPJSBase, &c.DisplayOrder, &c.IsSystem, &c.IsActive,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

func (r *payrollRepository) CreateComponent(ctx context.Context, component payroll.PayrollComponent) (payroll.PayrollComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_components (
			company_id, code, name, type, calc_method, amount, percentage, formula,
			is_taxable, include_in_bpjs_base, display_order, is_system, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + componentColumns

	c, err := scanComponent(q.QueryRow(ctx, query,
		component.CompanyID, component.Code, component.Name, component.Type, component.CalcMethod,
		component.Amount, component.Percentage, component.Formula,
		component.IsTaxable, component.IncludeInBPJSBase, component.DisplayOrder,
		component.IsSystem, component.IsActive,
	))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return payroll.PayrollComponent{}, payroll.ErrComponentCodeExists
		}
		return payroll.PayrollComponent{}, fmt.Errorf("failed to create payroll component: %w", err)
	}

	return c, nil
}

func (r *payrollRepository) GetComponentByID(ctx context.Context, id, companyID string) (payroll.PayrollComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + componentColumns + ` FROM payroll_components WHERE id = $1 AND company_id = $2`

	c, err := scanComponent(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.PayrollComponent{}, payroll.ErrComponentNotFound
		}
		return payroll.PayrollComponent{}, fmt.Errorf("failed to get payroll component: %w", err)
	}

	return c, nil
}

func (r *payrollRepository) ListComponents(ctx context.Context, companyID string, activeOnly bool) ([]payroll.PayrollComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + componentColumns + ` FROM payroll_components WHERE company_id = $1`
	if activeOnly {
		query += ` AND is_active = TRUE`
	}
	query += ` ORDER BY display_order, code`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll components: %w", err)
	}
	defer rows.Close()

	var components []payroll.PayrollComponent
	for rows.Next() {
		c, err := scanComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll component: %w", err)
		}
		components = append(components, c)
	}

	return components, rows.Err()
}

func (r *payrollRepository) UpdateComponent(ctx context.Context, companyID string, req payroll.UpdateComponentRequest) error {
	q := GetQuerier(ctx, r.db)

	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	argN := 1

	if req.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argN))
		args = append(args, *req.Name)
		argN++
	}
	if req.Amount != nil {
		setClauses = append(setClauses, fmt.Sprintf("amount = $%d", argN))
		args = append(args, *req.Amount)
		argN++
	}
	if req.Percentage != nil {
		setClauses = append(setClauses, fmt.Sprintf("percentage = $%d", argN))
		args = append(args, *req.Percentage)
		argN++
	}
	if req.IsTaxable != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_taxable = $%d", argN))
		args = append(args, *req.IsTaxable)
		argN++
	}
	if req.IsActive != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_active = $%d", argN))
		args = append(args, *req.IsActive)
		argN++
	}
	if req.DisplayOrder != nil {
		setClauses = append(setClauses, fmt.Sprintf("display_order = $%d", argN))
		args = append(args, *req.DisplayOrder)
		argN++
	}

	query := fmt.Sprintf(`
		UPDATE payroll_components SET %s
		WHERE id = $%d AND company_id = $%d
		RETURNING id`,
		strings.Join(setClauses, ", "), argN, argN+1,
	)
	args = append(args, req.ID, companyID)

	var id string
	if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrComponentNotFound
		}
		return fmt.Errorf("failed to update payroll component: %w", err)
	}

	return nil
}

func (r *payrollRepository) DeleteComponent(ctx context.Context, id, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM payroll_components WHERE id = $1 AND company_id = $2 AND is_system = FALSE RETURNING id`

	var deletedID string
	if err := q.QueryRow(ctx, query, id, companyID).Scan(&deletedID); err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrComponentNotFound
		}
		return fmt.Errorf("failed to delete payroll component: %w", err)
	}

	return nil
}

// ========== EMPLOYEE COMPONENTS ==========

func (r *payrollRepository) AssignComponent(ctx context.Context, assignment payroll.EmployeeComponent, companyID string) (payroll.EmployeeComponent, error) {
	q := GetQuerier(ctx, r.db)

	var empExists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM employees WHERE id = $1 AND company_id = $2)`, assignment.EmployeeID, companyID).Scan(&empExists)
	if err != nil || !empExists {
		return payroll.EmployeeComponent{}, payroll.ErrEmployeeComponentInvalid
	}

	var compExists bool
	err = q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM payroll_components WHERE id = $1 AND company_id = $2)`, assignment.ComponentID, companyID).Scan(&compExists)
	if err != nil || !compExists {
		return payroll.EmployeeComponent{}, payroll.ErrComponentNotFound
	}

	query := `
		INSERT INTO employee_payroll_components (
			employee_id, payroll_component_id, amount, effective_date, end_date
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING id, employee_id, payroll_component_id, amount, effective_date, end_date, created_at, updated_at
	`

	var ec payroll.EmployeeComponent
	err = q.QueryRow(ctx, query,
		assignment.EmployeeID, assignment.ComponentID, assignment.Amount,
		assignment.EffectiveDate, assignment.EndDate,
	).Scan(
		&ec.ID, &ec.EmployeeID, &ec.ComponentID, &ec.Amount,
		&ec.EffectiveDate, &ec.EndDate, &ec.CreatedAt, &ec.UpdatedAt,
	)
	if err != nil {
		return payroll.EmployeeComponent{}, fmt.Errorf("failed to assign payroll component: %w", err)
	}

	return ec, nil
}

func (r *payrollRepository) GetEmployeeComponents(ctx context.Context, employeeID, companyID string, activeOnly bool) ([]payroll.EmployeeComponent, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ec.id, ec.employee_id, ec.payroll_component_id, ec.amount,
			   ec.effective_date, ec.end_date, ec.created_at, ec.updated_at,
			   c.id, c.company_id, c.code, c.name, c.type, c.calc_method,
			   c.amount, c.percentage, c.formula, c.is_taxable, c.include_in_bpjs_base,
			   c.display_order, c.is_system, c.is_active, c.created_at, c.updated_at
		FROM employee_payroll_components ec
		JOIN payroll_components c ON c.id = ec.payroll_component_id
		WHERE ec.employee_id = $1 AND c.company_id = $2
	`
	if activeOnly {
		query += ` AND c.is_active = TRUE`
	}
	query += ` ORDER BY c.display_order, c.code`

	rows, err := q.Query(ctx, query, employeeID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee components: %w", err)
	}
	defer rows.Close()

	var assignments []payroll.EmployeeComponent
	for rows.Next() {
		var ec payroll.EmployeeComponent
		var c payroll.PayrollComponent
		err := rows.Scan(
			&ec.ID, &ec.EmployeeID, &ec.ComponentID, &ec.Amount,
			&ec.EffectiveDate, &ec.EndDate, &ec.CreatedAt, &ec.UpdatedAt,
			&c.ID, &c.CompanyID, &c.Code, &c.Name, &c.Type, &c.CalcMethod,
			&c.Amount, &c.Percentage, &c.Formula, &c.IsTaxable, &c.IncludeInBPJSBase,
			&c.DisplayOrder, &c.IsSystem, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee component: %w", err)
		}
		ec.Component = &c
		assignments = append(assignments, ec)
	}

	return assignments, rows.Err()
}

func (r *payrollRepository) RemoveEmployeeComponent(ctx context.Context, id, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM employee_payroll_components ec
		USING payroll_components c
		WHERE ec.id = $1 AND c.id = ec.payroll_component_id AND c.company_id = $2
		RETURNING ec.id
	`

	var deletedID string
	if err := q.QueryRow(ctx, query, id, companyID).Scan(&deletedID); err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrEmployeeComponentNotFound
		}
		return fmt.Errorf("failed to remove employee component: %w", err)
	}

	return nil
}

// ========== AGGREGATIONS ==========

func (r *payrollRepository) EmployeeMonthlyTotals(ctx context.Context, employeeID, companyID string, months int) ([]payroll.EmployeeMonthlyTotal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT p.month, p.year, s.total_earnings, s.net_pay
		FROM payroll_summaries s
		JOIN payroll_periods p ON p.id = s.period_id
		WHERE s.employee_id = $1 AND s.company_id = $2
		ORDER BY p.year DESC, p.month DESC
		LIMIT $3
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, months)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee monthly totals: %w", err)
	}
	defer rows.Close()

	var totals []payroll.EmployeeMonthlyTotal
	for rows.Next() {
		var t payroll.EmployeeMonthlyTotal
		if err := rows.Scan(&t.Month, &t.Year, &t.TotalEarnings, &t.NetPay); err != nil {
			return nil, fmt.Errorf("failed to scan monthly total: %w", err)
		}
		totals = append(totals, t)
	}

	return totals, rows.Err()
}

func (r *payrollRepository) GetPeriodStats(ctx context.Context, periodID, companyID string) (payroll.PeriodSummaryStats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE has_anomaly),
			   COUNT(*) FILTER (WHERE anomalies @> '[{"severity": "high"}]')
		FROM payroll_summaries
		WHERE period_id = $1 AND company_id = $2
	`

	var stats payroll.PeriodSummaryStats
	err := q.QueryRow(ctx, query, periodID, companyID).Scan(
		&stats.SummaryCount, &stats.AnomalyCount, &stats.HighSeverityCount,
	)
	if err != nil {
		return payroll.PeriodSummaryStats{}, fmt.Errorf("failed to get period stats: %w", err)
	}

	return stats, nil
}
