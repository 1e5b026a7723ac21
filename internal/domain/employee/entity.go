package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaritalStatus enum
type MaritalStatus string

const (
	MaritalSingle  MaritalStatus = "single"
	MaritalMarried MaritalStatus = "married"
)

// EmploymentType enum
type EmploymentType string

const (
	EmploymentPermanent EmploymentType = "permanent"
	EmploymentContract  EmploymentType = "contract"
	EmploymentIntern    EmploymentType = "intern"
)

// Employee carries the directory attributes the payroll engine needs. The
// administrative profile (position, branch, documents) is managed elsewhere.
type Employee struct {
	ID             string
	CompanyID      string
	Code           string
	FullName       string
	BaseSalary     decimal.Decimal
	MaritalStatus  MaritalStatus
	DependentCount int
	EmploymentType EmploymentType
	BPJSRiskClass  int
	JoinDate       time.Time
	ResignDate     *time.Time
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Married reports whether the employee uses the married PTKP allowance.
func (e Employee) Married() bool {
	return e.MaritalStatus == MaritalMarried
}
