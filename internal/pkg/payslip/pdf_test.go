package payslip

import (
	"bytes"
	"testing"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPDF(t *testing.T) {
	slip := payroll.PayslipResponse{
		SummaryID:    "summary-1",
		EmployeeID:   "emp-1",
		EmployeeName: "Budi Santoso",
		PeriodMonth:  4,
		PeriodYear:   2025,
		WorkingDays:  22,
		PresentDays:  20,
		Earnings: []payroll.SummaryLine{
			{Code: "BASE", Name: "Base Salary", Amount: decimal.NewFromInt(9_090_909)},
		},
		Deductions: []payroll.SummaryLine{
			{Code: "BPJS_KES", Name: "BPJS Kesehatan", Amount: decimal.NewFromInt(100_000)},
			{Code: "PPH21", Name: "PPh 21", Amount: decimal.NewFromInt(186_817)},
		},
		EmployerCosts: []payroll.SummaryLine{
			{Code: "BPJS_JKK", Name: "BPJS JKK", Amount: decimal.NewFromInt(54_000)},
		},
		TotalEarnings:   decimal.NewFromInt(9_090_909),
		TotalDeductions: decimal.NewFromInt(286_817),
		NetPay:          decimal.NewFromInt(8_804_092),
	}

	var buf bytes.Buffer
	require.NoError(t, RenderPDF(slip, &buf))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output is not a PDF")
	assert.Greater(t, buf.Len(), 1000)
}
