package payslip

import (
	"fmt"
	"io"
	"time"

	"github.com/gajiku-hq/payroll-backend-go/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
)

// RenderPDF writes an A4 payslip for the assembled breakdown to w.
func RenderPDF(slip payroll.PayslipResponse, w io.Writer) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s", slip.EmployeeName))
	pdf.Ln(6)
	period := time.Date(slip.PeriodYear, time.Month(slip.PeriodMonth), 1, 0, 0, 0, 0, time.UTC)
	pdf.Cell(0, 7, fmt.Sprintf("Period: %s", period.Format("January 2006")))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Attendance: %d of %d working days, %s overtime hours",
		slip.PresentDays, slip.WorkingDays, slip.OvertimeHours))
	pdf.Ln(10)

	writeSection(pdf, "Earnings", slip.Earnings)
	writeSection(pdf, "Deductions", slip.Deductions)
	writeSection(pdf, "Employer Contributions", slip.EmployerCosts)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(120, 8, "Net Pay")
	pdf.CellFormat(50, 8, slip.NetPay.StringFixed(0), "", 0, "R", false, 0, "")

	return pdf.Output(w)
}

func writeSection(pdf *gofpdf.Fpdf, title string, lines []payroll.SummaryLine) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range lines {
		pdf.Cell(120, 7, line.Name)
		pdf.CellFormat(50, 7, line.Amount.StringFixed(0), "", 0, "R", false, 0, "")
		pdf.Ln(7)
	}
	pdf.Ln(4)
}
