package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/nurpe/marketplace-ledger/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the best-clients ranking as a one-page PDF.
func (g *Generator) Generate(report model.ClientReport) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Best clients report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s - %s", formatDate(report.PeriodStart), formatDate(report.PeriodEnd)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Top %d clients by paid job prices", report.Limit), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	headers := []string{"#", "Client", "Profession", "Paid", "Current balance"}
	colWidths := []float64{12, 68, 50, 25, 25}
	drawTableRow(pdf, headers, colWidths, true)

	for i, client := range report.Clients {
		row := []string{
			fmt.Sprintf("%d", i+1),
			client.FullName(),
			client.Profession,
			client.Total.StringFixed(2),
			client.Balance.StringFixed(2),
		}
		drawTableRow(pdf, row, colWidths, false)
	}

	if len(report.Clients) == 0 {
		pdf.Ln(2)
		pdf.CellFormat(0, 6, "No paid jobs in the selected period.", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func drawTableRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 10)
	for i, col := range cols {
		align := "L"
		if i == 0 || i > 2 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 8, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}
