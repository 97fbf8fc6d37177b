package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/nurpe/marketplace-ledger/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the best-clients ranking as a single-sheet workbook.
func (g *Generator) Generate(report model.ClientReport) ([]byte, error) {
	file := excelize.NewFile()

	sheet := "Best clients"
	file.SetSheetName("Sheet1", sheet)

	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Report")
	set("B1", "Best clients")
	set("A2", "Period start")
	set("B2", formatDate(report.PeriodStart))
	set("A3", "Period end")
	set("B3", formatDate(report.PeriodEnd))
	set("A4", "Limit")
	set("B4", report.Limit)
	set("A5", "Total paid")
	set("B5", formatAmount(sumPaid(report)))

	tableRow := 7
	headers := []string{"Rank", "Client", "Profession", "Type", "Paid", "Current balance"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, tableRow)
		set(cell, header)
	}

	for i, client := range report.Clients {
		row := tableRow + 1 + i
		set(fmt.Sprintf("A%d", row), i+1)
		set(fmt.Sprintf("B%d", row), client.FullName())
		set(fmt.Sprintf("C%d", row), client.Profession)
		set(fmt.Sprintf("D%d", row), string(client.Type))
		set(fmt.Sprintf("E%d", row), formatAmount(client.Total))
		set(fmt.Sprintf("F%d", row), formatAmount(client.Balance))
	}

	_ = file.SetColWidth(sheet, "A", "A", 8)
	_ = file.SetColWidth(sheet, "B", "C", 32)
	_ = file.SetColWidth(sheet, "D", "F", 16)

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sumPaid(report model.ClientReport) decimal.Decimal {
	total := decimal.Zero
	for _, client := range report.Clients {
		total = total.Add(client.Total)
	}
	return total
}

func formatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
