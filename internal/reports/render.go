package reports

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"folha/internal/money"
)

// RenderPDF renders the monthly report as a simple tabular PDF.
func RenderPDF(report *MonthlyReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Production sheet - %s - %s", report.Worksite.Name, report.Month.Format("2006-01")))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 9)
	headers := []string{"Employee", "Role", "Base salary", "Gross", "Bonus", "Net", "To pay"}
	widths := []float64{70, 45, 30, 30, 30, 30, 30}
	for i, header := range headers {
		pdf.CellFormat(widths[i], 7, header, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range report.Lines {
		cells := []string{
			line.Name,
			line.RoleName,
			money.Format(line.BaseSalary),
			money.Format(line.GrossProduction),
			money.Format(line.BonusTotal),
			money.Format(line.NetProduction),
			money.Format(line.AmountToPay),
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, cell, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(235, 7, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, money.Format(report.TotalToPay), "1", 0, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderXLSX renders the monthly report as a spreadsheet.
func RenderXLSX(report *MonthlyReport) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheetName := report.Month.Format("2006-01")
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Employee", "Role", "Type", "Base salary", "Gross", "Bonus", "Net", "To pay"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for row, line := range report.Lines {
		values := []any{
			line.Name,
			line.RoleName,
			line.RoleType,
			money.Format(line.BaseSalary),
			money.Format(line.GrossProduction),
			money.Format(line.BonusTotal),
			money.Format(line.NetProduction),
			money.Format(line.AmountToPay),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	totalLabel, _ := excelize.CoordinatesToCellName(7, len(report.Lines)+2)
	totalCell, _ := excelize.CoordinatesToCellName(8, len(report.Lines)+2)
	_ = f.SetCellValue(sheetName, totalLabel, "Total")
	_ = f.SetCellValue(sheetName, totalCell, money.Format(report.TotalToPay))

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
