package reports

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"folha/internal/domain/catalog"
	"folha/internal/domain/compensation"
)

func dec(s string) decimal.Decimal {
	value, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return value
}

func sampleEmployees() []catalog.Employee {
	return []catalog.Employee{
		{ID: 1, Name: "Bruno", RoleName: "Pedreiro", RoleType: compensation.RoleTypeProduction, BaseSalary: dec("3000"), Active: true},
		{ID: 2, Name: "Ana", RoleName: "Mestre", RoleType: compensation.RoleTypeBonus, BaseSalary: dec("2000"), Active: true},
		{ID: 3, Name: "Carlos", RoleName: "Pedreiro", RoleType: compensation.RoleTypeProduction, BaseSalary: dec("3000"), Active: false},
	}
}

func TestBuildLinesComputesCompensation(t *testing.T) {
	gross := map[int64]decimal.Decimal{1: dec("4200"), 2: dec("1500")}
	bonus := map[int64]decimal.Decimal{2: dec("200")}

	lines := BuildLines(sampleEmployees(), gross, bonus)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}

	// Sorted by name: Ana first.
	if lines[0].Name != "Ana" || !lines[0].AmountToPay.Equal(dec("3700")) {
		t.Fatalf("unexpected line for Ana: %+v", lines[0])
	}
	if lines[1].Name != "Bruno" || !lines[1].AmountToPay.Equal(dec("4200")) || !lines[1].NetProduction.Equal(dec("1200")) {
		t.Fatalf("unexpected line for Bruno: %+v", lines[1])
	}
}

func TestBuildLinesIncludesInactiveWithEntries(t *testing.T) {
	gross := map[int64]decimal.Decimal{3: dec("100")}
	lines := BuildLines(sampleEmployees(), gross, nil)

	found := false
	for _, line := range lines {
		if line.EmployeeID == 3 {
			found = true
		}
	}
	if !found {
		t.Fatal("inactive employee with entries must appear")
	}
}

func TestRenderPDFAndXLSX(t *testing.T) {
	report := &MonthlyReport{
		Worksite:   catalog.Worksite{ID: 1, Name: "Obra Norte"},
		Month:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		SheetState: "under_audit",
		Lines:      BuildLines(sampleEmployees(), map[int64]decimal.Decimal{1: dec("4200")}, nil),
		TotalToPay: dec("9200"),
	}

	pdfBytes, err := RenderPDF(report)
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if len(pdfBytes) == 0 {
		t.Fatal("empty PDF output")
	}

	xlsxBytes, err := RenderXLSX(report)
	if err != nil {
		t.Fatalf("RenderXLSX: %v", err)
	}
	if len(xlsxBytes) == 0 {
		t.Fatal("empty XLSX output")
	}
}
