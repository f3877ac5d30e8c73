package reports

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"folha/internal/domain/catalog"
	"folha/internal/domain/compensation"
	"folha/internal/domain/entry"
	"folha/internal/domain/sheet"
)

type EmployeeLine struct {
	EmployeeID      int64           `json:"employeeId"`
	Name            string          `json:"name"`
	RoleName        string          `json:"roleName"`
	RoleType        string          `json:"roleType"`
	BaseSalary      decimal.Decimal `json:"baseSalary"`
	GrossProduction decimal.Decimal `json:"grossProduction"`
	BonusTotal      decimal.Decimal `json:"bonusTotal"`
	NetProduction   decimal.Decimal `json:"netProduction"`
	AmountToPay     decimal.Decimal `json:"amountToPay"`
}

type MonthlyReport struct {
	Worksite   catalog.Worksite `json:"worksite"`
	Month      time.Time        `json:"month"`
	SheetState string           `json:"sheetState"`
	Lines      []EmployeeLine   `json:"lines"`
	TotalToPay decimal.Decimal  `json:"totalToPay"`
}

type Service struct {
	Catalog *catalog.Store
	Entries *entry.Store
	Sheets  *sheet.Service
}

func NewService(cat *catalog.Store, entries *entry.Store, sheets *sheet.Service) *Service {
	return &Service{Catalog: cat, Entries: entries, Sheets: sheets}
}

// Build assembles the per-employee monthly summary. Inactive employees are
// included only when the month holds entries for them.
func (s *Service) Build(ctx context.Context, worksiteID int64, month time.Time) (*MonthlyReport, error) {
	worksite, err := s.Catalog.GetWorksite(ctx, worksiteID)
	if err != nil {
		return nil, err
	}
	current, err := s.Sheets.Get(ctx, worksiteID, month)
	if err != nil {
		return nil, err
	}
	employees, err := s.Catalog.ListEmployees(ctx, worksiteID, false)
	if err != nil {
		return nil, err
	}
	gross, err := s.Entries.PerEmployeeGross(ctx, worksiteID, month)
	if err != nil {
		return nil, err
	}
	bonus, err := s.Entries.PerEmployeeBonus(ctx, worksiteID, month)
	if err != nil {
		return nil, err
	}

	report := &MonthlyReport{
		Worksite:   *worksite,
		Month:      sheet.MonthOf(month),
		SheetState: current.State,
		Lines:      BuildLines(employees, gross, bonus),
	}
	for _, line := range report.Lines {
		report.TotalToPay = report.TotalToPay.Add(line.AmountToPay)
	}
	return report, nil
}

// BuildLines runs the compensation engine over every relevant employee.
func BuildLines(employees []catalog.Employee, gross, bonus map[int64]decimal.Decimal) []EmployeeLine {
	var lines []EmployeeLine
	for _, emp := range employees {
		g := gross[emp.ID]
		k := bonus[emp.ID]
		if !emp.Active && g.IsZero() && k.IsZero() {
			continue
		}
		result := compensation.Compute(compensation.Input{
			RoleType:        emp.RoleType,
			BaseSalary:      emp.BaseSalary,
			GrossProduction: g,
			BonusTotal:      k,
		})
		lines = append(lines, EmployeeLine{
			EmployeeID:      emp.ID,
			Name:            emp.Name,
			RoleName:        emp.RoleName,
			RoleType:        emp.RoleType,
			BaseSalary:      emp.BaseSalary,
			GrossProduction: g,
			BonusTotal:      k,
			NetProduction:   result.NetProduction,
			AmountToPay:     result.AmountToPay,
		})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Name < lines[j].Name })
	return lines
}
