package entry

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry kinds, persisted as an enum. Gratification labels are stored clean;
// the legacy sentinel prefix is only recognized on input.
const (
	KindService       = "service"
	KindDiverse       = "diverse"
	KindGratification = "gratification"
)

// GratificationPrefix is the legacy sentinel still accepted on imported
// diverse descriptions; matching is case-sensitive.
const GratificationPrefix = "[GRATIFICACAO]"

// GratificationDiscipline is the discipline label surfaced for
// gratification entries in aggregate views.
const GratificationDiscipline = "GRATIFICAÇÃO"

type Entry struct {
	ID          int64           `json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	ServiceDate time.Time       `json:"serviceDate"`
	WorksiteID  int64           `json:"worksiteId"`
	EmployeeID  int64           `json:"employeeId"`
	Kind        string          `json:"kind"`
	ServiceID   *int64          `json:"serviceId,omitempty"`
	Description string          `json:"description,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitValue   decimal.Decimal `json:"unitValue"`
	Observation string          `json:"observation"`
	Archived    bool            `json:"archived"`

	EmployeeName       string `json:"employeeName,omitempty"`
	RoleName           string `json:"roleName,omitempty"`
	DisciplineName     string `json:"disciplineName,omitempty"`
	ServiceDescription string `json:"serviceDescription,omitempty"`
	Unit               string `json:"unit,omitempty"`
}

// PartialValue is quantity times unit value, always computed and never
// stored denormalized.
func (e Entry) PartialValue() decimal.Decimal {
	return e.Quantity.Mul(e.UnitValue)
}

// Input is one incoming entry before classification.
type Input struct {
	ServiceDate time.Time
	EmployeeID  int64
	Kind        string
	ServiceID   *int64
	Description string
	Quantity    decimal.Decimal
	UnitValue   decimal.Decimal
	Observation string
}
