package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	WorksiteActive   = "active"
	WorksiteInactive = "inactive"
)

type Worksite struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Notice    string    `json:"notice"`
	CreatedAt time.Time `json:"createdAt"`
}

type Role struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	BaseSalary decimal.Decimal `json:"baseSalary"`
	Active     bool            `json:"active"`
}

type Employee struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	RoleID       int64           `json:"roleId"`
	RoleName     string          `json:"roleName"`
	RoleType     string          `json:"roleType"`
	BaseSalary   decimal.Decimal `json:"baseSalary"`
	WorksiteID   int64           `json:"worksiteId"`
	WorksiteName string          `json:"worksiteName"`
	Active       bool            `json:"active"`
}

type Discipline struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type Service struct {
	ID             int64           `json:"id"`
	DisciplineID   int64           `json:"disciplineId"`
	DisciplineName string          `json:"disciplineName"`
	Description    string          `json:"description"`
	Unit           string          `json:"unit"`
	UnitValue      decimal.Decimal `json:"unitValue"`
	Active         bool            `json:"active"`
}
