package entrieshandler

import (
	"testing"

	"folha/internal/apperr"
)

func TestToInputParsesFields(t *testing.T) {
	serviceID := int64(7)
	in, err := entryPayload{
		ServiceDate: "2025-03-10",
		EmployeeID:  3,
		ServiceID:   &serviceID,
		Quantity:    "2.5",
		Observation: "ok",
	}.toInput()
	if err != nil {
		t.Fatalf("toInput: %v", err)
	}
	if in.EmployeeID != 3 || in.ServiceID == nil || *in.ServiceID != 7 {
		t.Fatalf("unexpected input: %+v", in)
	}
	if in.Quantity.String() != "2.5" {
		t.Fatalf("quantity = %s", in.Quantity)
	}
	if in.ServiceDate.Format("2006-01-02") != "2025-03-10" {
		t.Fatalf("service date = %s", in.ServiceDate)
	}
}

func TestToInputAllowsOmittedDate(t *testing.T) {
	in, err := entryPayload{EmployeeID: 1, Description: "extra work", Quantity: "1"}.toInput()
	if err != nil {
		t.Fatalf("toInput: %v", err)
	}
	if !in.ServiceDate.IsZero() {
		t.Fatalf("expected zero date, got %s", in.ServiceDate)
	}
}

func TestToInputRejectsBadQuantity(t *testing.T) {
	_, err := entryPayload{ServiceDate: "2025-03-10", EmployeeID: 1, Quantity: "two"}.toInput()
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestToInputRejectsBadDate(t *testing.T) {
	_, err := entryPayload{ServiceDate: "10/03/2025", EmployeeID: 1, Quantity: "1"}.toInput()
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestToInputParsesMoney(t *testing.T) {
	in, err := entryPayload{
		ServiceDate: "2025-03-10",
		EmployeeID:  1,
		Description: "hauling",
		Quantity:    "1",
		UnitValue:   "R$ 1.234,56",
		Observation: "ok",
	}.toInput()
	if err != nil {
		t.Fatalf("toInput: %v", err)
	}
	if in.UnitValue.String() != "1234.56" {
		t.Fatalf("unit value = %s", in.UnitValue)
	}
}
