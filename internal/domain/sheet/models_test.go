package sheet

import (
	"testing"
	"time"
)

func TestCanWrite(t *testing.T) {
	cases := map[string]bool{
		StateNotSent:    true,
		StateReturned:   true,
		StateUnderAudit: false,
		StateFinalized:  false,
	}
	for state, want := range cases {
		if got := CanWrite(state); got != want {
			t.Fatalf("CanWrite(%s) = %v, want %v", state, got, want)
		}
	}
}

func TestCanDelete(t *testing.T) {
	if !CanDelete(StateUnderAudit, true) {
		t.Fatal("auditor must be able to delete while under audit")
	}
	if CanDelete(StateUnderAudit, false) {
		t.Fatal("worksite user must not delete while under audit")
	}
	if CanDelete(StateFinalized, true) || CanDelete(StateFinalized, false) {
		t.Fatal("nobody deletes from a finalized sheet")
	}
	if !CanDelete(StateNotSent, false) || !CanDelete(StateReturned, false) {
		t.Fatal("writable states allow deletion for everyone")
	}
}

func TestCanSubmit(t *testing.T) {
	if !CanSubmit(StateNotSent) || !CanSubmit(StateReturned) {
		t.Fatal("not-sent and returned sheets are submittable")
	}
	if CanSubmit(StateUnderAudit) || CanSubmit(StateFinalized) {
		t.Fatal("submitted and finalized sheets are not submittable")
	}
}

func TestMonthOf(t *testing.T) {
	date := time.Date(2025, 3, 17, 15, 4, 5, 0, time.FixedZone("BRT", -3*3600))
	month := MonthOf(date)
	if month.Year() != 2025 || month.Month() != 3 || month.Day() != 1 {
		t.Fatalf("MonthOf = %v", month)
	}
	if month.Location() != time.UTC {
		t.Fatal("month must be pinned to UTC")
	}
}

func TestParseMonth(t *testing.T) {
	month, err := ParseMonth("2025-03")
	if err != nil {
		t.Fatalf("ParseMonth: %v", err)
	}
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !month.Equal(want) {
		t.Fatalf("ParseMonth = %v, want %v", month, want)
	}

	if _, err := ParseMonth("03/2025"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
