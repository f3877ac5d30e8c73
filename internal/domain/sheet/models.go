package sheet

import "time"

// Sheet states. NotSent is implicit: no row exists for the (worksite, month).
const (
	StateNotSent    = "not_sent"
	StateUnderAudit = "under_audit"
	StateReturned   = "returned_for_revision"
	StateFinalized  = "finalized"
)

type MonthlySheet struct {
	WorksiteID      int64      `json:"worksiteId"`
	Month           time.Time  `json:"month"`
	State           string     `json:"state"`
	SubmittedAt     *time.Time `json:"submittedAt,omitempty"`
	SubmissionCount int        `json:"submissionCount"`
}

// CanWrite reports whether entries of the sheet accept creation and edits.
func CanWrite(state string) bool {
	return state == StateNotSent || state == StateReturned
}

// CanDelete reports whether entries of the sheet may be deleted. Auditors
// keep delete access while the sheet is under audit; nobody touches a
// finalized sheet.
func CanDelete(state string, auditor bool) bool {
	if CanWrite(state) {
		return true
	}
	return state == StateUnderAudit && auditor
}

// CanSubmit reports whether the worksite user may submit the sheet.
func CanSubmit(state string) bool {
	return state == StateNotSent || state == StateReturned
}

// MonthOf truncates a date to the first day of its calendar month, UTC.
func MonthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ParseMonth parses "2006-01" into the first day of that month.
func ParseMonth(raw string) (time.Time, error) {
	parsed, err := time.Parse("2006-01", raw)
	if err != nil {
		return time.Time{}, err
	}
	return MonthOf(parsed), nil
}
