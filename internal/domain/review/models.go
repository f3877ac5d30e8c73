package review

import "time"

// Approval statuses shared by the overall row and per-employee rows.
const (
	StatusPending     = "pending"
	StatusReviewAgain = "review_again"
	StatusApproved    = "approved"
)

// OverallEmployeeID is the API-facing id of the per-(worksite, month)
// overall row. The store persists it as a NULL employee_id.
const OverallEmployeeID int64 = 0

type Status struct {
	WorksiteID       int64     `json:"worksiteId"`
	EmployeeID       int64     `json:"employeeId"`
	Month            time.Time `json:"month"`
	Status           string    `json:"status"`
	Comment          string    `json:"comment"`
	EntriesCompleted bool      `json:"entriesCompleted"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (s Status) IsOverall() bool {
	return s.EmployeeID == OverallEmployeeID
}

// Patch carries the fields of an upsert; nil fields keep their prior value.
type Patch struct {
	Status           *string
	Comment          *string
	EntriesCompleted *bool
}

func ValidStatus(status string) bool {
	switch status {
	case StatusPending, StatusReviewAgain, StatusApproved:
		return true
	}
	return false
}

// Merge applies a patch to the existing row and reports which fields
// actually changed. Applying the same patch twice changes nothing on the
// second pass.
func Merge(existing Status, patch Patch) (Status, []string) {
	merged := existing
	var changed []string
	if patch.Status != nil && *patch.Status != existing.Status {
		merged.Status = *patch.Status
		changed = append(changed, "status")
	}
	if patch.Comment != nil && *patch.Comment != existing.Comment {
		merged.Comment = *patch.Comment
		changed = append(changed, "comment")
	}
	if patch.EntriesCompleted != nil && *patch.EntriesCompleted != existing.EntriesCompleted {
		merged.EntriesCompleted = *patch.EntriesCompleted
		changed = append(changed, "entries_completed")
	}
	return merged, changed
}
