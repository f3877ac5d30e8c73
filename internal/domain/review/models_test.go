package review

import "testing"

func strptr(s string) *string { return &s }
func boolptr(b bool) *bool    { return &b }

func TestMergeAppliesPatchedFields(t *testing.T) {
	existing := Status{Status: StatusPending, Comment: "old"}
	merged, changed := Merge(existing, Patch{
		Status:  strptr(StatusApproved),
		Comment: strptr("looks good"),
	})
	if merged.Status != StatusApproved || merged.Comment != "looks good" {
		t.Fatalf("unexpected merge result: %+v", merged)
	}
	if len(changed) != 2 {
		t.Fatalf("expected 2 changed fields, got %v", changed)
	}
}

func TestMergeKeepsOmittedFields(t *testing.T) {
	existing := Status{Status: StatusReviewAgain, Comment: "fix tower B", EntriesCompleted: true}
	merged, changed := Merge(existing, Patch{Status: strptr(StatusApproved)})
	if merged.Comment != "fix tower B" || !merged.EntriesCompleted {
		t.Fatalf("omitted fields must keep prior values: %+v", merged)
	}
	if len(changed) != 1 || changed[0] != "status" {
		t.Fatalf("unexpected changed set: %v", changed)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	existing := Status{Status: StatusPending}
	patch := Patch{Status: strptr(StatusApproved), Comment: strptr("")}

	first, changedFirst := Merge(existing, patch)
	second, changedSecond := Merge(first, patch)

	if first != second {
		t.Fatalf("second application changed the row: %+v vs %+v", first, second)
	}
	if len(changedFirst) == 0 {
		t.Fatal("first application must report changes")
	}
	if len(changedSecond) != 0 {
		t.Fatalf("second application must be a no-op, changed %v", changedSecond)
	}
}

func TestMergeCompletionFlag(t *testing.T) {
	merged, changed := Merge(Status{}, Patch{EntriesCompleted: boolptr(true)})
	if !merged.EntriesCompleted {
		t.Fatal("completion flag not applied")
	}
	if len(changed) != 1 || changed[0] != "entries_completed" {
		t.Fatalf("unexpected changed set: %v", changed)
	}
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusPending, StatusReviewAgain, StatusApproved} {
		if !ValidStatus(status) {
			t.Fatalf("%s must be valid", status)
		}
	}
	if ValidStatus("done") {
		t.Fatal("unknown status must be invalid")
	}
}

func TestIsOverall(t *testing.T) {
	if !(Status{EmployeeID: OverallEmployeeID}).IsOverall() {
		t.Fatal("employee id 0 marks the overall row")
	}
	if (Status{EmployeeID: 12}).IsOverall() {
		t.Fatal("employee rows are not overall")
	}
}
