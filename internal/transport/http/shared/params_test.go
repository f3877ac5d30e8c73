package shared

import (
	"testing"

	"folha/internal/apperr"
	"folha/internal/domain/auth"
)

func TestScopeWorksiteAuditorPassesThrough(t *testing.T) {
	id, err := ScopeWorksite(auth.Actor{Role: auth.RoleAuditor}, 9)
	if err != nil || id != 9 {
		t.Fatalf("auditor scope = %d, %v", id, err)
	}
}

func TestScopeWorksiteUserPinnedToOwn(t *testing.T) {
	actor := auth.Actor{Role: auth.RoleWorksite, WorksiteID: 4}

	id, err := ScopeWorksite(actor, 0)
	if err != nil || id != 4 {
		t.Fatalf("default scope = %d, %v", id, err)
	}

	id, err = ScopeWorksite(actor, 4)
	if err != nil || id != 4 {
		t.Fatalf("own scope = %d, %v", id, err)
	}

	if _, err := ScopeWorksite(actor, 5); !apperr.Is(err, apperr.KindAuth) {
		t.Fatalf("expected auth error for foreign worksite, got %v", err)
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2025-03-17"); err != nil {
		t.Fatalf("plain date: %v", err)
	}
	if _, err := ParseDate("2025-03-17T10:00:00Z"); err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if _, err := ParseDate("17/03/2025"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
