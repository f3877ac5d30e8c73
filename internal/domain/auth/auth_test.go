package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	actor := Actor{Role: RoleWorksite, WorksiteID: 7, WorksiteName: "Obra Norte"}
	token, err := GenerateToken("secret", actor, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Role != RoleWorksite || claims.WorksiteID != 7 || claims.WorksiteName != "Obra Norte" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", Actor{Role: RoleAuditor}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("expected error for wrong secret")
	}
}

func TestHashCodeRoundTrip(t *testing.T) {
	hash, err := HashCode("obra123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := CheckCode(hash, "obra123"); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := CheckCode(hash, "wrong"); err == nil {
		t.Fatal("expected mismatch")
	}
}

func TestActorLogName(t *testing.T) {
	if got := (Actor{Role: RoleAuditor}).LogName(); got != "admin" {
		t.Fatalf("auditor log name = %q", got)
	}
	actor := Actor{Role: RoleWorksite, WorksiteName: "Obra Sul"}
	if got := actor.LogName(); got != "worksite:Obra Sul" {
		t.Fatalf("worksite log name = %q", got)
	}
}
