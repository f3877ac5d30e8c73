package config

import "testing"

func TestNormalizeDatabaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"postgres://u:p@host/db", "postgresql://u:p@host/db?gssencmode=disable"},
		{"postgresql://u:p@host/db", "postgresql://u:p@host/db?gssencmode=disable"},
		{"postgres://u:p@host/db?sslmode=require", "postgresql://u:p@host/db?sslmode=require"},
		{"  postgres://host/db  ", "postgresql://host/db?gssencmode=disable"},
	}

	for _, tc := range cases {
		if got := NormalizeDatabaseURL(tc.in); got != tc.want {
			t.Fatalf("NormalizeDatabaseURL(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateRequiresDatabaseURL(t *testing.T) {
	cfg := Config{}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestValidateProductionRequiresSecrets(t *testing.T) {
	cfg := Config{DatabaseURL: "postgresql://host/db", Environment: "production"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET in production")
	}
	cfg.JWTSecret = "secret"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing ADMIN_PASSWORD in production")
	}
	cfg.AdminPassword = "hunter2"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
