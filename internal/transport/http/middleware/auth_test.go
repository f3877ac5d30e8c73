package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"folha/internal/domain/auth"
)

func passThrough(t *testing.T) (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestAuthInjectsActor(t *testing.T) {
	token, err := auth.GenerateToken("secret", auth.Actor{Role: auth.RoleAuditor}, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	var seen auth.Actor
	handler := Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = GetActor(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen.Role != auth.RoleAuditor {
		t.Fatalf("actor not injected: %+v", seen)
	}
}

func TestRequireActorRejectsAnonymous(t *testing.T) {
	next, called := passThrough(t)
	rec := httptest.NewRecorder()
	RequireActor(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized || *called {
		t.Fatalf("expected 401 without actor, got %d (called=%v)", rec.Code, *called)
	}
}

func TestRequireAuditorRejectsWorksiteUser(t *testing.T) {
	next, called := passThrough(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), auth.Actor{Role: auth.RoleWorksite, WorksiteID: 1}))

	rec := httptest.NewRecorder()
	RequireAuditor(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden || *called {
		t.Fatalf("expected 403 for worksite user, got %d (called=%v)", rec.Code, *called)
	}
}

func TestRequireAuditorAllowsAuditor(t *testing.T) {
	next, called := passThrough(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithActor(req.Context(), auth.Actor{Role: auth.RoleAuditor}))

	rec := httptest.NewRecorder()
	RequireAuditor(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !*called {
		t.Fatalf("expected pass-through for auditor, got %d (called=%v)", rec.Code, *called)
	}
}
