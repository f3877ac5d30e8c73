package reviewhandler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"folha/internal/apperr"
	"folha/internal/domain/review"
)

func requestWithEmployee(raw string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("employeeID", raw)
	req := httptest.NewRequest(http.MethodPut, "/", nil)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func TestEmployeeParamOverall(t *testing.T) {
	id, err := employeeParam(requestWithEmployee("overall"))
	if err != nil || id != review.OverallEmployeeID {
		t.Fatalf("overall = %d, %v", id, err)
	}

	id, err = employeeParam(requestWithEmployee("0"))
	if err != nil || id != review.OverallEmployeeID {
		t.Fatalf("zero = %d, %v", id, err)
	}
}

func TestEmployeeParamNumeric(t *testing.T) {
	id, err := employeeParam(requestWithEmployee("42"))
	if err != nil || id != 42 {
		t.Fatalf("numeric = %d, %v", id, err)
	}
}

func TestEmployeeParamRejectsGarbage(t *testing.T) {
	if _, err := employeeParam(requestWithEmployee("abc")); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if _, err := employeeParam(requestWithEmployee("-1")); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for negative id, got %v", err)
	}
}
