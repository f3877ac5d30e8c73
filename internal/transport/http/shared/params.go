package shared

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"folha/internal/apperr"
	"folha/internal/domain/auth"
	"folha/internal/domain/sheet"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// ParseID parses a positive numeric identifier.
func ParseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("invalid %s %q", name, raw)
	}
	return id, nil
}

// URLID reads a numeric chi URL parameter.
func URLID(r *http.Request, name string) (int64, error) {
	return ParseID(chi.URLParam(r, name), name)
}

// URLMonth reads a "2006-01" chi URL parameter as the first of the month.
func URLMonth(r *http.Request, name string) (time.Time, error) {
	raw := chi.URLParam(r, name)
	month, err := sheet.ParseMonth(raw)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid month %q, expected YYYY-MM", raw)
	}
	return month, nil
}

// ScopeWorksite enforces the actor contract: a worksite user only ever
// operates on its own worksite; the auditor operates on any.
func ScopeWorksite(actor auth.Actor, requested int64) (int64, error) {
	if actor.IsAuditor() {
		return requested, nil
	}
	if requested != 0 && requested != actor.WorksiteID {
		return 0, apperr.Auth("access to another worksite is not allowed")
	}
	return actor.WorksiteID, nil
}
