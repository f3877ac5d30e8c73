package reviewhandler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"folha/internal/apperr"
	"folha/internal/domain/review"
	"folha/internal/requestctx"
	"folha/internal/transport/http/api"
	mw "folha/internal/transport/http/middleware"
	"folha/internal/transport/http/shared"
)

type Handler struct {
	Review *review.Service
}

func NewHandler(service *review.Service) *Handler {
	return &Handler{Review: service}
}

// RegisterRoutes mounts the audit-review surface. Status and comment changes
// are the auditor's; the completion flag belongs to the worksite filling the
// sheet.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireActor)
		r.Get("/worksites/{worksiteID}/months/{month}/review", h.HandleListMonth)
		r.Put("/worksites/{worksiteID}/months/{month}/review/{employeeID}/completion", h.HandleSetCompletion)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuditor)
		r.Put("/worksites/{worksiteID}/months/{month}/review/{employeeID}", h.HandleUpsert)
		r.Post("/worksites/{worksiteID}/months/{month}/review/reset-completion", h.HandleResetCompletion)
	})
}

// employeeParam accepts a positive employee id or the literal "overall" for
// the per-month summary row.
func employeeParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "employeeID")
	if raw == "overall" {
		return review.OverallEmployeeID, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, apperr.Validation("invalid employeeID %q", raw)
	}
	return id, nil
}

func (h *Handler) scope(w http.ResponseWriter, r *http.Request) (int64, time.Time, string, bool) {
	actor, _ := mw.GetActor(r.Context())
	reqID := requestctx.GetRequestID(r.Context())

	requested, err := shared.URLID(r, "worksiteID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return 0, time.Time{}, reqID, false
	}
	worksiteID, err := shared.ScopeWorksite(actor, requested)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return 0, time.Time{}, reqID, false
	}
	month, err := shared.URLMonth(r, "month")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return 0, time.Time{}, reqID, false
	}
	return worksiteID, month, reqID, true
}

func (h *Handler) HandleListMonth(w http.ResponseWriter, r *http.Request) {
	worksiteID, month, reqID, ok := h.scope(w, r)
	if !ok {
		return
	}
	statuses, err := h.Review.ListMonth(r.Context(), worksiteID, month)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, statuses, reqID)
}

type upsertPayload struct {
	Status           *string `json:"status,omitempty"`
	Comment          *string `json:"comment,omitempty"`
	EntriesCompleted *bool   `json:"entriesCompleted,omitempty"`
}

func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	worksiteID, month, reqID, ok := h.scope(w, r)
	if !ok {
		return
	}
	employeeID, err := employeeParam(r)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}

	var payload upsertPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", reqID)
		return
	}

	actor, _ := mw.GetActor(r.Context())
	merged, err := h.Review.Upsert(r.Context(), actor, worksiteID, employeeID, month, review.Patch{
		Status:           payload.Status,
		Comment:          payload.Comment,
		EntriesCompleted: payload.EntriesCompleted,
	})
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, merged, reqID)
}

func (h *Handler) HandleSetCompletion(w http.ResponseWriter, r *http.Request) {
	worksiteID, month, reqID, ok := h.scope(w, r)
	if !ok {
		return
	}
	employeeID, err := employeeParam(r)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}

	var payload struct {
		Completed bool `json:"completed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", reqID)
		return
	}

	actor, _ := mw.GetActor(r.Context())
	merged, err := h.Review.SetCompletion(r.Context(), actor, worksiteID, employeeID, month, payload.Completed)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, merged, reqID)
}

func (h *Handler) HandleResetCompletion(w http.ResponseWriter, r *http.Request) {
	worksiteID, month, reqID, ok := h.scope(w, r)
	if !ok {
		return
	}
	actor, _ := mw.GetActor(r.Context())
	if err := h.Review.ResetCompletion(r.Context(), actor, worksiteID, month); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}
