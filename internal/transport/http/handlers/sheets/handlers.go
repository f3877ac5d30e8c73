package sheetshandler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"folha/internal/domain/sheet"
	"folha/internal/requestctx"
	"folha/internal/transport/http/api"
	mw "folha/internal/transport/http/middleware"
	"folha/internal/transport/http/shared"
)

type Handler struct {
	Sheets *sheet.Service
}

func NewHandler(service *sheet.Service) *Handler {
	return &Handler{Sheets: service}
}

// RegisterRoutes mounts the sheet lifecycle. Submission belongs to worksite
// users and the auditor alike; return and finalize are audit decisions.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireActor)
		r.Get("/worksites/{worksiteID}/sheets/{month}", h.HandleGet)
		r.Post("/worksites/{worksiteID}/sheets/{month}/submit", h.HandleSubmit)
	})
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuditor)
		r.Post("/worksites/{worksiteID}/sheets/{month}/return", h.HandleReturn)
		r.Post("/worksites/{worksiteID}/sheets/{month}/finalize", h.HandleFinalize)
	})
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

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	worksiteID, month, reqID, ok := h.scope(w, r)
	if !ok {
		return
	}
	current, err := h.Sheets.Get(r.Context(), worksiteID, month)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, current, reqID)
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	worksiteID, month, reqID, ok := h.scope(w, r)
	if !ok {
		return
	}
	actor, _ := mw.GetActor(r.Context())
	submitted, err := h.Sheets.Submit(r.Context(), actor, worksiteID, month)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, submitted, reqID)
}

func (h *Handler) HandleReturn(w http.ResponseWriter, r *http.Request) {
	worksiteID, month, reqID, ok := h.scope(w, r)
	if !ok {
		return
	}
	actor, _ := mw.GetActor(r.Context())
	if err := h.Sheets.Return(r.Context(), actor, worksiteID, month); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

func (h *Handler) HandleFinalize(w http.ResponseWriter, r *http.Request) {
	worksiteID, month, reqID, ok := h.scope(w, r)
	if !ok {
		return
	}
	actor, _ := mw.GetActor(r.Context())
	if err := h.Sheets.Finalize(r.Context(), actor, worksiteID, month); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}
