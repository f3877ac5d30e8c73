package auditloghandler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"folha/internal/domain/audit"
	"folha/internal/requestctx"
	"folha/internal/transport/http/api"
	mw "folha/internal/transport/http/middleware"
	"folha/internal/transport/http/shared"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(service *audit.Service) *Handler {
	return &Handler{Audit: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuditor)
		r.Get("/audit-log", h.HandleList)
	})
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())
	query := r.URL.Query()

	filter := audit.Filter{
		Actor:  query.Get("actor"),
		Action: query.Get("action"),
	}
	if raw := query.Get("since"); raw != "" {
		since, err := shared.ParseDate(raw)
		if err != nil {
			api.Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid since date", reqID)
			return
		}
		filter.Since = since
	}

	limit := defaultLimit
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := 0
	if raw := query.Get("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	entries, err := h.Audit.List(r.Context(), filter, limit, offset)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, entries, reqID)
}
