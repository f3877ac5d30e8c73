package reportshandler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"folha/internal/reports"
	"folha/internal/requestctx"
	"folha/internal/transport/http/api"
	mw "folha/internal/transport/http/middleware"
	"folha/internal/transport/http/shared"
)

type Handler struct {
	Reports *reports.Service
}

func NewHandler(service *reports.Service) *Handler {
	return &Handler{Reports: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireActor)
		r.Get("/worksites/{worksiteID}/reports/{month}", h.HandleJSON)
		r.Get("/worksites/{worksiteID}/reports/{month}.pdf", h.HandlePDF)
		r.Get("/worksites/{worksiteID}/reports/{month}.xlsx", h.HandleXLSX)
	})
}

func (h *Handler) build(w http.ResponseWriter, r *http.Request) (*reports.MonthlyReport, string, bool) {
	actor, _ := mw.GetActor(r.Context())
	reqID := requestctx.GetRequestID(r.Context())

	requested, err := shared.URLID(r, "worksiteID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return nil, reqID, false
	}
	worksiteID, err := shared.ScopeWorksite(actor, requested)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return nil, reqID, false
	}

	raw := chi.URLParam(r, "month")
	month, err := time.Parse("2006-01", raw)
	if err != nil {
		api.Fail(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR",
			fmt.Sprintf("invalid month %q, expected YYYY-MM", raw), reqID)
		return nil, reqID, false
	}

	report, err := h.Reports.Build(r.Context(), worksiteID, month)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return nil, reqID, false
	}
	return report, reqID, true
}

func (h *Handler) HandleJSON(w http.ResponseWriter, r *http.Request) {
	report, reqID, ok := h.build(w, r)
	if !ok {
		return
	}
	api.Success(w, report, reqID)
}

func (h *Handler) HandlePDF(w http.ResponseWriter, r *http.Request) {
	report, reqID, ok := h.build(w, r)
	if !ok {
		return
	}
	payload, err := reports.RenderPDF(report)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	serveFile(w, payload, "application/pdf", reportFileName(report, "pdf"))
}

func (h *Handler) HandleXLSX(w http.ResponseWriter, r *http.Request) {
	report, reqID, ok := h.build(w, r)
	if !ok {
		return
	}
	payload, err := reports.RenderXLSX(report)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	serveFile(w, payload, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", reportFileName(report, "xlsx"))
}

func reportFileName(report *reports.MonthlyReport, ext string) string {
	return fmt.Sprintf("production-%d-%s.%s", report.Worksite.ID, report.Month.Format("2006-01"), ext)
}

func serveFile(w http.ResponseWriter, payload []byte, contentType, name string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(payload)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
