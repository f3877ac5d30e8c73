package entrieshandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"folha/internal/apperr"
	"folha/internal/domain/entry"
	"folha/internal/money"
	"folha/internal/requestctx"
	"folha/internal/transport/http/api"
	mw "folha/internal/transport/http/middleware"
	"folha/internal/transport/http/shared"
)

type Handler struct {
	Entries *entry.Service
}

func NewHandler(service *entry.Service) *Handler {
	return &Handler{Entries: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireActor)
		r.Get("/worksites/{worksiteID}/months/{month}/entries", h.HandleListMonth)
		r.Post("/worksites/{worksiteID}/entries", h.HandleCreate)
		r.Put("/entries/{entryID}", h.HandleUpdate)
		r.Post("/worksites/{worksiteID}/months/{month}/entries/delete", h.HandleDelete)
	})
}

type entryPayload struct {
	ServiceDate string `json:"serviceDate"`
	EmployeeID  int64  `json:"employeeId"`
	Kind        string `json:"kind"`
	ServiceID   *int64 `json:"serviceId,omitempty"`
	Description string `json:"description,omitempty"`
	Quantity    string `json:"quantity"`
	UnitValue   string `json:"unitValue,omitempty"`
	Observation string `json:"observation,omitempty"`
}

// toInput keeps a zero service date when the field is omitted; updates fall
// back to the stored date, creates reject it.
func (p entryPayload) toInput() (entry.Input, error) {
	var serviceDate time.Time
	if p.ServiceDate != "" {
		parsed, err := shared.ParseDate(p.ServiceDate)
		if err != nil {
			return entry.Input{}, apperr.Validation("invalid service date %q", p.ServiceDate)
		}
		serviceDate = parsed
	}
	quantity, err := decimal.NewFromString(p.Quantity)
	if err != nil {
		return entry.Input{}, apperr.Validation("invalid quantity %q", p.Quantity)
	}
	unitValue := decimal.Zero
	if p.UnitValue != "" {
		if unitValue, err = money.Parse(p.UnitValue); err != nil {
			return entry.Input{}, err
		}
	}
	return entry.Input{
		ServiceDate: serviceDate,
		EmployeeID:  p.EmployeeID,
		Kind:        p.Kind,
		ServiceID:   p.ServiceID,
		Description: p.Description,
		Quantity:    quantity,
		UnitValue:   unitValue,
		Observation: p.Observation,
	}, nil
}

func (h *Handler) HandleListMonth(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.GetActor(r.Context())
	reqID := requestctx.GetRequestID(r.Context())

	requested, err := shared.URLID(r, "worksiteID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	worksiteID, err := shared.ScopeWorksite(actor, requested)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	month, err := shared.URLMonth(r, "month")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}

	entries, err := h.Entries.ListMonth(r.Context(), worksiteID, month)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, entries, reqID)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.GetActor(r.Context())
	reqID := requestctx.GetRequestID(r.Context())

	requested, err := shared.URLID(r, "worksiteID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	worksiteID, err := shared.ScopeWorksite(actor, requested)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}

	var payloads []entryPayload
	if err := json.NewDecoder(r.Body).Decode(&payloads); err != nil {
		api.Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", reqID)
		return
	}

	inputs := make([]entry.Input, 0, len(payloads))
	for _, p := range payloads {
		in, err := p.toInput()
		if err != nil {
			api.FailFromError(w, err, reqID)
			return
		}
		inputs = append(inputs, in)
	}

	ids, err := h.Entries.Create(r.Context(), actor, worksiteID, inputs)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Created(w, map[string][]int64{"ids": ids}, reqID)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.GetActor(r.Context())
	reqID := requestctx.GetRequestID(r.Context())

	entryID, err := shared.URLID(r, "entryID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}

	existing, err := h.Entries.Store().GetEntry(r.Context(), entryID)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	if _, err := shared.ScopeWorksite(actor, existing.WorksiteID); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}

	var payload entryPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", reqID)
		return
	}
	in, err := payload.toInput()
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}

	if err := h.Entries.Update(r.Context(), actor, entryID, in); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

type deletePayload struct {
	IDs    []int64 `json:"ids"`
	Reason string  `json:"reason,omitempty"`
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.GetActor(r.Context())
	reqID := requestctx.GetRequestID(r.Context())

	requested, err := shared.URLID(r, "worksiteID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	worksiteID, err := shared.ScopeWorksite(actor, requested)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	month, err := shared.URLMonth(r, "month")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}

	var payload deletePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", reqID)
		return
	}

	deleted, err := h.Entries.Delete(r.Context(), actor, worksiteID, month, payload.IDs, payload.Reason)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, map[string]int64{"deleted": deleted}, reqID)
}
