package cataloghandler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"folha/internal/domain/auth"
	"folha/internal/domain/catalog"
	"folha/internal/money"
	"folha/internal/requestctx"
	"folha/internal/transport/http/api"
	mw "folha/internal/transport/http/middleware"
	"folha/internal/transport/http/shared"
)

type Handler struct {
	Catalog *catalog.BusinessService
}

func NewHandler(service *catalog.BusinessService) *Handler {
	return &Handler{Catalog: service}
}

// RegisterRoutes mounts the catalog surface. Reads are open to any logged-in
// actor so worksite users can fill entry forms; mutations are auditor-only.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireActor)
		r.Get("/worksites", h.HandleListWorksites)
		r.Get("/worksites/{worksiteID}", h.HandleGetWorksite)
		r.Get("/roles", h.HandleListRoles)
		r.Get("/employees", h.HandleListEmployees)
		r.Get("/disciplines", h.HandleListDisciplines)
		r.Get("/services", h.HandleListServices)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuditor)
		r.Post("/worksites", h.HandleAddWorksite)
		r.Put("/worksites/{worksiteID}/notice", h.HandleSaveNotice)
		r.Delete("/worksites/{worksiteID}", h.HandleDeactivateWorksite)
		r.Put("/worksites/{worksiteID}/access-code", h.HandleChangeAccessCode)

		r.Post("/roles", h.HandleAddRole)
		r.Put("/roles/{roleID}", h.HandleEditRole)
		r.Delete("/roles/{roleID}", h.HandleDeactivateRole)

		r.Post("/employees", h.HandleAddEmployee)
		r.Put("/employees/{employeeID}", h.HandleEditEmployee)
		r.Delete("/employees/{employeeID}", h.HandleDeactivateEmployee)

		r.Post("/disciplines", h.HandleAddDiscipline)
		r.Put("/disciplines/{disciplineID}", h.HandleEditDiscipline)
		r.Delete("/disciplines/{disciplineID}", h.HandleDeactivateDiscipline)
		r.Post("/disciplines/{disciplineID}/reactivate", h.HandleReactivateDiscipline)

		r.Post("/services", h.HandleAddService)
		r.Put("/services/{serviceID}", h.HandleEditService)
		r.Delete("/services/{serviceID}", h.HandleDeactivateService)
		r.Post("/services/{serviceID}/reactivate", h.HandleReactivateService)
	})
}

func actorAndID(r *http.Request) (auth.Actor, string) {
	actor, _ := mw.GetActor(r.Context())
	return actor, requestctx.GetRequestID(r.Context())
}

func decode(w http.ResponseWriter, r *http.Request, reqID string, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		api.Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", reqID)
		return false
	}
	return true
}

func (h *Handler) HandleListWorksites(w http.ResponseWriter, r *http.Request) {
	_, reqID := actorAndID(r)
	worksites, err := h.Catalog.Store().ListWorksites(r.Context())
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, worksites, reqID)
}

func (h *Handler) HandleGetWorksite(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
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
	worksite, err := h.Catalog.Store().GetWorksite(r.Context(), worksiteID)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, worksite, reqID)
}

type addWorksitePayload struct {
	Name       string `json:"name"`
	AccessCode string `json:"accessCode"`
}

func (h *Handler) HandleAddWorksite(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	var payload addWorksitePayload
	if !decode(w, r, reqID, &payload) {
		return
	}
	id, err := h.Catalog.AddWorksite(r.Context(), actor, payload.Name, payload.AccessCode)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Created(w, map[string]int64{"id": id}, reqID)
}

func (h *Handler) HandleSaveNotice(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	worksiteID, err := shared.URLID(r, "worksiteID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	var payload struct {
		Notice string `json:"notice"`
	}
	if !decode(w, r, reqID, &payload) {
		return
	}
	if err := h.Catalog.SaveNotice(r.Context(), actor, worksiteID, payload.Notice); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

func (h *Handler) HandleDeactivateWorksite(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	worksiteID, err := shared.URLID(r, "worksiteID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	if err := h.Catalog.DeactivateWorksite(r.Context(), actor, worksiteID); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

func (h *Handler) HandleChangeAccessCode(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	worksiteID, err := shared.URLID(r, "worksiteID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	var payload struct {
		AccessCode string `json:"accessCode"`
	}
	if !decode(w, r, reqID, &payload) {
		return
	}
	if err := h.Catalog.ChangeAccessCode(r.Context(), actor, worksiteID, payload.AccessCode); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

func (h *Handler) HandleListRoles(w http.ResponseWriter, r *http.Request) {
	_, reqID := actorAndID(r)
	activeOnly := r.URL.Query().Get("all") == ""
	roles, err := h.Catalog.Store().ListRoles(r.Context(), activeOnly)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, roles, reqID)
}

type rolePayload struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	BaseSalary string `json:"baseSalary"`
}

func (p rolePayload) toRole(id int64) (catalog.Role, error) {
	salary, err := money.Parse(p.BaseSalary)
	if err != nil {
		return catalog.Role{}, err
	}
	return catalog.Role{ID: id, Name: p.Name, Type: p.Type, BaseSalary: salary}, nil
}

func (h *Handler) HandleAddRole(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	var payload rolePayload
	if !decode(w, r, reqID, &payload) {
		return
	}
	role, err := payload.toRole(0)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	id, err := h.Catalog.AddRole(r.Context(), actor, role)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Created(w, map[string]int64{"id": id}, reqID)
}

func (h *Handler) HandleEditRole(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	roleID, err := shared.URLID(r, "roleID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	var payload rolePayload
	if !decode(w, r, reqID, &payload) {
		return
	}
	role, err := payload.toRole(roleID)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	if err := h.Catalog.EditRole(r.Context(), actor, role); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

func (h *Handler) HandleDeactivateRole(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	roleID, err := shared.URLID(r, "roleID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	if err := h.Catalog.DeactivateRole(r.Context(), actor, roleID); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

func (h *Handler) HandleListEmployees(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	requested := int64(0)
	if raw := r.URL.Query().Get("worksiteId"); raw != "" {
		parsed, err := shared.ParseID(raw, "worksiteId")
		if err != nil {
			api.FailFromError(w, err, reqID)
			return
		}
		requested = parsed
	}
	worksiteID, err := shared.ScopeWorksite(actor, requested)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	activeOnly := r.URL.Query().Get("all") == ""
	employees, err := h.Catalog.Store().ListEmployees(r.Context(), worksiteID, activeOnly)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, employees, reqID)
}

type employeePayload struct {
	Name       string `json:"name"`
	RoleID     int64  `json:"roleId"`
	WorksiteID int64  `json:"worksiteId"`
}

func (h *Handler) HandleAddEmployee(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	var payload employeePayload
	if !decode(w, r, reqID, &payload) {
		return
	}
	id, err := h.Catalog.AddEmployee(r.Context(), actor, payload.Name, payload.RoleID, payload.WorksiteID)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Created(w, map[string]int64{"id": id}, reqID)
}

func (h *Handler) HandleEditEmployee(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	employeeID, err := shared.URLID(r, "employeeID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	var payload employeePayload
	if !decode(w, r, reqID, &payload) {
		return
	}
	if err := h.Catalog.EditEmployee(r.Context(), actor, employeeID, payload.Name, payload.RoleID, payload.WorksiteID); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

func (h *Handler) HandleDeactivateEmployee(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	employeeID, err := shared.URLID(r, "employeeID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	if err := h.Catalog.DeactivateEmployee(r.Context(), actor, employeeID); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

func (h *Handler) HandleListDisciplines(w http.ResponseWriter, r *http.Request) {
	_, reqID := actorAndID(r)
	activeOnly := r.URL.Query().Get("all") == ""
	disciplines, err := h.Catalog.Store().ListDisciplines(r.Context(), activeOnly)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, disciplines, reqID)
}

func (h *Handler) HandleAddDiscipline(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	var payload struct {
		Name string `json:"name"`
	}
	if !decode(w, r, reqID, &payload) {
		return
	}
	id, err := h.Catalog.AddDiscipline(r.Context(), actor, payload.Name)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Created(w, map[string]int64{"id": id}, reqID)
}

func (h *Handler) HandleEditDiscipline(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	disciplineID, err := shared.URLID(r, "disciplineID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	var payload struct {
		Name string `json:"name"`
	}
	if !decode(w, r, reqID, &payload) {
		return
	}
	if err := h.Catalog.EditDiscipline(r.Context(), actor, disciplineID, payload.Name); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

func (h *Handler) HandleDeactivateDiscipline(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	disciplineID, err := shared.URLID(r, "disciplineID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	if err := h.Catalog.DeactivateDiscipline(r.Context(), actor, disciplineID); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

func (h *Handler) HandleReactivateDiscipline(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	disciplineID, err := shared.URLID(r, "disciplineID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	if err := h.Catalog.ReactivateDiscipline(r.Context(), actor, disciplineID); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

func (h *Handler) HandleListServices(w http.ResponseWriter, r *http.Request) {
	_, reqID := actorAndID(r)
	disciplineID := int64(0)
	if raw := r.URL.Query().Get("disciplineId"); raw != "" {
		parsed, err := shared.ParseID(raw, "disciplineId")
		if err != nil {
			api.FailFromError(w, err, reqID)
			return
		}
		disciplineID = parsed
	}
	activeOnly := r.URL.Query().Get("all") == ""
	services, err := h.Catalog.Store().ListServices(r.Context(), disciplineID, activeOnly)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, services, reqID)
}

type servicePayload struct {
	DisciplineID int64  `json:"disciplineId"`
	Description  string `json:"description"`
	Unit         string `json:"unit"`
	UnitValue    string `json:"unitValue"`
}

func (p servicePayload) toService(id int64) (catalog.Service, error) {
	unitValue, err := money.Parse(p.UnitValue)
	if err != nil {
		return catalog.Service{}, err
	}
	return catalog.Service{
		ID:           id,
		DisciplineID: p.DisciplineID,
		Description:  p.Description,
		Unit:         p.Unit,
		UnitValue:    unitValue,
	}, nil
}

func (h *Handler) HandleAddService(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	var payload servicePayload
	if !decode(w, r, reqID, &payload) {
		return
	}
	svc, err := payload.toService(0)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	id, err := h.Catalog.AddService(r.Context(), actor, svc)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Created(w, map[string]int64{"id": id}, reqID)
}

func (h *Handler) HandleEditService(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	serviceID, err := shared.URLID(r, "serviceID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	var payload servicePayload
	if !decode(w, r, reqID, &payload) {
		return
	}
	svc, err := payload.toService(serviceID)
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	if err := h.Catalog.EditService(r.Context(), actor, svc); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

func (h *Handler) HandleDeactivateService(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	serviceID, err := shared.URLID(r, "serviceID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	if err := h.Catalog.DeactivateService(r.Context(), actor, serviceID); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}

func (h *Handler) HandleReactivateService(w http.ResponseWriter, r *http.Request) {
	actor, reqID := actorAndID(r)
	serviceID, err := shared.URLID(r, "serviceID")
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	if err := h.Catalog.ReactivateService(r.Context(), actor, serviceID); err != nil {
		api.FailFromError(w, err, reqID)
		return
	}
	api.Success(w, nil, reqID)
}
