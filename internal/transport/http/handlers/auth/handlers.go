package authhandler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"folha/internal/apperr"
	"folha/internal/domain/auth"
	"folha/internal/requestctx"
	"folha/internal/transport/http/api"
)

const tokenTTL = 12 * time.Hour

type Handler struct {
	Auth      *auth.Service
	JWTSecret string
}

func NewHandler(service *auth.Service, secret string) *Handler {
	return &Handler{Auth: service, JWTSecret: secret}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

type loginPayload struct {
	Role       string `json:"role"`
	Password   string `json:"password,omitempty"`
	Worksite   string `json:"worksite,omitempty"`
	AccessCode string `json:"accessCode,omitempty"`
}

type loginResponse struct {
	Token        string `json:"token"`
	Role         string `json:"role"`
	WorksiteID   int64  `json:"worksiteId,omitempty"`
	WorksiteName string `json:"worksiteName,omitempty"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	reqID := requestctx.GetRequestID(r.Context())

	var payload loginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid JSON body", reqID)
		return
	}

	var actor auth.Actor
	var err error
	switch payload.Role {
	case auth.RoleAuditor:
		actor, err = h.Auth.LoginAuditor(r.Context(), payload.Password)
	case auth.RoleWorksite:
		actor, err = h.Auth.LoginWorksite(r.Context(), payload.Worksite, payload.AccessCode)
	default:
		err = apperr.Validation("role must be %s or %s", auth.RoleAuditor, auth.RoleWorksite)
	}
	if err != nil {
		api.FailFromError(w, err, reqID)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, actor, tokenTTL)
	if err != nil {
		api.FailFromError(w, apperr.Repository(err), reqID)
		return
	}

	api.Success(w, loginResponse{
		Token:        token,
		Role:         actor.Role,
		WorksiteID:   actor.WorksiteID,
		WorksiteName: actor.WorksiteName,
	}, reqID)
}
