package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"folha/internal/apperr"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

// FailFromError maps a domain error onto its transport representation.
func FailFromError(w http.ResponseWriter, err error, requestID string) {
	status, code := statusFor(apperr.KindOf(err))
	Fail(w, status, code, err.Error(), requestID)
}

func statusFor(kind apperr.Kind) (int, string) {
	switch kind {
	case apperr.KindSheetClosed:
		return http.StatusConflict, "SHEET_CLOSED"
	case apperr.KindDuplicateName:
		return http.StatusConflict, "DUPLICATE_NAME"
	case apperr.KindInUse:
		return http.StatusConflict, "IN_USE"
	case apperr.KindNotFound:
		return http.StatusNotFound, "NOT_FOUND"
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR"
	case apperr.KindAuth:
		return http.StatusUnauthorized, "AUTH_ERROR"
	default:
		return http.StatusInternalServerError, "REPOSITORY_ERROR"
	}
}
