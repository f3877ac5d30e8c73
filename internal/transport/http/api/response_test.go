package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"folha/internal/apperr"
)

func TestFailFromErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{apperr.SheetClosed("finalized"), 409, "SHEET_CLOSED"},
		{apperr.DuplicateName("worksite name"), 409, "DUPLICATE_NAME"},
		{apperr.InUse("role", 3), 409, "IN_USE"},
		{apperr.NotFound("employee"), 404, "NOT_FOUND"},
		{apperr.Validation("bad input"), 422, "VALIDATION_ERROR"},
		{apperr.Auth("invalid password"), 401, "AUTH_ERROR"},
		{apperr.Repository(nil), 500, "REPOSITORY_ERROR"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		FailFromError(rec, tc.err, "req-1")
		if rec.Code != tc.status {
			t.Fatalf("status for %v = %d, want %d", tc.err, rec.Code, tc.status)
		}
		var envelope Envelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode envelope: %v", err)
		}
		if envelope.Success || envelope.Error == nil || envelope.Error.Code != tc.code {
			t.Fatalf("envelope for %v = %+v, want code %s", tc.err, envelope, tc.code)
		}
	}
}

func TestSuccessEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]int{"id": 7}, "req-2")
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	var envelope Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !envelope.Success || envelope.RequestID != "req-2" {
		t.Fatalf("unexpected envelope: %+v", envelope)
	}
}
