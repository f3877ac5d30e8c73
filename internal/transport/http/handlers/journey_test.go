package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"folha/internal/app/server"
	"folha/internal/platform/config"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error any             `json:"error"`
}

func newTestApp(t *testing.T) (*server.App, *httptest.Server) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:   config.NormalizeDatabaseURL(dbURL),
		JWTSecret:     "test-secret",
		AdminPassword: "AuditMe123!",
		Environment:   "test",
		RunMigrations: true,
		RunSeed:       true,
		MigrationsDir: migrationsDir(t),
		CacheTTL:      time.Minute,
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	t.Cleanup(app.Close)

	ts := httptest.NewServer(app.Router)
	t.Cleanup(ts.Close)
	return app, ts
}

func migrationsDir(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate test file")
	}
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "migrations")
}

func TestMonthlySheetLifecycleJourney(t *testing.T) {
	_, ts := newTestApp(t)
	client := ts.Client()

	auditorToken := loginAuditor(t, client, ts.URL, "AuditMe123!")

	suffix := time.Now().UnixNano()
	worksiteName := fmt.Sprintf("Obra Journey %d", suffix)
	accessCode := "canteiro-123"
	worksiteID := createID(t, client, ts.URL+"/api/v1/worksites", auditorToken, map[string]any{
		"name":       worksiteName,
		"accessCode": accessCode,
	})
	roleID := createID(t, client, ts.URL+"/api/v1/roles", auditorToken, map[string]any{
		"name":       fmt.Sprintf("Pedreiro %d", suffix),
		"type":       "production",
		"baseSalary": "3000",
	})
	employeeID := createID(t, client, ts.URL+"/api/v1/employees", auditorToken, map[string]any{
		"name":       fmt.Sprintf("Jornada Silva %d", suffix),
		"roleId":     roleID,
		"worksiteId": worksiteID,
	})
	disciplineID := createID(t, client, ts.URL+"/api/v1/disciplines", auditorToken, map[string]any{
		"name": fmt.Sprintf("Alvenaria %d", suffix),
	})
	serviceID := createID(t, client, ts.URL+"/api/v1/services", auditorToken, map[string]any{
		"disciplineId": disciplineID,
		"description":  fmt.Sprintf("Assentamento %d", suffix),
		"unit":         "m2",
		"unitValue":    "100",
	})

	worksiteToken := loginWorksite(t, client, ts.URL, worksiteName, accessCode)
	base := fmt.Sprintf("%s/api/v1/worksites/%d", ts.URL, worksiteID)

	// Fresh month: three entries, sheet still implicit.
	marchIDs := createEntries(t, client, base+"/entries", worksiteToken, []map[string]any{
		{
			"serviceDate": "2025-03-10", "employeeId": employeeID,
			"serviceId": serviceID, "quantity": "20", "observation": "torre A",
		},
		{
			"serviceDate": "2025-03-12", "employeeId": employeeID,
			"description": "aluguel de andaime", "quantity": "1", "unitValue": "2200",
			"observation": "semana 2",
		},
		{
			"serviceDate": "2025-03-15", "employeeId": employeeID,
			"description": "[GRATIFICACAO] meta de março", "quantity": "1", "unitValue": "500",
			"observation": "aprovado em reunião",
		},
	})
	if len(marchIDs) != 3 {
		t.Fatalf("expected 3 march entries, got %d", len(marchIDs))
	}

	state, count := getSheet(t, client, base+"/sheets/2025-03", worksiteToken)
	if state != "not_sent" || count != 0 {
		t.Fatalf("fresh sheet = %s/%d, want not_sent/0", state, count)
	}

	aprilIDs := createEntries(t, client, base+"/entries", worksiteToken, []map[string]any{
		{
			"serviceDate": "2025-04-02", "employeeId": employeeID,
			"description": "frete de material", "quantity": "1", "unitValue": "300",
			"observation": "nota 441",
		},
	})

	// Submit March.
	postJSON(t, client, base+"/sheets/2025-03/submit", worksiteToken, map[string]any{})
	state, count = getSheet(t, client, base+"/sheets/2025-03", worksiteToken)
	if state != "under_audit" || count != 1 {
		t.Fatalf("submitted sheet = %s/%d, want under_audit/1", state, count)
	}

	// Writes against the submitted month are rejected.
	postJSONStatus(t, client, base+"/entries", worksiteToken, []map[string]any{
		{
			"serviceDate": "2025-03-20", "employeeId": employeeID,
			"description": "tentativa tardia", "quantity": "1", "unitValue": "10",
			"observation": "x",
		},
	}, http.StatusConflict)

	// Deleting March ids through the still-open April gate must not touch
	// them: the deletion is scoped to the gated month.
	deleted := deleteEntries(t, client, base+"/months/2025-04/entries/delete", worksiteToken, marchIDs)
	if deleted != 0 {
		t.Fatalf("cross-month delete removed %d entries, want 0", deleted)
	}
	if got := len(listEntries(t, client, base+"/months/2025-03/entries", worksiteToken)); got != 3 {
		t.Fatalf("march entries after cross-month delete = %d, want 3", got)
	}

	deleted = deleteEntries(t, client, base+"/months/2025-04/entries/delete", worksiteToken, aprilIDs)
	if deleted != 1 {
		t.Fatalf("april delete removed %d entries, want 1", deleted)
	}

	// Completion flag, then the auditor's bulk reset.
	putJSON(t, client, fmt.Sprintf("%s/months/2025-03/review/%d/completion", base, employeeID), worksiteToken, map[string]any{
		"completed": true,
	})
	postJSON(t, client, base+"/months/2025-03/review/reset-completion", auditorToken, map[string]any{})
	for _, row := range listReview(t, client, base+"/months/2025-03/review", auditorToken) {
		if row["entriesCompleted"] == true {
			t.Fatalf("completion flag survived reset: %+v", row)
		}
	}

	// Overall review_again returns the sheet; writes reopen.
	putJSON(t, client, base+"/months/2025-03/review/overall", auditorToken, map[string]any{
		"status": "review_again",
	})
	state, count = getSheet(t, client, base+"/sheets/2025-03", worksiteToken)
	if state != "returned_for_revision" || count != 1 {
		t.Fatalf("returned sheet = %s/%d, want returned_for_revision/1", state, count)
	}
	createEntries(t, client, base+"/entries", worksiteToken, []map[string]any{
		{
			"serviceDate": "2025-03-21", "employeeId": employeeID,
			"description": "correção apontada", "quantity": "1", "unitValue": "80",
			"observation": "revisão",
		},
	})

	// Resubmission bumps the monotonic counter.
	postJSON(t, client, base+"/sheets/2025-03/submit", worksiteToken, map[string]any{})
	state, count = getSheet(t, client, base+"/sheets/2025-03", worksiteToken)
	if state != "under_audit" || count != 2 {
		t.Fatalf("resubmitted sheet = %s/%d, want under_audit/2", state, count)
	}

	// Finalizing before approval fails and changes nothing.
	postJSONStatus(t, client, base+"/sheets/2025-03/finalize", auditorToken, map[string]any{}, http.StatusUnprocessableEntity)
	if state, _ = getSheet(t, client, base+"/sheets/2025-03", auditorToken); state != "under_audit" {
		t.Fatalf("failed finalize moved state to %s", state)
	}

	// Approving twice is idempotent and does not return the sheet.
	putJSON(t, client, base+"/months/2025-03/review/overall", auditorToken, map[string]any{"status": "approved"})
	putJSON(t, client, base+"/months/2025-03/review/overall", auditorToken, map[string]any{"status": "approved"})
	if state, _ = getSheet(t, client, base+"/sheets/2025-03", auditorToken); state != "under_audit" {
		t.Fatalf("approval moved state to %s", state)
	}

	postJSON(t, client, base+"/sheets/2025-03/finalize", auditorToken, map[string]any{})
	state, count = getSheet(t, client, base+"/sheets/2025-03", auditorToken)
	if state != "finalized" || count != 2 {
		t.Fatalf("finalized sheet = %s/%d, want finalized/2", state, count)
	}
	for _, e := range listEntries(t, client, base+"/months/2025-03/entries", auditorToken) {
		if e["archived"] != true {
			t.Fatalf("entry not archived after finalize: %+v", e)
		}
	}

	// Terminal: even the auditor cannot delete finalized entries.
	deleteEntriesStatus(t, client, base+"/months/2025-03/entries/delete", auditorToken, marchIDs, http.StatusConflict)

	// Production role, B=3000: G = 20*100 + 2200 + 80 = 4280, K = 500.
	report := getJSONMap(t, client, fmt.Sprintf("%s/reports/2025-03", base), auditorToken)
	lines, _ := report["lines"].([]any)
	if len(lines) != 1 {
		t.Fatalf("expected 1 report line, got %d", len(lines))
	}
	line := lines[0].(map[string]any)
	assertAmount(t, line, "netProduction", "1280")
	assertAmount(t, line, "amountToPay", "4780")
}

func assertAmount(t *testing.T, payload map[string]any, field, want string) {
	t.Helper()
	raw, _ := payload[field].(string)
	got, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("%s = %q, not a decimal: %v", field, raw, err)
	}
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", field, got, want)
	}
}

func loginAuditor(t *testing.T, client *http.Client, baseURL, password string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"role":     "auditor",
		"password": password,
	})
	return tokenFrom(t, resp)
}

func loginWorksite(t *testing.T, client *http.Client, baseURL, worksite, code string) string {
	t.Helper()
	resp := postJSON(t, client, baseURL+"/api/v1/auth/login", "", map[string]any{
		"role":       "worksite",
		"worksite":   worksite,
		"accessCode": code,
	})
	return tokenFrom(t, resp)
}

func tokenFrom(t *testing.T, resp envelope) string {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Fatal("expected token")
	}
	return token
}

func createID(t *testing.T, client *http.Client, url, token string, body any) int64 {
	t.Helper()
	resp := postJSON(t, client, url, token, body)
	var payload map[string]float64
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	id := int64(payload["id"])
	if id == 0 {
		t.Fatalf("expected id from %s", url)
	}
	return id
}

func createEntries(t *testing.T, client *http.Client, url, token string, body []map[string]any) []int64 {
	t.Helper()
	resp := postJSON(t, client, url, token, body)
	var payload map[string][]int64
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode entries response: %v", err)
	}
	return payload["ids"]
}

func deleteEntries(t *testing.T, client *http.Client, url, token string, ids []int64) int64 {
	t.Helper()
	resp := postJSON(t, client, url, token, map[string]any{"ids": ids, "reason": "teste"})
	var payload map[string]int64
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode delete response: %v", err)
	}
	return payload["deleted"]
}

func deleteEntriesStatus(t *testing.T, client *http.Client, url, token string, ids []int64, want int) envelope {
	t.Helper()
	return postJSONStatus(t, client, url, token, map[string]any{"ids": ids}, want)
}

func getSheet(t *testing.T, client *http.Client, url, token string) (string, int) {
	t.Helper()
	payload := getJSONMap(t, client, url, token)
	state, _ := payload["state"].(string)
	count, _ := payload["submissionCount"].(float64)
	return state, int(count)
}

func listEntries(t *testing.T, client *http.Client, url, token string) []map[string]any {
	t.Helper()
	return getJSONList(t, client, url, token)
}

func listReview(t *testing.T, client *http.Client, url, token string) []map[string]any {
	t.Helper()
	return getJSONList(t, client, url, token)
}

func postJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, body, 0)
}

func putJSON(t *testing.T, client *http.Client, url, token string, body any) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPut, url, token, body, 0)
}

func postJSONStatus(t *testing.T, client *http.Client, url, token string, body any, want int) envelope {
	t.Helper()
	return doJSON(t, client, http.MethodPost, url, token, body, want)
}

// doJSON sends a JSON request. want = 0 means any 2xx; a non-zero want asserts
// that exact status.
func doJSON(t *testing.T, client *http.Client, method, url, token string, body any, want int) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewBuffer(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response: %v", err)
	}
	if want != 0 {
		if resp.StatusCode != want {
			t.Fatalf("%s %s: expected status %d, got %d: %s", method, url, want, resp.StatusCode, string(raw))
		}
	} else if resp.StatusCode >= 400 {
		t.Fatalf("%s %s: unexpected status %d: %s", method, url, resp.StatusCode, string(raw))
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return env
}

func getJSONMap(t *testing.T, client *http.Client, url, token string) map[string]any {
	t.Helper()
	resp := doJSON(t, client, http.MethodGet, url, token, nil, 0)
	var payload map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode response from %s: %v", url, err)
	}
	return payload
}

func getJSONList(t *testing.T, client *http.Client, url, token string) []map[string]any {
	t.Helper()
	resp := doJSON(t, client, http.MethodGet, url, token, nil, 0)
	var payload []map[string]any
	if err := json.Unmarshal(resp.Data, &payload); err != nil {
		t.Fatalf("failed to decode response from %s: %v", url, err)
	}
	return payload
}
