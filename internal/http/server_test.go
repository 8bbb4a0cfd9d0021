package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"outlay/internal/core"
	"outlay/internal/service"
	"outlay/internal/store/memory"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	svc := service.New(memory.New(), nil, time.Second)
	srv := NewServer(":0", svc)
	t.Cleanup(func() { srv.rateLimiter.stop() })
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeExpense(t *testing.T, rr *httptest.ResponseRecorder) core.Expense {
	t.Helper()
	var e core.Expense
	if err := json.Unmarshal(rr.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode expense: %v (body %s)", err, rr.Body.String())
	}
	return e
}

func decodeList(t *testing.T, rr *httptest.ResponseRecorder) []core.Expense {
	t.Helper()
	var items []core.Expense
	if err := json.Unmarshal(rr.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode list: %v (body %s)", err, rr.Body.String())
	}
	return items
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rr.Code)
		}
	}
}

func TestListEmptyReturnsArray(t *testing.T) {
	srv := newTestServer(t)
	rr := doJSON(t, srv, http.MethodGet, "/expenses", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("empty list body = %q, want []", got)
	}
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantMessage string
	}{
		{name: "missing cost", body: `{"description":"Coffee"}`, wantMessage: "`cost` must be a positive number"},
		{name: "zero cost", body: `{"description":"Coffee","cost":0}`, wantMessage: "`cost` must be a positive number"},
		{name: "negative cost", body: `{"description":"Coffee","cost":-2}`, wantMessage: "`cost` must be a positive number"},
		{name: "missing description", body: `{"cost":4.5}`, wantMessage: "`description` must not be empty"},
		{name: "empty description", body: `{"description":"","cost":4.5}`, wantMessage: "`description` must not be empty"},
		{name: "malformed json", body: `{"description":`, wantMessage: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t)
			rr := doJSON(t, srv, http.MethodPost, "/expenses", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400 (body %s)", rr.Code, rr.Body.String())
			}

			var body struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body.Success {
				t.Error("error body should have success=false")
			}
			if !strings.Contains(body.Message, tt.wantMessage) {
				t.Errorf("message = %q, want it to contain %q", body.Message, tt.wantMessage)
			}

			// The store must not be mutated by a rejected add.
			if items := decodeList(t, doJSON(t, srv, http.MethodGet, "/expenses", "")); len(items) != 0 {
				t.Errorf("rejected create mutated the store: %+v", items)
			}
		})
	}
}

func TestExpenseLifecycle(t *testing.T) {
	srv := newTestServer(t)

	// Create
	rr := doJSON(t, srv, http.MethodPost, "/expenses", `{"description":"Coffee","cost":4.5}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	created := decodeExpense(t, rr)
	if created.ID == "" {
		t.Fatal("created expense has no id")
	}
	if created.Description != "Coffee" || created.Cost != 4.5 {
		t.Fatalf("created = %+v", created)
	}
	if created.CreatedDate.IsZero() {
		t.Fatal("createdDate was not stamped")
	}

	// List includes it
	items := decodeList(t, doJSON(t, srv, http.MethodGet, "/expenses", ""))
	if len(items) != 1 || items[0].ID != created.ID {
		t.Fatalf("list = %+v, want the created record", items)
	}

	// Patch cost only
	rr = doJSON(t, srv, http.MethodPatch, "/expenses/"+created.ID, `{"cost":5}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("patch status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"success":true`) {
		t.Fatalf("patch body = %s", rr.Body.String())
	}

	items = decodeList(t, doJSON(t, srv, http.MethodGet, "/expenses", ""))
	if items[0].Cost != 5 || items[0].Description != "Coffee" {
		t.Fatalf("after patch: %+v", items[0])
	}
	if !items[0].CreatedDate.Equal(created.CreatedDate) {
		t.Error("createdDate changed by patch")
	}

	// Patch description only
	rr = doJSON(t, srv, http.MethodPatch, "/expenses/"+created.ID, `{"description":"Espresso"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("patch status = %d, want 200", rr.Code)
	}
	items = decodeList(t, doJSON(t, srv, http.MethodGet, "/expenses", ""))
	if items[0].Description != "Espresso" || items[0].Cost != 5 {
		t.Fatalf("after patch: %+v", items[0])
	}

	// Delete
	rr = doJSON(t, srv, http.MethodDelete, "/expenses/"+created.ID, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("delete status = %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	if items := decodeList(t, doJSON(t, srv, http.MethodGet, "/expenses", "")); len(items) != 0 {
		t.Fatalf("list after delete = %+v, want empty", items)
	}

	// Delete again is 404
	rr = doJSON(t, srv, http.MethodDelete, "/expenses/"+created.ID, "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "no entity with such `id`") {
		t.Errorf("second delete body = %s", rr.Body.String())
	}
}

func TestPatchValidation(t *testing.T) {
	srv := newTestServer(t)

	created := decodeExpense(t, doJSON(t, srv, http.MethodPost, "/expenses", `{"description":"Coffee","cost":4.5}`))

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "zero cost", body: `{"cost":0}`, wantStatus: http.StatusBadRequest},
		{name: "negative cost", body: `{"cost":-1}`, wantStatus: http.StatusBadRequest},
		{name: "empty description", body: `{"description":""}`, wantStatus: http.StatusBadRequest},
		{name: "one bad field rejects all", body: `{"description":"","cost":9}`, wantStatus: http.StatusBadRequest},
		{name: "malformed json", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "null fields mean not provided", body: `{"description":null,"cost":null}`, wantStatus: http.StatusOK},
		{name: "empty body object", body: `{}`, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doJSON(t, srv, http.MethodPatch, "/expenses/"+created.ID, tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
		})
	}

	// None of the rejected patches may have changed the record.
	items := decodeList(t, doJSON(t, srv, http.MethodGet, "/expenses", ""))
	if items[0].Cost != 4.5 || items[0].Description != "Coffee" {
		t.Errorf("record changed by rejected patches: %+v", items[0])
	}
}

func TestPatchUnknownID(t *testing.T) {
	srv := newTestServer(t)
	rr := doJSON(t, srv, http.MethodPatch, "/expenses/000000000000000000000000", `{"cost":5}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 (body %s)", rr.Code, rr.Body.String())
	}
}

func TestMutatingRequestsAreRateLimited(t *testing.T) {
	srv := newTestServer(t)

	var last int
	for i := 0; i < 130; i++ {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(`{"description":"x","cost":1}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.0.0.1:1234"
		srv.Handler.ServeHTTP(rr, req)
		last = rr.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("expected 429 after exceeding the per-minute budget, got %d", last)
	}
}
