package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"outlay/internal/core"
	"outlay/internal/store"
)

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "cost validation", err: core.ErrCostNotPositive, wantStatus: http.StatusBadRequest},
		{name: "description validation", err: core.ErrEmptyDescription, wantStatus: http.StatusBadRequest},
		{name: "invalid id", err: store.ErrInvalidID, wantStatus: http.StatusBadRequest},
		{name: "wrapped invalid id", err: errors.Join(errors.New("update expense"), store.ErrInvalidID), wantStatus: http.StatusBadRequest},
		{name: "not found", err: store.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "storage unavailable", err: store.ErrUnavailable, wantStatus: http.StatusBadRequest},
		{name: "unknown error", err: errors.New("boom"), wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeServiceError(rr, tt.err)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q", ct)
			}

			var body errorBody
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Success {
				t.Error("error body should have success=false")
			}
			if body.Message == "" {
				t.Error("error body should carry a message")
			}
		})
	}
}
