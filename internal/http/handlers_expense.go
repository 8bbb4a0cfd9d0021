package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"outlay/internal/core"
	applog "outlay/internal/log"
)

// createRequest mirrors the POST body. Pointer fields distinguish absent
// values from zero values so the validation messages stay precise.
type createRequest struct {
	Description *string  `json:"description"`
	Cost        *float64 `json:"cost"`
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses failed",
			applog.FieldError, err,
			applog.FieldOperation, "list")
		writeServiceError(w, err)
		return
	}
	// An empty collection is an empty array, not null.
	if items == nil {
		items = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var (
		description string
		cost        float64
	)
	if req.Description != nil {
		description = *req.Description
	}
	if req.Cost != nil {
		cost = *req.Cost
	}

	e, err := s.svc.Add(r.Context(), description, cost)
	if err != nil {
		slog.WarnContext(r.Context(), "Create expense rejected",
			applog.FieldError, err,
			applog.FieldOperation, "create")
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var patch core.ExpensePatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	if err := s.svc.Update(r.Context(), id, patch); err != nil {
		slog.WarnContext(r.Context(), "Update expense rejected",
			applog.FieldError, err,
			applog.FieldExpenseID, id,
			applog.FieldOperation, "update")
		writeServiceError(w, err)
		return
	}

	writeSuccess(w)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if err := s.svc.Remove(r.Context(), id); err != nil {
		slog.WarnContext(r.Context(), "Delete expense rejected",
			applog.FieldError, err,
			applog.FieldExpenseID, id,
			applog.FieldOperation, "delete")
		writeServiceError(w, err)
		return
	}

	writeSuccess(w)
}
