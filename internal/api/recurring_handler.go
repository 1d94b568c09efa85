package api

import (
	"net/http"

	"github.com/spendlens/spendlens/internal/domain/recurring"
)

// RecurringHandler manages recurring expenses.
type RecurringHandler struct {
	svc *recurring.Service
}

func NewRecurringHandler(svc *recurring.Service) *RecurringHandler {
	return &RecurringHandler{svc: svc}
}

// List handles GET /v1/recurring. ?active=true narrows to active
// expenses.
func (h *RecurringHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"
	expenses, err := h.svc.List(r.Context(), activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if expenses == nil {
		expenses = []*recurring.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

// Create handles POST /v1/recurring.
func (h *RecurringHandler) Create(w http.ResponseWriter, r *http.Request) {
	var e recurring.Expense
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.Create(r.Context(), &e); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// Update handles PUT /v1/recurring/{id}.
func (h *RecurringHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var e recurring.Expense
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	e.ID = id
	if err := h.svc.Update(r.Context(), &e); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// Delete handles DELETE /v1/recurring/{id}.
func (h *RecurringHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
