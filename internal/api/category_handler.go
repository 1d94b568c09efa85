package api

import (
	"net/http"
	"strconv"

	"github.com/spendlens/spendlens/internal/domain/category"
)

// CategoryHandler manages the category vocabulary and suggestions.
type CategoryHandler struct {
	svc *category.Service
}

func NewCategoryHandler(svc *category.Service) *CategoryHandler {
	return &CategoryHandler{svc: svc}
}

// List handles GET /v1/categories. ?type= narrows by kind.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		categories []*category.Category
		err        error
	)
	if t := r.URL.Query().Get("type"); t != "" {
		categories, err = h.svc.ListByType(r.Context(), category.Type(t))
	} else {
		categories, err = h.svc.List(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if categories == nil {
		categories = []*category.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// Add handles POST /v1/categories.
func (h *CategoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	var c category.Category
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.Add(r.Context(), &c); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// Delete handles DELETE /v1/categories/{id}.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// Suggest handles GET /v1/categories/suggestions.
func (h *CategoryHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	threshold, _ := strconv.Atoi(r.URL.Query().Get("threshold"))
	suggestions, err := h.svc.Suggest(r.Context(), threshold)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if suggestions == nil {
		suggestions = []category.Suggestion{}
	}
	writeJSON(w, http.StatusOK, suggestions)
}
