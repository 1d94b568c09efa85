package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spendlens/spendlens/internal/domain/travel"
)

// TravelHandler manages the travel fund.
type TravelHandler struct {
	svc *travel.Service
}

func NewTravelHandler(svc *travel.Service) *TravelHandler {
	return &TravelHandler{svc: svc}
}

// List handles GET /v1/travel. Optional from/to query parameters
// (YYYY-MM-DD) bound the listing by entry date.
func (h *TravelHandler) List(w http.ResponseWriter, r *http.Request) {
	var window travel.Window
	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid from date %q", raw))
			return
		}
		window.From = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("invalid to date %q", raw))
			return
		}
		window.To = parsed
	}

	entries, err := h.svc.List(r.Context(), window)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, travel.ErrBadWindow) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	if entries == nil {
		entries = []*travel.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Add handles POST /v1/travel.
func (h *TravelHandler) Add(w http.ResponseWriter, r *http.Request) {
	var e travel.Entry
	if err := decodeJSON(r, &e); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.Add(r.Context(), &e); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// Delete handles DELETE /v1/travel/{id}.
func (h *TravelHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// Balance handles GET /v1/travel/balance.
func (h *TravelHandler) Balance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.svc.Balance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, balance)
}
