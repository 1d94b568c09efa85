package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/domain/transaction"
)

// TransactionHandler exposes the ledger over JSON.
type TransactionHandler struct {
	svc    *transaction.Service
	search *transaction.SearchIndex
}

func NewTransactionHandler(svc *transaction.Service, search *transaction.SearchIndex) *TransactionHandler {
	return &TransactionHandler{svc: svc, search: search}
}

func filterFromQuery(r *http.Request) transaction.Filter {
	q := r.URL.Query()
	f := transaction.Filter{
		Category:   q.Get("category"),
		Type:       q.Get("type"),
		Search:     q.Get("search"),
		SourceFile: q.Get("source_file"),
	}
	if year, err := strconv.Atoi(q.Get("year")); err == nil {
		f.Year = year
	}
	if month, err := strconv.Atoi(q.Get("month")); err == nil {
		f.Month = time.Month(month)
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		f.Limit = limit
	}
	return f
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

// List handles GET /v1/transactions.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.List(r.Context(), filterFromQuery(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if txs == nil {
		txs = []*transaction.Transaction{}
	}
	writeJSON(w, http.StatusOK, txs)
}

// Get handles GET /v1/transactions/{id}.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	tx, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// Add handles POST /v1/transactions.
func (h *TransactionHandler) Add(w http.ResponseWriter, r *http.Request) {
	var tx transaction.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.svc.Add(r.Context(), &tx); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

// Edit handles PUT /v1/transactions/{id}.
func (h *TransactionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	var tx transaction.Transaction
	if err := decodeJSON(r, &tx); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	tx.ID = id
	if err := h.svc.Edit(r.Context(), &tx); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

// Delete handles DELETE /v1/transactions/{id}.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

type categorizeRequest struct {
	Pattern  string `json:"pattern"`
	Category string `json:"category"`
}

type countResponse struct {
	Updated int64 `json:"updated"`
}

// Categorize handles POST /v1/transactions/categorize.
func (h *TransactionHandler) Categorize(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	updated, err := h.svc.CategorizeByPattern(r.Context(), req.Pattern, req.Category)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Updated: updated})
}

type bulkFieldsRequest struct {
	IDs         []uuid.UUID `json:"ids"`
	Category    *string     `json:"category,omitempty"`
	Description *string     `json:"description,omitempty"`
	Type        *string     `json:"type,omitempty"`
	Memo        *string     `json:"memo,omitempty"`
}

// BulkFields handles POST /v1/transactions/bulk/fields.
func (h *TransactionHandler) BulkFields(w http.ResponseWriter, r *http.Request) {
	var req bulkFieldsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	updated, err := h.svc.BulkUpdateFields(r.Context(), req.IDs, transaction.FieldUpdate{
		Category:    req.Category,
		Description: req.Description,
		Type:        req.Type,
		Memo:        req.Memo,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Updated: updated})
}

type bulkAmountsRequest struct {
	IDs   []uuid.UUID     `json:"ids"`
	Op    string          `json:"op"`
	Value decimal.Decimal `json:"value"`
}

// BulkAmounts handles POST /v1/transactions/bulk/amounts.
func (h *TransactionHandler) BulkAmounts(w http.ResponseWriter, r *http.Request) {
	var req bulkAmountsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	updated, err := h.svc.BulkAdjustAmounts(r.Context(), req.IDs, transaction.AmountAdjustment{
		Op:    transaction.AdjustOp(req.Op),
		Value: req.Value,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Updated: updated})
}

type bulkDatesRequest struct {
	IDs  []uuid.UUID `json:"ids"`
	Days int         `json:"days"`
}

// BulkDates handles POST /v1/transactions/bulk/dates.
func (h *TransactionHandler) BulkDates(w http.ResponseWriter, r *http.Request) {
	var req bulkDatesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	updated, err := h.svc.BulkShiftDates(r.Context(), req.IDs, req.Days)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Updated: updated})
}

type deleteCountResponse struct {
	Deleted int64 `json:"deleted"`
}

// DeleteBySourceFile handles DELETE /v1/transactions/source-file.
func (h *TransactionHandler) DeleteBySourceFile(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	deleted, err := h.svc.DeleteBySourceFile(r.Context(), name)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteCountResponse{Deleted: deleted})
}

// DeleteByUploadWindow handles DELETE /v1/transactions/upload-window.
func (h *TransactionHandler) DeleteByUploadWindow(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("start must be RFC 3339"))
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("end must be RFC 3339"))
		return
	}
	deleted, err := h.svc.DeleteByUploadWindow(r.Context(), start, end)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteCountResponse{Deleted: deleted})
}

// Export handles GET /v1/transactions/export.
func (h *TransactionHandler) Export(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.ExportCSV(r.Context(), filterFromQuery(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	_, _ = w.Write(data)
}

// Search handles GET /v1/transactions/search?q=.
func (h *TransactionHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, errors.New("missing query parameter q"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	hits, err := h.search.Search(q, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, hits)
}

// Reindex handles POST /v1/transactions/search/reindex.
func (h *TransactionHandler) Reindex(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.List(r.Context(), transaction.Filter{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := h.search.Rebuild(txs); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	count, _ := h.search.Count()
	writeJSON(w, http.StatusOK, map[string]uint64{"indexed": count})
}

// Months handles GET /v1/summary/months.
func (h *TransactionHandler) Months(w http.ResponseWriter, r *http.Request) {
	months, err := h.svc.Months(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if months == nil {
		months = []transaction.Month{}
	}
	writeJSON(w, http.StatusOK, months)
}

// Summary handles GET /v1/summary/monthly?year=&month=.
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("missing or invalid year"))
		return
	}
	month, err := strconv.Atoi(q.Get("month"))
	if err != nil || month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, errors.New("month must be 1-12"))
		return
	}
	summary, err := h.svc.Summarize(r.Context(), year, time.Month(month))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// Income handles GET /v1/income?year=.
func (h *TransactionHandler) Income(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.New("missing or invalid year"))
		return
	}
	income, err := h.svc.Income(r.Context(), year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if income == nil {
		income = []transaction.MonthlyIncome{}
	}
	writeJSON(w, http.StatusOK, income)
}

// SourceFiles handles GET /v1/transactions/source-files.
func (h *TransactionHandler) SourceFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.SourceFiles(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if files == nil {
		files = []string{}
	}
	writeJSON(w, http.StatusOK, files)
}
