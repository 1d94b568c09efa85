package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/spendlens/spendlens/internal/domain/ingest"
)

// ImportHandler accepts statement uploads.
type ImportHandler struct {
	svc         *ingest.Service
	maxFileSize int64
}

func NewImportHandler(svc *ingest.Service, maxFileSize int64) *ImportHandler {
	return &ImportHandler{svc: svc, maxFileSize: maxFileSize}
}

// Upload handles POST /v1/imports: a multipart form whose "files"
// parts are statement files. The response is the per-file report;
// partial failure is normal, so the status is 200 whenever the batch
// itself could be read.
func (h *ImportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxFileSize); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("no files uploaded"))
		return
	}

	var files []ingest.UploadedFile
	for _, header := range r.MultipartForm.File["files"] {
		f, err := header.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		data, err := io.ReadAll(io.LimitReader(f, h.maxFileSize))
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		files = append(files, ingest.UploadedFile{Name: header.Filename, Data: data})
	}

	report := h.svc.ImportFiles(r.Context(), files)
	writeJSON(w, http.StatusOK, report)
}
