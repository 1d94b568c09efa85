package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/domain/classify"
	"github.com/spendlens/spendlens/internal/domain/ingest"
	"github.com/spendlens/spendlens/internal/domain/transaction"
)

type memInserter struct {
	rows []*transaction.Transaction
}

func (m *memInserter) BulkInsert(_ context.Context, txs []*transaction.Transaction) (int, error) {
	m.rows = append(m.rows, txs...)
	return len(txs), nil
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, data := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadEndpoint(t *testing.T) {
	repo := &memInserter{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewImportHandler(ingest.NewService(repo, classify.New(), logger), 16<<20)

	t.Run("mixed batch reports per file", func(t *testing.T) {
		body, contentType := multipartBody(t, map[string][]byte{
			"jan.csv":   []byte("Transaction Date,Description,Amount\n2025-01-15,NETFLIX.COM,-15.49\n"),
			"notes.txt": []byte("not a statement"),
		})
		req := httptest.NewRequest(http.MethodPost, "/v1/imports", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.Upload(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var report ingest.BatchReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		assert.Len(t, report.Files, 2)
		assert.Equal(t, 1, report.Succeeded)
		assert.Equal(t, 1, report.Failed)
		assert.Equal(t, 1, report.Inserted)
		require.Len(t, repo.rows, 1)
		assert.Equal(t, "jan.csv", repo.rows[0].SourceFile)
	})

	t.Run("no files is a bad request", func(t *testing.T) {
		body, contentType := multipartBody(t, nil)
		req := httptest.NewRequest(http.MethodPost, "/v1/imports", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		handler.Upload(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
