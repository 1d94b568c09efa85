// Package ingest coordinates statement uploads: one pass per file
// through layout detection, extraction, classification, and storage.
package ingest

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spendlens/spendlens/internal/domain/classify"
	"github.com/spendlens/spendlens/internal/domain/ingest/parser"
	"github.com/spendlens/spendlens/internal/domain/ingest/sniffer"
	"github.com/spendlens/spendlens/internal/domain/transaction"
)

// Outcome is the per-file verdict of an import batch.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeFailed  Outcome = "failed"
)

const (
	msgUnsupportedFormat = "Unsupported file format"
	msgNoTransactions    = "No valid transactions found"
	msgInsertionFailed   = "Database insertion failed"
)

// UploadedFile is one statement handed to the coordinator.
type UploadedFile struct {
	Name string
	Data []byte
}

// FileReport describes what happened to a single file. Exactly one of
// Inserted or Error is meaningful for Success and Failed outcomes.
type FileReport struct {
	FileName string           `json:"filename"`
	Outcome  Outcome          `json:"status"`
	Layout   sniffer.Layout   `json:"layout,omitempty"`
	Inserted int              `json:"transactions"`
	Skips    []parser.RowSkip `json:"skips,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// BatchReport aggregates a whole upload.
type BatchReport struct {
	Files     []FileReport `json:"files"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Warnings  int          `json:"warnings"`
	Inserted  int          `json:"transactions"`
}

// Inserter is the slice of the transaction repository the coordinator
// needs.
type Inserter interface {
	BulkInsert(ctx context.Context, txs []*transaction.Transaction) (int, error)
}

// Service runs statement imports.
type Service struct {
	repo     Inserter
	standard *parser.Standard
	bank     *parser.Bank
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Inserter, classifier *classify.Classifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		standard: parser.NewStandard(classifier),
		bank:     parser.NewBank(classifier),
		logger:   logger,
		now:      time.Now,
	}
}

// ImportFiles processes every file in the batch. A failing file never
// aborts the batch: each file gets its own report entry and the rest
// continue.
func (s *Service) ImportFiles(ctx context.Context, files []UploadedFile) *BatchReport {
	report := &BatchReport{}
	for _, file := range files {
		fr := s.importFile(ctx, file)
		report.Files = append(report.Files, fr)

		filesProcessed.WithLabelValues(string(fr.Outcome)).Inc()
		switch fr.Outcome {
		case OutcomeSuccess:
			report.Succeeded++
			report.Inserted += fr.Inserted
		case OutcomeWarning:
			report.Warnings++
		case OutcomeFailed:
			report.Failed++
		}
	}

	s.logger.Info("import batch finished",
		slog.Int("files", len(report.Files)),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("warnings", report.Warnings),
		slog.Int("failed", report.Failed),
		slog.Int("transactions", report.Inserted))
	return report
}

func (s *Service) importFile(ctx context.Context, file UploadedFile) FileReport {
	fr := FileReport{FileName: file.Name}

	ext := strings.ToLower(filepath.Ext(file.Name))
	switch ext {
	case ".csv", ".xlsx", ".xls":
	default:
		fr.Outcome = OutcomeFailed
		fr.Error = msgUnsupportedFormat
		return fr
	}

	result, layout, err := s.extract(file, ext)
	if err != nil {
		s.logger.Warn("statement extraction failed",
			slog.String("file", file.Name),
			slog.Any("error", err))
		fr.Outcome = OutcomeFailed
		fr.Error = err.Error()
		return fr
	}
	fr.Layout = layout
	fr.Skips = result.Skips
	for _, skip := range result.Skips {
		rowsSkipped.WithLabelValues(string(skip.Reason)).Inc()
	}

	if len(result.Transactions) == 0 {
		fr.Outcome = OutcomeWarning
		fr.Error = msgNoTransactions
		return fr
	}

	txs := make([]*transaction.Transaction, len(result.Transactions))
	for i, t := range result.Transactions {
		txs[i] = &transaction.Transaction{
			Date:        t.Date,
			PostDate:    t.PostDate,
			Description: t.Description,
			Category:    t.Category,
			Type:        t.Type,
			Amount:      t.Amount,
			Memo:        t.Memo,
			SourceFile:  t.SourceFile,
		}
	}

	inserted, err := s.repo.BulkInsert(ctx, txs)
	if err != nil {
		fr.Outcome = OutcomeFailed
		fr.Error = err.Error()
		return fr
	}
	if inserted == 0 {
		fr.Outcome = OutcomeFailed
		fr.Error = msgInsertionFailed
		return fr
	}

	rowsInserted.Add(float64(inserted))
	fr.Outcome = OutcomeSuccess
	fr.Inserted = inserted
	s.logger.Info("statement imported",
		slog.String("file", file.Name),
		slog.String("layout", string(layout)),
		slog.Int("inserted", inserted),
		slog.Int("skipped", len(result.Skips)))
	return fr
}

func (s *Service) extract(file UploadedFile, ext string) (*parser.Result, sniffer.Layout, error) {
	var (
		grid [][]string
		err  error
	)
	if ext == ".csv" {
		grid, err = parser.CSVGrid(file.Data)
	} else {
		grid, err = parser.WorkbookGrid(file.Data)
	}
	if err != nil {
		return nil, "", err
	}

	layout := sniffer.DetectLayout(grid)
	ingestedAt := s.now().UTC()

	var result *parser.Result
	switch {
	case layout == sniffer.LayoutBank:
		result, err = s.bank.ParseGrid(grid, file.Name)
	case ext == ".csv":
		// Re-parse from the raw bytes so header quoting survives.
		result, err = s.standard.ParseCSV(file.Data, file.Name, ingestedAt)
	default:
		result, err = s.standard.ParseGrid(grid, file.Name, ingestedAt)
	}
	if err != nil {
		return nil, layout, err
	}
	return result, layout, nil
}
