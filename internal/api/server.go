// Package api wires the domain services to the HTTP surface.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/spendlens/spendlens/pkg/config"
)

// Server is the HTTP front of the application.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// Handlers groups everything the router needs.
type Handlers struct {
	Import      *ImportHandler
	Transaction *TransactionHandler
	Recurring   *RecurringHandler
	Travel      *TravelHandler
	Category    *CategoryHandler
}

func NewServer(cfg *config.Config, h Handlers, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/imports", h.Import.Upload)

	mux.HandleFunc("GET /v1/transactions", h.Transaction.List)
	mux.HandleFunc("POST /v1/transactions", h.Transaction.Add)
	mux.HandleFunc("GET /v1/transactions/export", h.Transaction.Export)
	mux.HandleFunc("GET /v1/transactions/search", h.Transaction.Search)
	mux.HandleFunc("POST /v1/transactions/search/reindex", h.Transaction.Reindex)
	mux.HandleFunc("GET /v1/transactions/source-files", h.Transaction.SourceFiles)
	mux.HandleFunc("POST /v1/transactions/categorize", h.Transaction.Categorize)
	mux.HandleFunc("POST /v1/transactions/bulk/fields", h.Transaction.BulkFields)
	mux.HandleFunc("POST /v1/transactions/bulk/amounts", h.Transaction.BulkAmounts)
	mux.HandleFunc("POST /v1/transactions/bulk/dates", h.Transaction.BulkDates)
	mux.HandleFunc("DELETE /v1/transactions/source-file", h.Transaction.DeleteBySourceFile)
	mux.HandleFunc("DELETE /v1/transactions/upload-window", h.Transaction.DeleteByUploadWindow)
	mux.HandleFunc("GET /v1/transactions/{id}", h.Transaction.Get)
	mux.HandleFunc("PUT /v1/transactions/{id}", h.Transaction.Edit)
	mux.HandleFunc("DELETE /v1/transactions/{id}", h.Transaction.Delete)

	mux.HandleFunc("GET /v1/summary/monthly", h.Transaction.Summary)
	mux.HandleFunc("GET /v1/summary/months", h.Transaction.Months)
	mux.HandleFunc("GET /v1/income", h.Transaction.Income)

	mux.HandleFunc("GET /v1/recurring", h.Recurring.List)
	mux.HandleFunc("POST /v1/recurring", h.Recurring.Create)
	mux.HandleFunc("PUT /v1/recurring/{id}", h.Recurring.Update)
	mux.HandleFunc("DELETE /v1/recurring/{id}", h.Recurring.Delete)

	mux.HandleFunc("GET /v1/travel", h.Travel.List)
	mux.HandleFunc("POST /v1/travel", h.Travel.Add)
	mux.HandleFunc("DELETE /v1/travel/{id}", h.Travel.Delete)
	mux.HandleFunc("GET /v1/travel/balance", h.Travel.Balance)

	mux.HandleFunc("GET /v1/categories", h.Category.List)
	mux.HandleFunc("POST /v1/categories", h.Category.Add)
	mux.HandleFunc("DELETE /v1/categories/{id}", h.Category.Delete)
	mux.HandleFunc("GET /v1/categories/suggestions", h.Category.Suggest)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Observability.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	var handler http.Handler = mux
	handler = rateLimit(float64(cfg.Server.RateLimitPerSecond), cfg.Server.RateLimitBurst)(handler)
	handler = requestLogger(logger)(handler)
	handler = recoverer(logger)(handler)
	handler = cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      60 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("http server listening", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server shutting down")
	return s.httpServer.Shutdown(ctx)
}
