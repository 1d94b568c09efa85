package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spendlens/spendlens/internal/api"
	"github.com/spendlens/spendlens/internal/domain/category"
	"github.com/spendlens/spendlens/internal/domain/classify"
	"github.com/spendlens/spendlens/internal/domain/ingest"
	"github.com/spendlens/spendlens/internal/domain/recurring"
	"github.com/spendlens/spendlens/internal/domain/transaction"
	"github.com/spendlens/spendlens/internal/domain/travel"
	"github.com/spendlens/spendlens/pkg/config"
	"github.com/spendlens/spendlens/pkg/db"
)

// dependencies holds every long-lived collaborator the server needs.
type dependencies struct {
	cfg    *config.Config
	db     *db.DB
	search *transaction.SearchIndex
	server *api.Server
}

func buildDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*dependencies, error) {
	database, err := db.New(ctx, db.Config{DSN: cfg.Database.DSN()})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	classifier := classify.New()

	txRepo := transaction.NewPostgresRepository(database.Pool, logger)
	recurringRepo := recurring.NewPostgresRepository(database.Pool)
	travelRepo := travel.NewPostgresRepository(database.Pool)
	categoryRepo := category.NewPostgresRepository(database.Pool)

	recurringSvc := recurring.NewService(recurringRepo, logger)
	travelSvc := travel.NewService(travelRepo, logger)
	txSvc := transaction.NewService(txRepo, classifier, logger).
		WithRecurring(recurringSvc).
		WithTravel(travelSvc)
	categorySvc := category.NewService(categoryRepo, logger)
	ingestSvc := ingest.NewService(txRepo, classifier, logger)

	search, err := transaction.NewSearchIndex()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("creating search index: %w", err)
	}
	if txs, err := txRepo.List(ctx, transaction.Filter{}); err == nil {
		if err := search.Rebuild(txs); err != nil {
			logger.Warn("initial search index build failed", slog.Any("error", err))
		}
	}

	server := api.NewServer(cfg, api.Handlers{
		Import:      api.NewImportHandler(ingestSvc, cfg.Import.MaxFileSizeBytes),
		Transaction: api.NewTransactionHandler(txSvc, search),
		Recurring:   api.NewRecurringHandler(recurringSvc),
		Travel:      api.NewTravelHandler(travelSvc),
		Category:    api.NewCategoryHandler(categorySvc),
	}, logger)

	return &dependencies{cfg: cfg, db: database, search: search, server: server}, nil
}

func (d *dependencies) close() {
	if d.search != nil {
		_ = d.search.Close()
	}
	if d.db != nil {
		d.db.Close()
	}
}
