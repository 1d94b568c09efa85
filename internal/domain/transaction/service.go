package transaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/internal/domain/classify"
)

var (
	ErrBlankDescription = errors.New("description must not be blank")
	ErrEmptyPattern     = errors.New("pattern must not be empty")
	ErrBlankCategory    = errors.New("category must not be blank")
	ErrNoSelection      = errors.New("no transactions selected")
	ErrBadWindow        = errors.New("window end must not precede its start")
)

// RecurringProvider reports the prorated monthly cost of recurring
// expenses, so summaries can show spending the statements never carry.
type RecurringProvider interface {
	MonthlyTotal(ctx context.Context, year int, month time.Month) (decimal.Decimal, error)
}

// TravelProvider reports travel-fund expenses for a month, which live
// outside the imported ledger.
type TravelProvider interface {
	MonthlySpent(ctx context.Context, year int, month time.Month) (decimal.Decimal, error)
}

// Service owns ledger business rules on top of the repository.
type Service struct {
	repo       Repository
	classifier *classify.Classifier
	recurring  RecurringProvider
	travel     TravelProvider
	logger     *slog.Logger
}

func NewService(repo Repository, classifier *classify.Classifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, classifier: classifier, logger: logger}
}

// WithRecurring attaches the recurring-expense collaborator. Without
// it, summaries simply omit the recurring line.
func (s *Service) WithRecurring(p RecurringProvider) *Service {
	s.recurring = p
	return s
}

// WithTravel attaches the travel-fund collaborator. Without it,
// summaries simply omit the travel line.
func (s *Service) WithTravel(p TravelProvider) *Service {
	s.travel = p
	return s
}

// Add stores a manually entered transaction. A missing category is
// computed from the description and a missing type from the sign,
// the same way imported rows are filled in.
func (s *Service) Add(ctx context.Context, tx *Transaction) error {
	tx.Description = strings.Join(strings.Fields(tx.Description), " ")
	if tx.Description == "" {
		return ErrBlankDescription
	}
	if tx.Category == "" {
		tx.Category = s.classifier.Categorize(tx.Description)
	}
	if tx.Type == "" {
		if tx.Amount.IsPositive() {
			tx.Type = "Credit"
		} else {
			tx.Type = "Debit"
		}
	}
	if tx.Date.IsZero() {
		tx.Date = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return s.repo.Add(ctx, tx)
}

func (s *Service) Edit(ctx context.Context, tx *Transaction) error {
	if strings.TrimSpace(tx.Description) == "" {
		return ErrBlankDescription
	}
	return s.repo.Edit(ctx, tx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Transaction, error) {
	return s.repo.List(ctx, f)
}

// CategorizeByPattern assigns a category to every transaction whose
// description contains the pattern.
func (s *Service) CategorizeByPattern(ctx context.Context, pattern, category string) (int64, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return 0, ErrEmptyPattern
	}
	if strings.TrimSpace(category) == "" {
		return 0, ErrBlankCategory
	}

	updated, err := s.repo.CategorizeByPattern(ctx, pattern, category)
	if err != nil {
		return 0, err
	}
	s.logger.Info("categorized transactions by pattern",
		slog.String("pattern", pattern),
		slog.String("category", category),
		slog.Int64("updated", updated))
	return updated, nil
}

func (s *Service) BulkUpdateFields(ctx context.Context, ids []uuid.UUID, update FieldUpdate) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoSelection
	}
	if update.Category != nil && strings.TrimSpace(*update.Category) == "" {
		return 0, ErrBlankCategory
	}
	if update.Description != nil && strings.TrimSpace(*update.Description) == "" {
		return 0, ErrBlankDescription
	}
	return s.repo.BulkUpdateFields(ctx, ids, update)
}

func (s *Service) BulkAdjustAmounts(ctx context.Context, ids []uuid.UUID, adj AmountAdjustment) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoSelection
	}
	switch adj.Op {
	case AdjustSet, AdjustAdd, AdjustMultiply:
	default:
		return 0, fmt.Errorf("unknown amount adjustment %q", adj.Op)
	}
	return s.repo.BulkAdjustAmounts(ctx, ids, adj)
}

func (s *Service) BulkShiftDates(ctx context.Context, ids []uuid.UUID, days int) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoSelection
	}
	return s.repo.BulkShiftDates(ctx, ids, days)
}

func (s *Service) DeleteBySourceFile(ctx context.Context, sourceFile string) (int64, error) {
	if strings.TrimSpace(sourceFile) == "" {
		return 0, errors.New("source file must not be blank")
	}
	deleted, err := s.repo.DeleteBySourceFile(ctx, sourceFile)
	if err != nil {
		return 0, err
	}
	s.logger.Info("deleted transactions by source file",
		slog.String("source_file", sourceFile),
		slog.Int64("deleted", deleted))
	return deleted, nil
}

func (s *Service) DeleteByUploadWindow(ctx context.Context, start, end time.Time) (int64, error) {
	if end.Before(start) {
		return 0, ErrBadWindow
	}
	deleted, err := s.repo.DeleteByUploadWindow(ctx, start, end)
	if err != nil {
		return 0, err
	}
	s.logger.Info("deleted transactions by upload window",
		slog.Time("start", start),
		slog.Time("end", end),
		slog.Int64("deleted", deleted))
	return deleted, nil
}

func (s *Service) SourceFiles(ctx context.Context) ([]string, error) {
	return s.repo.SourceFiles(ctx)
}

func (s *Service) Months(ctx context.Context) ([]Month, error) {
	return s.repo.MonthsWithData(ctx)
}

func (s *Service) Income(ctx context.Context, year int) ([]MonthlyIncome, error) {
	return s.repo.IncomeByMonth(ctx, year)
}

// MonthlySummary is one month's spending picture: per-category totals
// from imported transactions, the prorated monthly share of recurring
// expenses, and travel-fund spending.
type MonthlySummary struct {
	Month          Month           `json:"month"`
	Spending       []CategoryTotal `json:"spending"`
	SpendingTotal  decimal.Decimal `json:"spending_total"`
	RecurringTotal decimal.Decimal `json:"recurring_total"`
	TravelTotal    decimal.Decimal `json:"travel_total"`
	CombinedTotal  decimal.Decimal `json:"combined_total"`
}

func (s *Service) Summarize(ctx context.Context, year int, month time.Month) (*MonthlySummary, error) {
	spending, err := s.repo.SpendingByCategory(ctx, year, month)
	if err != nil {
		return nil, err
	}

	summary := &MonthlySummary{
		Month:    Month{Year: year, Month: month},
		Spending: spending,
	}
	for _, ct := range spending {
		summary.SpendingTotal = summary.SpendingTotal.Add(ct.Total)
	}

	if s.recurring != nil {
		recurring, err := s.recurring.MonthlyTotal(ctx, year, month)
		if err != nil {
			return nil, fmt.Errorf("summing recurring expenses: %w", err)
		}
		summary.RecurringTotal = recurring
	}
	if s.travel != nil {
		travel, err := s.travel.MonthlySpent(ctx, year, month)
		if err != nil {
			return nil, fmt.Errorf("summing travel expenses: %w", err)
		}
		summary.TravelTotal = travel
	}
	summary.CombinedTotal = summary.SpendingTotal.Add(summary.RecurringTotal).Add(summary.TravelTotal)
	return summary, nil
}
