package recurring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/spendlens/spendlens/pkg/money"
)

var (
	ErrBlankName        = errors.New("recurring expense needs a name")
	ErrNonPositive      = errors.New("recurring expense amount must be positive")
	ErrUnknownFrequency = errors.New("unknown billing frequency")
)

// Service owns recurring-expense rules, chiefly the monthly proration
// used by spending summaries.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) validate(e *Expense) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return ErrBlankName
	}
	if !e.Amount.IsPositive() {
		return ErrNonPositive
	}
	e.Frequency = strings.ToLower(strings.TrimSpace(e.Frequency))
	if !money.ValidFrequency(e.Frequency) {
		return fmt.Errorf("%w: %q", ErrUnknownFrequency, e.Frequency)
	}
	if e.Category == "" {
		e.Category = "Fixed"
	}
	if e.StartDate.IsZero() {
		e.StartDate = time.Now().UTC().Truncate(24 * time.Hour)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, e *Expense) error {
	if err := s.validate(e); err != nil {
		return err
	}
	e.IsActive = true
	if err := s.repo.Create(ctx, e); err != nil {
		return err
	}
	s.logger.Info("recurring expense created",
		slog.String("name", e.Name),
		slog.String("frequency", e.Frequency))
	return nil
}

func (s *Service) Update(ctx context.Context, e *Expense) error {
	if err := s.validate(e); err != nil {
		return err
	}
	return s.repo.Update(ctx, e)
}

// Delete deactivates the expense; the row survives and can be
// re-activated through Update.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]*Expense, error) {
	return s.repo.List(ctx, activeOnly)
}

// MonthlyTotal sums the prorated monthly share of every expense active
// in the given month: a quarterly bill contributes a third of its
// amount, an annual one a twelfth.
func (s *Service) MonthlyTotal(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	expenses, err := s.repo.List(ctx, true)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, e := range expenses {
		if !e.ActiveIn(year, month) {
			continue
		}
		total = total.Add(money.ProrateMonthly(e.Amount, e.Frequency))
	}
	return total, nil
}
