package travel

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBlankDescription = errors.New("travel entry needs a description")
	ErrNonPositive      = errors.New("travel entry amount must be positive")
	ErrUnknownType      = errors.New("travel entry type must be allocation or expense")
	ErrBadWindow        = errors.New("window end must not precede its start")
)

// Service owns the travel fund: allocations pay in, expenses draw
// down, and the balance is the difference.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Add records a travel movement. The amount comes in as a positive
// magnitude; expenses are flipped negative before storage.
func (s *Service) Add(ctx context.Context, e *Entry) error {
	e.Description = strings.TrimSpace(e.Description)
	if e.Description == "" {
		return ErrBlankDescription
	}
	if !e.Amount.IsPositive() {
		return ErrNonPositive
	}
	switch e.Type {
	case EntryAllocation:
	case EntryExpense:
		e.Amount = e.Amount.Neg()
	default:
		return ErrUnknownType
	}
	if e.Date.IsZero() {
		e.Date = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if err := s.repo.Add(ctx, e); err != nil {
		return err
	}
	s.logger.Info("travel entry added",
		slog.String("type", string(e.Type)),
		slog.String("amount", e.Amount.String()))
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, w Window) ([]*Entry, error) {
	if !w.From.IsZero() && !w.To.IsZero() && w.To.Before(w.From) {
		return nil, ErrBadWindow
	}
	return s.repo.List(ctx, w)
}

// MonthlySpent reports the travel expenses dated within a month, for
// the monthly spending summary.
func (s *Service) MonthlySpent(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	return s.repo.MonthlySpent(ctx, year, month)
}

func (s *Service) Balance(ctx context.Context) (*Balance, error) {
	allocated, spent, err := s.repo.Totals(ctx)
	if err != nil {
		return nil, err
	}
	return &Balance{
		Allocated: allocated,
		Spent:     spent,
		Remaining: allocated.Sub(spent),
	}, nil
}
