package recurring

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense is a known recurring cost that statements rarely show in a
// usable way: rent, insurance, an annual membership. Amount is the
// cost per billing period, always positive.
type Expense struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency string          `json:"frequency"`
	StartDate time.Time       `json:"start_date"`
	EndDate   *time.Time      `json:"end_date,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ActiveIn reports whether the expense applies during the given month.
func (e *Expense) ActiveIn(year int, month time.Month) bool {
	if !e.IsActive {
		return false
	}
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	if e.StartDate.After(monthEnd) {
		return false
	}
	if e.EndDate != nil && e.EndDate.Before(monthStart) {
		return false
	}
	return true
}

type Repository interface {
	Create(ctx context.Context, e *Expense) error
	Update(ctx context.Context, e *Expense) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Expense, error)
	List(ctx context.Context, activeOnly bool) ([]*Expense, error)
}
