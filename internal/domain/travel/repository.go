package travel

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType splits the travel ledger into money set aside and money
// spent.
type EntryType string

const (
	EntryAllocation EntryType = "allocation"
	EntryExpense    EntryType = "expense"
)

// Entry is one travel budget movement. Allocations are stored
// positive and expenses negative, matching the sign convention of the
// imported ledger.
type Entry struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"transaction_date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        EntryType       `json:"type"`
	Category    string          `json:"category"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Balance summarizes the travel fund.
type Balance struct {
	Allocated decimal.Decimal `json:"allocated"`
	Spent     decimal.Decimal `json:"spent"`
	Remaining decimal.Decimal `json:"remaining"`
}

// Window bounds a listing by transaction date. A zero bound leaves
// that side open.
type Window struct {
	From time.Time
	To   time.Time
}

type Repository interface {
	Add(ctx context.Context, e *Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, w Window) ([]*Entry, error)
	Totals(ctx context.Context) (allocated, spent decimal.Decimal, err error)
	MonthlySpent(ctx context.Context, year int, month time.Month) (decimal.Decimal, error)
}
