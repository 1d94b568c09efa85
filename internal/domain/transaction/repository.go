package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one ledger row. Amount keeps the statement's sign:
// negative for spending, positive for money in.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"transaction_date"`
	PostDate    *time.Time      `json:"post_date,omitempty"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
	SourceFile  string          `json:"source_file,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Filter narrows List and export queries. Zero values mean "any".
type Filter struct {
	Year       int
	Month      time.Month
	Category   string
	Type       string
	Search     string
	SourceFile string
	Limit      int
}

// FieldUpdate names the columns a bulk edit may rewrite. Nil fields
// are left untouched.
type FieldUpdate struct {
	Category    *string
	Description *string
	Type        *string
	Memo        *string
}

// AdjustOp selects how a bulk amount adjustment combines with the
// stored amount.
type AdjustOp string

const (
	AdjustSet      AdjustOp = "set"
	AdjustAdd      AdjustOp = "add"
	AdjustMultiply AdjustOp = "multiply"
)

// AmountAdjustment is applied to every transaction in a bulk edit.
type AmountAdjustment struct {
	Op    AdjustOp
	Value decimal.Decimal
}

// Month identifies a calendar month that holds at least one
// transaction.
type Month struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// CategoryTotal is a summed slice of one month's spending.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// MonthlyIncome is one month's summed positive amounts.
type MonthlyIncome struct {
	Month Month           `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// Repository is the persistence boundary for the ledger.
type Repository interface {
	// BulkInsert writes rows best-effort: a row that fails to insert
	// is dropped without aborting the rest. Returns the number of
	// rows actually written.
	BulkInsert(ctx context.Context, txs []*Transaction) (int, error)

	List(ctx context.Context, f Filter) ([]*Transaction, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	Add(ctx context.Context, tx *Transaction) error
	Edit(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CategorizeByPattern rewrites the category of every transaction
	// whose description contains pattern, case-insensitively.
	CategorizeByPattern(ctx context.Context, pattern, category string) (int64, error)

	BulkUpdateFields(ctx context.Context, ids []uuid.UUID, update FieldUpdate) (int64, error)
	BulkAdjustAmounts(ctx context.Context, ids []uuid.UUID, adj AmountAdjustment) (int64, error)
	BulkShiftDates(ctx context.Context, ids []uuid.UUID, days int) (int64, error)

	DeleteBySourceFile(ctx context.Context, sourceFile string) (int64, error)
	DeleteByUploadWindow(ctx context.Context, start, end time.Time) (int64, error)

	MonthsWithData(ctx context.Context) ([]Month, error)
	SpendingByCategory(ctx context.Context, year int, month time.Month) ([]CategoryTotal, error)
	IncomeByMonth(ctx context.Context, year int) ([]MonthlyIncome, error)
	SourceFiles(ctx context.Context) ([]string, error)
}
