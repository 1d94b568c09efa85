package category

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type partitions categories for reporting.
type Type string

const (
	TypeExpense Type = "expense"
	TypeIncome  Type = "income"
	TypeTravel  Type = "travel"
)

// Category is one entry in the user's category vocabulary.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      Type      `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Exemplar is an already-categorized ledger description, used as
// evidence when suggesting categories for uncategorized ones.
type Exemplar struct {
	Description string `json:"description"`
	Category    string `json:"category"`
}

type Repository interface {
	List(ctx context.Context) ([]*Category, error)
	ListByType(ctx context.Context, t Type) ([]*Category, error)
	Add(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id uuid.UUID) error

	UncategorizedDescriptions(ctx context.Context, limit int) ([]string, error)
	CategorizedExemplars(ctx context.Context, limit int) ([]Exemplar, error)
}
