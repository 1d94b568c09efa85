package travel

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// pgxQuerier is the slice of pgxpool.Pool the repository uses.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool pgxQuerier
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) Add(ctx context.Context, e *Entry) error {
	query := `
		INSERT INTO travel_budget (id, transaction_date, description, amount, type, category)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Category == "" {
		e.Category = "Travel"
	}
	err := r.pool.QueryRow(ctx, query,
		e.ID,
		e.Date,
		e.Description,
		e.Amount,
		e.Type,
		e.Category,
	).Scan(&e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add travel entry: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM travel_budget WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete travel entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, w Window) ([]*Entry, error) {
	query := `
		SELECT id, transaction_date, description, amount, type, category, created_at
		FROM travel_budget
		WHERE 1=1`
	var args []any
	if !w.From.IsZero() {
		args = append(args, w.From)
		query += fmt.Sprintf(" AND transaction_date >= $%d", len(args))
	}
	if !w.To.IsZero() {
		args = append(args, w.To)
		query += fmt.Sprintf(" AND transaction_date <= $%d", len(args))
	}
	query += " ORDER BY transaction_date DESC, created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list travel entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		err := rows.Scan(
			&e.ID,
			&e.Date,
			&e.Description,
			&e.Amount,
			&e.Type,
			&e.Category,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan travel entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PostgresRepository) Totals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	// Expenses are stored negative; spent is reported as a positive
	// magnitude.
	query := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE type = 'allocation'), 0),
			COALESCE(-SUM(amount) FILTER (WHERE type = 'expense'), 0)
		FROM travel_budget`

	var allocated, spent decimal.Decimal
	if err := r.pool.QueryRow(ctx, query).Scan(&allocated, &spent); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum travel budget: %w", err)
	}
	return allocated, spent, nil
}

func (r *PostgresRepository) MonthlySpent(ctx context.Context, year int, month time.Month) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(-SUM(amount), 0)
		FROM travel_budget
		WHERE type = 'expense'
		  AND EXTRACT(YEAR FROM transaction_date) = $1
		  AND EXTRACT(MONTH FROM transaction_date) = $2`

	var spent decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, year, int(month)).Scan(&spent); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum monthly travel spending: %w", err)
	}
	return spent, nil
}
