package recurring

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const expenseColumns = `id, name, category, amount, frequency, start_date, end_date, is_active, created_at, updated_at`

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

func (r *PostgresRepository) Create(ctx context.Context, e *Expense) error {
	query := `
		INSERT INTO recurring_expenses (id, name, category, amount, frequency, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, query,
		e.ID,
		e.Name,
		e.Category,
		e.Amount,
		e.Frequency,
		e.StartDate,
		e.EndDate,
		e.IsActive,
	).Scan(&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create recurring expense: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, e *Expense) error {
	query := `
		UPDATE recurring_expenses
		SET name = $2, category = $3, amount = $4, frequency = $5,
			start_date = $6, end_date = $7, is_active = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		e.ID,
		e.Name,
		e.Category,
		e.Amount,
		e.Frequency,
		e.StartDate,
		e.EndDate,
		e.IsActive,
	).Scan(&e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return sql.ErrNoRows
	}
	if err != nil {
		return fmt.Errorf("failed to update recurring expense: %w", err)
	}
	return nil
}

// Delete deactivates the expense rather than removing the row, so the
// active-window history stays queryable and Update can re-activate it.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE recurring_expenses SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate recurring expense: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM recurring_expenses WHERE id = $1`

	e := &Expense{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.Name,
		&e.Category,
		&e.Amount,
		&e.Frequency,
		&e.StartDate,
		&e.EndDate,
		&e.IsActive,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recurring expense: %w", err)
	}
	return e, nil
}

func (r *PostgresRepository) List(ctx context.Context, activeOnly bool) ([]*Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM recurring_expenses`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY amount DESC, name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list recurring expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		e := &Expense{}
		err := rows.Scan(
			&e.ID,
			&e.Name,
			&e.Category,
			&e.Amount,
			&e.Frequency,
			&e.StartDate,
			&e.EndDate,
			&e.IsActive,
			&e.CreatedAt,
			&e.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recurring expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}
