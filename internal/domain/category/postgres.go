package category

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

func (r *PostgresRepository) List(ctx context.Context) ([]*Category, error) {
	return r.list(ctx, `SELECT id, name, type, created_at FROM categories ORDER BY name`)
}

func (r *PostgresRepository) ListByType(ctx context.Context, t Type) ([]*Category, error) {
	return r.list(ctx, `SELECT id, name, type, created_at FROM categories WHERE type = $1 ORDER BY name`, t)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]*Category, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*Category
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *PostgresRepository) Add(ctx context.Context, c *Category) error {
	query := `
		INSERT INTO categories (id, name, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO NOTHING
		RETURNING created_at`

	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, query, c.ID, c.Name, c.Type).Scan(&c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("category %q already exists", c.Name)
	}
	if err != nil {
		return fmt.Errorf("failed to add category: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresRepository) UncategorizedDescriptions(ctx context.Context, limit int) ([]string, error) {
	query := `
		SELECT DISTINCT description
		FROM transactions
		WHERE category = 'Uncategorized'
		ORDER BY description
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list uncategorized descriptions: %w", err)
	}
	defer rows.Close()

	var descriptions []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan description: %w", err)
		}
		descriptions = append(descriptions, d)
	}
	return descriptions, rows.Err()
}

func (r *PostgresRepository) CategorizedExemplars(ctx context.Context, limit int) ([]Exemplar, error) {
	query := `
		SELECT DISTINCT description, category
		FROM transactions
		WHERE category <> 'Uncategorized'
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list exemplars: %w", err)
	}
	defer rows.Close()

	var exemplars []Exemplar
	for rows.Next() {
		var e Exemplar
		if err := rows.Scan(&e.Description, &e.Category); err != nil {
			return nil, fmt.Errorf("failed to scan exemplar: %w", err)
		}
		exemplars = append(exemplars, e)
	}
	return exemplars, rows.Err()
}
