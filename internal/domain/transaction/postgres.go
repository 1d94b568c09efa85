package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `id, transaction_date, post_date, description, category, type, amount, memo, source_file, created_at`

// pgxQuerier is the slice of pgxpool.Pool the repository uses.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	pool   pgxQuerier
	logger *slog.Logger
}

func NewPostgresRepository(pool *pgxpool.Pool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{pool: pool, logger: logger}
}

// BulkInsert writes each row with its own statement so one bad row
// cannot sink the rest of the statement file.
func (r *PostgresRepository) BulkInsert(ctx context.Context, txs []*Transaction) (int, error) {
	query := `
		INSERT INTO transactions (id, transaction_date, post_date, description, category, type, amount, memo, source_file)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	inserted := 0
	for _, tx := range txs {
		if tx.ID == uuid.Nil {
			tx.ID = uuid.New()
		}
		_, err := r.pool.Exec(ctx, query,
			tx.ID,
			tx.Date,
			tx.PostDate,
			tx.Description,
			tx.Category,
			tx.Type,
			tx.Amount,
			tx.Memo,
			tx.SourceFile,
		)
		if err != nil {
			if ctx.Err() != nil {
				return inserted, fmt.Errorf("bulk insert interrupted: %w", ctx.Err())
			}
			r.logger.Warn("skipping transaction row that failed to insert",
				slog.String("description", tx.Description),
				slog.String("source_file", tx.SourceFile),
				slog.Any("error", err))
			continue
		}
		inserted++
	}
	return inserted, nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE 1=1`
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Year != 0 {
		query += ` AND EXTRACT(YEAR FROM transaction_date) = ` + next(f.Year)
	}
	if f.Month != 0 {
		query += ` AND EXTRACT(MONTH FROM transaction_date) = ` + next(int(f.Month))
	}
	if f.Category != "" {
		query += ` AND category = ` + next(f.Category)
	}
	if f.Type != "" {
		query += ` AND type = ` + next(f.Type)
	}
	if f.Search != "" {
		query += ` AND description ILIKE ` + next("%"+f.Search+"%")
	}
	if f.SourceFile != "" {
		query += ` AND source_file = ` + next(f.SourceFile)
	}
	query += ` ORDER BY transaction_date DESC, created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + next(f.Limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	tx := &Transaction{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&tx.ID,
		&tx.Date,
		&tx.PostDate,
		&tx.Description,
		&tx.Category,
		&tx.Type,
		&tx.Amount,
		&tx.Memo,
		&tx.SourceFile,
		&tx.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sql.ErrNoRows
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

func (r *PostgresRepository) Add(ctx context.Context, tx *Transaction) error {
	query := `
		INSERT INTO transactions (id, transaction_date, post_date, description, category, type, amount, memo, source_file)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	err := r.pool.QueryRow(ctx, query,
		tx.ID,
		tx.Date,
		tx.PostDate,
		tx.Description,
		tx.Category,
		tx.Type,
		tx.Amount,
		tx.Memo,
		tx.SourceFile,
	).Scan(&tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add transaction: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Edit(ctx context.Context, tx *Transaction) error {
	query := `
		UPDATE transactions
		SET transaction_date = $2, post_date = $3, description = $4, category = $5,
			type = $6, amount = $7, memo = $8
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		tx.ID,
		tx.Date,
		tx.PostDate,
		tx.Description,
		tx.Category,
		tx.Type,
		tx.Amount,
		tx.Memo,
	)
	if err != nil {
		return fmt.Errorf("failed to edit transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if result.RowsAffected() == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *PostgresRepository) CategorizeByPattern(ctx context.Context, pattern, category string) (int64, error) {
	query := `UPDATE transactions SET category = $1 WHERE description ILIKE $2`
	result, err := r.pool.Exec(ctx, query, category, "%"+pattern+"%")
	if err != nil {
		return 0, fmt.Errorf("failed to categorize by pattern: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresRepository) BulkUpdateFields(ctx context.Context, ids []uuid.UUID, update FieldUpdate) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var sets []string
	args := []interface{}{ids}
	set := func(column string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if update.Category != nil {
		set("category", *update.Category)
	}
	if update.Description != nil {
		set("description", *update.Description)
	}
	if update.Type != nil {
		set("type", *update.Type)
	}
	if update.Memo != nil {
		set("memo", *update.Memo)
	}
	if len(sets) == 0 {
		return 0, errors.New("bulk update carries no fields")
	}

	query := `UPDATE transactions SET ` + strings.Join(sets, ", ") + ` WHERE id = ANY($1)`
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to bulk update transactions: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresRepository) BulkAdjustAmounts(ctx context.Context, ids []uuid.UUID, adj AmountAdjustment) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var query string
	switch adj.Op {
	case AdjustSet:
		query = `UPDATE transactions SET amount = $2 WHERE id = ANY($1)`
	case AdjustAdd:
		query = `UPDATE transactions SET amount = amount + $2 WHERE id = ANY($1)`
	case AdjustMultiply:
		query = `UPDATE transactions SET amount = ROUND(amount * $2, 2) WHERE id = ANY($1)`
	default:
		return 0, fmt.Errorf("unknown amount adjustment %q", adj.Op)
	}

	result, err := r.pool.Exec(ctx, query, ids, adj.Value)
	if err != nil {
		return 0, fmt.Errorf("failed to adjust amounts: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresRepository) BulkShiftDates(ctx context.Context, ids []uuid.UUID, days int) (int64, error) {
	if len(ids) == 0 || days == 0 {
		return 0, nil
	}

	query := `
		UPDATE transactions
		SET transaction_date = transaction_date + make_interval(days => $2)
		WHERE id = ANY($1)`
	result, err := r.pool.Exec(ctx, query, ids, days)
	if err != nil {
		return 0, fmt.Errorf("failed to shift dates: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresRepository) DeleteBySourceFile(ctx context.Context, sourceFile string) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE source_file = $1`, sourceFile)
	if err != nil {
		return 0, fmt.Errorf("failed to delete by source file: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresRepository) DeleteByUploadWindow(ctx context.Context, start, end time.Time) (int64, error) {
	query := `DELETE FROM transactions WHERE created_at >= $1 AND created_at <= $2`
	result, err := r.pool.Exec(ctx, query, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to delete by upload window: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *PostgresRepository) MonthsWithData(ctx context.Context) ([]Month, error) {
	query := `
		SELECT DISTINCT EXTRACT(YEAR FROM transaction_date)::int AS year,
			EXTRACT(MONTH FROM transaction_date)::int AS month
		FROM transactions
		ORDER BY year DESC, month DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list months: %w", err)
	}
	defer rows.Close()

	var months []Month
	for rows.Next() {
		var year, month int
		if err := rows.Scan(&year, &month); err != nil {
			return nil, fmt.Errorf("failed to scan month: %w", err)
		}
		months = append(months, Month{Year: year, Month: time.Month(month)})
	}
	return months, rows.Err()
}

func (r *PostgresRepository) SpendingByCategory(ctx context.Context, year int, month time.Month) ([]CategoryTotal, error) {
	query := `
		SELECT category, SUM(ABS(amount)) AS total, COUNT(*) AS count
		FROM transactions
		WHERE amount < 0
			AND EXTRACT(YEAR FROM transaction_date) = $1
			AND EXTRACT(MONTH FROM transaction_date) = $2
		GROUP BY category
		ORDER BY total DESC`

	rows, err := r.pool.Query(ctx, query, year, int(month))
	if err != nil {
		return nil, fmt.Errorf("failed to sum spending: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var ct CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total, &ct.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}

func (r *PostgresRepository) IncomeByMonth(ctx context.Context, year int) ([]MonthlyIncome, error) {
	query := `
		SELECT EXTRACT(MONTH FROM transaction_date)::int AS month, SUM(amount) AS total
		FROM transactions
		WHERE amount > 0 AND EXTRACT(YEAR FROM transaction_date) = $1
		GROUP BY month
		ORDER BY month`

	rows, err := r.pool.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("failed to sum income: %w", err)
	}
	defer rows.Close()

	var income []MonthlyIncome
	for rows.Next() {
		var mi MonthlyIncome
		var month int
		if err := rows.Scan(&month, &mi.Total); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		mi.Month = Month{Year: year, Month: time.Month(month)}
		income = append(income, mi)
	}
	return income, rows.Err()
}

func (r *PostgresRepository) SourceFiles(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT source_file
		FROM transactions
		WHERE source_file <> ''
		ORDER BY source_file`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list source files: %w", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("failed to scan source file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

func scanTransactions(rows pgx.Rows) ([]*Transaction, error) {
	var txs []*Transaction
	for rows.Next() {
		tx := &Transaction{}
		err := rows.Scan(
			&tx.ID,
			&tx.Date,
			&tx.PostDate,
			&tx.Description,
			&tx.Category,
			&tx.Type,
			&tx.Amount,
			&tx.Memo,
			&tx.SourceFile,
			&tx.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
