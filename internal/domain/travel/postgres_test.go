package travel

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return &PostgresRepository{pool: mock}, mock
}

func TestTotals(t *testing.T) {
	repo, mock := newMockRepo(t)

	// Stored expense amounts are negative; the query flips spent back
	// to a positive magnitude.
	mock.ExpectQuery(`COALESCE\(-SUM\(amount\) FILTER \(WHERE type = 'expense'\), 0\)`).
		WillReturnRows(pgxmock.NewRows([]string{"allocated", "spent"}).
			AddRow(decimal.RequireFromString("1000.00"), decimal.RequireFromString("420.35")))

	allocated, spent, err := repo.Totals(context.Background())
	require.NoError(t, err)
	assert.True(t, allocated.Equal(decimal.RequireFromString("1000.00")))
	assert.True(t, spent.Equal(decimal.RequireFromString("420.35")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMonthlySpent(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COALESCE\(-SUM\(amount\), 0\)`).
		WithArgs(2025, 4).
		WillReturnRows(pgxmock.NewRows([]string{"spent"}).AddRow(decimal.RequireFromString("160.00")))

	spent, err := repo.MonthlySpent(context.Background(), 2025, time.April)
	require.NoError(t, err)
	assert.True(t, spent.Equal(decimal.RequireFromString("160.00")))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWindowBounds(t *testing.T) {
	repo, mock := newMockRepo(t)
	from := time.Date(2025, 4, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{
		"id", "transaction_date", "description", "amount", "type", "category", "created_at",
	}).AddRow(
		uuid.New(), from.AddDate(0, 0, 5), "Hotel deposit",
		decimal.RequireFromString("-120.00"), EntryExpense, "Travel", time.Now().UTC(),
	)

	mock.ExpectQuery(`transaction_date >= \$1 AND transaction_date <= \$2`).
		WithArgs(from, to).
		WillReturnRows(rows)

	entries, err := repo.List(context.Background(), Window{From: from, To: to})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Hotel deposit", entries[0].Description)
	assert.True(t, entries[0].Amount.IsNegative())
	assert.NoError(t, mock.ExpectationsWereMet())
}
