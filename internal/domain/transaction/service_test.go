package transaction

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spendlens/spendlens/internal/domain/classify"
	"github.com/spendlens/spendlens/internal/domain/ingest/parser"
)

type fakeRepo struct {
	Repository
	added    []*Transaction
	listed   []*Transaction
	spending []CategoryTotal
}

func (f *fakeRepo) Add(_ context.Context, tx *Transaction) error {
	f.added = append(f.added, tx)
	return nil
}

func (f *fakeRepo) List(context.Context, Filter) ([]*Transaction, error) {
	return f.listed, nil
}

func (f *fakeRepo) SpendingByCategory(context.Context, int, time.Month) ([]CategoryTotal, error) {
	return f.spending, nil
}

type fixedRecurring struct{ total decimal.Decimal }

func (f fixedRecurring) MonthlyTotal(context.Context, int, time.Month) (decimal.Decimal, error) {
	return f.total, nil
}

type fixedTravel struct{ spent decimal.Decimal }

func (f fixedTravel) MonthlySpent(context.Context, int, time.Month) (decimal.Decimal, error) {
	return f.spent, nil
}

func newService(repo Repository) *Service {
	return NewService(repo, classify.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAddDefaults(t *testing.T) {
	repo := &fakeRepo{}
	svc := newService(repo)
	ctx := context.Background()

	t.Run("category and type are filled in", func(t *testing.T) {
		tx := &Transaction{
			Description: "  SHELL   OIL 5731 ",
			Amount:      decimal.RequireFromString("-40.00"),
			Date:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, svc.Add(ctx, tx))
		assert.Equal(t, "SHELL OIL 5731", tx.Description)
		assert.Equal(t, classify.Gas, tx.Category)
		assert.Equal(t, "Debit", tx.Type)
	})

	t.Run("explicit category survives", func(t *testing.T) {
		tx := &Transaction{
			Description: "SHELL OIL 5731",
			Category:    "Travel",
			Amount:      decimal.RequireFromString("-40.00"),
			Date:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		}
		require.NoError(t, svc.Add(ctx, tx))
		assert.Equal(t, "Travel", tx.Category)
	})

	t.Run("blank description is rejected", func(t *testing.T) {
		err := svc.Add(ctx, &Transaction{Description: "   "})
		assert.ErrorIs(t, err, ErrBlankDescription)
	})
}

func TestBulkGuards(t *testing.T) {
	svc := newService(&fakeRepo{})
	ctx := context.Background()

	t.Run("empty selection", func(t *testing.T) {
		_, err := svc.BulkShiftDates(ctx, nil, 3)
		assert.ErrorIs(t, err, ErrNoSelection)
	})

	t.Run("blank category", func(t *testing.T) {
		blank := " "
		_, err := svc.BulkUpdateFields(ctx, []uuid.UUID{uuid.New()}, FieldUpdate{Category: &blank})
		assert.ErrorIs(t, err, ErrBlankCategory)
	})

	t.Run("bad adjustment op", func(t *testing.T) {
		_, err := svc.BulkAdjustAmounts(ctx, []uuid.UUID{uuid.New()}, AmountAdjustment{Op: "divide"})
		assert.Error(t, err)
	})

	t.Run("inverted window", func(t *testing.T) {
		now := time.Now()
		_, err := svc.DeleteByUploadWindow(ctx, now, now.Add(-time.Hour))
		assert.ErrorIs(t, err, ErrBadWindow)
	})

	t.Run("empty pattern", func(t *testing.T) {
		_, err := svc.CategorizeByPattern(ctx, "  ", "Gas")
		assert.ErrorIs(t, err, ErrEmptyPattern)
	})
}

func TestSummarize(t *testing.T) {
	repo := &fakeRepo{spending: []CategoryTotal{
		{Category: "Groceries", Total: decimal.RequireFromString("412.55"), Count: 9},
		{Category: "Gas", Total: decimal.RequireFromString("120.00"), Count: 3},
	}}

	t.Run("with recurring collaborator", func(t *testing.T) {
		svc := newService(repo).WithRecurring(fixedRecurring{total: decimal.RequireFromString("1930")})

		summary, err := svc.Summarize(context.Background(), 2025, time.March)
		require.NoError(t, err)
		assert.True(t, summary.SpendingTotal.Equal(decimal.RequireFromString("532.55")))
		assert.True(t, summary.RecurringTotal.Equal(decimal.RequireFromString("1930")))
		assert.True(t, summary.CombinedTotal.Equal(decimal.RequireFromString("2462.55")))
	})

	t.Run("with recurring and travel collaborators", func(t *testing.T) {
		svc := newService(repo).
			WithRecurring(fixedRecurring{total: decimal.RequireFromString("1930")}).
			WithTravel(fixedTravel{spent: decimal.RequireFromString("250.45")})

		summary, err := svc.Summarize(context.Background(), 2025, time.March)
		require.NoError(t, err)
		assert.True(t, summary.TravelTotal.Equal(decimal.RequireFromString("250.45")))
		assert.True(t, summary.CombinedTotal.Equal(decimal.RequireFromString("2713")))
	})

	t.Run("without collaborators", func(t *testing.T) {
		svc := newService(repo)
		summary, err := svc.Summarize(context.Background(), 2025, time.March)
		require.NoError(t, err)
		assert.True(t, summary.RecurringTotal.IsZero())
		assert.True(t, summary.TravelTotal.IsZero())
		assert.True(t, summary.CombinedTotal.Equal(summary.SpendingTotal))
	})
}

/// Exported CSVs must re-import cleanly: dates, amounts, types, and
// memos survive verbatim while the category is recomputed from the
// description on the way back in.
func TestExportReimportRoundTrip(t *testing.T) {
	postDate := time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{listed: []*Transaction{
		{
			ID:          uuid.New(),
			Date:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			PostDate:    &postDate,
			Description: "Amazon.com*Shopping",
			Category:    "Household Goods",
			Type:        "Sale",
			Amount:      decimal.RequireFromString("-45.67"),
			Memo:        "order 114-2",
		},
		{
			ID:          uuid.New(),
			Date:        time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC),
			Description: "PAYCHECK DEPOSIT",
			Category:    "Salary",
			Type:        "Deposit",
			Amount:      decimal.RequireFromString("2500.00"),
		},
	}}
	svc := newService(repo)

	data, err := svc.ExportCSV(context.Background(), Filter{})
	require.NoError(t, err)

	p := parser.NewStandard(classify.New())
	result, err := p.ParseCSV(data, "export.csv", time.Now())
	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Empty(t, result.Skips)

	first := result.Transactions[0]
	assert.Equal(t, time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), first.Date)
	require.NotNil(t, first.PostDate)
	assert.Equal(t, postDate, *first.PostDate)
	assert.Equal(t, "Amazon.com*Shopping", first.Description)
	assert.Equal(t, "Sale", first.Type, "type column re-imports verbatim")
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("-45.67")))
	assert.Equal(t, "order 114-2", first.Memo)
	assert.Equal(t, classify.HouseholdGoods, first.Category, "category is recomputed, not copied")

	second := result.Transactions[1]
	assert.Equal(t, "Deposit", second.Type)
	assert.Equal(t, classify.Uncategorized, second.Category,
		"income descriptions fall back to Uncategorized on re-import")
}
