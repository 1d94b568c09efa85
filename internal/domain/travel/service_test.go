package travel

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
)

type fakeRepo struct {
	entries []*Entry
}

func (f *fakeRepo) Add(_ context.Context, e *Entry) error {
	f.entries = append(f.entries, e)
	return nil
}
func (f *fakeRepo) Delete(context.Context, uuid.UUID) error { return nil }

func (f *fakeRepo) List(_ context.Context, w Window) ([]*Entry, error) {
	var out []*Entry
	for _, e := range f.entries {
		if !w.From.IsZero() && e.Date.Before(w.From) {
			continue
		}
		if !w.To.IsZero() && e.Date.After(w.To) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeRepo) MonthlySpent(_ context.Context, year int, month time.Month) (decimal.Decimal, error) {
	spent := decimal.Zero
	for _, e := range f.entries {
		if e.Type == EntryExpense && e.Date.Year() == year && e.Date.Month() == month {
			spent = spent.Sub(e.Amount)
		}
	}
	return spent, nil
}
func (f *fakeRepo) Totals(context.Context) (decimal.Decimal, decimal.Decimal, error) {
	allocated, spent := decimal.Zero, decimal.Zero
	for _, e := range f.entries {
		switch e.Type {
		case EntryAllocation:
			allocated = allocated.Add(e.Amount)
		case EntryExpense:
			spent = spent.Sub(e.Amount)
		}
	}
	return allocated, spent, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestAddValidation(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	ctx := context.Background()

	t.Run("blank description", func(t *testing.T) {
		err := svc.Add(ctx, &Entry{Amount: decimal.NewFromInt(100), Type: EntryAllocation})
		assert.ErrorIs(t, err, ErrBlankDescription)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		err := svc.Add(ctx, &Entry{Description: "Flights", Amount: decimal.NewFromInt(-10), Type: EntryExpense})
		assert.ErrorIs(t, err, ErrNonPositive)
	})

	t.Run("unknown type", func(t *testing.T) {
		err := svc.Add(ctx, &Entry{Description: "Flights", Amount: decimal.NewFromInt(10), Type: "transfer"})
		assert.ErrorIs(t, err, ErrUnknownType)
	})
}

func TestAddStoredSigns(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	ctx := context.Background()

	allocation := &Entry{Description: "Set-aside", Amount: decimal.NewFromInt(500), Type: EntryAllocation}
	require.NoError(t, svc.Add(ctx, allocation))
	assert.True(t, allocation.Amount.Equal(decimal.NewFromInt(500)))

	expense := &Entry{Description: "Flights to Lisbon", Amount: decimal.RequireFromString("420.35"), Type: EntryExpense}
	require.NoError(t, svc.Add(ctx, expense))
	assert.True(t, expense.Amount.Equal(decimal.RequireFromString("-420.35")))
}

func TestBalance(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	require.NoError(t, svc.Add(ctx, &Entry{Description: "Monthly set-aside", Amount: decimal.NewFromInt(500), Type: EntryAllocation}))
	require.NoError(t, svc.Add(ctx, &Entry{Description: "Monthly set-aside", Amount: decimal.NewFromInt(500), Type: EntryAllocation}))
	require.NoError(t, svc.Add(ctx, &Entry{Description: "Flights to Lisbon", Amount: decimal.RequireFromString("420.35"), Type: EntryExpense}))

	balance, err := svc.Balance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Allocated.Equal(decimal.NewFromInt(1000)))
	assert.True(t, balance.Spent.Equal(decimal.RequireFromString("420.35")))
	assert.True(t, balance.Remaining.Equal(decimal.RequireFromString("579.65")))
}

func TestListWindow(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(repo)
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC) }
	require.NoError(t, svc.Add(ctx, &Entry{Description: "Set-aside", Amount: decimal.NewFromInt(300), Type: EntryAllocation, Date: day(1)}))
	require.NoError(t, svc.Add(ctx, &Entry{Description: "Hotel deposit", Amount: decimal.NewFromInt(120), Type: EntryExpense, Date: day(10)}))
	require.NoError(t, svc.Add(ctx, &Entry{Description: "Museum tickets", Amount: decimal.NewFromInt(40), Type: EntryExpense, Date: day(25)}))

	t.Run("bounded both sides", func(t *testing.T) {
		entries, err := svc.List(ctx, Window{From: day(5), To: day(15)})
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "Hotel deposit", entries[0].Description)
	})

	t.Run("open-ended", func(t *testing.T) {
		entries, err := svc.List(ctx, Window{From: day(10)})
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})

	t.Run("inverted window rejected", func(t *testing.T) {
		_, err := svc.List(ctx, Window{From: day(15), To: day(5)})
		assert.ErrorIs(t, err, ErrBadWindow)
	})

	t.Run("monthly spending", func(t *testing.T) {
		spent, err := svc.MonthlySpent(ctx, 2025, time.April)
		require.NoError(t, err)
		assert.True(t, spent.Equal(decimal.NewFromInt(160)))
	})
}
