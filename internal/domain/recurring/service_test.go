package recurring

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
	expenses []*Expense
}

func (f *fakeRepo) Create(_ context.Context, e *Expense) error {
	f.expenses = append(f.expenses, e)
	return nil
}
func (f *fakeRepo) Update(context.Context, *Expense) error          { return nil }
func (f *fakeRepo) Delete(context.Context, uuid.UUID) error         { return nil }
func (f *fakeRepo) GetByID(context.Context, uuid.UUID) (*Expense, error) { return nil, nil }
func (f *fakeRepo) List(_ context.Context, activeOnly bool) ([]*Expense, error) {
	if !activeOnly {
		return f.expenses, nil
	}
	var active []*Expense
	for _, e := range f.expenses {
		if e.IsActive {
			active = append(active, e)
		}
	}
	return active, nil
}

func newTestService(repo Repository) *Service {
	return NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func expense(name, frequency, amount string, start time.Time) *Expense {
	return &Expense{
		Name:      name,
		Frequency: frequency,
		Amount:    decimal.RequireFromString(amount),
		StartDate: start,
		IsActive:  true,
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(&fakeRepo{})
	ctx := context.Background()

	t.Run("blank name", func(t *testing.T) {
		err := svc.Create(ctx, expense("  ", "monthly", "100", time.Now()))
		assert.ErrorIs(t, err, ErrBlankName)
	})

	t.Run("zero amount", func(t *testing.T) {
		err := svc.Create(ctx, expense("Rent", "monthly", "0", time.Now()))
		assert.ErrorIs(t, err, ErrNonPositive)
	})

	t.Run("bad frequency", func(t *testing.T) {
		err := svc.Create(ctx, expense("Rent", "biweekly", "100", time.Now()))
		assert.ErrorIs(t, err, ErrUnknownFrequency)
	})

	t.Run("frequency is folded", func(t *testing.T) {
		e := expense("Rent", " Monthly ", "1800", time.Now())
		require.NoError(t, svc.Create(ctx, e))
		assert.Equal(t, "monthly", e.Frequency)
		assert.Equal(t, "Fixed", e.Category, "category defaults to Fixed")
	})
}

func TestMonthlyTotalProration(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := &fakeRepo{expenses: []*Expense{
		expense("Rent", "monthly", "1800", start),        // 1800
		expense("Water", "quarterly", "90", start),       // 30
		expense("Car insurance", "semi-annually", "600", start), // 100
		expense("Amazon Prime", "annually", "139", start),       // 11.58...
	}}
	svc := newTestService(repo)

	total, err := svc.MonthlyTotal(context.Background(), 2025, time.March)
	require.NoError(t, err)

	want := decimal.RequireFromString("1800").
		Add(decimal.RequireFromString("30")).
		Add(decimal.RequireFromString("100")).
		Add(decimal.RequireFromString("139").Div(decimal.NewFromInt(12)))
	assert.True(t, total.Equal(want), "got %s want %s", total, want)
}

func TestMonthlyTotalWindows(t *testing.T) {
	ctx := context.Background()
	end := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)

	inactive := expense("Old gym", "monthly", "50", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	inactive.IsActive = false

	ended := expense("Storage unit", "monthly", "120", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	ended.EndDate = &end

	future := expense("New lease", "monthly", "2000", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	current := expense("Rent", "monthly", "1800", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	svc := newTestService(&fakeRepo{expenses: []*Expense{inactive, ended, future, current}})

	total, err := svc.MonthlyTotal(ctx, 2025, time.March)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1800")),
		"inactive, ended, and not-yet-started expenses stay out: got %s", total)

	total, err = svc.MonthlyTotal(ctx, 2025, time.February)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1920")),
		"an expense ending inside the month still counts: got %s", total)
}
