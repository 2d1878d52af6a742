package budget

import (
	"context"
	"errors"
	"testing"
	"time"

	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"
	"fjacquet/finance-sync/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

const userID = "user-1"

type fixture struct {
	store  *store.MemoryStore
	logger *logging.MockLogger
	sync   *Synchronizer
	acct   models.Account
	seq    int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: store.NewMemoryStore(), logger: logging.NewMockLogger()}
	acct, err := f.store.UpsertAccount(context.Background(), models.Account{UserID: userID, Name: "Main", ExternalAccountID: "ext"})
	require.NoError(t, err)
	f.acct = acct
	f.sync = NewSynchronizer(f.store, f.logger, WithClock(func() time.Time { return now }))
	return f
}

func (f *fixture) spend(t *testing.T, category string, amount string, at time.Time) {
	t.Helper()
	f.seq++
	_, err := f.store.InsertTransactions(context.Background(), []models.TransactionRecord{{
		ExternalID: category + "-" + at.Format(time.RFC3339) + "-" + amount + "-" + string(rune('a'+f.seq)),
		AccountID:  f.acct.ID,
		OccurredAt: at,
		Amount:     decimal.RequireFromString(amount),
		Category:   category,
	}})
	require.NoError(t, err)
}

func (f *fixture) budget(t *testing.T, category string, costType models.CostType, value int64) models.BudgetEntry {
	t.Helper()
	entry, err := f.store.InsertBudget(context.Background(), models.BudgetEntry{
		UserID: userID, CategoryName: category, CostType: costType, Value: decimal.NewFromInt(value),
	})
	require.NoError(t, err)
	return entry
}

func (f *fixture) prefer(t *testing.T, category string, costType models.CostType) {
	t.Helper()
	require.NoError(t, f.store.UpsertPreference(context.Background(), models.CategoryPreference{
		UserID: userID, Category: category, Subcategory: "Geral", CostType: costType,
	}))
}

func (f *fixture) budgets(t *testing.T, category string) []models.BudgetEntry {
	t.Helper()
	all, err := f.store.ListBudgets(context.Background(), userID)
	require.NoError(t, err)
	var out []models.BudgetEntry
	for _, b := range all {
		if b.CategoryName == category {
			out = append(out, b)
		}
	}
	return out
}

func month(m time.Month, day int) time.Time {
	return time.Date(2024, m, day, 10, 0, 0, 0, time.UTC)
}

func assertValue(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestReconcile_CreatesNormalRowWithMonthlyAverage(t *testing.T) {
	f := newFixture(t)
	f.spend(t, models.CategoryFood, "-100", month(time.January, 5))
	f.spend(t, models.CategoryFood, "-50", month(time.January, 20))
	f.spend(t, models.CategoryFood, "-150", month(time.February, 3))

	result, err := f.sync.Reconcile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	rows := f.budgets(t, models.CategoryFood)
	require.Len(t, rows, 1)
	assertValue(t, "150", rows[0].Value)
	assert.Equal(t, models.CostTypeVariable, rows[0].CostType)
}

func TestReconcile_IgnoresInflowsOldAndUncategorized(t *testing.T) {
	f := newFixture(t)
	f.spend(t, models.CategoryFood, "300", month(time.March, 1))
	f.spend(t, models.CategoryFood, "-999", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	f.spend(t, models.CategoryUncategorized, "-40", month(time.March, 2))

	result, err := f.sync.Reconcile(context.Background(), userID)
	require.NoError(t, err)
	assert.False(t, result.Changed())

	all, err := f.store.ListBudgets(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestReconcile_NormalRows(t *testing.T) {
	tests := []struct {
		name     string
		existing []int64
		expected string
		result   Result
	}{
		{name: "nonzero row untouched", existing: []int64{500}, expected: "500", result: Result{Unchanged: 1}},
		{name: "small nonzero row not raised", existing: []int64{10}, expected: "10", result: Result{Unchanged: 1}},
		{name: "zero row filled", existing: []int64{0}, expected: "200", result: Result{Updated: 1}},
		{name: "duplicates summed", existing: []int64{100, 50}, expected: "150", result: Result{Consolidated: 1}},
		{name: "zero duplicates fall back to average", existing: []int64{0, 0}, expected: "200", result: Result{Consolidated: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.spend(t, models.CategoryFood, "-200", month(time.May, 2))
			for _, v := range tt.existing {
				f.budget(t, models.CategoryFood, models.CostTypeVariable, v)
			}

			result, err := f.sync.Reconcile(context.Background(), userID)
			require.NoError(t, err)
			assert.Equal(t, tt.result, result)

			rows := f.budgets(t, models.CategoryFood)
			require.Len(t, rows, 1)
			assertValue(t, tt.expected, rows[0].Value)
		})
	}
}

func TestReconcile_Hybrid(t *testing.T) {
	f := newFixture(t)
	f.prefer(t, "Moradia", models.CostTypeFixed)
	f.prefer(t, "Moradia", models.CostTypeVariable)
	f.spend(t, "Moradia", "-1000", month(time.April, 10))
	f.budget(t, "Moradia", models.CostTypeFixed, 800)

	result, err := f.sync.Reconcile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Unchanged: 1}, result)

	rows := f.budgets(t, "Moradia")
	require.Len(t, rows, 2)
	assert.Equal(t, models.CostTypeFixed, rows[0].CostType)
	assertValue(t, "800", rows[0].Value)
	assert.Equal(t, models.CostTypeVariable, rows[1].CostType)
	assertValue(t, "500", rows[1].Value)
}

func TestReconcile_HybridFillsZeroRows(t *testing.T) {
	f := newFixture(t)
	f.prefer(t, "Moradia", models.CostTypeFixed)
	f.prefer(t, "Moradia", models.CostTypeVariable)
	f.spend(t, "Moradia", "-301", month(time.April, 10))
	f.budget(t, "Moradia", models.CostTypeFixed, 0)
	f.budget(t, "Moradia", models.CostTypeVariable, 0)

	result, err := f.sync.Reconcile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)

	for _, row := range f.budgets(t, "Moradia") {
		assertValue(t, "150.5", row.Value)
	}
}

func TestReconcile_FixedPreferenceOnNormalCategory(t *testing.T) {
	f := newFixture(t)
	f.prefer(t, models.CategorySubscriptions, models.CostTypeFixed)
	f.spend(t, models.CategorySubscriptions, "-39.90", month(time.June, 1))

	_, err := f.sync.Reconcile(context.Background(), userID)
	require.NoError(t, err)

	rows := f.budgets(t, models.CategorySubscriptions)
	require.Len(t, rows, 1)
	assert.Equal(t, models.CostTypeFixed, rows[0].CostType)
	assertValue(t, "39.9", rows[0].Value)
}

func TestReconcile_NeverReducesAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.spend(t, models.CategoryFood, "-400", month(time.March, 1))
	f.spend(t, "Transporte", "-80", month(time.March, 2))
	f.spend(t, "Transporte", "-120", month(time.April, 2))
	f.budget(t, models.CategoryFood, models.CostTypeVariable, 50)

	ctx := context.Background()
	_, err := f.sync.Reconcile(ctx, userID)
	require.NoError(t, err)
	first, err := f.store.ListBudgets(ctx, userID)
	require.NoError(t, err)

	second, err := f.sync.Reconcile(ctx, userID)
	require.NoError(t, err)
	assert.False(t, second.Changed())

	after, err := f.store.ListBudgets(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, first, after)
	assertValue(t, "50", f.budgets(t, models.CategoryFood)[0].Value)
	assertValue(t, "100", f.budgets(t, "Transporte")[0].Value)
}

func TestReconcile_Errors(t *testing.T) {
	t.Run("outflows unavailable", func(t *testing.T) {
		f := newFixture(t)
		f.store.ListOutflowsErr = errors.New("db locked")
		err := f.sync.SyncBudgets(context.Background(), userID)
		assert.ErrorContains(t, err, "db locked")
	})

	t.Run("preferences unavailable", func(t *testing.T) {
		f := newFixture(t)
		f.spend(t, models.CategoryFood, "-10", month(time.June, 1))
		f.store.ListPreferencesErr = errors.New("boom")
		err := f.sync.SyncBudgets(context.Background(), userID)
		assert.ErrorContains(t, err, "category preferences")
	})

	t.Run("failed category does not stop others", func(t *testing.T) {
		f := newFixture(t)
		f.spend(t, models.CategoryFood, "-10", month(time.June, 1))
		f.spend(t, "Transporte", "-20", month(time.June, 1))
		f.budget(t, "Transporte", models.CostTypeVariable, 0)
		f.store.InsertBudgetErr = errors.New("disk full")

		result, err := f.sync.Reconcile(context.Background(), userID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), models.CategoryFood)
		assert.Equal(t, 1, result.Updated)
		assert.True(t, f.logger.HasEntry("WARN", "Failed to reconcile category budget"))
	})
}

func TestAggregator(t *testing.T) {
	agg := NewAggregator(nil)
	spends := agg.Aggregate([]models.TransactionRecord{
		{Category: "B", Amount: decimal.NewFromInt(-10), OccurredAt: month(time.January, 1)},
		{Category: "A", Amount: decimal.NewFromInt(-5), OccurredAt: month(time.January, 1)},
		{Category: "A", Amount: decimal.NewFromInt(-7), OccurredAt: month(time.March, 1)},
		{Category: "A", Amount: decimal.NewFromInt(3), OccurredAt: month(time.March, 1)},
	})

	require.Len(t, spends, 2)
	assert.Equal(t, "A", spends[0].Category)
	assertValue(t, "12", spends[0].Total)
	assert.Len(t, spends[0].Months, 2)
	assertValue(t, "6", spends[0].MonthlyAverage())
	assertValue(t, "10", spends[1].MonthlyAverage())

	assertValue(t, "9", CategorySpend{Total: decimal.NewFromInt(9)}.MonthlyAverage())
}
