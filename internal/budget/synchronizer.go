package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"
	"fjacquet/finance-sync/internal/store"

	"github.com/shopspring/decimal"
)

// DefaultLookbackMonths is the spending history averaged into budgets.
const DefaultLookbackMonths = 12

// Store is the persistence the synchronizer needs.
type Store interface {
	ListOutflowsSince(ctx context.Context, userID string, since time.Time) ([]models.TransactionRecord, error)
	store.BudgetRepository
}

// Result counts what one reconciliation changed.
type Result struct {
	Created      int
	Updated      int
	Consolidated int
	Unchanged    int
}

// Changed reports whether any budget row was written.
func (r Result) Changed() bool {
	return r.Created+r.Updated+r.Consolidated > 0
}

// Synchronizer reconciles budget entries with recent outflows.
type Synchronizer struct {
	store          Store
	aggregator     *Aggregator
	logger         logging.Logger
	lookbackMonths int
	now            func() time.Time
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLookbackMonths sets the averaged history length.
func WithLookbackMonths(months int) Option {
	return func(s *Synchronizer) {
		if months > 0 {
			s.lookbackMonths = months
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Synchronizer) { s.now = now }
}

// NewSynchronizer creates a Synchronizer.
func NewSynchronizer(st Store, logger logging.Logger, opts ...Option) *Synchronizer {
	logger = logging.OrDefault(logger)
	s := &Synchronizer{
		store:          st,
		aggregator:     NewAggregator(logger),
		logger:         logger,
		lookbackMonths: DefaultLookbackMonths,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SyncBudgets reconciles the user's budgets. Callers treat a failure as
// non-fatal.
func (s *Synchronizer) SyncBudgets(ctx context.Context, userID string) error {
	_, err := s.Reconcile(ctx, userID)
	return err
}

// Reconcile creates missing budget rows from the average monthly outflow of
// each category and fills rows still at zero. Nonzero values are never
// lowered or replaced, except when several rows of a normal category are
// consolidated into one holding their sum. A failed write for one category
// does not stop the others.
func (s *Synchronizer) Reconcile(ctx context.Context, userID string) (Result, error) {
	var result Result
	logger := s.logger.WithField(logging.FieldUserID, userID)

	outflows, err := s.store.ListOutflowsSince(ctx, userID, windowStart(s.now(), s.lookbackMonths))
	if err != nil {
		return result, fmt.Errorf("failed to load outflows: %w", err)
	}
	spends := s.aggregator.Aggregate(outflows)
	if len(spends) == 0 {
		logger.Debug("No outflows in window, budgets left as is")
		return result, nil
	}

	entries, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to load budgets: %w", err)
	}
	prefs, err := s.store.ListPreferences(ctx, userID)
	if err != nil {
		return result, fmt.Errorf("failed to load category preferences: %w", err)
	}

	rows := groupByCategory(entries)
	costTypes := costTypesByCategory(prefs)

	var errs []error
	for _, spend := range spends {
		avg := spend.MonthlyAverage()
		if !avg.IsPositive() {
			continue
		}
		categoryLogger := logger.WithField(logging.FieldCategory, spend.Category)
		kinds := costTypes[spend.Category]

		var err error
		if isHybrid(kinds) {
			err = s.reconcileHybrid(ctx, categoryLogger, userID, spend.Category, avg, rows[spend.Category], &result)
		} else {
			err = s.reconcileNormal(ctx, categoryLogger, userID, spend.Category, avg, preferredCostType(kinds), rows[spend.Category], &result)
		}
		if err != nil {
			categoryLogger.WithError(err).Warn("Failed to reconcile category budget")
			errs = append(errs, fmt.Errorf("category %s: %w", spend.Category, err))
		}
	}

	logger.Info("Budgets reconciled",
		logging.Field{Key: "created", Value: result.Created},
		logging.Field{Key: "updated", Value: result.Updated},
		logging.Field{Key: "consolidated", Value: result.Consolidated},
		logging.Field{Key: "unchanged", Value: result.Unchanged})
	return result, errors.Join(errs...)
}

// reconcileHybrid keeps one fixed and one variable row, each seeded with half
// the average.
func (s *Synchronizer) reconcileHybrid(ctx context.Context, logger logging.Logger, userID, category string, avg decimal.Decimal, existing []models.BudgetEntry, result *Result) error {
	half := avg.Div(decimal.NewFromInt(2)).Round(2)

	for _, costType := range []models.CostType{models.CostTypeFixed, models.CostTypeVariable} {
		row, ok := findCostType(existing, costType)
		switch {
		case !ok:
			if _, err := s.store.InsertBudget(ctx, models.BudgetEntry{
				UserID:       userID,
				CategoryName: category,
				CostType:     costType,
				Value:        half,
			}); err != nil {
				return err
			}
			result.Created++
			logger.Debug("Created hybrid budget row", logging.Field{Key: logging.FieldCostType, Value: costType})
		case row.Value.IsZero():
			if err := s.store.UpdateBudgetValue(ctx, row.ID, half); err != nil {
				return err
			}
			result.Updated++
		default:
			result.Unchanged++
		}
	}
	return nil
}

func (s *Synchronizer) reconcileNormal(ctx context.Context, logger logging.Logger, userID, category string, avg decimal.Decimal, costType models.CostType, existing []models.BudgetEntry, result *Result) error {
	switch len(existing) {
	case 0:
		if _, err := s.store.InsertBudget(ctx, models.BudgetEntry{
			UserID:       userID,
			CategoryName: category,
			CostType:     costType,
			Value:        avg,
		}); err != nil {
			return err
		}
		result.Created++
		logger.Debug("Created budget row", logging.Field{Key: "value", Value: avg.String()})
	case 1:
		if !existing[0].Value.IsZero() {
			result.Unchanged++
			return nil
		}
		if err := s.store.UpdateBudgetValue(ctx, existing[0].ID, avg); err != nil {
			return err
		}
		result.Updated++
	default:
		sum := decimal.Zero
		for _, row := range existing {
			sum = sum.Add(row.Value)
		}
		if sum.IsZero() {
			sum = avg
		}
		if _, err := s.store.ReplaceCategoryBudgets(ctx, userID, category, models.BudgetEntry{
			UserID:       userID,
			CategoryName: category,
			CostType:     costType,
			Value:        sum,
		}); err != nil {
			return err
		}
		result.Consolidated++
		logger.Info("Consolidated duplicate budget rows",
			logging.Field{Key: logging.FieldCount, Value: len(existing)},
			logging.Field{Key: "value", Value: sum.String()})
	}
	return nil
}

func groupByCategory(entries []models.BudgetEntry) map[string][]models.BudgetEntry {
	out := make(map[string][]models.BudgetEntry)
	for _, e := range entries {
		out[e.CategoryName] = append(out[e.CategoryName], e)
	}
	return out
}

func costTypesByCategory(prefs []models.CategoryPreference) map[string]map[models.CostType]bool {
	out := make(map[string]map[models.CostType]bool)
	for _, p := range prefs {
		if out[p.Category] == nil {
			out[p.Category] = make(map[models.CostType]bool)
		}
		out[p.Category][p.CostType] = true
	}
	return out
}

// isHybrid reports whether preferences name both cost types for a category.
func isHybrid(kinds map[models.CostType]bool) bool {
	return kinds[models.CostTypeFixed] && kinds[models.CostTypeVariable]
}

// preferredCostType is fixed only when the preferences say so.
func preferredCostType(kinds map[models.CostType]bool) models.CostType {
	if kinds[models.CostTypeFixed] {
		return models.CostTypeFixed
	}
	return models.CostTypeVariable
}

func findCostType(entries []models.BudgetEntry, costType models.CostType) (models.BudgetEntry, bool) {
	for _, e := range entries {
		if e.CostType == costType {
			return e, true
		}
	}
	return models.BudgetEntry{}, false
}
