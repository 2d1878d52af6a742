// Package budget keeps a user's monthly budget entries representative of
// recent spending without overwriting values the user has set.
package budget

import (
	"sort"
	"time"

	"fjacquet/finance-sync/internal/dateutils"
	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"

	"github.com/shopspring/decimal"
)

// CategorySpend is the outflow history of one category.
type CategorySpend struct {
	Category string
	Total    decimal.Decimal            // absolute spend over the window
	Months   map[string]decimal.Decimal // absolute spend per YYYY-MM
}

// MonthlyAverage returns Total divided by the number of distinct months
// observed, with a divisor of at least one. The result is rounded to cents.
func (c CategorySpend) MonthlyAverage() decimal.Decimal {
	months := len(c.Months)
	if months < 1 {
		months = 1
	}
	return c.Total.Div(decimal.NewFromInt(int64(months))).Round(2)
}

// Aggregator groups outflows by category and month.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(logger logging.Logger) *Aggregator {
	return &Aggregator{logger: logging.OrDefault(logger)}
}

// Aggregate sums the outflows of transactions per category. Inflows and
// uncategorized rows are ignored. The result is sorted by category name.
func (a *Aggregator) Aggregate(transactions []models.TransactionRecord) []CategorySpend {
	byCategory := make(map[string]*CategorySpend)
	skipped := 0

	for _, tx := range transactions {
		if !tx.IsOutflow() || !tx.IsCategorized() {
			skipped++
			continue
		}

		spend, ok := byCategory[tx.Category]
		if !ok {
			spend = &CategorySpend{Category: tx.Category, Months: make(map[string]decimal.Decimal)}
			byCategory[tx.Category] = spend
		}
		amount := tx.Amount.Abs()
		month := dateutils.MonthKey(tx.OccurredAt)
		spend.Total = spend.Total.Add(amount)
		spend.Months[month] = spend.Months[month].Add(amount)
	}

	out := make([]CategorySpend, 0, len(byCategory))
	for _, spend := range byCategory {
		out = append(out, *spend)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Category < out[j].Category
	})

	a.logger.Debug("Aggregated outflows by category",
		logging.Field{Key: logging.FieldCount, Value: len(transactions)},
		logging.Field{Key: "categories", Value: len(out)},
		logging.Field{Key: "skipped", Value: skipped})
	return out
}

// windowStart returns the first instant of the trailing window of months
// ending at now.
func windowStart(now time.Time, months int) time.Time {
	return now.UTC().AddDate(0, -months, 0)
}
