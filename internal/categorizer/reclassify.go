package categorizer

import (
	"fjacquet/finance-sync/internal/models"

	"github.com/shopspring/decimal"
)

// signRule re-labels an accepted result whose category contradicts the sign of
// the amount.
type signRule struct {
	applies       func(r models.ClassificationResult, amount decimal.Decimal) bool
	category      string
	subcategory   string
	reason        string
	fallbackIcon  string
	fallbackColor string
}

var signRules = []signRule{
	{
		applies: func(r models.ClassificationResult, amount decimal.Decimal) bool {
			return r.Category == models.CategoryInvestments && amount.IsPositive()
		},
		category:      models.CategoryIncome,
		subcategory:   models.SubcategoryInvestmentReturns,
		reason:        "positive amount on an investment means money coming back",
		fallbackIcon:  "trending-up",
		fallbackColor: "#2E7D32",
	},
	{
		applies: func(r models.ClassificationResult, amount decimal.Decimal) bool {
			return r.Category == models.CategoryIncome && r.Subcategory == models.SubcategorySalary && amount.IsNegative()
		},
		category:      models.CategoryBills,
		subcategory:   models.SubcategoryPayrollDeductions,
		reason:        "negative amount on salary is a deduction, not pay",
		fallbackIcon:  "file-minus",
		fallbackColor: "#90A4AE",
	},
	{
		applies: func(r models.ClassificationResult, amount decimal.Decimal) bool {
			return r.Category == models.CategoryIncome && amount.IsNegative()
		},
		category:      models.CategoryInvestments,
		subcategory:   models.SubcategoryInvestmentContrib,
		reason:        "negative amount on income means money going into an investment",
		fallbackIcon:  "piggy-bank",
		fallbackColor: "#00796B",
	},
}

// applySignRules runs the first matching sign rule, if any.
func (c *Classifier) applySignRules(result models.ClassificationResult, amount decimal.Decimal) models.ClassificationResult {
	for _, sr := range signRules {
		if !sr.applies(result, amount) {
			continue
		}
		st, ok := c.styles[sr.category+"/"+sr.subcategory]
		if !ok {
			st = style{icon: sr.fallbackIcon, color: sr.fallbackColor}
		}
		result.Category = sr.category
		result.Subcategory = sr.subcategory
		result.Icon = st.icon
		result.Color = st.color
		result.MatchedBy += "; re-classified: " + sr.reason
		return result
	}
	return result
}
