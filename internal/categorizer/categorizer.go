// Package categorizer classifies transactions against the rule catalog.
//
// Classification is a pure function of the text, the optional amount and the
// catalog: it performs no I/O and never fails. Anything that does not clear the
// confidence threshold degrades to the "Uncategorized" result.
package categorizer

import (
	"fmt"

	"fjacquet/finance-sync/internal/models"
	"fjacquet/finance-sync/internal/rules"
	"fjacquet/finance-sync/internal/textutils"

	"github.com/shopspring/decimal"
)

// Classifier scores transactions against an immutable rule catalog.
// It is safe for concurrent use.
type Classifier struct {
	catalog    *rules.Catalog
	rules      []rules.Rule
	threshold  int
	strategies []MatchStrategy
	styles     map[string]style
}

type style struct {
	icon  string
	color string
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithThreshold overrides the acceptance threshold.
func WithThreshold(threshold int) Option {
	return func(c *Classifier) {
		if threshold > 0 {
			c.threshold = threshold
		}
	}
}

// NewClassifier creates a classifier over catalog. A nil catalog uses the
// built-in rules.
func NewClassifier(catalog *rules.Catalog, opts ...Option) *Classifier {
	if catalog == nil {
		catalog = rules.Default()
	}

	c := &Classifier{
		catalog:    catalog,
		rules:      catalog.Sorted(),
		threshold:  models.DefaultConfidenceCutoff,
		strategies: defaultStrategies(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.styles = buildStyles(catalog)
	return c
}

// WithRules returns a new classifier whose catalog also holds extra.
// The receiver keeps its original catalog.
func (c *Classifier) WithRules(extra ...rules.Rule) (*Classifier, error) {
	catalog, err := c.catalog.With(extra...)
	if err != nil {
		return nil, err
	}
	return NewClassifier(catalog, WithThreshold(c.threshold)), nil
}

// Threshold returns the minimum score for a match to be accepted.
func (c *Classifier) Threshold() int {
	return c.threshold
}

// Catalog returns the rules this classifier evaluates.
func (c *Classifier) Catalog() *rules.Catalog {
	return c.catalog
}

// Classify scores description and merchant against every rule and returns the
// best accepted match. When amount is non-nil the sign re-classification pass
// runs on the accepted result.
func (c *Classifier) Classify(description, merchant string, amount *decimal.Decimal) models.ClassificationResult {
	text := textutils.StripCardPrefix(textutils.Normalize(description + " " + merchant))
	if text == "" {
		return uncategorized(0, "no text to classify")
	}

	best, found := c.best(text)
	if !found {
		return uncategorized(0, "no rule matched")
	}
	if best.score < c.threshold {
		return uncategorized(clamp(best.score), fmt.Sprintf(
			"best match %s/%s (%s) scored %d, below threshold %d",
			best.rule.Category, best.rule.Subcategory, best.explanation(), best.score, c.threshold))
	}

	result := models.ClassificationResult{
		Category:    best.rule.Category,
		Subcategory: best.rule.Subcategory,
		Icon:        best.rule.Icon,
		Color:       best.rule.Color,
		Confidence:  clamp(best.score),
		MatchedBy:   best.explanation(),
	}

	if amount != nil {
		result = c.applySignRules(result, *amount)
	}
	return result
}

// ListCategories returns one entry per primary category, alphabetically.
func (c *Classifier) ListCategories() []models.CategoryInfo {
	return c.catalog.Categories()
}

// best returns the global maximum. Rules are visited in catalog order and only
// a strictly higher score replaces the current best, so ties go to the higher
// priority rule, then to the alphabetically first category pair.
func (c *Classifier) best(text string) (candidate, bool) {
	var best candidate
	found := false
	for _, rule := range c.rules {
		cand := scoreRule(rule, text, c.strategies)
		if cand.score <= 0 {
			continue
		}
		if !found || cand.score > best.score {
			best = cand
			found = true
		}
	}
	return best, found
}

func uncategorized(confidence int, reason string) models.ClassificationResult {
	return models.ClassificationResult{
		Category:    models.CategoryUncategorized,
		Subcategory: models.SubcategoryManualReview,
		Icon:        models.IconUncategorized,
		Color:       models.ColorUncategorized,
		Confidence:  confidence,
		MatchedBy:   reason,
	}
}

func clamp(score int) int {
	switch {
	case score < 0:
		return 0
	case score > models.MaxConfidence:
		return models.MaxConfidence
	default:
		return score
	}
}

func buildStyles(catalog *rules.Catalog) map[string]style {
	styles := make(map[string]style)
	for _, r := range catalog.Sorted() {
		for _, key := range []string{r.Category + "/" + r.Subcategory, r.Category} {
			if _, ok := styles[key]; !ok {
				styles[key] = style{icon: r.Icon, color: r.Color}
			}
		}
	}
	return styles
}
