package categorizer

import (
	"fjacquet/finance-sync/internal/rules"
)

// Base scores per signal kind; the rule priority is added on top.
const (
	brandBaseScore    = 90
	patternBaseScore  = 95
	keywordBaseScore  = 70
	compoundBaseScore = 95
)

// MatchStrategy scores one kind of textual signal for a single rule.
type MatchStrategy interface {
	// Match reports whether the signal is present in the normalized text and,
	// if so, what evidence was found.
	Match(rule rules.Rule, text string) (evidence string, found bool)

	// BaseScore is the score a match earns before the rule priority is added.
	BaseScore() int

	// Name returns the name of this strategy for explanations and logging.
	Name() string
}

// BrandStrategy matches normalized brand names as substrings.
type BrandStrategy struct{}

// Match returns the first brand of rule found in text.
func (BrandStrategy) Match(rule rules.Rule, text string) (string, bool) {
	return rule.MatchBrand(text)
}

// BaseScore returns the score of a brand match before priority.
func (BrandStrategy) BaseScore() int { return brandBaseScore }

// Name returns "brand".
func (BrandStrategy) Name() string { return "brand" }

// PatternStrategy runs the rule's regular expressions.
type PatternStrategy struct{}

// Match returns the source of the first pattern of rule matching text.
func (PatternStrategy) Match(rule rules.Rule, text string) (string, bool) {
	return rule.MatchPattern(text)
}

// BaseScore returns the score of a pattern match before priority.
func (PatternStrategy) BaseScore() int { return patternBaseScore }

// Name returns "pattern".
func (PatternStrategy) Name() string { return "pattern" }

// KeywordStrategy matches normalized keywords as substrings.
type KeywordStrategy struct{}

// Match returns the first keyword of rule found in text.
func (KeywordStrategy) Match(rule rules.Rule, text string) (string, bool) {
	return rule.MatchKeyword(text)
}

// BaseScore returns the score of a keyword match before priority.
func (KeywordStrategy) BaseScore() int { return keywordBaseScore }

// Name returns "keyword".
func (KeywordStrategy) Name() string { return "keyword" }

// defaultStrategies is the evaluation order: the first strategy that matches
// decides a rule's score.
func defaultStrategies() []MatchStrategy {
	return []MatchStrategy{BrandStrategy{}, PatternStrategy{}, KeywordStrategy{}}
}
