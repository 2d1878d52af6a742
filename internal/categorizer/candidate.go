package categorizer

import (
	"fmt"

	"fjacquet/finance-sync/internal/rules"
)

// candidate is the score one rule earned against one text.
type candidate struct {
	rule     rules.Rule
	score    int
	strategy string
	evidence string
}

func (c candidate) explanation() string {
	return fmt.Sprintf("%s: %s", c.strategy, c.evidence)
}

// scoreRule evaluates a single rule. A zero score means the rule is discarded.
func scoreRule(rule rules.Rule, text string, strategies []MatchStrategy) candidate {
	if rule.RequiresCompound {
		return scoreCompound(rule, text)
	}

	for _, s := range strategies {
		if evidence, found := s.Match(rule, text); found {
			return candidate{
				rule:     rule,
				score:    s.BaseScore() + rule.Priority,
				strategy: s.Name(),
				evidence: evidence,
			}
		}
	}
	return candidate{rule: rule}
}

// scoreCompound requires both a brand and a keyword; either one alone is
// discarded no matter how well it would have scored.
func scoreCompound(rule rules.Rule, text string) candidate {
	brand, hasBrand := rule.MatchBrand(text)
	keyword, hasKeyword := rule.MatchKeyword(text)
	if !hasBrand || !hasKeyword {
		return candidate{rule: rule}
	}
	return candidate{
		rule:     rule,
		score:    compoundBaseScore + rule.Priority,
		strategy: "brand+keyword",
		evidence: brand + " + " + keyword,
	}
}
