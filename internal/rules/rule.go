// Package rules holds the immutable catalog of classification rules.
package rules

import (
	"regexp"
	"strings"

	"fjacquet/finance-sync/internal/textutils"
)

// Rule maps textual signals to a category pair.
// Keywords and brands are matched as substrings of the normalized transaction
// text; patterns run against that same normalized text.
type Rule struct {
	ID               string
	Category         string
	Subcategory      string
	Keywords         []string
	Brands           []string
	Patterns         []*regexp.Regexp
	Priority         int
	Icon             string
	Color            string
	RequiresCompound bool

	keywords []string
	brands   []string
}

// MatchBrand returns the first brand contained in text.
func (r Rule) MatchBrand(text string) (string, bool) {
	return firstContained(text, r.brands)
}

// MatchKeyword returns the first keyword contained in text.
func (r Rule) MatchKeyword(text string) (string, bool) {
	return firstContained(text, r.keywords)
}

// MatchPattern returns the source of the first pattern matching text.
func (r Rule) MatchPattern(text string) (string, bool) {
	for _, p := range r.Patterns {
		if p.MatchString(text) {
			return p.String(), true
		}
	}
	return "", false
}

func (r *Rule) prepare() {
	r.keywords = textutils.NormalizeAll(r.Keywords)
	r.brands = textutils.NormalizeAll(r.Brands)
	if r.ID == "" {
		r.ID = strings.ReplaceAll(textutils.Normalize(r.Category+" "+r.Subcategory), " ", "-")
	}
}

func firstContained(text string, needles []string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, n := range needles {
		if strings.Contains(text, n) {
			return n, true
		}
	}
	return "", false
}
