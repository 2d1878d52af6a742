package rules

import (
	"errors"
	"fmt"
	"regexp"
	"sort"

	"fjacquet/finance-sync/internal/models"
)

// Catalog is an ordered, read-only set of rules.
// It is built once and never mutated, so it is safe to share across goroutines.
type Catalog struct {
	rules    []Rule // evaluation order
	declared []Rule // order the rules were given in
}

// New validates the rules and returns them as a catalog ordered by
// priority descending, then category and subcategory ascending.
func New(rs []Rule) (*Catalog, error) {
	prepared := make([]Rule, 0, len(rs))
	for i, r := range rs {
		if err := validate(r); err != nil {
			return nil, fmt.Errorf("rule %d (%s/%s): %w", i, r.Category, r.Subcategory, err)
		}
		r.Keywords = append([]string(nil), r.Keywords...)
		r.Brands = append([]string(nil), r.Brands...)
		r.Patterns = append([]*regexp.Regexp(nil), r.Patterns...)
		r.prepare()
		prepared = append(prepared, r)
	}
	declared := append([]Rule(nil), prepared...)

	sort.SliceStable(prepared, func(i, j int) bool {
		a, b := prepared[i], prepared[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Subcategory < b.Subcategory
	})

	return &Catalog{rules: prepared, declared: declared}, nil
}

// MustNew is like New but panics on invalid rules.
func MustNew(rs []Rule) *Catalog {
	c, err := New(rs)
	if err != nil {
		panic(err)
	}
	return c
}

// With returns a new catalog holding the receiver's rules plus extra, declared
// after them. The receiver is left untouched.
func (c *Catalog) With(extra ...Rule) (*Catalog, error) {
	all := make([]Rule, 0, len(c.declared)+len(extra))
	all = append(all, c.declared...)
	all = append(all, extra...)
	return New(all)
}

// Sorted returns the rules in evaluation order.
func (c *Catalog) Sorted() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}

// Len returns the number of rules.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// Categories returns one entry per primary category, alphabetically. The first
// rule declared for a category supplies its subcategory, icon and color.
func (c *Catalog) Categories() []models.CategoryInfo {
	seen := make(map[string]bool)
	var out []models.CategoryInfo
	for _, r := range c.declared {
		if seen[r.Category] {
			continue
		}
		seen[r.Category] = true
		out = append(out, models.CategoryInfo{
			Category:    r.Category,
			Subcategory: r.Subcategory,
			Icon:        r.Icon,
			Color:       r.Color,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func validate(r Rule) error {
	if r.Category == "" || r.Subcategory == "" {
		return errors.New("category and subcategory are required")
	}
	if len(r.Keywords) == 0 && len(r.Brands) == 0 && len(r.Patterns) == 0 {
		return errors.New("at least one keyword, brand or pattern is required")
	}
	if r.RequiresCompound && (len(r.Keywords) == 0 || len(r.Brands) == 0) {
		return errors.New("compound rules need both brands and keywords")
	}
	if r.Priority < 0 {
		return errors.New("priority must not be negative")
	}
	return nil
}
