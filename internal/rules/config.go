package rules

import (
	"fmt"
	"regexp"

	"fjacquet/finance-sync/internal/models"
)

// FromConfig compiles rule definitions loaded from YAML.
func FromConfig(cfgs []models.RuleConfig) ([]Rule, error) {
	out := make([]Rule, 0, len(cfgs))
	for i, cfg := range cfgs {
		patterns := make([]*regexp.Regexp, 0, len(cfg.Patterns))
		for _, p := range cfg.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("rule %d (%s/%s): invalid pattern %q: %w", i, cfg.Category, cfg.Subcategory, p, err)
			}
			patterns = append(patterns, re)
		}
		out = append(out, Rule{
			Category:         cfg.Category,
			Subcategory:      cfg.Subcategory,
			Keywords:         cfg.Keywords,
			Brands:           cfg.Brands,
			Patterns:         patterns,
			Priority:         cfg.Priority,
			Icon:             cfg.Icon,
			Color:            cfg.Color,
			RequiresCompound: cfg.RequiresCompound,
		})
	}
	return out, nil
}
