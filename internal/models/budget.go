package models

import (
	"github.com/shopspring/decimal"
)

// CostType splits a category budget into fixed and variable parts.
type CostType string

const (
	CostTypeFixed    CostType = "fixed"
	CostTypeVariable CostType = "variable"
)

// CategoryKind tells whether a category is budgeted as one row or as a fixed/variable pair.
type CategoryKind string

const (
	CategoryKindNormal CategoryKind = "normal"
	CategoryKindHybrid CategoryKind = "hybrid"
)

// BudgetEntry is a monthly spending target. A category is represented either by
// one row (normal) or by exactly two rows, one per cost type (hybrid).
type BudgetEntry struct {
	ID           string          `json:"id" yaml:"id"`
	UserID       string          `json:"user_id" yaml:"user_id"`
	CategoryName string          `json:"category_name" yaml:"category_name"`
	CostType     CostType        `json:"cost_type" yaml:"cost_type"`
	Value        decimal.Decimal `json:"budget_value" yaml:"budget_value"`
}

// CategoryPreference records how a user wants a category budgeted.
type CategoryPreference struct {
	UserID       string       `json:"user_id" yaml:"user_id"`
	Category     string       `json:"category" yaml:"category"`
	Subcategory  string       `json:"subcategory" yaml:"subcategory"`
	CostType     CostType     `json:"cost_type" yaml:"cost_type"`
	CategoryKind CategoryKind `json:"category_kind" yaml:"category_kind"`
}
