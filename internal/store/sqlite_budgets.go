package store

import (
	"context"
	"database/sql"
	"fmt"

	"fjacquet/finance-sync/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string) ([]models.BudgetEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT id, user_id, category_name, cost_type, value
	FROM budgets WHERE user_id = ?
	ORDER BY category_name, cost_type, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var out []models.BudgetEntry
	for rows.Next() {
		var b models.BudgetEntry
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryName, &b.CostType, &b.Value); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) InsertBudget(ctx context.Context, entry models.BudgetEntry) (models.BudgetEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets(id, user_id, category_name, cost_type, value) VALUES(?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.CategoryName, string(entry.CostType), entry.Value)
	if err != nil {
		return models.BudgetEntry{}, fmt.Errorf("failed to insert budget: %w", err)
	}
	return entry, nil
}

func (s *SQLiteStore) UpdateBudgetValue(ctx context.Context, id string, value decimal.Decimal) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET value = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, value, id)
	if err != nil {
		return fmt.Errorf("failed to update budget %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) ReplaceCategoryBudgets(ctx context.Context, userID, category string, entry models.BudgetEntry) (models.BudgetEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM budgets WHERE user_id = ? AND category_name = ?`, userID, category); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO budgets(id, user_id, category_name, cost_type, value) VALUES(?, ?, ?, ?, ?)`,
			entry.ID, entry.UserID, entry.CategoryName, string(entry.CostType), entry.Value)
		return err
	})
	if err != nil {
		return models.BudgetEntry{}, fmt.Errorf("failed to consolidate budgets for %s: %w", category, err)
	}
	return entry, nil
}

func (s *SQLiteStore) ListPreferences(ctx context.Context, userID string) ([]models.CategoryPreference, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT user_id, category, subcategory, cost_type, category_kind
	FROM category_preferences WHERE user_id = ?
	ORDER BY category, subcategory, cost_type`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	defer rows.Close()

	var out []models.CategoryPreference
	for rows.Next() {
		var p models.CategoryPreference
		if err := rows.Scan(&p.UserID, &p.Category, &p.Subcategory, &p.CostType, &p.CategoryKind); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpsertPreference(ctx context.Context, pref models.CategoryPreference) error {
	if pref.CategoryKind == "" {
		pref.CategoryKind = models.CategoryKindNormal
	}
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO category_preferences(user_id, category, subcategory, cost_type, category_kind)
	VALUES(?, ?, ?, ?, ?)
	ON CONFLICT(user_id, category, subcategory, cost_type) DO UPDATE SET category_kind = excluded.category_kind`,
		pref.UserID, pref.Category, pref.Subcategory, string(pref.CostType), string(pref.CategoryKind))
	if err != nil {
		return fmt.Errorf("failed to upsert preference: %w", err)
	}
	return nil
}
