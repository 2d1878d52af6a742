package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"fjacquet/finance-sync/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const transactionColumns = `t.id, t.external_id, t.account_id, t.occurred_at, t.amount, t.currency,
	t.description, t.counterparty, t.category, t.subcategory, t.confidence,
	t.running_balance_after, t.manual_override`

func scanTransaction(row interface{ Scan(...interface{}) error }) (models.TransactionRecord, error) {
	var t models.TransactionRecord
	var balance decimal.NullDecimal
	if err := row.Scan(&t.ID, &t.ExternalID, &t.AccountID, &t.OccurredAt, &t.Amount, &t.Currency,
		&t.Description, &t.Counterparty, &t.Category, &t.Subcategory, &t.Confidence,
		&balance, &t.ManualOverride); err != nil {
		return models.TransactionRecord{}, err
	}
	t.OccurredAt = t.OccurredAt.UTC()
	if balance.Valid {
		b := balance.Decimal
		t.RunningBalanceAfter = &b
	}
	return t, nil
}

// existingIDsQuery binds the candidate ids as a single JSON array so the
// existence check is one statement whatever the number of ids.
const existingIDsQuery = `SELECT external_id FROM transactions
	WHERE account_id = ? AND external_id IN (SELECT value FROM json_each(?))`

// ExistingExternalIDs checks every id with a single query.
func (s *SQLiteStore) ExistingExternalIDs(ctx context.Context, accountID string, ids []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(ids) == 0 {
		return existing, nil
	}

	payload, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode external ids: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, existingIDsQuery, accountID, string(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to query existing transactions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		existing[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *SQLiteStore) InsertTransactions(ctx context.Context, batch []models.TransactionRecord) (int, error) {
	inserted := 0
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions(
			id, account_id, external_id, occurred_at, amount, currency, description, counterparty,
			type, category, subcategory, confidence, running_balance_after, manual_override)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id, external_id) DO NOTHING`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, t := range batch {
			if t.ID == "" {
				t.ID = uuid.NewString()
			}
			res, err := stmt.ExecContext(ctx,
				t.ID, t.AccountID, t.ExternalID, t.OccurredAt.UTC(), t.Amount, t.Currency, t.Description,
				t.Counterparty, t.Type(), t.Category, t.Subcategory, t.Confidence,
				nullDecimal(t.RunningBalanceAfter), t.ManualOverride)
			if err != nil {
				return fmt.Errorf("insert %s: %w", t.ExternalID, err)
			}
			if n, _ := res.RowsAffected(); n > 0 {
				inserted++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func (s *SQLiteStore) ListTransactions(ctx context.Context, accountID string) ([]models.TransactionRecord, error) {
	return s.queryTransactions(ctx,
		`SELECT `+transactionColumns+` FROM transactions t WHERE t.account_id = ? ORDER BY t.occurred_at, t.external_id`,
		accountID)
}

func (s *SQLiteStore) ListOutflowsSince(ctx context.Context, userID string, since time.Time) ([]models.TransactionRecord, error) {
	return s.queryTransactions(ctx, `
	SELECT `+transactionColumns+`
	FROM transactions t
	JOIN accounts a ON a.id = t.account_id
	WHERE a.user_id = ? AND t.type = 'debit' AND t.occurred_at >= ?
	ORDER BY t.occurred_at`, userID, since.UTC())
}

func (s *SQLiteStore) UpdateClassification(ctx context.Context, id string, result models.ClassificationResult, manual bool) error {
	_, err := s.db.ExecContext(ctx, `
	UPDATE transactions
	SET category = ?, subcategory = ?, confidence = ?, manual_override = ?, updated_at = CURRENT_TIMESTAMP
	WHERE id = ?`, result.Category, result.Subcategory, result.Confidence, manual, id)
	if err != nil {
		return fmt.Errorf("failed to update classification of %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]models.TransactionRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var out []models.TransactionRecord
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}
