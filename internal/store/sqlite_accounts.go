package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"fjacquet/finance-sync/internal/models"
	"fjacquet/finance-sync/internal/syncerror"

	"github.com/google/uuid"
)

const accountColumns = "id, user_id, name, external_account_id, iban, currency, balance, last_sync_at"

func scanAccount(row interface{ Scan(...interface{}) error }) (models.Account, error) {
	var a models.Account
	var lastSync sql.NullTime
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.ExternalAccountID, &a.IBAN, &a.Currency, &a.Balance, &lastSync); err != nil {
		return models.Account{}, err
	}
	if lastSync.Valid {
		t := lastSync.Time.UTC()
		a.LastSyncAt = &t
	}
	return a, nil
}

func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (models.Account, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Account{}, fmt.Errorf("%w: %s", syncerror.ErrAccountNotFound, id)
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to load account %s: %w", id, err)
	}
	return a, nil
}

func (s *SQLiteStore) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE user_id = ? ORDER BY name, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) UpsertAccount(ctx context.Context, account models.Account) (models.Account, error) {
	if account.ID == "" && account.ExternalAccountID != "" {
		var existing string
		err := s.db.QueryRowContext(ctx,
			`SELECT id FROM accounts WHERE user_id = ? AND external_account_id = ?`,
			account.UserID, account.ExternalAccountID).Scan(&existing)
		switch {
		case err == nil:
			account.ID = existing
		case !errors.Is(err, sql.ErrNoRows):
			return models.Account{}, fmt.Errorf("failed to look up account: %w", err)
		}
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO accounts(id, user_id, name, external_account_id, iban, currency, balance, last_sync_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		external_account_id = excluded.external_account_id,
		iban = excluded.iban,
		currency = excluded.currency,
		balance = excluded.balance,
		updated_at = CURRENT_TIMESTAMP`,
		account.ID, account.UserID, account.Name, account.ExternalAccountID, account.IBAN,
		account.Currency, account.Balance, nullTime(account.LastSyncAt))
	if err != nil {
		return models.Account{}, fmt.Errorf("failed to upsert account: %w", err)
	}
	return s.GetAccount(ctx, account.ID)
}

func (s *SQLiteStore) UpdateLastSync(ctx context.Context, accountID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE accounts SET last_sync_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		at.UTC(), accountID)
	if err != nil {
		return fmt.Errorf("failed to update last sync: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", syncerror.ErrAccountNotFound, accountID)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
