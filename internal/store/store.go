// Package store persists accounts, transactions, budgets and category
// preferences.
package store

import (
	"context"
	"time"

	"fjacquet/finance-sync/internal/models"

	"github.com/shopspring/decimal"
)

// AccountRepository reads and writes local accounts.
type AccountRepository interface {
	// GetAccount returns syncerror.ErrAccountNotFound for unknown ids.
	GetAccount(ctx context.Context, id string) (models.Account, error)
	ListAccounts(ctx context.Context, userID string) ([]models.Account, error)
	// UpsertAccount matches on (user, external account id) when the id is empty.
	UpsertAccount(ctx context.Context, account models.Account) (models.Account, error)
	UpdateLastSync(ctx context.Context, accountID string, at time.Time) error
}

// TransactionRepository reads and writes transaction records.
type TransactionRepository interface {
	// ExistingExternalIDs returns the subset of ids already stored for the account.
	ExistingExternalIDs(ctx context.Context, accountID string, ids []string) (map[string]struct{}, error)
	// InsertTransactions writes one batch atomically and returns the number of
	// rows inserted. Rows whose (account, external id) already exists are skipped.
	InsertTransactions(ctx context.Context, batch []models.TransactionRecord) (int, error)
	ListTransactions(ctx context.Context, accountID string) ([]models.TransactionRecord, error)
	// ListOutflowsSince returns the user's negative-amount transactions on or after since.
	ListOutflowsSince(ctx context.Context, userID string, since time.Time) ([]models.TransactionRecord, error)
	UpdateClassification(ctx context.Context, id string, result models.ClassificationResult, manual bool) error
}

// BudgetRepository reads and writes budget entries and category preferences.
type BudgetRepository interface {
	ListBudgets(ctx context.Context, userID string) ([]models.BudgetEntry, error)
	InsertBudget(ctx context.Context, entry models.BudgetEntry) (models.BudgetEntry, error)
	UpdateBudgetValue(ctx context.Context, id string, value decimal.Decimal) error
	// ReplaceCategoryBudgets deletes every row of the category and inserts entry
	// in a single transaction.
	ReplaceCategoryBudgets(ctx context.Context, userID, category string, entry models.BudgetEntry) (models.BudgetEntry, error)
	ListPreferences(ctx context.Context, userID string) ([]models.CategoryPreference, error)
	UpsertPreference(ctx context.Context, pref models.CategoryPreference) error
}

// Store is the full persistence surface.
type Store interface {
	AccountRepository
	TransactionRepository
	BudgetRepository
	Close() error
}
