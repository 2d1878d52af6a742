package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a local bank account, optionally linked to a provider-side account.
type Account struct {
	ID                string          `json:"id" yaml:"id"`
	UserID            string          `json:"user_id" yaml:"user_id"`
	Name              string          `json:"name" yaml:"name"`
	ExternalAccountID string          `json:"external_account_id" yaml:"external_account_id"`
	IBAN              string          `json:"iban" yaml:"iban"`
	Currency          string          `json:"currency" yaml:"currency"`
	Balance           decimal.Decimal `json:"balance" yaml:"balance"`
	LastSyncAt        *time.Time      `json:"last_sync_at,omitempty" yaml:"last_sync_at,omitempty"`
}

// IsLinked returns true when the account has a provider-side identifier.
func (a Account) IsLinked() bool {
	return a.ExternalAccountID != ""
}

// SyncWindow is the lookback window derived for one sync invocation.
type SyncWindow struct {
	AccountID    string
	LookbackDays int
	IsFullSync   bool
}
