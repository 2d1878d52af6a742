// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is a persisted bank transaction. The pair (AccountID, ExternalID)
// is unique: a record is created once on first ingestion and never duplicated.
type TransactionRecord struct {
	ID                  string           `json:"id" yaml:"id"`
	ExternalID          string           `json:"external_id" yaml:"external_id"`
	AccountID           string           `json:"account_id" yaml:"account_id"`
	OccurredAt          time.Time        `json:"occurred_at" yaml:"occurred_at"`
	Amount              decimal.Decimal  `json:"amount" yaml:"amount"`
	Currency            string           `json:"currency" yaml:"currency"`
	Description         string           `json:"description" yaml:"description"`
	Counterparty        string           `json:"counterparty" yaml:"counterparty"`
	Category            string           `json:"category" yaml:"category"`
	Subcategory         string           `json:"subcategory" yaml:"subcategory"`
	Confidence          int              `json:"confidence" yaml:"confidence"`
	RunningBalanceAfter *decimal.Decimal `json:"running_balance_after,omitempty" yaml:"running_balance_after,omitempty"`
	ManualOverride      bool             `json:"manual_override" yaml:"manual_override"`
}

// Type derives the debit/credit type from the amount sign.
func (t TransactionRecord) Type() string {
	return TypeForAmount(t.Amount)
}

// IsOutflow returns true for money leaving the account.
func (t TransactionRecord) IsOutflow() bool {
	return t.Amount.IsNegative()
}

// IsCategorized returns true if the transaction has been categorized (not "Uncategorized")
func (t TransactionRecord) IsCategorized() bool {
	return t.Category != "" && t.Category != CategoryUncategorized
}

// ApplyClassification copies the classifier output onto the record.
func (t *TransactionRecord) ApplyClassification(result ClassificationResult) {
	t.Category = result.Category
	t.Subcategory = result.Subcategory
	t.Confidence = result.Confidence
}

// TypeForAmount returns "debit" for negative amounts and "credit" otherwise.
func TypeForAmount(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return TransactionTypeDebit
	}
	return TransactionTypeCredit
}

// RemoteTransaction is a transaction as returned by a bank data provider.
type RemoteTransaction struct {
	ExternalID       string
	BookingDate      time.Time
	Amount           decimal.Decimal
	Currency         string
	CounterpartyName string
	Description      string
	BalanceAfter     *decimal.Decimal
}

// RemoteAccount is an account as listed by a bank data provider.
type RemoteAccount struct {
	ExternalAccountID string
	IBAN              string
	Name              string
	Currency          string
	Balance           decimal.Decimal
}
