// Package provider implements the bank data provider clients the sync
// orchestrator fetches accounts and transactions from.
package provider

import (
	"context"
	"fmt"
	"time"

	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"
)

// Kind identifies a provider family.
type Kind string

const (
	KindPluggy     Kind = "pluggy"
	KindGoCardless Kind = "gocardless"
)

// Provider fetches remote data for one provider family. Calls must be safe to
// repeat with overlapping windows.
type Provider interface {
	// Kind returns the provider family.
	Kind() Kind

	// GetAccounts lists the accounts reachable with credential.
	GetAccounts(ctx context.Context, credential string) ([]models.RemoteAccount, error)

	// GetTransactions returns the booked transactions of one account over the
	// last lookbackDays days.
	GetTransactions(ctx context.Context, credential, externalAccountID string, lookbackDays int) ([]models.RemoteTransaction, error)
}

// Config holds the connection settings shared by all provider clients.
type Config struct {
	Kind         Kind
	BaseURL      string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration // Default: 30 seconds
}

// ParseKind converts a configuration string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindPluggy, KindGoCardless:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown provider kind %q", s)
	}
}

// New creates the client for cfg.Kind.
func New(cfg Config, logger logging.Logger) (Provider, error) {
	logger = logging.OrDefault(logger)
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("provider %s: base url is required", cfg.Kind)
	}

	switch cfg.Kind {
	case KindPluggy:
		return NewPluggyClient(cfg, logger), nil
	case KindGoCardless:
		return NewGoCardlessClient(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider kind %q", cfg.Kind)
	}
}

// windowStart returns the first day of a lookback window ending at now.
func windowStart(now time.Time, lookbackDays int) time.Time {
	return now.AddDate(0, 0, -lookbackDays)
}

const dateLayout = "2006-01-02"
