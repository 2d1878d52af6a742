package models

import (
	"fjacquet/finance-sync/internal/logging"
)

// SyncStats tracks what happened during one account sync.
type SyncStats struct {
	Fetched       int // Transactions returned by the provider
	Duplicates    int // Transactions already persisted
	Classified    int // New transactions sent through the classifier
	Uncategorized int // New transactions left uncategorized
	Inserted      int // Transactions actually persisted
	FailedBatches int // Batches whose insert failed and were skipped
}

// LogSummary logs a summary of the sync statistics
func (s SyncStats) LogSummary(logger logging.Logger, accountID string) {
	if logger == nil {
		return
	}

	logger.Info("Sync summary",
		logging.Field{Key: logging.FieldAccountID, Value: accountID},
		logging.Field{Key: "fetched", Value: s.Fetched},
		logging.Field{Key: "duplicates", Value: s.Duplicates},
		logging.Field{Key: "classified", Value: s.Classified},
		logging.Field{Key: "uncategorized", Value: s.Uncategorized},
		logging.Field{Key: "inserted", Value: s.Inserted},
		logging.Field{Key: "failed_batches", Value: s.FailedBatches},
		logging.Field{Key: "categorized_rate", Value: s.CategorizedRate()},
	)
}

// CategorizedRate returns the share of classified transactions that were accepted, in percent.
func (s SyncStats) CategorizedRate() float64 {
	if s.Classified == 0 {
		return 0.0
	}
	return float64(s.Classified-s.Uncategorized) / float64(s.Classified) * 100.0
}

// IsPartial reports whether some batches failed.
func (s SyncStats) IsPartial() bool {
	return s.FailedBatches > 0
}
