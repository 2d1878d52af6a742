// Package syncer pulls transactions from a bank data provider, drops the ones
// already stored, classifies the rest and persists them in batches.
package syncer

import (
	"context"
	"errors"
	"time"

	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"
	"fjacquet/finance-sync/internal/provider"
	"fjacquet/finance-sync/internal/store"
	"fjacquet/finance-sync/internal/syncerror"

	"github.com/shopspring/decimal"
)

// DefaultBatchSize is the number of rows written per insert call.
const DefaultBatchSize = 1000

// Classifier assigns a category to a transaction.
type Classifier interface {
	Classify(description, merchant string, amount *decimal.Decimal) models.ClassificationResult
}

// Store is the persistence the orchestrator needs.
type Store interface {
	store.AccountRepository
	store.TransactionRepository
}

// BudgetSyncer reconciles budgets after an ingestion.
type BudgetSyncer interface {
	SyncBudgets(ctx context.Context, userID string) error
}

// Orchestrator runs account syncs. It is safe for concurrent use; syncs of
// the same account are serialized.
type Orchestrator struct {
	store          Store
	provider       provider.Provider
	classifier     Classifier
	budgets        BudgetSyncer
	locker         *AccountLocker
	logger         logging.Logger
	batchSize      int
	fullSyncDays   int
	maxConcurrency int
	now            func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithBatchSize sets the insert batch size.
func WithBatchSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithFullSyncDays sets the full-sync lookback and incremental cap.
func WithFullSyncDays(days int) Option {
	return func(o *Orchestrator) {
		if days > 0 {
			o.fullSyncDays = days
		}
	}
}

// WithMaxConcurrency bounds the accounts synced in parallel by SyncAll.
func WithMaxConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxConcurrency = n
		}
	}
}

// WithBudgetSyncer runs budget reconciliation after multi-account ingestions.
func WithBudgetSyncer(b BudgetSyncer) Option {
	return func(o *Orchestrator) { o.budgets = b }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithLocker shares an AccountLocker between orchestrators.
func WithLocker(l *AccountLocker) Option {
	return func(o *Orchestrator) { o.locker = l }
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(st Store, p provider.Provider, c Classifier, logger logging.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:          st,
		provider:       p,
		classifier:     c,
		locker:         NewAccountLocker(),
		logger:         logging.OrDefault(logger),
		batchSize:      DefaultBatchSize,
		fullSyncDays:   DefaultFullSyncDays,
		maxConcurrency: 4,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SyncTransactions fetches the account's recent transactions and persists the
// new ones. It returns the number of rows actually inserted; a failed batch is
// logged and skipped, so a nonzero count does not imply the whole window was
// stored. Provider failures abort the account and are returned as
// *syncerror.ProviderError. Unlinked accounts are a no-op.
func (o *Orchestrator) SyncTransactions(ctx context.Context, accountID, credential string, forceFullSync bool) (int, error) {
	unlock := o.locker.Lock(accountID)
	defer unlock()

	start := o.now()
	logger := o.logger.WithField(logging.FieldAccountID, accountID)

	account, err := o.store.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	if !account.IsLinked() {
		logger.Debug("Account has no provider link, nothing to sync")
		return 0, nil
	}

	window := ComputeWindow(account.LastSyncAt, forceFullSync, start, o.fullSyncDays)
	window.AccountID = accountID
	logger.WithFields(
		logging.Field{Key: logging.FieldLookbackDays, Value: window.LookbackDays},
		logging.Field{Key: logging.FieldFullSync, Value: window.IsFullSync},
	).Info("Starting account sync")

	remote, err := o.provider.GetTransactions(ctx, credential, account.ExternalAccountID, window.LookbackDays)
	if err != nil {
		return 0, o.providerError(err)
	}

	stats := models.SyncStats{Fetched: len(remote)}
	if len(remote) == 0 {
		logger.Info("Provider returned no transactions")
		return 0, nil
	}

	fresh, err := o.filterNew(ctx, logger, accountID, remote, &stats)
	if err != nil {
		return 0, err
	}

	records := o.classify(accountID, fresh, &stats)
	stats.Inserted = o.insertBatches(ctx, logger, accountID, records, &stats)

	if err := o.store.UpdateLastSync(ctx, accountID, start); err != nil {
		logger.WithError(err).Warn("Failed to record last sync time")
	}

	stats.LogSummary(logger, accountID)
	logger.Debug("Account sync finished",
		logging.Field{Key: logging.FieldDuration, Value: o.now().Sub(start).Milliseconds()})
	return stats.Inserted, nil
}

// filterNew drops transactions already persisted for the account using a
// single existence query. Entries without an external id, and repeats inside
// the fetched set, are dropped as well.
func (o *Orchestrator) filterNew(ctx context.Context, logger logging.Logger, accountID string, remote []models.RemoteTransaction, stats *models.SyncStats) ([]models.RemoteTransaction, error) {
	seen := make(map[string]struct{}, len(remote))
	unique := make([]models.RemoteTransaction, 0, len(remote))
	ids := make([]string, 0, len(remote))
	for _, tx := range remote {
		if tx.ExternalID == "" {
			logger.Warn("Skipping provider transaction without external id")
			continue
		}
		if _, dup := seen[tx.ExternalID]; dup {
			stats.Duplicates++
			continue
		}
		seen[tx.ExternalID] = struct{}{}
		unique = append(unique, tx)
		ids = append(ids, tx.ExternalID)
	}

	existing, err := o.store.ExistingExternalIDs(ctx, accountID, ids)
	if err != nil {
		return nil, err
	}

	fresh := unique[:0]
	for _, tx := range unique {
		if _, ok := existing[tx.ExternalID]; ok {
			stats.Duplicates++
			continue
		}
		fresh = append(fresh, tx)
	}
	return fresh, nil
}

func (o *Orchestrator) classify(accountID string, remote []models.RemoteTransaction, stats *models.SyncStats) []models.TransactionRecord {
	records := make([]models.TransactionRecord, 0, len(remote))
	for _, tx := range remote {
		amount := tx.Amount
		result := o.classifier.Classify(tx.Description, tx.CounterpartyName, &amount)
		stats.Classified++
		if !result.IsAccepted() {
			stats.Uncategorized++
		}

		record := models.TransactionRecord{
			ExternalID:          tx.ExternalID,
			AccountID:           accountID,
			OccurredAt:          tx.BookingDate,
			Amount:              tx.Amount,
			Currency:            tx.Currency,
			Description:         tx.Description,
			Counterparty:        tx.CounterpartyName,
			RunningBalanceAfter: tx.BalanceAfter,
		}
		record.ApplyClassification(result)
		records = append(records, record)
	}
	return records
}

// insertBatches writes records in fixed-size batches and returns the number
// of rows inserted by the batches that succeeded.
func (o *Orchestrator) insertBatches(ctx context.Context, logger logging.Logger, accountID string, records []models.TransactionRecord, stats *models.SyncStats) int {
	inserted := 0
	for i, batchIndex := 0, 0; i < len(records); i, batchIndex = i+o.batchSize, batchIndex+1 {
		end := i + o.batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[i:end]

		n, err := o.store.InsertTransactions(ctx, batch)
		if err != nil {
			stats.FailedBatches++
			batchErr := &syncerror.BatchInsertError{AccountID: accountID, BatchIndex: batchIndex, Size: len(batch), Err: err}
			logger.WithError(batchErr).Error("Batch insert failed, skipping",
				logging.Field{Key: logging.FieldBatch, Value: batchIndex})
			continue
		}
		inserted += n
	}
	return inserted
}

func (o *Orchestrator) providerError(err error) error {
	var perr *syncerror.ProviderError
	if errors.As(err, &perr) {
		return err
	}
	return &syncerror.ProviderError{
		Provider:  string(o.provider.Kind()),
		Operation: "list transactions",
		Err:       err,
	}
}

// syncBudgets runs budget reconciliation; failures are logged, never returned.
func (o *Orchestrator) syncBudgets(ctx context.Context, userID string) {
	if o.budgets == nil {
		return
	}
	if err := o.budgets.SyncBudgets(ctx, userID); err != nil {
		o.logger.WithError(err).Warn("Budget sync failed",
			logging.Field{Key: logging.FieldUserID, Value: userID})
	}
}
