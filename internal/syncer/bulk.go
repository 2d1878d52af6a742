package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"

	"golang.org/x/sync/errgroup"
)

// AccountResult is the outcome of syncing one account in a multi-account run.
type AccountResult struct {
	AccountID string
	Inserted  int
	Err       error
}

// SyncAccount is a manual re-sync of one account: it syncs transactions and
// then reconciles the owner's budgets best-effort.
func (o *Orchestrator) SyncAccount(ctx context.Context, accountID, credential string, forceFullSync bool) (int, error) {
	inserted, err := o.SyncTransactions(ctx, accountID, credential, forceFullSync)
	if err != nil {
		return inserted, err
	}

	account, err := o.store.GetAccount(ctx, accountID)
	if err != nil {
		o.logger.WithError(err).Warn("Could not resolve account owner for budget sync")
		return inserted, nil
	}
	o.syncBudgets(ctx, account.UserID)
	return inserted, nil
}

// SyncAll syncs every provider-linked account of a user concurrently, bounded
// by the configured concurrency, then reconciles budgets best-effort. A
// failing account does not stop the others; failures are joined into the
// returned error.
func (o *Orchestrator) SyncAll(ctx context.Context, userID, credential string, forceFullSync bool) ([]AccountResult, error) {
	accounts, err := o.store.ListAccounts(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	results, err := o.syncAccounts(ctx, accounts, credential, forceFullSync)
	o.syncBudgets(ctx, userID)
	return results, err
}

// ConnectAccounts links the provider accounts reachable with credential to the
// user, runs their first sync and reconciles budgets best-effort.
func (o *Orchestrator) ConnectAccounts(ctx context.Context, userID, credential string) ([]models.Account, error) {
	remote, err := o.provider.GetAccounts(ctx, credential)
	if err != nil {
		return nil, o.providerError(err)
	}

	accounts := make([]models.Account, 0, len(remote))
	for _, ra := range remote {
		account, err := o.store.UpsertAccount(ctx, models.Account{
			UserID:            userID,
			Name:              ra.Name,
			ExternalAccountID: ra.ExternalAccountID,
			IBAN:              ra.IBAN,
			Currency:          ra.Currency,
			Balance:           ra.Balance,
		})
		if err != nil {
			return accounts, fmt.Errorf("failed to link account %s: %w", ra.ExternalAccountID, err)
		}
		accounts = append(accounts, account)
	}

	o.logger.WithFields(
		logging.Field{Key: logging.FieldUserID, Value: userID},
		logging.Field{Key: logging.FieldProvider, Value: o.provider.Kind()},
		logging.Field{Key: logging.FieldCount, Value: len(accounts)},
	).Info("Linked provider accounts")

	if _, err := o.syncAccounts(ctx, accounts, credential, false); err != nil {
		o.logger.WithError(err).Warn("Initial sync incomplete")
	}
	o.syncBudgets(ctx, userID)
	return accounts, nil
}

func (o *Orchestrator) syncAccounts(ctx context.Context, accounts []models.Account, credential string, forceFullSync bool) ([]AccountResult, error) {
	var (
		mu      sync.Mutex
		results []AccountResult
		errs    []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxConcurrency)
	for _, account := range accounts {
		if !account.IsLinked() {
			continue
		}
		account := account
		g.Go(func() error {
			inserted, err := o.SyncTransactions(gctx, account.ID, credential, forceFullSync)
			mu.Lock()
			defer mu.Unlock()
			results = append(results, AccountResult{AccountID: account.ID, Inserted: inserted, Err: err})
			if err != nil {
				errs = append(errs, fmt.Errorf("account %s: %w", account.ID, err))
			}
			// per-account failures are collected, not propagated, so the
			// group context stays alive for the other accounts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, errors.Join(errs...)
}

// Reclassify re-runs the classifier over the stored transactions of an
// account, leaving manually overridden rows alone. It returns the number of
// rows whose classification changed.
func (o *Orchestrator) Reclassify(ctx context.Context, accountID string) (int, error) {
	unlock := o.locker.Lock(accountID)
	defer unlock()

	txs, err := o.store.ListTransactions(ctx, accountID)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, tx := range txs {
		if tx.ManualOverride {
			continue
		}
		amount := tx.Amount
		result := o.classifier.Classify(tx.Description, tx.Counterparty, &amount)
		if result.Category == tx.Category && result.Subcategory == tx.Subcategory && result.Confidence == tx.Confidence {
			continue
		}
		if err := o.store.UpdateClassification(ctx, tx.ID, result, false); err != nil {
			return updated, err
		}
		updated++
	}

	o.logger.Info("Reclassified transactions",
		logging.Field{Key: logging.FieldAccountID, Value: accountID},
		logging.Field{Key: logging.FieldCount, Value: updated})
	return updated, nil
}
