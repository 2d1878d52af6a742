// Package importer ingests manually supplied transactions, validating each
// row before classification and persistence.
package importer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"fjacquet/finance-sync/internal/currencyutils"
	"fjacquet/finance-sync/internal/dateutils"
	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"
	"fjacquet/finance-sync/internal/store"
	"fjacquet/finance-sync/internal/syncerror"
	"fjacquet/finance-sync/internal/textutils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultBatchSize is the number of rows written per insert call.
const DefaultBatchSize = 1000

// DefaultCurrency is applied to rows without a currency column.
const DefaultCurrency = "BRL"

// externalIDNamespace seeds the deterministic ids of rows imported without one.
var externalIDNamespace = uuid.MustParse("6f1c1a5e-8b0e-4c53-9a43-2f7f0d8c4b11")

// Classifier assigns a category to a transaction.
type Classifier interface {
	Classify(description, merchant string, amount *decimal.Decimal) models.ClassificationResult
}

// BudgetSyncer reconciles budgets after an import.
type BudgetSyncer interface {
	SyncBudgets(ctx context.Context, userID string) error
}

// Store is the persistence the importer needs.
type Store interface {
	GetAccount(ctx context.Context, id string) (models.Account, error)
	store.TransactionRepository
}

// Result summarizes one import.
type Result struct {
	Total      int
	Inserted   int
	Duplicates int
	Invalid    int
	Errors     []error // row-level *syncerror.ValidationError and batch failures
}

// Importer validates, classifies and stores manual transactions.
type Importer struct {
	store      Store
	classifier Classifier
	budgets    BudgetSyncer
	logger     logging.Logger
	batchSize  int
}

// Option configures an Importer.
type Option func(*Importer)

// WithBatchSize sets the insert batch size.
func WithBatchSize(n int) Option {
	return func(i *Importer) {
		if n > 0 {
			i.batchSize = n
		}
	}
}

// WithBudgetSyncer runs budget reconciliation after each import.
func WithBudgetSyncer(b BudgetSyncer) Option {
	return func(i *Importer) { i.budgets = b }
}

// New creates an Importer.
func New(st Store, c Classifier, logger logging.Logger, opts ...Option) *Importer {
	imp := &Importer{
		store:      st,
		classifier: c,
		logger:     logging.OrDefault(logger),
		batchSize:  DefaultBatchSize,
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// ImportCSV reads rows from r and imports them into the account.
func (imp *Importer) ImportCSV(ctx context.Context, accountID string, r io.Reader) (Result, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return Result{}, err
	}
	return imp.ImportRows(ctx, accountID, rows)
}

// ImportRows validates rows and stores the valid ones. When more than half of
// the rows are invalid nothing is stored and *syncerror.ImportAbortedError is
// returned. Otherwise row errors are reported in Result alongside the
// inserted count.
func (imp *Importer) ImportRows(ctx context.Context, accountID string, rows []Row) (Result, error) {
	result := Result{Total: len(rows)}
	logger := imp.logger.WithField(logging.FieldAccountID, accountID)

	account, err := imp.store.GetAccount(ctx, accountID)
	if err != nil {
		return result, err
	}
	if len(rows) == 0 {
		return result, nil
	}

	records := make([]models.TransactionRecord, 0, len(rows))
	for i, row := range rows {
		record, verr := toRecord(i+1, accountID, row)
		if verr != nil {
			result.Invalid++
			result.Errors = append(result.Errors, verr)
			continue
		}
		records = append(records, record)
	}

	if result.Invalid*2 > result.Total {
		logger.Warn("Import aborted, too many invalid rows",
			logging.Field{Key: "invalid", Value: result.Invalid},
			logging.Field{Key: "total", Value: result.Total})
		return result, &syncerror.ImportAbortedError{Invalid: result.Invalid, Total: result.Total, Errors: result.Errors}
	}

	fresh, err := imp.filterNew(ctx, accountID, records, &result)
	if err != nil {
		return result, err
	}
	for i := range fresh {
		amount := fresh[i].Amount
		fresh[i].ApplyClassification(imp.classifier.Classify(fresh[i].Description, fresh[i].Counterparty, &amount))
	}
	result.Inserted = imp.insertBatches(ctx, logger, accountID, fresh, &result)

	logger.Info("Import finished",
		logging.Field{Key: "total", Value: result.Total},
		logging.Field{Key: "inserted", Value: result.Inserted},
		logging.Field{Key: "duplicates", Value: result.Duplicates},
		logging.Field{Key: "invalid", Value: result.Invalid})

	if imp.budgets != nil {
		if err := imp.budgets.SyncBudgets(ctx, account.UserID); err != nil {
			logger.WithError(err).Warn("Budget sync failed")
		}
	}
	return result, nil
}

func (imp *Importer) filterNew(ctx context.Context, accountID string, records []models.TransactionRecord, result *Result) ([]models.TransactionRecord, error) {
	seen := make(map[string]struct{}, len(records))
	unique := make([]models.TransactionRecord, 0, len(records))
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if _, dup := seen[r.ExternalID]; dup {
			result.Duplicates++
			continue
		}
		seen[r.ExternalID] = struct{}{}
		unique = append(unique, r)
		ids = append(ids, r.ExternalID)
	}

	existing, err := imp.store.ExistingExternalIDs(ctx, accountID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing transactions: %w", err)
	}
	fresh := unique[:0]
	for _, r := range unique {
		if _, ok := existing[r.ExternalID]; ok {
			result.Duplicates++
			continue
		}
		fresh = append(fresh, r)
	}
	return fresh, nil
}

func (imp *Importer) insertBatches(ctx context.Context, logger logging.Logger, accountID string, records []models.TransactionRecord, result *Result) int {
	inserted := 0
	for start, batchIndex := 0, 0; start < len(records); start, batchIndex = start+imp.batchSize, batchIndex+1 {
		end := start + imp.batchSize
		if end > len(records) {
			end = len(records)
		}
		n, err := imp.store.InsertTransactions(ctx, records[start:end])
		if err != nil {
			batchErr := &syncerror.BatchInsertError{AccountID: accountID, BatchIndex: batchIndex, Size: end - start, Err: err}
			logger.WithError(batchErr).Error("Batch insert failed, skipping",
				logging.Field{Key: logging.FieldBatch, Value: batchIndex})
			result.Errors = append(result.Errors, batchErr)
			continue
		}
		inserted += n
	}
	return inserted
}

// toRecord validates one row. Row numbers are 1-based.
func toRecord(rowNum int, accountID string, row Row) (models.TransactionRecord, error) {
	if strings.TrimSpace(row.Date) == "" {
		return models.TransactionRecord{}, &syncerror.ValidationError{Row: rowNum, Field: "date", Reason: "required"}
	}
	date, err := dateutils.ParseDate(row.Date)
	if err != nil {
		return models.TransactionRecord{}, &syncerror.ValidationError{Row: rowNum, Field: "date", Reason: err.Error()}
	}

	if strings.TrimSpace(row.Amount) == "" {
		return models.TransactionRecord{}, &syncerror.ValidationError{Row: rowNum, Field: "amount", Reason: "required"}
	}
	amount, err := currencyutils.ParseAmount(row.Amount)
	if err != nil {
		return models.TransactionRecord{}, &syncerror.ValidationError{Row: rowNum, Field: "amount", Reason: err.Error()}
	}

	description := strings.TrimSpace(row.Description)
	merchant := strings.TrimSpace(row.Merchant)
	if description == "" && merchant == "" {
		return models.TransactionRecord{}, &syncerror.ValidationError{Row: rowNum, Field: "description", Reason: "description or merchant required"}
	}

	currency := strings.ToUpper(strings.TrimSpace(row.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	externalID := strings.TrimSpace(row.ExternalID)
	if externalID == "" {
		externalID = DeriveExternalID(date, amount, description, merchant)
	}

	return models.TransactionRecord{
		ExternalID:   externalID,
		AccountID:    accountID,
		OccurredAt:   date,
		Amount:       amount,
		Currency:     currency,
		Description:  description,
		Counterparty: merchant,
	}, nil
}

// DeriveExternalID returns a stable id for a row that has none, so that
// re-importing the same file does not duplicate it.
func DeriveExternalID(date time.Time, amount decimal.Decimal, description, merchant string) string {
	key := strings.Join([]string{
		date.Format(dateutils.DateLayoutISO),
		amount.String(),
		textutils.Normalize(description + " " + merchant),
	}, "|")
	return "import-" + uuid.NewSHA1(externalIDNamespace, []byte(key)).String()
}
