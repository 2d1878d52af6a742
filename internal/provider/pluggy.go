package provider

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"

	"github.com/shopspring/decimal"
)

const pluggyPageSize = 500

// PluggyClient talks to an Open Finance aggregator with item-scoped accounts
// and page-numbered transaction listings. The credential is the item id.
type PluggyClient struct {
	api    *apiClient
	logger logging.Logger
	now    func() time.Time
}

// NewPluggyClient creates a new Pluggy client.
func NewPluggyClient(cfg Config, logger logging.Logger) *PluggyClient {
	return &PluggyClient{
		api:    newAPIClient(KindPluggy, cfg),
		logger: logging.OrDefault(logger),
		now:    time.Now,
	}
}

type pluggyAccount struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Number       string          `json:"number"`
	CurrencyCode string          `json:"currencyCode"`
	Balance      decimal.Decimal `json:"balance"`
}

type pluggyAccountsResponse struct {
	Results []pluggyAccount `json:"results"`
}

type pluggyMerchant struct {
	Name         string `json:"name"`
	BusinessName string `json:"businessName"`
}

type pluggyTransaction struct {
	ID           string           `json:"id"`
	Date         time.Time        `json:"date"`
	Description  string           `json:"description"`
	Amount       decimal.Decimal  `json:"amount"`
	CurrencyCode string           `json:"currencyCode"`
	Balance      *decimal.Decimal `json:"balance"`
	Merchant     *pluggyMerchant  `json:"merchant"`
	Status       string           `json:"status"`
}

type pluggyTransactionsResponse struct {
	Total      int                 `json:"total"`
	TotalPages int                 `json:"totalPages"`
	Page       int                 `json:"page"`
	Results    []pluggyTransaction `json:"results"`
}

// Kind returns KindPluggy.
func (c *PluggyClient) Kind() Kind { return KindPluggy }

// GetAccounts lists the accounts of an item.
func (c *PluggyClient) GetAccounts(ctx context.Context, credential string) ([]models.RemoteAccount, error) {
	q := url.Values{}
	q.Set("itemId", credential)

	var resp pluggyAccountsResponse
	if err := c.api.getJSON(ctx, "list accounts", "/accounts?"+q.Encode(), &resp); err != nil {
		return nil, err
	}

	accounts := make([]models.RemoteAccount, 0, len(resp.Results))
	for _, a := range resp.Results {
		accounts = append(accounts, models.RemoteAccount{
			ExternalAccountID: a.ID,
			IBAN:              a.Number,
			Name:              a.Name,
			Currency:          a.CurrencyCode,
			Balance:           a.Balance,
		})
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldProvider, Value: KindPluggy},
		logging.Field{Key: logging.FieldCount, Value: len(accounts)},
	).Debug("Fetched provider accounts")
	return accounts, nil
}

// GetTransactions pages through the posted transactions of an account.
func (c *PluggyClient) GetTransactions(ctx context.Context, credential, externalAccountID string, lookbackDays int) ([]models.RemoteTransaction, error) {
	now := c.now()
	from := windowStart(now, lookbackDays).Format(dateLayout)
	to := now.Format(dateLayout)

	var all []models.RemoteTransaction
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("accountId", externalAccountID)
		q.Set("from", from)
		q.Set("to", to)
		q.Set("page", strconv.Itoa(page))
		q.Set("pageSize", strconv.Itoa(pluggyPageSize))

		var resp pluggyTransactionsResponse
		if err := c.api.getJSON(ctx, "list transactions", "/transactions?"+q.Encode(), &resp); err != nil {
			return nil, err
		}

		for _, tx := range resp.Results {
			if tx.Status == "PENDING" {
				continue
			}
			all = append(all, tx.toRemote())
		}

		if len(resp.Results) == 0 || page >= resp.TotalPages {
			break
		}
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldProvider, Value: KindPluggy},
		logging.Field{Key: logging.FieldExternalID, Value: externalAccountID},
		logging.Field{Key: logging.FieldLookbackDays, Value: lookbackDays},
		logging.Field{Key: logging.FieldCount, Value: len(all)},
	).Debug("Fetched provider transactions")
	return all, nil
}

func (tx pluggyTransaction) toRemote() models.RemoteTransaction {
	counterparty := ""
	if tx.Merchant != nil {
		counterparty = tx.Merchant.Name
		if counterparty == "" {
			counterparty = tx.Merchant.BusinessName
		}
	}
	return models.RemoteTransaction{
		ExternalID:       tx.ID,
		BookingDate:      tx.Date,
		Amount:           tx.Amount,
		Currency:         tx.CurrencyCode,
		CounterpartyName: counterparty,
		Description:      tx.Description,
		BalanceAfter:     tx.Balance,
	}
}
