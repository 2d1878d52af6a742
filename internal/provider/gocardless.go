package provider

import (
	"context"
	"net/url"
	"time"

	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"

	"github.com/shopspring/decimal"
)

// GoCardlessClient talks to a PSD2 account-information API where accounts
// hang off a requisition. The credential is the requisition id.
type GoCardlessClient struct {
	api    *apiClient
	logger logging.Logger
	now    func() time.Time
}

// NewGoCardlessClient creates a new GoCardless client.
func NewGoCardlessClient(cfg Config, logger logging.Logger) *GoCardlessClient {
	return &GoCardlessClient{
		api:    newAPIClient(KindGoCardless, cfg),
		logger: logging.OrDefault(logger),
		now:    time.Now,
	}
}

type gcRequisition struct {
	ID       string   `json:"id"`
	Status   string   `json:"status"`
	Accounts []string `json:"accounts"`
}

type gcAmount struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

type gcAccountDetails struct {
	Account struct {
		IBAN     string `json:"iban"`
		Currency string `json:"currency"`
		Name     string `json:"name"`
		Product  string `json:"product"`
	} `json:"account"`
}

type gcBalances struct {
	Balances []struct {
		BalanceAmount gcAmount `json:"balanceAmount"`
		BalanceType   string   `json:"balanceType"`
	} `json:"balances"`
}

type gcTransaction struct {
	TransactionID                     string   `json:"transactionId"`
	InternalTransactionID             string   `json:"internalTransactionId"`
	BookingDate                       string   `json:"bookingDate"`
	TransactionAmount                 gcAmount `json:"transactionAmount"`
	CreditorName                      string   `json:"creditorName"`
	DebtorName                        string   `json:"debtorName"`
	RemittanceInformationUnstructured string   `json:"remittanceInformationUnstructured"`
	BalanceAfterTransaction           *struct {
		BalanceAmount gcAmount `json:"balanceAmount"`
	} `json:"balanceAfterTransaction"`
}

type gcTransactionsResponse struct {
	Transactions struct {
		Booked  []gcTransaction `json:"booked"`
		Pending []gcTransaction `json:"pending"`
	} `json:"transactions"`
}

// Kind returns KindGoCardless.
func (c *GoCardlessClient) Kind() Kind { return KindGoCardless }

// GetAccounts resolves the requisition and loads details and balance per account.
func (c *GoCardlessClient) GetAccounts(ctx context.Context, credential string) ([]models.RemoteAccount, error) {
	var req gcRequisition
	if err := c.api.getJSON(ctx, "get requisition", "/api/v2/requisitions/"+url.PathEscape(credential)+"/", &req); err != nil {
		return nil, err
	}

	accounts := make([]models.RemoteAccount, 0, len(req.Accounts))
	for _, id := range req.Accounts {
		var details gcAccountDetails
		if err := c.api.getJSON(ctx, "get account details", "/api/v2/accounts/"+url.PathEscape(id)+"/details/", &details); err != nil {
			return nil, err
		}
		var balances gcBalances
		if err := c.api.getJSON(ctx, "get account balances", "/api/v2/accounts/"+url.PathEscape(id)+"/balances/", &balances); err != nil {
			return nil, err
		}

		account := models.RemoteAccount{
			ExternalAccountID: id,
			IBAN:              details.Account.IBAN,
			Name:              details.Account.Name,
			Currency:          details.Account.Currency,
		}
		if account.Name == "" {
			account.Name = details.Account.Product
		}
		if len(balances.Balances) > 0 {
			account.Balance = balances.Balances[0].BalanceAmount.Amount
			if account.Currency == "" {
				account.Currency = balances.Balances[0].BalanceAmount.Currency
			}
		}
		accounts = append(accounts, account)
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldProvider, Value: KindGoCardless},
		logging.Field{Key: logging.FieldCount, Value: len(accounts)},
	).Debug("Fetched provider accounts")
	return accounts, nil
}

// GetTransactions returns the booked transactions of an account. Pending
// entries are skipped since their ids are not stable.
func (c *GoCardlessClient) GetTransactions(ctx context.Context, credential, externalAccountID string, lookbackDays int) ([]models.RemoteTransaction, error) {
	now := c.now()
	q := url.Values{}
	q.Set("date_from", windowStart(now, lookbackDays).Format(dateLayout))
	q.Set("date_to", now.Format(dateLayout))

	var resp gcTransactionsResponse
	path := "/api/v2/accounts/" + url.PathEscape(externalAccountID) + "/transactions/?" + q.Encode()
	if err := c.api.getJSON(ctx, "list transactions", path, &resp); err != nil {
		return nil, err
	}

	out := make([]models.RemoteTransaction, 0, len(resp.Transactions.Booked))
	for _, tx := range resp.Transactions.Booked {
		remote, ok := tx.toRemote()
		if !ok {
			c.logger.WithField(logging.FieldExternalID, tx.TransactionID).Warn("Skipping transaction with unparseable booking date")
			continue
		}
		out = append(out, remote)
	}

	c.logger.WithFields(
		logging.Field{Key: logging.FieldProvider, Value: KindGoCardless},
		logging.Field{Key: logging.FieldExternalID, Value: externalAccountID},
		logging.Field{Key: logging.FieldLookbackDays, Value: lookbackDays},
		logging.Field{Key: logging.FieldCount, Value: len(out)},
	).Debug("Fetched provider transactions")
	return out, nil
}

func (tx gcTransaction) toRemote() (models.RemoteTransaction, bool) {
	booked, err := time.Parse(dateLayout, tx.BookingDate)
	if err != nil {
		return models.RemoteTransaction{}, false
	}

	id := tx.TransactionID
	if id == "" {
		id = tx.InternalTransactionID
	}

	counterparty := tx.CreditorName
	if tx.TransactionAmount.Amount.IsPositive() || counterparty == "" {
		if tx.DebtorName != "" {
			counterparty = tx.DebtorName
		}
	}

	remote := models.RemoteTransaction{
		ExternalID:       id,
		BookingDate:      booked,
		Amount:           tx.TransactionAmount.Amount,
		Currency:         tx.TransactionAmount.Currency,
		CounterpartyName: counterparty,
		Description:      tx.RemittanceInformationUnstructured,
	}
	if tx.BalanceAfterTransaction != nil {
		balance := tx.BalanceAfterTransaction.BalanceAmount.Amount
		remote.BalanceAfter = &balance
	}
	return remote, true
}
