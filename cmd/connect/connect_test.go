package connect_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"fjacquet/finance-sync/cmd/cmdtest"
	"fjacquet/finance-sync/cmd/connect"
	"fjacquet/finance-sync/cmd/root"
	"fjacquet/finance-sync/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func provider() *cmdtest.Provider {
	return &cmdtest.Provider{
		Accounts: []models.RemoteAccount{
			{ExternalAccountID: "ext-1", Name: "Conta Corrente", IBAN: "BR15000000000000001093", Currency: "BRL", Balance: decimal.RequireFromString("1234.56")},
			{ExternalAccountID: "ext-2", Name: "Poupança", Currency: "BRL"},
		},
		Transactions: map[string][]models.RemoteTransaction{
			"ext-1": {{
				ExternalID:  "t1",
				BookingDate: time.Now().UTC().AddDate(0, 0, -1),
				Amount:      decimal.RequireFromString("-30"),
				Currency:    "BRL",
				Description: "UBER TRIP",
			}},
		},
	}
}

func TestConnectCommand_Metadata(t *testing.T) {
	assert.Equal(t, "connect", connect.Cmd.Use)
	assert.NotNil(t, connect.Cmd.RunE)
	assert.Equal(t, "u", connect.Cmd.Flags().Lookup("user").Shorthand)
}

func TestConnectCommand_LinksAndSyncs(t *testing.T) {
	env := cmdtest.Use(t, provider())

	out, err := cmdtest.Run(t, connect.Cmd, map[string]string{"user": "user-1"})
	require.NoError(t, err)
	assert.Contains(t, out, "Conta Corrente")
	assert.Contains(t, out, "R$ 1234.56")

	accounts, err := env.Store.ListAccounts(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, accounts, 2)

	var linked models.Account
	for _, a := range accounts {
		if a.ExternalAccountID == "ext-1" {
			linked = a
		}
	}
	txs, err := env.Store.ListTransactions(context.Background(), linked.ID)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestConnectCommand_IsIdempotent(t *testing.T) {
	env := cmdtest.Use(t, provider())

	_, err := cmdtest.Run(t, connect.Cmd, map[string]string{"user": "user-1"})
	require.NoError(t, err)
	out, err := cmdtest.Run(t, connect.Cmd, map[string]string{"user": "user-1", "output": root.FormatJSON})
	require.NoError(t, err)

	var listed []models.Account
	require.NoError(t, json.Unmarshal([]byte(out), &listed))
	assert.Len(t, listed, 2)

	accounts, err := env.Store.ListAccounts(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestConnectCommand_ProviderFailure(t *testing.T) {
	p := provider()
	p.Err = errors.New("invalid credential")
	cmdtest.Use(t, p)

	_, err := cmdtest.Run(t, connect.Cmd, map[string]string{"user": "user-1", "credential": "bad"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid credential")
	assert.Equal(t, []string{"bad"}, p.Credentials())
}
