package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"fjacquet/finance-sync/cmd/serve"
	"fjacquet/finance-sync/internal/config"
	"fjacquet/finance-sync/internal/container"
	"fjacquet/finance-sync/internal/importer"
	"fjacquet/finance-sync/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pluggyServer emulates the provider endpoints the Pluggy client uses.
type pluggyServer struct {
	*httptest.Server
	transactionCalls atomic.Int32
}

func newPluggyServer(t *testing.T, transactions []map[string]interface{}) *pluggyServer {
	t.Helper()
	ps := &pluggyServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("itemId") != "item-1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(t, w, map[string]interface{}{
			"results": []map[string]interface{}{
				{"id": "acc-1", "name": "Conta Corrente", "number": "0001/12345-6", "currencyCode": "BRL", "balance": 2500},
			},
		})
	})
	mux.HandleFunc("/transactions", func(w http.ResponseWriter, r *http.Request) {
		ps.transactionCalls.Add(1)
		writeJSON(t, w, map[string]interface{}{"total": len(transactions), "totalPages": 1, "results": transactions})
	})

	ps.Server = httptest.NewServer(mux)
	t.Cleanup(ps.Close)
	return ps
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func pluggyTx(id, description string, amount float64, daysAgo int) map[string]interface{} {
	return map[string]interface{}{
		"id":           id,
		"date":         time.Now().UTC().AddDate(0, 0, -daysAgo).Format("2006-01-02T15:04:05.000Z"),
		"description":  description,
		"amount":       amount,
		"currencyCode": "BRL",
		"status":       "POSTED",
	}
}

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	return &config.Config{
		Log:            config.LogConfig{Level: "error", Format: "text"},
		Database:       config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "db", "finance.db")},
		Categorization: config.CategorizationConfig{ConfidenceThreshold: 80},
		Sync:           config.SyncConfig{BatchSize: 2, FullSyncDays: 365, MaxConcurrency: 2},
		Budget:         config.BudgetConfig{LookbackMonths: 12},
		Provider: config.ProviderConfig{
			Kind:           "pluggy",
			BaseURL:        baseURL,
			ClientID:       "id",
			ClientSecret:   "secret",
			Credential:     "item-1",
			TimeoutSeconds: 5,
		},
		CSV: config.CSVConfig{Delimiter: ","},
	}
}

// TestConnectSyncAndBudgets drives the whole pipeline against SQLite: link the
// provider accounts, sync, re-sync without duplicates and derive budgets.
func TestConnectSyncAndBudgets(t *testing.T) {
	ctx := context.Background()
	srv := newPluggyServer(t, []map[string]interface{}{
		pluggyTx("tx-1", "IFOOD *RESTAURANTE", -80, 3),
		pluggyTx("tx-2", "POSTO SHELL", -200, 5),
		pluggyTx("tx-3", "CREDITO SALARIO", 5000, 6),
		pluggyTx("tx-4", "XPTO 123", -15, 7),
		pluggyTx("tx-5", "IFOOD *MERCADO", -20, 8),
	})

	c, err := container.NewContainer(testConfig(t, srv.URL))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	orchestrator, err := c.GetOrchestrator()
	require.NoError(t, err)

	accounts, err := orchestrator.ConnectAccounts(ctx, "user-1", "item-1")
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	account := accounts[0]
	assert.Equal(t, "acc-1", account.ExternalAccountID)

	txs, err := c.GetStore().ListTransactions(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, txs, 5)

	byID := map[string]models.TransactionRecord{}
	for _, tx := range txs {
		byID[tx.ExternalID] = tx
	}
	assert.Equal(t, models.CategoryFood, byID["tx-1"].Category)
	assert.Equal(t, models.CategoryIncome, byID["tx-3"].Category)
	assert.Equal(t, models.CategoryUncategorized, byID["tx-4"].Category)

	stored, err := c.GetStore().GetAccount(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastSyncAt)

	inserted, err := orchestrator.SyncAccount(ctx, account.ID, "item-1", false)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
	assert.Equal(t, int32(2), srv.transactionCalls.Load())

	budgets, err := c.GetStore().ListBudgets(ctx, "user-1")
	require.NoError(t, err)
	values := map[string]string{}
	for _, b := range budgets {
		values[b.CategoryName] = b.Value.StringFixed(2)
	}
	assert.NotContains(t, values, models.CategoryIncome)
	assert.NotContains(t, values, models.CategoryUncategorized)
	assert.NotEmpty(t, values[models.CategoryFood])
}

// TestImportThroughAPIAndExport imports a CSV over HTTP into the SQLite store
// and exports it back.
func TestImportThroughAPIAndExport(t *testing.T) {
	ctx := context.Background()
	c, err := container.NewContainer(testConfig(t, ""))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	account, err := c.GetStore().UpsertAccount(ctx, models.Account{UserID: "user-1", Name: "Carteira", Currency: "BRL"})
	require.NoError(t, err)

	router := serve.NewHandler(c).Router()
	body := "date;amount;description;merchant\n" +
		"01/03/2024;-42,50;UBER TRIP;Uber\n" +
		"02/03/2024;-1.250,00;ALUGUEL MARCO;\n" +
		"02/03/2024;-1.250,00;ALUGUEL MARCO;\n"

	for i, expected := range []int{2, 0} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/accounts/"+account.ID+"/import", strings.NewReader(body))
		req.Header.Set("Content-Type", "text/csv")
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "attempt %d: %s", i, rec.Body.String())

		var resp struct {
			Inserted   int `json:"inserted"`
			Duplicates int `json:"duplicates"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, expected, resp.Inserted, "attempt %d", i)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/accounts/"+account.ID+"/sync", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	records, err := c.GetStore().ListTransactions(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	var out bytes.Buffer
	require.NoError(t, importer.WriteTransactions(&out, records, c.GetConfig().Delimiter()))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "2024-03-01,-42.50,BRL,debit,UBER TRIP,Uber")
	assert.Contains(t, lines[2], "2024-03-02,-1250.00,BRL,debit,ALUGUEL MARCO")
}
