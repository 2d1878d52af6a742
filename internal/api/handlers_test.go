package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fjacquet/finance-sync/internal/budget"
	"fjacquet/finance-sync/internal/categorizer"
	"fjacquet/finance-sync/internal/importer"
	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"
	"fjacquet/finance-sync/internal/store"
	"fjacquet/finance-sync/internal/syncerror"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSyncer struct {
	inserted   int
	err        error
	accountID  string
	credential string
	force      bool
}

func (f *fakeSyncer) SyncAccount(_ context.Context, accountID, credential string, force bool) (int, error) {
	f.accountID, f.credential, f.force = accountID, credential, force
	return f.inserted, f.err
}

type env struct {
	server  *httptest.Server
	store   *store.MemoryStore
	syncer  *fakeSyncer
	logger  *logging.MockLogger
	account models.Account
}

func newEnv(t *testing.T, opts ...Option) *env {
	t.Helper()
	st := store.NewMemoryStore()
	account, err := st.UpsertAccount(context.Background(), models.Account{UserID: "user-1", Name: "Main"})
	require.NoError(t, err)

	logger := logging.NewMockLogger()
	classifier := categorizer.NewClassifier(nil)
	syncer := &fakeSyncer{inserted: 7}
	budgets := budget.NewSynchronizer(st, logger)

	opts = append([]Option{
		WithSyncer(syncer),
		WithBudgets(budgets),
		WithImporter(importer.New(st, classifier, logger, importer.WithBudgetSyncer(budgets))),
		WithDefaultCredential("default-cred"),
	}, opts...)

	h := NewHandler(classifier, logger, opts...)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return &env{server: srv, store: st, syncer: syncer, logger: logger, account: account}
}

func (e *env) post(t *testing.T, path, contentType, body string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := http.Post(e.server.URL+path, contentType, strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestClassify(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name        string
		body        string
		status      int
		category    string
		subcategory string
	}{
		{
			name:        "ifood",
			body:        `{"description":"IFOOD *RESTAURANTE","merchant":"iFood","amount":-65.90}`,
			status:      http.StatusOK,
			category:    models.CategoryFood,
			subcategory: "Restaurantes e Delivery",
		},
		{
			name:        "investment income with string amount",
			body:        `{"description":"CDB APLICACAO","amount":"1000"}`,
			status:      http.StatusOK,
			category:    models.CategoryIncome,
			subcategory: models.SubcategoryInvestmentReturns,
		},
		{
			name:        "unknown",
			body:        `{"description":"XPTO 123"}`,
			status:      http.StatusOK,
			category:    models.CategoryUncategorized,
			subcategory: models.SubcategoryManualReview,
		},
		{name: "empty", body: `{}`, status: http.StatusBadRequest},
		{name: "malformed", body: `{`, status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := e.post(t, "/classify", "application/json", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				assert.NotEmpty(t, body["error"])
				return
			}
			assert.Equal(t, tt.category, body["category"])
			assert.Equal(t, tt.subcategory, body["subcategory"])
			confidence := body["confidence"].(float64)
			assert.GreaterOrEqual(t, confidence, 0.0)
			assert.LessOrEqual(t, confidence, 100.0)
		})
	}
}

func TestCategories(t *testing.T) {
	e := newEnv(t)
	resp, err := http.Get(e.server.URL + "/categories")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Categories []models.CategoryInfo `json:"categories"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body.Categories)

	seen := map[string]bool{}
	for i, c := range body.Categories {
		assert.False(t, seen[c.Category], "duplicate category %s", c.Category)
		seen[c.Category] = true
		if i > 0 {
			assert.Less(t, body.Categories[i-1].Category, c.Category)
		}
	}
}

func TestSyncAccount(t *testing.T) {
	t.Run("explicit credential", func(t *testing.T) {
		e := newEnv(t)
		resp, body := e.post(t, "/accounts/acc-9/sync", "application/json", `{"credential":"item-1","force_full_sync":true}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "acc-9", body["account_id"])
		assert.Equal(t, 7.0, body["inserted"])
		assert.Equal(t, "item-1", e.syncer.credential)
		assert.True(t, e.syncer.force)
	})

	t.Run("default credential with empty body", func(t *testing.T) {
		e := newEnv(t)
		resp, _ := e.post(t, "/accounts/acc-9/sync", "application/json", "")
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "default-cred", e.syncer.credential)
		assert.False(t, e.syncer.force)
	})

	t.Run("missing credential", func(t *testing.T) {
		e := newEnv(t, WithDefaultCredential(""))
		resp, _ := e.post(t, "/accounts/acc-9/sync", "application/json", "{}")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	errorCases := []struct {
		name   string
		err    error
		status int
	}{
		{"account not found", fmt.Errorf("%w: acc-9", syncerror.ErrAccountNotFound), http.StatusNotFound},
		{"provider failure", &syncerror.ProviderError{Provider: "pluggy", Operation: "list transactions", StatusCode: 503, Err: errors.New("down")}, http.StatusBadGateway},
		{"store failure", errors.New("database is locked"), http.StatusInternalServerError},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			e := newEnv(t)
			e.syncer.err = tc.err
			resp, body := e.post(t, "/accounts/acc-9/sync", "application/json", "{}")
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.NotEmpty(t, body["error"])
		})
	}

	t.Run("internal error details stay in the log", func(t *testing.T) {
		e := newEnv(t)
		e.syncer.err = errors.New("sql: database is locked")
		resp, body := e.post(t, "/accounts/acc-9/sync", "application/json", "{}")
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "server_error", body["error"])
		assert.Equal(t, "Internal server error", body["error_description"])

		entries := e.logger.GetEntriesByLevel("ERROR")
		require.Len(t, entries, 1)
		assert.Equal(t, "Request failed", entries[0].Message)
		assert.EqualError(t, entries[0].Error, "sql: database is locked")
	})

	t.Run("provider not configured", func(t *testing.T) {
		logger := logging.NewMockLogger()
		srv := httptest.NewServer(NewHandler(categorizer.NewClassifier(nil), logger).Router())
		defer srv.Close()
		resp, err := http.Post(srv.URL+"/accounts/acc-9/sync", "application/json", strings.NewReader("{}"))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestSyncBudgets(t *testing.T) {
	e := newEnv(t)
	_, err := e.store.InsertTransactions(context.Background(), []models.TransactionRecord{{
		ExternalID: "a",
		AccountID:  e.account.ID,
		OccurredAt: time.Now().AddDate(0, -1, 0),
		Amount:     decimal.NewFromInt(-300),
		Category:   models.CategoryFood,
	}})
	require.NoError(t, err)

	resp, body := e.post(t, "/users/user-1/budgets/sync", "application/json", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user-1", body["user_id"])
	assert.Equal(t, 1.0, body["created"])

	resp, body = e.post(t, "/users/user-1/budgets/sync", "application/json", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0.0, body["created"])
	assert.Equal(t, 1.0, body["unchanged"])
}

func TestImport(t *testing.T) {
	e := newEnv(t)
	csv := "date,amount,description\n2024-03-01,\"-10,00\",PADARIA\n2024-03-02,-20,NETFLIX.COM\n"

	resp, body := e.post(t, "/accounts/"+e.account.ID+"/import", "text/csv", csv)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2.0, body["inserted"])

	aborted := "date,amount,description\nbad,,X\n2024-03-02,-20,\n"
	resp, body = e.post(t, "/accounts/"+e.account.ID+"/import", "text/csv", aborted)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, 2.0, body["invalid"])

	resp, _ = e.post(t, "/accounts/missing/import", "text/csv", csv)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndRequestLogging(t *testing.T) {
	e := newEnv(t)
	resp, err := http.Get(e.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, e.logger.HasEntry("INFO", "HTTP request"))
}
