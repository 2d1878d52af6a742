package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fjacquet/finance-sync/internal/models"
	"fjacquet/finance-sync/internal/syncerror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MemoryStore is an in-memory Store for tests and dry runs.
type MemoryStore struct {
	mu           sync.Mutex
	accounts     map[string]models.Account
	transactions map[string]models.TransactionRecord
	byExternal   map[string]map[string]string // account id -> external id -> transaction id
	budgets      map[string]models.BudgetEntry
	preferences  map[string]models.CategoryPreference

	// Call counters.
	ExistingCalls int
	InsertCalls   int

	// Error injection for testing error conditions. InsertErrors is keyed by
	// the zero-based InsertTransactions call index.
	InsertErrors       map[int]error
	ExistingErr        error
	ListOutflowsErr    error
	UpdateLastSyncErr  error
	InsertBudgetErr    error
	ListPreferencesErr error
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:     make(map[string]models.Account),
		transactions: make(map[string]models.TransactionRecord),
		byExternal:   make(map[string]map[string]string),
		budgets:      make(map[string]models.BudgetEntry),
		preferences:  make(map[string]models.CategoryPreference),
		InsertErrors: make(map[int]error),
	}
}

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) GetAccount(_ context.Context, id string) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return models.Account{}, fmt.Errorf("%w: %s", syncerror.ErrAccountNotFound, id)
	}
	return copyAccount(a), nil
}

func (m *MemoryStore) ListAccounts(_ context.Context, userID string) ([]models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Account
	for _, a := range m.accounts {
		if a.UserID == userID {
			out = append(out, copyAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) UpsertAccount(_ context.Context, account models.Account) (models.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account.ID == "" && account.ExternalAccountID != "" {
		for _, a := range m.accounts {
			if a.UserID == account.UserID && a.ExternalAccountID == account.ExternalAccountID {
				account.ID = a.ID
				break
			}
		}
	}
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if existing, ok := m.accounts[account.ID]; ok {
		account.LastSyncAt = existing.LastSyncAt
	}
	m.accounts[account.ID] = copyAccount(account)
	return copyAccount(account), nil
}

func (m *MemoryStore) UpdateLastSync(_ context.Context, accountID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UpdateLastSyncErr != nil {
		return m.UpdateLastSyncErr
	}
	a, ok := m.accounts[accountID]
	if !ok {
		return fmt.Errorf("%w: %s", syncerror.ErrAccountNotFound, accountID)
	}
	t := at.UTC()
	a.LastSyncAt = &t
	m.accounts[accountID] = a
	return nil
}

func (m *MemoryStore) ExistingExternalIDs(_ context.Context, accountID string, ids []string) (map[string]struct{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ExistingCalls++
	if m.ExistingErr != nil {
		return nil, m.ExistingErr
	}
	existing := make(map[string]struct{})
	for _, id := range ids {
		if _, ok := m.byExternal[accountID][id]; ok {
			existing[id] = struct{}{}
		}
	}
	return existing, nil
}

func (m *MemoryStore) InsertTransactions(_ context.Context, batch []models.TransactionRecord) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := m.InsertCalls
	m.InsertCalls++
	if err := m.InsertErrors[call]; err != nil {
		return 0, err
	}

	inserted := 0
	for _, t := range batch {
		if _, ok := m.byExternal[t.AccountID][t.ExternalID]; ok {
			continue
		}
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if m.byExternal[t.AccountID] == nil {
			m.byExternal[t.AccountID] = make(map[string]string)
		}
		m.byExternal[t.AccountID][t.ExternalID] = t.ID
		m.transactions[t.ID] = t
		inserted++
	}
	return inserted, nil
}

func (m *MemoryStore) ListTransactions(_ context.Context, accountID string) ([]models.TransactionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TransactionRecord
	for _, t := range m.transactions {
		if t.AccountID == accountID {
			out = append(out, t)
		}
	}
	sortTransactions(out)
	return out, nil
}

func (m *MemoryStore) ListOutflowsSince(_ context.Context, userID string, since time.Time) ([]models.TransactionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListOutflowsErr != nil {
		return nil, m.ListOutflowsErr
	}
	var out []models.TransactionRecord
	for _, t := range m.transactions {
		a, ok := m.accounts[t.AccountID]
		if !ok || a.UserID != userID {
			continue
		}
		if t.IsOutflow() && !t.OccurredAt.Before(since) {
			out = append(out, t)
		}
	}
	sortTransactions(out)
	return out, nil
}

func (m *MemoryStore) UpdateClassification(_ context.Context, id string, result models.ClassificationResult, manual bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.transactions[id]
	if !ok {
		return fmt.Errorf("transaction %s not found", id)
	}
	t.ApplyClassification(result)
	t.ManualOverride = manual
	m.transactions[id] = t
	return nil
}

func (m *MemoryStore) ListBudgets(_ context.Context, userID string) ([]models.BudgetEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.BudgetEntry
	for _, b := range m.budgets {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CategoryName != out[j].CategoryName {
			return out[i].CategoryName < out[j].CategoryName
		}
		if out[i].CostType != out[j].CostType {
			return out[i].CostType < out[j].CostType
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) InsertBudget(_ context.Context, entry models.BudgetEntry) (models.BudgetEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertBudgetErr != nil {
		return models.BudgetEntry{}, m.InsertBudgetErr
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	m.budgets[entry.ID] = entry
	return entry, nil
}

func (m *MemoryStore) UpdateBudgetValue(_ context.Context, id string, value decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.budgets[id]
	if !ok {
		return fmt.Errorf("budget %s not found", id)
	}
	b.Value = value
	m.budgets[id] = b
	return nil
}

func (m *MemoryStore) ReplaceCategoryBudgets(_ context.Context, userID, category string, entry models.BudgetEntry) (models.BudgetEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, b := range m.budgets {
		if b.UserID == userID && b.CategoryName == category {
			delete(m.budgets, id)
		}
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	m.budgets[entry.ID] = entry
	return entry, nil
}

func (m *MemoryStore) ListPreferences(_ context.Context, userID string) ([]models.CategoryPreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListPreferencesErr != nil {
		return nil, m.ListPreferencesErr
	}
	var out []models.CategoryPreference
	for _, p := range m.preferences {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return preferenceKey(out[i]) < preferenceKey(out[j]) })
	return out, nil
}

func (m *MemoryStore) UpsertPreference(_ context.Context, pref models.CategoryPreference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if pref.CategoryKind == "" {
		pref.CategoryKind = models.CategoryKindNormal
	}
	m.preferences[preferenceKey(pref)] = pref
	return nil
}

func preferenceKey(p models.CategoryPreference) string {
	return p.UserID + "\x00" + p.Category + "\x00" + p.Subcategory + "\x00" + string(p.CostType)
}

func copyAccount(a models.Account) models.Account {
	if a.LastSyncAt != nil {
		t := *a.LastSyncAt
		a.LastSyncAt = &t
	}
	return a
}

func sortTransactions(ts []models.TransactionRecord) {
	sort.Slice(ts, func(i, j int) bool {
		if !ts[i].OccurredAt.Equal(ts[j].OccurredAt) {
			return ts[i].OccurredAt.Before(ts[j].OccurredAt)
		}
		return ts[i].ExternalID < ts[j].ExternalID
	})
}
