// Package cmdtest wires commands to an in-memory container for tests.
package cmdtest

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"fjacquet/finance-sync/cmd/root"
	"fjacquet/finance-sync/internal/config"
	"fjacquet/finance-sync/internal/container"
	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/models"
	"fjacquet/finance-sync/internal/provider"
	"fjacquet/finance-sync/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// Env is the state installed into the root package for one test.
type Env struct {
	Config    *config.Config
	Store     *store.MemoryStore
	Logger    *logging.MockLogger
	Container *container.Container
}

// Config returns a valid configuration that needs no file or database.
func Config() *config.Config {
	return &config.Config{
		Log:            config.LogConfig{Level: "error", Format: "text"},
		Database:       config.DatabaseConfig{Path: ":memory:"},
		Categorization: config.CategorizationConfig{ConfidenceThreshold: 80},
		Sync:           config.SyncConfig{BatchSize: 100, FullSyncDays: 365, MaxConcurrency: 2},
		Budget:         config.BudgetConfig{LookbackMonths: 12},
		Provider:       config.ProviderConfig{Kind: "pluggy", Credential: "configured-token", TimeoutSeconds: 5},
		Server:         config.ServerConfig{Addr: "127.0.0.1:0"},
		CSV:            config.CSVConfig{Delimiter: ";"},
	}
}

// Use installs an in-memory container into the root package and restores the
// previous state when the test ends. p may be nil.
func Use(t *testing.T, p provider.Provider) *Env {
	t.Helper()

	env := &Env{
		Config: Config(),
		Store:  store.NewMemoryStore(),
		Logger: logging.NewMockLogger(),
	}
	c, err := container.NewContainerWith(env.Config, env.Logger, env.Store, p)
	require.NoError(t, err)
	env.Container = c

	origConfig, origContainer, origLog := root.AppConfig, root.AppContainer, root.Log
	root.AppConfig, root.AppContainer, root.Log = env.Config, c, env.Logger
	t.Cleanup(func() {
		root.AppConfig, root.AppContainer, root.Log = origConfig, origContainer, origLog
	})
	return env
}

// Account stores a linked account owned by userID.
func (e *Env) Account(t *testing.T, userID, externalID string) models.Account {
	t.Helper()
	a, err := e.Store.UpsertAccount(context.Background(), models.Account{
		UserID:            userID,
		Name:              "Conta " + externalID,
		ExternalAccountID: externalID,
		Currency:          "BRL",
	})
	require.NoError(t, err)
	return a
}

// Run executes cmd's RunE with the given flags and returns what it wrote.
// Flags are reset to their defaults afterwards.
func Run(t *testing.T, cmd *cobra.Command, flags map[string]string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetContext(context.Background())

	for name, value := range flags {
		require.NoError(t, lookup(cmd, name).Value.Set(value), "flag %s", name)
	}
	t.Cleanup(func() {
		for name := range flags {
			f := lookup(cmd, name)
			_ = f.Value.Set(f.DefValue)
		}
	})

	err := cmd.RunE(cmd, nil)
	return out.String(), err
}

func lookup(cmd *cobra.Command, name string) *pflag.Flag {
	for c := cmd; c != nil; c = c.Parent() {
		if f := c.Flags().Lookup(name); f != nil {
			return f
		}
		if f := c.PersistentFlags().Lookup(name); f != nil {
			return f
		}
	}
	panic("unknown flag " + name)
}

// Provider is a canned provider.Provider.
type Provider struct {
	Accounts     []models.RemoteAccount
	Transactions map[string][]models.RemoteTransaction
	Err          error

	mu          sync.Mutex
	credentials []string
}

func (p *Provider) record(credential string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.credentials = append(p.credentials, credential)
}

// Credentials returns the credentials seen so far.
func (p *Provider) Credentials() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.credentials...)
}

// Kind implements provider.Provider.
func (p *Provider) Kind() provider.Kind { return provider.KindPluggy }

// GetAccounts implements provider.Provider.
func (p *Provider) GetAccounts(_ context.Context, credential string) ([]models.RemoteAccount, error) {
	p.record(credential)
	return p.Accounts, p.Err
}

// GetTransactions implements provider.Provider.
func (p *Provider) GetTransactions(_ context.Context, credential, externalAccountID string, _ int) ([]models.RemoteTransaction, error) {
	p.record(credential)
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Transactions[externalAccountID], nil
}
