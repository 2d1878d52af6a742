// Package container provides dependency injection for the finance-sync
// application. It centralizes the creation and wiring of all application
// dependencies, making them explicit and testable.
package container

import (
	"errors"
	"fmt"

	"fjacquet/finance-sync/internal/budget"
	"fjacquet/finance-sync/internal/categorizer"
	"fjacquet/finance-sync/internal/config"
	"fjacquet/finance-sync/internal/importer"
	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/provider"
	"fjacquet/finance-sync/internal/rules"
	"fjacquet/finance-sync/internal/store"
	"fjacquet/finance-sync/internal/syncer"
)

// ErrProviderNotConfigured is returned when an operation needs the bank data
// provider but provider.base_url is empty.
var ErrProviderNotConfigured = errors.New("bank data provider not configured (set provider.base_url)")

// Container holds all application dependencies and provides methods to access them.
// It is immutable after creation.
type Container struct {
	logger       logging.Logger
	config       *config.Config
	store        store.Store
	classifier   *categorizer.Classifier
	budgets      *budget.Synchronizer
	importer     *importer.Importer
	provider     provider.Provider
	orchestrator *syncer.Orchestrator
}

// NewContainer creates and wires all application dependencies, opening the
// SQLite database at cfg.Database.Path. The provider is only built when a
// base URL is configured.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	logger := cfg.NewLogger()

	st, err := store.OpenSQLite(cfg.Database.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	var p provider.Provider
	if cfg.Provider.BaseURL != "" {
		p, err = provider.New(cfg.ProviderSettings(), logger)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("failed to create provider: %w", err)
		}
	}

	c, err := NewContainerWith(cfg, logger, st, p)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return c, nil
}

// NewContainerWith wires the application around an existing store and
// provider. p may be nil.
func NewContainerWith(cfg *config.Config, logger logging.Logger, st store.Store, p provider.Provider) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	logger = logging.OrDefault(logger)

	classifier, err := NewClassifier(cfg, logger)
	if err != nil {
		return nil, err
	}

	budgets := budget.NewSynchronizer(st, logger,
		budget.WithLookbackMonths(cfg.Budget.LookbackMonths))

	imp := importer.New(st, classifier, logger,
		importer.WithBatchSize(cfg.Sync.BatchSize),
		importer.WithBudgetSyncer(budgets))

	c := &Container{
		logger:     logger,
		config:     cfg,
		store:      st,
		classifier: classifier,
		budgets:    budgets,
		importer:   imp,
		provider:   p,
	}

	if p != nil {
		c.orchestrator = syncer.NewOrchestrator(st, p, classifier, logger,
			syncer.WithBatchSize(cfg.Sync.BatchSize),
			syncer.WithFullSyncDays(cfg.Sync.FullSyncDays),
			syncer.WithMaxConcurrency(cfg.Sync.MaxConcurrency),
			syncer.WithBudgetSyncer(budgets))
		logger.Info("Bank data provider enabled", logging.Field{Key: logging.FieldProvider, Value: p.Kind()})
	} else {
		logger.Debug("Bank data provider disabled")
	}

	return c, nil
}

// NewClassifier builds the classifier from the built-in catalog, extended
// with cfg.Rules.File when set.
func NewClassifier(cfg *config.Config, logger logging.Logger) (*categorizer.Classifier, error) {
	logger = logging.OrDefault(logger)
	catalog := rules.Default()

	if cfg.Rules.File != "" {
		extra, err := rules.LoadFile(cfg.Rules.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load rules: %w", err)
		}
		catalog, err = catalog.With(extra...)
		if err != nil {
			return nil, fmt.Errorf("failed to extend rule catalog: %w", err)
		}
		logger.Info("Loaded extra classification rules",
			logging.Field{Key: logging.FieldInputFile, Value: cfg.Rules.File},
			logging.Field{Key: logging.FieldCount, Value: len(extra)})
	}

	return categorizer.NewClassifier(catalog,
		categorizer.WithThreshold(cfg.Categorization.ConfidenceThreshold)), nil
}

// GetLogger returns the configured logger.
func (c *Container) GetLogger() logging.Logger { return c.logger }

// GetConfig returns the application configuration.
func (c *Container) GetConfig() *config.Config { return c.config }

// GetStore returns the persistence layer.
func (c *Container) GetStore() store.Store { return c.store }

// GetClassifier returns the transaction classifier.
func (c *Container) GetClassifier() *categorizer.Classifier { return c.classifier }

// GetBudgetSynchronizer returns the budget reconciler.
func (c *Container) GetBudgetSynchronizer() *budget.Synchronizer { return c.budgets }

// GetImporter returns the manual importer.
func (c *Container) GetImporter() *importer.Importer { return c.importer }

// GetOrchestrator returns the sync orchestrator, or ErrProviderNotConfigured.
func (c *Container) GetOrchestrator() (*syncer.Orchestrator, error) {
	if c.orchestrator == nil {
		return nil, ErrProviderNotConfigured
	}
	return c.orchestrator, nil
}

// GetReclassifier returns an orchestrator able to run Reclassify. Without a
// configured provider its sync operations are unusable, so it is not cached.
func (c *Container) GetReclassifier() *syncer.Orchestrator {
	if c.orchestrator != nil {
		return c.orchestrator
	}
	return syncer.NewOrchestrator(c.store, nil, c.classifier, c.logger)
}

// Close releases the store.
func (c *Container) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}
