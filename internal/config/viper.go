// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/provider"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FINSYNC_LOG_LEVEL.
const EnvPrefix = "FINSYNC"

// LogConfig configures the logrus adapter.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// RulesConfig points at an optional YAML catalog merged over the defaults.
type RulesConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// CategorizationConfig tunes the classifier.
type CategorizationConfig struct {
	ConfidenceThreshold int `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
}

// SyncConfig tunes provider ingestion.
type SyncConfig struct {
	BatchSize      int `mapstructure:"batch_size" yaml:"batch_size"`
	FullSyncDays   int `mapstructure:"full_sync_days" yaml:"full_sync_days"`
	MaxConcurrency int `mapstructure:"max_concurrency" yaml:"max_concurrency"`
}

// BudgetConfig tunes budget reconciliation.
type BudgetConfig struct {
	LookbackMonths int `mapstructure:"lookback_months" yaml:"lookback_months"`
}

// ProviderConfig selects and authenticates the bank data provider.
type ProviderConfig struct {
	Kind           string `mapstructure:"kind" yaml:"kind"`
	BaseURL        string `mapstructure:"base_url" yaml:"base_url"`
	ClientID       string `mapstructure:"client_id" yaml:"client_id"`
	ClientSecret   string `mapstructure:"client_secret" yaml:"-"` // Never serialize secrets
	Credential     string `mapstructure:"credential" yaml:"-"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// CSVConfig configures CSV export.
type CSVConfig struct {
	Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
}

// Config represents the complete application configuration
type Config struct {
	Log            LogConfig            `mapstructure:"log" yaml:"log"`
	Database       DatabaseConfig       `mapstructure:"database" yaml:"database"`
	Rules          RulesConfig          `mapstructure:"rules" yaml:"rules"`
	Categorization CategorizationConfig `mapstructure:"categorization" yaml:"categorization"`
	Sync           SyncConfig           `mapstructure:"sync" yaml:"sync"`
	Budget         BudgetConfig         `mapstructure:"budget" yaml:"budget"`
	Provider       ProviderConfig       `mapstructure:"provider" yaml:"provider"`
	Server         ServerConfig         `mapstructure:"server" yaml:"server"`
	CSV            CSVConfig            `mapstructure:"csv" yaml:"csv"`
}

// InitializeConfig loads configuration from the default locations.
func InitializeConfig() (*Config, error) {
	return Load("")
}

// Load reads configuration with hierarchical precedence: defaults, then the
// config file (configFile when set, otherwise config.yaml searched in
// $HOME/.finance-sync, .finance-sync and .), then FINSYNC_* environment
// variables.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.finance-sync")
		v.AddConfigPath(".finance-sync")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Secrets have no default, so AutomaticEnv alone would not surface them
	// through Unmarshal.
	for _, key := range []string{"provider.client_secret", "provider.credential"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 5. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("database.path", "finance-sync.db")
	v.SetDefault("rules.file", "")

	v.SetDefault("categorization.confidence_threshold", 80)

	v.SetDefault("sync.batch_size", 1000)
	v.SetDefault("sync.full_sync_days", 365)
	v.SetDefault("sync.max_concurrency", 4)

	v.SetDefault("budget.lookback_months", 12)

	v.SetDefault("provider.kind", string(provider.KindPluggy))
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.client_id", "")
	v.SetDefault("provider.timeout_seconds", 30)

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("csv.delimiter", ",")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if err := logging.ValidateLevel(config.Log.Level); err != nil {
		return err
	}
	if err := logging.ValidateFormat(config.Log.Format); err != nil {
		return err
	}

	if t := config.Categorization.ConfidenceThreshold; t < 0 || t > 100 {
		return fmt.Errorf("categorization.confidence_threshold must be between 0 and 100, got: %d", t)
	}

	if config.Sync.BatchSize < 1 {
		return fmt.Errorf("sync.batch_size must be positive, got: %d", config.Sync.BatchSize)
	}

	if config.Sync.FullSyncDays < 1 {
		return fmt.Errorf("sync.full_sync_days must be positive, got: %d", config.Sync.FullSyncDays)
	}

	if config.Sync.MaxConcurrency < 1 {
		return fmt.Errorf("sync.max_concurrency must be positive, got: %d", config.Sync.MaxConcurrency)
	}

	if config.Budget.LookbackMonths < 1 {
		return fmt.Errorf("budget.lookback_months must be positive, got: %d", config.Budget.LookbackMonths)
	}

	if _, err := provider.ParseKind(config.Provider.Kind); err != nil {
		return err
	}

	if config.Provider.TimeoutSeconds < 1 || config.Provider.TimeoutSeconds > 300 {
		return fmt.Errorf("provider.timeout_seconds must be between 1 and 300, got: %d", config.Provider.TimeoutSeconds)
	}

	if len([]rune(config.CSV.Delimiter)) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	return nil
}
