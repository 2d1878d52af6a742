// Package root contains the root command for the application
package root

import (
	"fmt"

	"fjacquet/finance-sync/internal/config"
	"fjacquet/finance-sync/internal/container"
	"fjacquet/finance-sync/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the loaded configuration. Tests may set it before running a command.
	AppConfig *config.Config

	// AppContainer is built lazily by GetContainer.
	AppContainer *container.Container

	// ConfigFile is the value of the --config flag.
	ConfigFile string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finance-sync",
		Short: "Synchronize bank transactions, classify them and keep budgets up to date.",
		Long: `finance-sync pulls transactions from a bank data provider (Pluggy or GoCardless),
classifies them with a rule-based classifier tuned for Brazilian merchants and
reconciles monthly category budgets from the spending history.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to finance-sync!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return Setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			Shutdown()
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&ConfigFile, "config", "c", "", "Config file (default $HOME/.finance-sync/config.yaml)")
}

// Setup loads .env and the configuration and configures logging. It is a
// no-op when AppConfig is already set.
func Setup() error {
	if AppConfig != nil {
		return nil
	}

	envFile, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(ConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	AppConfig = cfg
	Log = cfg.NewLogger()
	if envFile != "" {
		Log.Debug("Loaded environment file", logging.Field{Key: logging.FieldInputFile, Value: envFile})
	}
	return nil
}

// GetContainer returns the application container, creating it on first use.
func GetContainer() (*container.Container, error) {
	if AppContainer != nil {
		return AppContainer, nil
	}
	if AppConfig == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	c, err := container.NewContainer(AppConfig)
	if err != nil {
		return nil, err
	}
	AppContainer = c
	return c, nil
}

// Shutdown releases the container, if one was created.
func Shutdown() {
	if AppContainer == nil {
		return
	}
	if err := AppContainer.Close(); err != nil {
		Log.WithError(err).Warn("Failed to close store")
	}
	AppContainer = nil
}
