package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"fjacquet/finance-sync/internal/logging"
	"fjacquet/finance-sync/internal/provider"

	"github.com/joho/godotenv"
)

// LoadEnv loads variables from a .env file in the current or parent
// directory. Variables already set in the environment win. It returns the
// file loaded, or "" when none was found.
func LoadEnv() (string, error) {
	for _, candidate := range []string{".env", filepath.Join("..", ".env")} {
		if _, err := os.Stat(candidate); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", err
		}
		if err := godotenv.Load(candidate); err != nil {
			return "", err
		}
		return candidate, nil
	}
	return "", nil
}

// NewLogger builds the logger described by the log section.
func (c *Config) NewLogger() logging.Logger {
	return logging.NewLogrusAdapter(c.Log.Level, c.Log.Format)
}

// ProviderSettings converts the provider section for provider.New.
func (c *Config) ProviderSettings() provider.Config {
	return provider.Config{
		Kind:         provider.Kind(c.Provider.Kind),
		BaseURL:      c.Provider.BaseURL,
		ClientID:     c.Provider.ClientID,
		ClientSecret: c.Provider.ClientSecret,
		Timeout:      time.Duration(c.Provider.TimeoutSeconds) * time.Second,
	}
}

// Delimiter returns the CSV export delimiter.
func (c *Config) Delimiter() rune {
	for _, r := range c.CSV.Delimiter {
		return r
	}
	return ','
}
