package rules

import (
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/finance-sync/internal/fileutils"
	"fjacquet/finance-sync/internal/models"

	"gopkg.in/yaml.v3"
)

// FindFile looks for a rules file in the standard locations: the path itself,
// ./config, then $HOME/.finance-sync.
func FindFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if fileutils.FileExists(filename) {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".finance-sync", filename))
	}

	for _, location := range locations {
		if fileutils.FileExists(location) {
			return location, nil
		}
	}
	return "", os.ErrNotExist
}

// LoadFile reads and compiles rules from a YAML file. Both the
// "rules: [...]" layout and a bare top-level list are accepted.
func LoadFile(filename string) ([]Rule, error) {
	path, err := FindFile(filename)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", filename, err)
	}

	data, err := fileutils.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file: %w", err)
	}

	cfgs, err := parseRuleConfigs(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", path, err)
	}

	rs, err := FromConfig(cfgs)
	if err != nil {
		return nil, err
	}
	for i, r := range rs {
		if err := validate(r); err != nil {
			return nil, fmt.Errorf("rule %d (%s/%s) in %s: %w", i, r.Category, r.Subcategory, path, err)
		}
	}
	return rs, nil
}

func parseRuleConfigs(data []byte) ([]models.RuleConfig, error) {
	var wrapped models.RulesConfig
	if err := yaml.Unmarshal(data, &wrapped); err == nil && len(wrapped.Rules) > 0 {
		return wrapped.Rules, nil
	}

	var list []models.RuleConfig
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, err
	}
	return list, nil
}
