package models

// RuleConfig represents a classification rule in the YAML rules file
type RuleConfig struct {
	Category         string   `yaml:"category"`
	Subcategory      string   `yaml:"subcategory"`
	Keywords         []string `yaml:"keywords,omitempty"`
	Brands           []string `yaml:"brands,omitempty"`
	Patterns         []string `yaml:"patterns,omitempty"`
	Priority         int      `yaml:"priority"`
	Icon             string   `yaml:"icon,omitempty"`
	Color            string   `yaml:"color,omitempty"`
	RequiresCompound bool     `yaml:"requires_compound,omitempty"`
}

// RulesConfig represents the structure of the rules YAML file
type RulesConfig struct {
	Rules []RuleConfig `yaml:"rules"`
}
