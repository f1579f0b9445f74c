package config

import (
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/zenledger/internal/accounts"
	"github.com/cleared-dev/zenledger/internal/importer"
	"github.com/cleared-dev/zenledger/internal/mapping"
	"github.com/cleared-dev/zenledger/internal/model"
)

// FileName is the configuration file created by init.
const FileName = "zenledger.yaml"

// Config represents the top-level zenledger.yaml configuration.
type Config struct {
	Importer   ImporterConfig      `yaml:"importer"`
	Accounts   mapping.AccountMap  `yaml:"accounts,omitempty"`
	Categories mapping.CategoryMap `yaml:"categories,omitempty"`
	Paths      PathsConfig         `yaml:"paths"`
	Git        GitConfig           `yaml:"git"`
}

// ImporterConfig holds the fallback accounts and flag for imported entries.
type ImporterConfig struct {
	BaseAccount       string `yaml:"base_account"`
	DefaultExpense    string `yaml:"default_expense"`
	DefaultIncome     string `yaml:"default_income"`
	DefaultAccount    string `yaml:"default_account,omitempty"`
	CommissionAccount string `yaml:"commission_account"`
	Flag              string `yaml:"flag"`
}

// PathsConfig locates the working directories, relative to the config file.
type PathsConfig struct {
	Import    string `yaml:"import"`
	Documents string `yaml:"documents"`
	Ledger    string `yaml:"ledger"`
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a zenledger.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Importer: ImporterConfig{
			BaseAccount:       importer.DefaultBaseAccount,
			DefaultExpense:    importer.DefaultExpenseAccount,
			DefaultIncome:     importer.DefaultIncomeAccount,
			CommissionAccount: importer.DefaultCommissionAccount,
			Flag:              string(model.FlagCleared),
		},
		Accounts:   mapping.AccountMap{},
		Categories: mapping.CategoryMap{},
		Paths: PathsConfig{
			Import:    "import",
			Documents: "documents",
			Ledger:    "ledger",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "zenledger",
			AuthorEmail: "zenledger@localhost",
		},
	}
}

// Validate checks every configured account name and the entry flag.
// An empty flag means the importer default.
func (c *Config) Validate() error {
	var errs []error
	check := func(where, name string) {
		if name == "" {
			return
		}
		if err := accounts.ValidateName(name); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
	}

	check("importer.base_account", c.Importer.BaseAccount)
	check("importer.default_expense", c.Importer.DefaultExpense)
	check("importer.default_income", c.Importer.DefaultIncome)
	check("importer.default_account", c.Importer.DefaultAccount)
	check("importer.commission_account", c.Importer.CommissionAccount)

	if f := model.Flag(c.Importer.Flag); f != "" && !f.Valid() {
		errs = append(errs, fmt.Errorf("importer.flag: %q is not a transaction flag", c.Importer.Flag))
	}

	for _, name := range sortedKeys(c.Accounts) {
		check(fmt.Sprintf("accounts[%q]", name), c.Accounts[name])
	}
	for _, name := range sortedKeys(c.Categories) {
		for _, acct := range c.Categories[name].Accounts() {
			check(fmt.Sprintf("categories[%q]", name), acct)
		}
	}
	return errors.Join(errs...)
}

// ImporterOptions builds the ZenMoney importer options from the config.
func (c *Config) ImporterOptions(log *zerolog.Logger) importer.Options {
	return importer.Options{
		Accounts:          c.Accounts,
		Categories:        c.Categories,
		BaseAccount:       c.Importer.BaseAccount,
		DefaultExpense:    c.Importer.DefaultExpense,
		DefaultIncome:     c.Importer.DefaultIncome,
		DefaultAccount:    c.Importer.DefaultAccount,
		CommissionAccount: c.Importer.CommissionAccount,
		Flag:              model.Flag(c.Importer.Flag),
		Logger:            log,
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
