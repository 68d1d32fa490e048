package config

import (
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/teller/internal/journal"
	"github.com/cleared-dev/teller/internal/model"
	"github.com/cleared-dev/teller/internal/txn"
)

// FileName is the config file written by `teller init`.
const FileName = "teller.yaml"

// Config represents the top-level teller.yaml configuration.
type Config struct {
	Branch    BranchConfig      `yaml:"branch"`
	Files     FilesConfig       `yaml:"files"`
	Limits    LimitsConfig      `yaml:"limits"`
	Companies map[string]string `yaml:"companies"`
	Codes     map[string]string `yaml:"codes"`
	Logging   LoggingConfig     `yaml:"logging"`
}

// BranchConfig identifies the branch in console banners.
type BranchConfig struct {
	Name string `yaml:"name" env:"TELLER_BRANCH_NAME"`
}

// FilesConfig names the default roster and audit log paths.
type FilesConfig struct {
	Accounts     string `yaml:"accounts"     env:"TELLER_ACCOUNTS_FILE"`
	Transactions string `yaml:"transactions" env:"TELLER_TRANSACTIONS_FILE"`
}

// LimitsConfig holds per-transaction limits for standard sessions and the
// deposit balance cap.
type LimitsConfig struct {
	Transfer   decimal.Decimal `yaml:"transfer"    env:"TELLER_TRANSFER_LIMIT"`
	PayBill    decimal.Decimal `yaml:"paybill"     env:"TELLER_PAYBILL_LIMIT"`
	BalanceCap decimal.Decimal `yaml:"balance_cap" env:"TELLER_BALANCE_CAP"`
}

// LoggingConfig controls the diagnostic log on stderr.
type LoggingConfig struct {
	Level  string `yaml:"level"  env:"TELLER_LOG_LEVEL"`  // debug, info, warn, error
	Format string `yaml:"format" env:"TELLER_LOG_FORMAT"` // console, json
}

// Load reads a teller.yaml file, fills anything it leaves out from Default
// and applies environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	cfg.fillDefaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
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

// Default returns a Config with the branch's standard limits and codes.
func Default(branchName string) *Config {
	if branchName == "" {
		branchName = "Teller"
	}
	policy := txn.DefaultPolicy()
	codes := make(map[string]string)
	for k, code := range journal.DefaultCodeTable() {
		codes[string(k)] = code
	}
	return &Config{
		Branch: BranchConfig{Name: branchName},
		Files: FilesConfig{
			Accounts:     "current_accounts.txt",
			Transactions: "daily_transactions.txt",
		},
		Limits: LimitsConfig{
			Transfer:   policy.TransferLimit,
			PayBill:    policy.PayBillLimit,
			BalanceCap: policy.BalanceCap,
		},
		Companies: policy.Companies,
		Codes:     codes,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func (c *Config) fillDefaults() {
	d := Default("")
	if c.Branch.Name == "" {
		c.Branch.Name = d.Branch.Name
	}
	if c.Files.Accounts == "" {
		c.Files.Accounts = d.Files.Accounts
	}
	if c.Files.Transactions == "" {
		c.Files.Transactions = d.Files.Transactions
	}
	if c.Limits.Transfer.IsZero() {
		c.Limits.Transfer = d.Limits.Transfer
	}
	if c.Limits.PayBill.IsZero() {
		c.Limits.PayBill = d.Limits.PayBill
	}
	if c.Limits.BalanceCap.IsZero() {
		c.Limits.BalanceCap = d.Limits.BalanceCap
	}
	if c.Companies == nil {
		c.Companies = d.Companies
	}
	if c.Codes == nil {
		c.Codes = d.Codes
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Logging.Format == "" {
		c.Logging.Format = d.Logging.Format
	}
}

// Validate checks limits, the biller table and the code table.
func (c *Config) Validate() error {
	for name, v := range map[string]decimal.Decimal{
		"limits.transfer":    c.Limits.Transfer,
		"limits.paybill":     c.Limits.PayBill,
		"limits.balance_cap": c.Limits.BalanceCap,
	} {
		if !v.IsPositive() {
			return fmt.Errorf("%s must be positive, got %s", name, v)
		}
	}
	if c.Limits.BalanceCap.GreaterThan(model.MaxAmount) {
		return fmt.Errorf("limits.balance_cap %s exceeds the largest recordable balance %s", c.Limits.BalanceCap, model.MaxAmount)
	}
	for code, id := range c.Companies {
		if len(code) != 2 || strings.ToUpper(code) != code {
			return fmt.Errorf("company code %q: want two upper-case letters", code)
		}
		if id == "" || strings.ContainsFunc(id, unicode.IsSpace) {
			return fmt.Errorf("company %s: account id %q must be non-empty without spaces", code, id)
		}
	}
	if _, err := c.Codec(); err != nil {
		return err
	}
	return nil
}

// Policy returns the transaction limits and biller table.
func (c *Config) Policy() txn.Policy {
	companies := make(map[string]string, len(c.Companies))
	for code, id := range c.Companies {
		companies[code] = id
	}
	return txn.Policy{
		TransferLimit: c.Limits.Transfer,
		PayBillLimit:  c.Limits.PayBill,
		BalanceCap:    c.Limits.BalanceCap,
		Companies:     companies,
	}
}

// Codec builds the record codec from the code table.
func (c *Config) Codec() (*journal.Codec, error) {
	table := make(journal.CodeTable, len(c.Codes))
	for name, code := range c.Codes {
		k, ok := model.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("codes: unknown transaction %q", name)
		}
		table[k] = code
	}
	codec, err := journal.NewCodec(table)
	if err != nil {
		return nil, fmt.Errorf("codes: %w", err)
	}
	return codec, nil
}
