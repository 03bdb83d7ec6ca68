package application

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// PayeeAccount identifies the landlord bank account payments go to.
type PayeeAccount struct {
	BankID      string `yaml:"bank_id"`
	AccountNo   string `yaml:"account_no"`
	AccountName string `yaml:"account_name"`
	QRTemplate  string `yaml:"qr_template"`
}

// BillingConfig defines the billing profile: when invoices fall due,
// what currency they are in, and where payments go.
type BillingConfig struct {
	DueDay   int          `yaml:"due_day"`
	Currency string       `yaml:"currency"`
	Payee    PayeeAccount `yaml:"payee"`
}

// LoadBillingConfig loads the billing profile from yaml or env.
func LoadBillingConfig() (BillingConfig, error) {
	cfg := BillingConfig{
		DueDay:   getenvIntDefault("BILLING_DUE_DAY", 10),
		Currency: getenvDefault("BILLING_CURRENCY", "VND"),
		Payee: PayeeAccount{
			BankID:      os.Getenv("PAYEE_BANK_ID"),
			AccountNo:   os.Getenv("PAYEE_ACCOUNT_NO"),
			AccountName: os.Getenv("PAYEE_ACCOUNT_NAME"),
			QRTemplate:  getenvDefault("PAYEE_QR_TEMPLATE", "compact2"),
		},
	}

	if path := os.Getenv("BILLING_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.DueDay < 1 || cfg.DueDay > 28 {
		return cfg, errors.New("billing config: due_day must be between 1 and 28")
	}
	if cfg.Currency == "" {
		cfg.Currency = "VND"
	}
	if cfg.Payee.QRTemplate == "" {
		cfg.Payee.QRTemplate = "compact2"
	}
	return cfg, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
