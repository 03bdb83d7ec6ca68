package application

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadBillingConfig_Defaults(t *testing.T) {
	t.Setenv("BILLING_CONFIG", "")
	t.Setenv("BILLING_DUE_DAY", "")
	t.Setenv("BILLING_CURRENCY", "")

	cfg, err := LoadBillingConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DueDay != 10 {
		t.Fatalf("default due day: got %d", cfg.DueDay)
	}
	if cfg.Currency != "VND" {
		t.Fatalf("default currency: got %s", cfg.Currency)
	}
	if cfg.Payee.QRTemplate != "compact2" {
		t.Fatalf("default template: got %s", cfg.Payee.QRTemplate)
	}
}

func TestLoadBillingConfig_YAMLOverridesEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "billing.yaml")
	data := []byte(`
due_day: 5
currency: VND
payee:
  bank_id: "970443"
  account_no: "02022122"
  account_name: "NGUYEN THI HONG VAN"
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BILLING_CONFIG", path)
	t.Setenv("BILLING_DUE_DAY", "20")

	cfg, err := LoadBillingConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DueDay != 5 {
		t.Fatalf("yaml must win over env: got %d", cfg.DueDay)
	}
	if cfg.Payee.BankID != "970443" || cfg.Payee.AccountNo != "02022122" {
		t.Fatalf("payee not loaded: %+v", cfg.Payee)
	}
	if cfg.Payee.QRTemplate != "compact2" {
		t.Fatalf("template default must survive yaml: %s", cfg.Payee.QRTemplate)
	}
}

func TestLoadBillingConfig_RejectsBadDueDay(t *testing.T) {
	t.Setenv("BILLING_CONFIG", "")
	t.Setenv("BILLING_DUE_DAY", "31")
	if _, err := LoadBillingConfig(); err == nil {
		t.Fatal("due day 31 must be rejected")
	}
}
