package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}

	if cfg.Ledger.RPCURL != "https://fullnode.mainnet.sui.io:443" {
		t.Fatalf("unexpected RPC URL: %q", cfg.Ledger.RPCURL)
	}

	if got := cfg.Ledger.RequestTimeout; got != 15*time.Second {
		t.Fatalf("expected request timeout 15s, got %v", got)
	}

	if cfg.Catalog.EventScanLimit != 100 {
		t.Fatalf("expected default event scan limit 100, got %d", cfg.Catalog.EventScanLimit)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvRPCURL); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvRPCURL, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestContractsEventTypes(t *testing.T) {
	contracts := ContractsConfig{
		TemplatePackage: "0xtmpl",
		TemplateModule:  "template",
	}

	if got := contracts.SaleStartedEventType(); got != "0xtmpl::template::SaleStarted" {
		t.Fatalf("unexpected sale started event type %q", got)
	}
	if got := contracts.PurchasedEventType(); got != "0xtmpl::template::UnitsPurchased" {
		t.Fatalf("unexpected purchased event type %q", got)
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8080")
	t.Setenv(EnvRPCURL, "https://fullnode.mainnet.sui.io:443")
	t.Setenv(EnvBasePackage, "0xbase")
	t.Setenv(EnvTemplatePackage, "0xtmpl")
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
}
