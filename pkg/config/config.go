package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = "galerie"

// Env variable names referenced from tests and deployment manifests.
const (
	EnvAppEnv          = "GALERIE_APP_ENV"
	EnvPort            = "GALERIE_APP_PORT"
	EnvRPCURL          = "GALERIE_LEDGER_RPC_URL"
	EnvBasePackage     = "GALERIE_CONTRACTS_BASE_PACKAGE"
	EnvTemplatePackage = "GALERIE_CONTRACTS_TEMPLATE_PACKAGE"
)

type Config struct {
	App       AppConfig
	Ledger    LedgerConfig
	Contracts ContractsConfig
	Catalog   CatalogConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string        `envconfig:"GALERIE_APP_ENV" required:"true"`
	Port            string        `envconfig:"GALERIE_APP_PORT" required:"true"`
	LogLevel        string        `envconfig:"GALERIE_LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"GALERIE_LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"GALERIE_SHUTDOWN_TIMEOUT" default:"15s"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, "dev")
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, "production") || strings.EqualFold(a.Env, "prod")
}

type LedgerConfig struct {
	RPCURL         string        `envconfig:"GALERIE_LEDGER_RPC_URL" required:"true"`
	RequestTimeout time.Duration `envconfig:"GALERIE_LEDGER_REQUEST_TIMEOUT" default:"15s"`
}

// ContractsConfig names the on-ledger packages the reconciler reads.
// The template package emits the sale lifecycle events; the base package
// defines the tokenized-asset types shared across deployments.
type ContractsConfig struct {
	BasePackage     string `envconfig:"GALERIE_CONTRACTS_BASE_PACKAGE" required:"true"`
	TemplatePackage string `envconfig:"GALERIE_CONTRACTS_TEMPLATE_PACKAGE" required:"true"`
	TemplateModule  string `envconfig:"GALERIE_CONTRACTS_TEMPLATE_MODULE" default:"template"`
}

// SaleStartedEventType composes the full type tag of the sale creation
// event.
func (c ContractsConfig) SaleStartedEventType() string {
	return fmt.Sprintf("%s::%s::SaleStarted", c.TemplatePackage, c.TemplateModule)
}

// PurchasedEventType composes the full type tag of the purchase event.
func (c ContractsConfig) PurchasedEventType() string {
	return fmt.Sprintf("%s::%s::UnitsPurchased", c.TemplatePackage, c.TemplateModule)
}

type CatalogConfig struct {
	EventScanLimit int `envconfig:"GALERIE_CATALOG_EVENT_SCAN_LIMIT" default:"100"`
	TxScanLimit    int `envconfig:"GALERIE_CATALOG_TX_SCAN_LIMIT" default:"50"`
	FanOut         int `envconfig:"GALERIE_CATALOG_FAN_OUT" default:"8"`
}
