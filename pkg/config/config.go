// Package config defines the runtime configuration for the SDK: node
// endpoint, chain identity, transaction metering defaults, and operation
// timeouts. It also provides validation and defaulting helpers, plus YAML
// file loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all SDK settings required to initialize the chain client.
// Use Validate to fill implicit defaults and to check for required fields.
type Config struct {
	// Endpoint is the node's GraphQL API URL (required).
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	// ChainID is the 0x-prefixed 32-byte identifier of the target chain.
	// Default: DefaultChainID.
	ChainID string `json:"chain_id" yaml:"chain_id"`
	// PrivateKey is the hex-encoded secp256k1 private key used for signed
	// operations (optional if you only compose transactions or run queries).
	PrivateKey string `json:"private_key" yaml:"private_key"`
	// CyclesLimit is the default execution budget attached to composed
	// transactions that do not specify their own. Default: 0xffffff.
	CyclesLimit uint64 `json:"cycles_limit" yaml:"cycles_limit"`
	// CyclesPrice is the default price per cycle. Default: 1.
	CyclesPrice uint64 `json:"cycles_price" yaml:"cycles_price"`
	// TimeoutGap is how many blocks past the current height a composed
	// transaction stays valid. Default: 20.
	TimeoutGap uint64 `json:"timeout_gap" yaml:"timeout_gap"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug"`
	// Timeouts configures per-operation deadlines. See Timeouts.WithDefaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts"`
}

// DefaultChainID is the chain ID used when the configuration does not name
// one. It matches the ID shipped in the reference chain's example genesis.
const DefaultChainID = "0xb6a4d7da21443f5e816e8700eea87610e6d769657d6b8ec73028457bf2ca4036"

// Timeouts controls SDK operation deadlines.
// Zero values will be replaced by sane defaults in WithDefaults.
type Timeouts struct {
	Query   time.Duration `json:"query" yaml:"query"`     // queryService reads
	Compose time.Duration `json:"compose" yaml:"compose"` // block-height fetch during compose
	Submit  time.Duration `json:"submit" yaml:"submit"`   // sendTransaction
	Receipt time.Duration `json:"receipt" yaml:"receipt"` // getReceipt
}

// Validate normalizes the configuration by applying implicit defaults for
// ChainID, CyclesLimit, CyclesPrice and TimeoutGap and verifies that Endpoint
// is provided. Returns an error when Endpoint is empty.
func (c *Config) Validate() error {

	if c.ChainID == "" {
		c.ChainID = DefaultChainID
	}

	if c.CyclesLimit == 0 {
		c.CyclesLimit = 0xffffff
	}

	if c.CyclesPrice == 0 {
		c.CyclesPrice = 1
	}

	if c.TimeoutGap == 0 {
		c.TimeoutGap = 20
	}

	if c.Endpoint == "" {
		return errors.New("endpoint is required")
	}

	return nil
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	Query:   10s
//	Compose: 10s
//	Submit:  25s
//	Receipt: 60s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.Query == 0 {
		tt.Query = 10 * time.Second
	}
	if tt.Compose == 0 {
		tt.Compose = 10 * time.Second
	}
	if tt.Submit == 0 {
		tt.Submit = 25 * time.Second
	}
	if tt.Receipt == 0 {
		tt.Receipt = 60 * time.Second
	}
	return tt
}

// Load reads a YAML configuration file and validates it.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Timeouts = cfg.Timeouts.WithDefaults()

	return &cfg, nil
}
