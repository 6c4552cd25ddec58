// Package sdk exposes the high-level SDK entry points. It wires together the
// GraphQL chain client, the transaction signer and the configured account,
// and hands out service bindings built on them.
package sdk

import (
	"go.uber.org/zap"

	"github.com/muta-dev/muta-sdk-go/pkg/account"
	"github.com/muta-dev/muta-sdk-go/pkg/asset"
	"github.com/muta-dev/muta-sdk-go/pkg/binding"
	"github.com/muta-dev/muta-sdk-go/pkg/client"
	"github.com/muta-dev/muta-sdk-go/pkg/config"
	"github.com/muta-dev/muta-sdk-go/pkg/signer"
)

// MutaSDK is the public interface for constructing service bindings and
// accessing the underlying collaborators.
type MutaSDK interface {
	// BindService binds a service model and returns the generic handle:
	// reads, plus write methods usable with any key (or none, for
	// unsigned composition).
	BindService(serviceName string, model binding.ServiceModel) (*binding.Handle, error)

	// BindAccountService binds a service model to the configured account.
	// Every write through the result signs with that account's key.
	BindAccountService(serviceName string, model binding.ServiceModel) (*binding.AccountBinding, error)

	// Asset returns a typed client for the built-in asset service, operating
	// as the configured account.
	Asset() (*asset.Client, error)

	// Client returns the underlying chain client for direct queries.
	Client() *client.Client

	// Account returns the configured identity, or nil when no private key
	// was supplied.
	Account() *account.Account

	// Close releases resources held by the SDK. The SDK stays usable
	// afterwards; a later call simply dials the node again.
	Close()
}

// init configures a default global zap logger for the SDK. Applications may
// replace it with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	c := zap.Config{
		Level:            zap.NewAtomicLevelAt(zap.InfoLevel),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// Core is the concrete SDK implementation.
type Core struct {
	*config.Config
	chainClient *client.Client
	txSigner    *signer.Signer
	acct        *account.Account
}

// NewSDK initializes the SDK Core with validated configuration and a chain
// client for the configured endpoint. It applies default timeout values and
// aborts the process if the configuration is invalid. A missing or invalid
// private key only disables signed operations.
func NewSDK(cfg *config.Config) MutaSDK {
	err := cfg.Validate()
	if err != nil {
		zap.L().Fatal("Invalid config", zap.Error(err))
	}

	cfg.Timeouts = cfg.Timeouts.WithDefaults()

	var acct *account.Account
	if cfg.PrivateKey != "" {
		acct, err = account.FromHex(cfg.PrivateKey)
		if err != nil {
			zap.L().Warn("signed operations disabled: private key parsing failed", zap.Error(err))
		}
	} else {
		zap.L().Warn("signed operations disabled: no private key configured")
	}

	if cfg.Debug && acct != nil {
		zap.L().Debug("signer address", zap.String("addr", acct.Address().String()))
	}

	return &Core{
		Config:      cfg,
		chainClient: client.NewClient(cfg),
		txSigner:    signer.New(),
		acct:        acct,
	}
}

// Client returns the chain client.
func (c *Core) Client() *client.Client { return c.chainClient }

// Account returns the configured identity, or nil.
func (c *Core) Account() *account.Account { return c.acct }

// Close drops the chain client's idle connections and flushes the global
// logger.
func (c *Core) Close() {
	c.chainClient.Close()
	_ = zap.L().Sync()
}

// BindService binds a service model against the SDK's chain client.
func (c *Core) BindService(serviceName string, model binding.ServiceModel) (*binding.Handle, error) {
	return binding.BindService(serviceName, model, c.chainClient, c.txSigner)
}

// BindAccountService binds a service model to the configured account.
func (c *Core) BindAccountService(serviceName string, model binding.ServiceModel) (*binding.AccountBinding, error) {
	return binding.BindServiceToAccount(serviceName, model)(c.chainClient, c.txSigner, c.acct)
}

// Asset returns a typed asset-service client bound to the configured account.
func (c *Core) Asset() (*asset.Client, error) {
	return asset.NewClient(c.chainClient, c.txSigner, c.acct)
}
