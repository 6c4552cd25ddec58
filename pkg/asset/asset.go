// Package asset is a typed client for the chain's built-in asset service,
// built on the generic binding layer. It covers asset issuance, transfers and
// the allowance workflow, with typed payloads and results instead of raw JSON
// strings.
package asset

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/muta-dev/muta-sdk-go/pkg/account"
	"github.com/muta-dev/muta-sdk-go/pkg/binding"
	"github.com/muta-dev/muta-sdk-go/pkg/types"
)

// ServiceName is the on-chain name of the asset service.
const ServiceName = "asset"

// serviceModel declares the asset service's methods. Reads and writes here
// all use the default shaping; payloads are plain JSON documents.
var serviceModel = binding.ServiceModel{
	"create_asset":  binding.Write(),
	"transfer":      binding.Write(),
	"approve":       binding.Write(),
	"transfer_from": binding.Write(),
	"get_asset":     binding.Read(),
	"get_balance":   binding.Read(),
	"get_allowance": binding.Read(),
}

var bindToAccount = binding.BindServiceToAccount(ServiceName, serviceModel)

// Balance is an asset amount in the asset's smallest unit.
type Balance uint64

// Units converts the raw balance into a human-readable amount for an asset
// with the given number of decimal places.
func (b Balance) Units(precision int32) decimal.Decimal {
	return decimal.New(int64(b), -precision)
}

// Asset describes an issued asset.
type Asset struct {
	ID     types.Hash    `json:"id"`
	Name   string        `json:"name"`
	Symbol string        `json:"symbol"`
	Supply Balance       `json:"supply"`
	Issuer types.Address `json:"issuer"`
}

// CreateAssetPayload issues a new asset.
type CreateAssetPayload struct {
	Name   string  `json:"name"`
	Symbol string  `json:"symbol"`
	Supply Balance `json:"supply"`
}

// TransferPayload moves value to another account.
type TransferPayload struct {
	AssetID types.Hash    `json:"asset_id"`
	To      types.Address `json:"to"`
	Value   Balance       `json:"value"`
}

// ApprovePayload grants a spender an allowance.
type ApprovePayload struct {
	AssetID types.Hash    `json:"asset_id"`
	To      types.Address `json:"to"`
	Value   Balance       `json:"value"`
}

// TransferFromPayload spends a previously granted allowance.
type TransferFromPayload struct {
	AssetID   types.Hash    `json:"asset_id"`
	Sender    types.Address `json:"sender"`
	Recipient types.Address `json:"recipient"`
	Value     Balance       `json:"value"`
}

// GetAssetPayload looks an asset up by ID.
type GetAssetPayload struct {
	ID types.Hash `json:"id"`
}

// GetBalancePayload queries one user's balance of one asset.
type GetBalancePayload struct {
	AssetID types.Hash    `json:"asset_id"`
	User    types.Address `json:"user"`
}

// BalanceResult is the response to a balance query.
type BalanceResult struct {
	AssetID types.Hash `json:"asset_id"`
	Balance Balance    `json:"balance"`
}

// GetAllowancePayload queries a grantor/grantee allowance.
type GetAllowancePayload struct {
	AssetID types.Hash    `json:"asset_id"`
	Grantor types.Address `json:"grantor"`
	Grantee types.Address `json:"grantee"`
}

// AllowanceResult is the response to an allowance query.
type AllowanceResult struct {
	AssetID types.Hash    `json:"asset_id"`
	Grantor types.Address `json:"grantor"`
	Grantee types.Address `json:"grantee"`
	Value   Balance       `json:"value"`
}

// Client is an asset-service client operating as one fixed account. Writes
// always sign with the account key and resolve to receipts.
type Client struct {
	bound *binding.AccountBinding
}

// NewClient binds the asset service model to the given collaborators and
// account.
func NewClient(transport binding.Transport, signer binding.Signer, acct *account.Account) (*Client, error) {
	bound, err := bindToAccount(transport, signer, acct)
	if err != nil {
		return nil, err
	}
	return &Client{bound: bound}, nil
}

// Account returns the identity this client operates as.
func (c *Client) Account() *account.Account { return c.bound.Account() }

// CreateAsset issues a new asset and returns it as recorded on chain.
func (c *Client) CreateAsset(ctx context.Context, payload CreateAssetPayload) (*Asset, error) {
	receipt, err := c.bound.Write(ctx, "create_asset", payload)
	if err != nil {
		return nil, err
	}
	var created Asset
	if err := receipt.Response.Ret.Unmarshal(&created); err != nil {
		return nil, fmt.Errorf("create_asset: decode receipt: %w", err)
	}
	return &created, nil
}

// Transfer moves value and returns the execution receipt.
func (c *Client) Transfer(ctx context.Context, payload TransferPayload) (*types.Receipt, error) {
	return c.bound.Write(ctx, "transfer", payload)
}

// Approve grants an allowance and returns the execution receipt.
func (c *Client) Approve(ctx context.Context, payload ApprovePayload) (*types.Receipt, error) {
	return c.bound.Write(ctx, "approve", payload)
}

// TransferFrom spends an allowance and returns the execution receipt.
func (c *Client) TransferFrom(ctx context.Context, payload TransferFromPayload) (*types.Receipt, error) {
	return c.bound.Write(ctx, "transfer_from", payload)
}

// GetAsset looks up an issued asset.
func (c *Client) GetAsset(ctx context.Context, id types.Hash) (*Asset, error) {
	var out Asset
	if err := c.read(ctx, "get_asset", GetAssetPayload{ID: id}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetBalance queries a user's balance of an asset.
func (c *Client) GetBalance(ctx context.Context, payload GetBalancePayload) (*BalanceResult, error) {
	var out BalanceResult
	if err := c.read(ctx, "get_balance", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetAllowance queries an allowance between two accounts.
func (c *Client) GetAllowance(ctx context.Context, payload GetAllowancePayload) (*AllowanceResult, error) {
	var out AllowanceResult
	if err := c.read(ctx, "get_allowance", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// read runs a query and decodes its return value into out. Unlike the
// generic layer, the typed client treats an isError query response as a
// failure: callers asked for a concrete result.
func (c *Client) read(ctx context.Context, method string, payload, out any) error {
	resp, err := c.bound.Read(ctx, method, payload)
	if err != nil {
		return err
	}
	if resp.IsError {
		return fmt.Errorf("%s.%s: %s", ServiceName, method, resp.Ret.Raw())
	}
	if err := resp.Ret.Unmarshal(out); err != nil {
		return fmt.Errorf("%s.%s: decode response: %w", ServiceName, method, err)
	}
	return nil
}
