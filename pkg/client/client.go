package client

import (
	"context"
	"crypto/rand"
	"fmt"
	"net/http"
	"time"

	"github.com/machinebox/graphql"
	"go.uber.org/zap"

	"github.com/muta-dev/muta-sdk-go/pkg/config"
	"github.com/muta-dev/muta-sdk-go/pkg/types"
)

// Client talks to a node's GraphQL API. It implements the transport
// collaborator consumed by the binding package: transaction composition,
// dynamic service queries, submission and receipt retrieval.
//
// A Client is stateless apart from its configuration and is safe for
// concurrent use.
type Client struct {
	endpoint   string
	gql        *graphql.Client
	httpClient *http.Client

	chainID     types.Hash
	cyclesLimit types.Uint64
	cyclesPrice types.Uint64
	timeoutGap  uint64
	timeouts    config.Timeouts
}

// Option customizes a Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
}

// WithHTTPClient replaces the http.Client used for GraphQL requests.
// Useful for custom TLS settings or test servers.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// NewClient creates a client for the node endpoint named in cfg. The config
// must already be validated; chain ID and metering defaults are taken from it
// and applied to composed transactions that do not set their own. Each
// operation runs under the matching deadline from cfg.Timeouts (zero values
// fall back to the usual defaults).
func NewClient(cfg *config.Config, opts ...Option) *Client {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	hc := o.httpClient
	if hc == nil {
		hc = &http.Client{}
	}

	return &Client{
		endpoint:    cfg.Endpoint,
		gql:         graphql.NewClient(cfg.Endpoint, graphql.WithHTTPClient(hc)),
		httpClient:  hc,
		chainID:     types.Hash(cfg.ChainID),
		cyclesLimit: types.Uint64(cfg.CyclesLimit),
		cyclesPrice: types.Uint64(cfg.CyclesPrice),
		timeoutGap:  cfg.TimeoutGap,
		timeouts:    cfg.Timeouts.WithDefaults(),
	}
}

// Endpoint returns the GraphQL URL this client talks to.
func (c *Client) Endpoint() string { return c.endpoint }

// Close releases idle connections held by the client's HTTP transport.
// In-flight requests are not interrupted; the client stays usable, a later
// call simply dials again.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// withTimeout bounds ctx by the given per-operation deadline. Non-positive
// durations leave ctx as-is.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

const queryServiceDocument = `
query queryService($serviceName: String!, $method: String!, $payload: String!, $height: Uint64, $caller: Address, $cyclesLimit: Uint64, $cyclesPrice: Uint64) {
  queryService(serviceName: $serviceName, method: $method, payload: $payload, height: $height, caller: $caller, cyclesLimit: $cyclesLimit, cyclesPrice: $cyclesPrice) {
    ret
    isError
  }
}`

// QueryServiceDyn runs a read-only service query. The returned response
// carries the service's return payload, decoded from JSON when it parses and
// left as the raw string otherwise. An isError response is returned as-is:
// interpreting it is the caller's decision on the read path.
func (c *Client) QueryServiceDyn(ctx context.Context, param types.QueryServiceParam) (types.ServiceResponse, error) {
	if err := param.Validate(); err != nil {
		return types.ServiceResponse{}, err
	}

	req := graphql.NewRequest(queryServiceDocument)
	req.Var("serviceName", param.ServiceName)
	req.Var("method", param.Method)
	req.Var("payload", param.Payload)
	if param.Height != nil {
		req.Var("height", param.Height.Hex())
	}
	if param.Caller != "" {
		req.Var("caller", param.Caller)
	}
	if param.CyclesLimit != nil {
		req.Var("cyclesLimit", param.CyclesLimit.Hex())
	}
	if param.CyclesPrice != nil {
		req.Var("cyclesPrice", param.CyclesPrice.Hex())
	}

	ctx, cancel := withTimeout(ctx, c.timeouts.Query)
	defer cancel()

	var resp struct {
		QueryService types.ServiceResponse `json:"queryService"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		zap.L().Error("queryService failed",
			zap.String("service", param.ServiceName),
			zap.String("method", param.Method),
			zap.Error(err))
		return types.ServiceResponse{}, fmt.Errorf("queryService %s.%s: %w", param.ServiceName, param.Method, err)
	}

	out := resp.QueryService
	out.ServiceName = param.ServiceName
	out.Method = param.Method
	if !out.IsError {
		out.Ret = out.Ret.Decoded()
	}
	return out, nil
}

const getBlockDocument = `
query getBlock($height: Uint64) {
  getBlock(height: $height) {
    hash
    header {
      chainId
      height
      execHeight
      prevHash
      timestamp
      stateRoot
      proposer
    }
  }
}`

// GetBlock fetches the block at the given height, or the latest block when
// height is nil.
func (c *Client) GetBlock(ctx context.Context, height *types.Uint64) (*types.Block, error) {
	req := graphql.NewRequest(getBlockDocument)
	if height != nil {
		req.Var("height", height.Hex())
	}

	ctx, cancel := withTimeout(ctx, c.timeouts.Compose)
	defer cancel()

	var resp struct {
		GetBlock types.Block `json:"getBlock"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		zap.L().Error("getBlock failed", zap.Error(err))
		return nil, fmt.Errorf("getBlock: %w", err)
	}
	return &resp.GetBlock, nil
}

// GetLatestBlockHeight returns the height of the most recent block.
func (c *Client) GetLatestBlockHeight(ctx context.Context) (uint64, error) {
	block, err := c.GetBlock(ctx, nil)
	if err != nil {
		return 0, err
	}
	return uint64(block.Header.Height), nil
}

// ComposeTransaction builds an unsigned transaction for the given service
// call. It fetches the latest block height to derive the timeout
// (height + timeoutGap), draws a random nonce, and fills chain ID and cycle
// metering from the client's defaults wherever the param leaves them unset.
// The one network call here is the height fetch; nothing is submitted.
func (c *Client) ComposeTransaction(ctx context.Context, param types.ComposeTransactionParam) (types.RawTransaction, error) {
	if err := param.Validate(); err != nil {
		return types.RawTransaction{}, err
	}

	timeout := param.Timeout
	if timeout == nil {
		height, err := c.GetLatestBlockHeight(ctx)
		if err != nil {
			return types.RawTransaction{}, fmt.Errorf("composeTransaction: %w", err)
		}
		t := types.Uint64(height + c.timeoutGap)
		timeout = &t
	}

	nonce := make([]byte, types.HashLength)
	if _, err := rand.Read(nonce); err != nil {
		return types.RawTransaction{}, fmt.Errorf("composeTransaction: nonce: %w", err)
	}

	tx := types.RawTransaction{
		ChainID:     c.chainID,
		CyclesLimit: c.cyclesLimit,
		CyclesPrice: c.cyclesPrice,
		Nonce:       types.NewHashFromBytes(nonce),
		Timeout:     *timeout,
		ServiceName: param.ServiceName,
		Method:      param.Method,
		Payload:     param.Payload,
	}
	if param.CyclesLimit != nil {
		tx.CyclesLimit = *param.CyclesLimit
	}
	if param.CyclesPrice != nil {
		tx.CyclesPrice = *param.CyclesPrice
	}
	return tx, nil
}

const sendTransactionDocument = `
mutation sendTransaction($inputRaw: InputRawTransaction!, $inputEncryption: InputTransactionEncryption!) {
  sendTransaction(inputRaw: $inputRaw, inputEncryption: $inputEncryption)
}`

// inputRawTransaction mirrors the node's InputRawTransaction input object.
// Quantities go over the wire in their hex form.
type inputRawTransaction struct {
	ChainID     types.Hash `json:"chainId"`
	CyclesLimit string     `json:"cyclesLimit"`
	CyclesPrice string     `json:"cyclesPrice"`
	Nonce       types.Hash `json:"nonce"`
	Timeout     string     `json:"timeout"`
	ServiceName string     `json:"serviceName"`
	Method      string     `json:"method"`
	Payload     string     `json:"payload"`
}

// inputTransactionEncryption mirrors the node's InputTransactionEncryption
// input object.
type inputTransactionEncryption struct {
	TxHash    types.Hash `json:"txHash"`
	Pubkey    types.Hex  `json:"pubkey"`
	Signature types.Hex  `json:"signature"`
}

// SendTransaction submits a signed transaction. The raw fields and the
// signature envelope travel as the node's two input objects; the result is
// the transaction hash the node accepted the submission under. No retries.
func (c *Client) SendTransaction(ctx context.Context, stx types.SignedTransaction) (types.Hash, error) {
	req := graphql.NewRequest(sendTransactionDocument)
	req.Var("inputRaw", inputRawTransaction{
		ChainID:     stx.Raw.ChainID,
		CyclesLimit: stx.Raw.CyclesLimit.Hex(),
		CyclesPrice: stx.Raw.CyclesPrice.Hex(),
		Nonce:       stx.Raw.Nonce,
		Timeout:     stx.Raw.Timeout.Hex(),
		ServiceName: stx.Raw.ServiceName,
		Method:      stx.Raw.Method,
		Payload:     stx.Raw.Payload,
	})
	req.Var("inputEncryption", inputTransactionEncryption{
		TxHash:    stx.Signature.TxHash,
		Pubkey:    stx.Signature.Pubkey,
		Signature: stx.Signature.Signature,
	})

	ctx, cancel := withTimeout(ctx, c.timeouts.Submit)
	defer cancel()

	var resp struct {
		SendTransaction types.Hash `json:"sendTransaction"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		zap.L().Error("sendTransaction failed",
			zap.String("service", stx.Raw.ServiceName),
			zap.String("method", stx.Raw.Method),
			zap.Error(err))
		return "", fmt.Errorf("sendTransaction %s.%s: %w", stx.Raw.ServiceName, stx.Raw.Method, err)
	}
	return resp.SendTransaction, nil
}

const getReceiptDocument = `
query getReceipt($txHash: Hash!) {
  getReceipt(txHash: $txHash) {
    txHash
    height
    cyclesUsed
    stateRoot
    events {
      service
      data
    }
    response {
      serviceName
      method
      ret
      isError
    }
  }
}`

// GetReceipt fetches the execution receipt for the given transaction hash.
// This is a single fetch; waiting for the transaction to be mined is the
// node's concern, not the client's.
func (c *Client) GetReceipt(ctx context.Context, txHash types.Hash) (*types.Receipt, error) {
	if err := txHash.Validate(); err != nil {
		return nil, err
	}

	req := graphql.NewRequest(getReceiptDocument)
	req.Var("txHash", txHash)

	ctx, cancel := withTimeout(ctx, c.timeouts.Receipt)
	defer cancel()

	var resp struct {
		GetReceipt types.Receipt `json:"getReceipt"`
	}
	if err := c.gql.Run(ctx, req, &resp); err != nil {
		zap.L().Error("getReceipt failed", zap.String("txHash", txHash.String()), zap.Error(err))
		return nil, fmt.Errorf("getReceipt %s: %w", txHash, err)
	}
	return &resp.GetReceipt, nil
}
