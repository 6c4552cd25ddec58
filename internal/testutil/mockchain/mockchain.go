// Package mockchain provides an in-memory transport for tests: every
// operation of the binding.Transport contract with call recording and
// scriptable results, plus a call-counting signer wrapper.
package mockchain

import (
	"context"
	"crypto/ecdsa"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/muta-dev/muta-sdk-go/pkg/signer"
	"github.com/muta-dev/muta-sdk-go/pkg/types"
)

// ChainID is the fixed chain identity of the mock chain.
var ChainID = types.NewHashFromBytes(append(make([]byte, types.HashLength-1), 0x01))

// Height is the fixed "latest" block height used for composed timeouts.
const Height = 100

// TimeoutGap mirrors the production composer's default gap.
const TimeoutGap = 20

// Chain is an in-memory Transport. The zero value is not usable; construct
// with New. All methods are safe for concurrent use.
type Chain struct {
	mu sync.Mutex

	nonceCounter uint64

	// Recorded calls, in order.
	ComposeCalls []types.ComposeTransactionParam
	QueryCalls   []types.QueryServiceParam
	SendCalls    []types.SignedTransaction
	ReceiptCalls []types.Hash

	// Scripted results.
	queryResponses map[string]types.ServiceResponse
	receiptRet     string
	receiptIsError bool

	// Scripted failures; when set, the operation fails with the given error.
	ComposeErr error
	QueryErr   error
	SendErr    error
	ReceiptErr error
}

// New returns an empty mock chain whose receipts succeed with an empty ret.
func New() *Chain {
	return &Chain{
		queryResponses: make(map[string]types.ServiceResponse),
	}
}

// ScriptQuery fixes the response for queries against service.method.
func (c *Chain) ScriptQuery(service, method string, resp types.ServiceResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queryResponses[service+"."+method] = resp
}

// ScriptReceipt fixes the execution result reported by subsequent receipts.
func (c *Chain) ScriptReceipt(ret string, isError bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receiptRet = ret
	c.receiptIsError = isError
}

// ComposeTransaction builds a deterministic transaction: fixed chain ID and
// metering, timeout = Height + TimeoutGap, and a counter-based nonce (so two
// compositions differ only in the collaborator-assigned nonce).
func (c *Chain) ComposeTransaction(_ context.Context, param types.ComposeTransactionParam) (types.RawTransaction, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ComposeCalls = append(c.ComposeCalls, param)
	if c.ComposeErr != nil {
		return types.RawTransaction{}, c.ComposeErr
	}

	c.nonceCounter++
	nonce := make([]byte, types.HashLength)
	binary.BigEndian.PutUint64(nonce[types.HashLength-8:], c.nonceCounter)

	return types.RawTransaction{
		ChainID:     ChainID,
		CyclesLimit: 0xffffff,
		CyclesPrice: 1,
		Nonce:       types.NewHashFromBytes(nonce),
		Timeout:     Height + TimeoutGap,
		ServiceName: param.ServiceName,
		Method:      param.Method,
		Payload:     param.Payload,
	}, nil
}

// QueryServiceDyn returns the scripted response for the queried method, or a
// success response echoing the payload when nothing was scripted.
func (c *Chain) QueryServiceDyn(_ context.Context, param types.QueryServiceParam) (types.ServiceResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.QueryCalls = append(c.QueryCalls, param)
	if c.QueryErr != nil {
		return types.ServiceResponse{}, c.QueryErr
	}

	if resp, ok := c.queryResponses[param.ServiceName+"."+param.Method]; ok {
		return resp, nil
	}
	return types.ServiceResponse{
		ServiceName: param.ServiceName,
		Method:      param.Method,
		Ret:         types.NewRet(param.Payload).Decoded(),
	}, nil
}

// SendTransaction records the submission and returns the envelope's txHash.
func (c *Chain) SendTransaction(_ context.Context, stx types.SignedTransaction) (types.Hash, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.SendCalls = append(c.SendCalls, stx)
	if c.SendErr != nil {
		return "", c.SendErr
	}
	return stx.Signature.TxHash, nil
}

// GetReceipt fabricates a receipt for the hash using the scripted execution
// result. The response echoes the service and method of the matching
// submitted transaction.
func (c *Chain) GetReceipt(_ context.Context, txHash types.Hash) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ReceiptCalls = append(c.ReceiptCalls, txHash)
	if c.ReceiptErr != nil {
		return nil, c.ReceiptErr
	}

	var service, method string
	for _, stx := range c.SendCalls {
		if stx.Signature.TxHash == txHash {
			service, method = stx.Raw.ServiceName, stx.Raw.Method
			break
		}
	}
	if service == "" {
		return nil, fmt.Errorf("mockchain: no submitted transaction with hash %s", txHash)
	}

	return &types.Receipt{
		StateRoot:  ChainID,
		Height:     Height + 1,
		TxHash:     txHash,
		CyclesUsed: 0x100,
		Events:     []types.Event{},
		Response: types.ServiceResponse{
			ServiceName: service,
			Method:      method,
			Ret:         types.NewRet(c.receiptRet),
			IsError:     c.receiptIsError,
		},
	}, nil
}

// SignerSpy wraps the production signer and counts invocations.
type SignerSpy struct {
	mu    sync.Mutex
	inner *signer.Signer
	calls int
}

// NewSignerSpy returns a spy around a fresh signer.
func NewSignerSpy() *SignerSpy {
	return &SignerSpy{inner: signer.New()}
}

// Sign delegates to the wrapped signer.
func (s *SignerSpy) Sign(tx types.RawTransaction, key *ecdsa.PrivateKey) (types.SignedTransaction, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.inner.Sign(tx, key)
}

// Calls reports how many times Sign ran.
func (s *SignerSpy) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
