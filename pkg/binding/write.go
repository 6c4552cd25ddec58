package binding

import (
	"context"
	"crypto/ecdsa"
	"errors"

	"github.com/muta-dev/muta-sdk-go/pkg/types"
)

// WriteMethod is a bound state-mutating method. It exposes the two halves of
// the write lifecycle as separate operations: Compose produces the unsigned
// transaction and stops; SignAndSubmit runs the whole pipeline through to a
// decoded receipt. Which one runs is the caller's explicit choice, never
// inferred from argument shapes.
type WriteMethod struct {
	call      CallContext
	transform WriteTransform
	transport Transport
	signer    Signer
}

// ServiceName returns the service this method belongs to.
func (w *WriteMethod) ServiceName() string { return w.call.ServiceName }

// Method returns the bound method name.
func (w *WriteMethod) Method() string { return w.call.Method }

// Compose shapes the payload into an unsigned transaction and returns it.
// The signer and the submit/receipt paths are never touched, so this is the
// entry point for offline-signing flows.
func (w *WriteMethod) Compose(ctx context.Context, payload any) (types.RawTransaction, error) {
	return w.transform(ctx, w.call, w.transport, payload)
}

// SignAndSubmit runs the full write pipeline: compose, sign, submit, fetch
// the receipt, decode its return value. Steps run strictly in that order and
// the first failing step aborts the rest; nothing is retried here.
//
// A receipt whose response reports an application-level error becomes a
// *types.ReceiptError carrying the service's raw error message; the receipt
// itself is not returned. A return value that does not parse as JSON is not
// an error; the raw string stands.
func (w *WriteMethod) SignAndSubmit(ctx context.Context, payload any, key *ecdsa.PrivateKey) (*types.Receipt, error) {
	if key == nil {
		return nil, errors.New("signAndSubmit: key material is required; use Compose for an unsigned transaction")
	}

	// Composition is shared verbatim with Compose: both branches of the write
	// lifecycle produce the identical transaction for identical payloads.
	tx, err := w.Compose(ctx, payload)
	if err != nil {
		return nil, err
	}

	stx, err := w.signer.Sign(tx, key)
	if err != nil {
		return nil, err
	}

	txHash, err := w.transport.SendTransaction(ctx, stx)
	if err != nil {
		return nil, err
	}

	receipt, err := w.transport.GetReceipt(ctx, txHash)
	if err != nil {
		return nil, err
	}

	if receipt.Response.IsError {
		return nil, &types.ReceiptError{
			ServiceName: receipt.Response.ServiceName,
			Method:      receipt.Response.Method,
			Ret:         receipt.Response.Ret.Raw(),
		}
	}

	receipt.Response.Ret = receipt.Response.Ret.Decoded()
	return receipt, nil
}
