package binding

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/muta-dev/muta-sdk-go/pkg/types"
)

// Composer composes unsigned transactions. It is the slice of the transport
// that write transforms are allowed to see.
type Composer interface {
	ComposeTransaction(ctx context.Context, param types.ComposeTransactionParam) (types.RawTransaction, error)
}

// Transport is the chain access capability the binding layer consumes.
// client.Client implements it; tests substitute their own.
type Transport interface {
	Composer
	QueryServiceDyn(ctx context.Context, param types.QueryServiceParam) (types.ServiceResponse, error)
	SendTransaction(ctx context.Context, stx types.SignedTransaction) (types.Hash, error)
	GetReceipt(ctx context.Context, txHash types.Hash) (*types.Receipt, error)
}

// Signer turns a raw transaction plus key material into a signed envelope.
// signer.Signer implements it.
type Signer interface {
	Sign(tx types.RawTransaction, key *ecdsa.PrivateKey) (types.SignedTransaction, error)
}

// ReadCall is a bound read method. It shapes the payload, runs the query and
// returns the decoded result. No side effects beyond the query itself.
type ReadCall func(ctx context.Context, payload any) (types.ServiceResponse, error)

// Handle exposes one callable per bound service method. It holds references
// to the transport and signer it was bound with but owns neither; it stays
// valid as long as they do, and is safe for unlimited concurrent use.
type Handle struct {
	serviceName string
	reads       map[string]ReadCall
	writes      map[string]*WriteMethod
}

// BindService walks the service model and produces a handle with one callable
// per recognized descriptor. Read descriptors become ReadCalls against the
// transport's query path; write descriptors become WriteMethods that can
// either compose unsigned transactions or run the full sign-submit-receipt
// pipeline. Descriptors of unrecognized kind produce no callable: the model
// is caller-declared data and may name kinds a newer SDK understands, so each
// skip is logged and reported by Methods rather than failing the bind.
func BindService(serviceName string, model ServiceModel, transport Transport, signer Signer) (*Handle, error) {
	if serviceName == "" {
		return nil, errors.New("bind: serviceName is required")
	}
	if transport == nil {
		return nil, errors.New("bind: transport is required")
	}
	if signer == nil {
		return nil, errors.New("bind: signer is required")
	}

	h := &Handle{
		serviceName: serviceName,
		reads:       make(map[string]ReadCall, len(model)),
		writes:      make(map[string]*WriteMethod, len(model)),
	}

	for method, descriptor := range model {
		call := CallContext{ServiceName: serviceName, Method: method}

		switch {
		case descriptor.IsRead():
			h.reads[method] = newReadCall(call, descriptor.readTransform, transport)
		case descriptor.IsWrite():
			h.writes[method] = &WriteMethod{
				call:      call,
				transform: descriptor.writeTransform,
				transport: transport,
				signer:    signer,
			}
		default:
			zap.L().Debug("skipping descriptor of unrecognized kind",
				zap.String("service", serviceName),
				zap.String("method", method))
		}
	}

	return h, nil
}

func newReadCall(call CallContext, transform ReadTransform, transport Transport) ReadCall {
	return func(ctx context.Context, payload any) (types.ServiceResponse, error) {
		// Transform failures propagate untouched; shaping bugs belong to the
		// model author, not this layer.
		param, err := transform(call, payload)
		if err != nil {
			return types.ServiceResponse{}, err
		}
		return transport.QueryServiceDyn(ctx, param)
	}
}

// ServiceName returns the service this handle is bound to.
func (h *Handle) ServiceName() string { return h.serviceName }

// Read returns the bound read callable for method.
func (h *Handle) Read(method string) (ReadCall, bool) {
	call, ok := h.reads[method]
	return call, ok
}

// Write returns the bound write method.
func (h *Handle) Write(method string) (*WriteMethod, bool) {
	w, ok := h.writes[method]
	return w, ok
}

// Query is a convenience wrapper around Read that fails on unbound methods.
func (h *Handle) Query(ctx context.Context, method string, payload any) (types.ServiceResponse, error) {
	call, ok := h.Read(method)
	if !ok {
		return types.ServiceResponse{}, fmt.Errorf("service %s has no bound read method %q", h.serviceName, method)
	}
	return call(ctx, payload)
}

// Methods lists every bound method name, sorted. Callers that need to assert
// full model coverage at startup can diff this against their model's keys.
func (h *Handle) Methods() []string {
	out := make([]string, 0, len(h.reads)+len(h.writes))
	for m := range h.reads {
		out = append(out, m)
	}
	for m := range h.writes {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
