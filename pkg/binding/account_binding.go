package binding

import (
	"context"
	"errors"
	"fmt"

	"github.com/muta-dev/muta-sdk-go/pkg/account"
	"github.com/muta-dev/muta-sdk-go/pkg/types"
)

// AccountBinding is a handle fixed to one account identity: reads behave
// exactly like the underlying handle's, and every write signs with the
// account's key and resolves to a receipt. The unsigned-transaction branch is
// unreachable through this type; callers that want it use the Handle.
type AccountBinding struct {
	handle  *Handle
	account *account.Account
}

// AccountBinder constructs account-bound instances of one service model.
type AccountBinder func(transport Transport, signer Signer, acct *account.Account) (*AccountBinding, error)

// BindServiceToAccount captures a service model once and returns a
// constructor for account-bound instances of it. The two stages mirror how
// the model is usually declared (package level, once) versus instantiated
// (per transport and identity, possibly many times).
func BindServiceToAccount(serviceName string, model ServiceModel) AccountBinder {
	return func(transport Transport, signer Signer, acct *account.Account) (*AccountBinding, error) {
		if acct == nil {
			return nil, errors.New("bind: account is required")
		}
		handle, err := BindService(serviceName, model, transport, signer)
		if err != nil {
			return nil, err
		}
		return &AccountBinding{handle: handle, account: acct}, nil
	}
}

// Account returns the identity this binding operates as.
func (b *AccountBinding) Account() *account.Account { return b.account }

// ServiceName returns the bound service.
func (b *AccountBinding) ServiceName() string { return b.handle.ServiceName() }

// Methods lists the bound method names, sorted.
func (b *AccountBinding) Methods() []string { return b.handle.Methods() }

// Read runs a bound read method; identical to the handle's callable.
func (b *AccountBinding) Read(ctx context.Context, method string, payload any) (types.ServiceResponse, error) {
	return b.handle.Query(ctx, method, payload)
}

// Write runs a bound write method through the full pipeline, always signing
// with the binding's account key.
func (b *AccountBinding) Write(ctx context.Context, method string, payload any) (*types.Receipt, error) {
	w, ok := b.handle.Write(method)
	if !ok {
		return nil, fmt.Errorf("service %s has no bound write method %q", b.handle.ServiceName(), method)
	}
	return w.SignAndSubmit(ctx, payload, b.account.PrivateKey())
}
