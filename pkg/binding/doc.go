// Package binding turns a declarative service model (a mapping from method
// names to read/write descriptors) into typed client callables.
//
// A read callable shapes its payload into query parameters and returns the
// decoded query result. A write method splits the transaction lifecycle into
// two explicit operations:
//
//   - Compose(ctx, payload) produces the unsigned transaction and makes no
//     further network calls. Use it for offline signing.
//   - SignAndSubmit(ctx, payload, key) composes, signs, submits, fetches the
//     execution receipt and decodes its return value.
//
// # Declaring a model
//
//	var assetModel = binding.ServiceModel{
//		"get_balance": binding.Read(),
//		"transfer":    binding.Write(),
//	}
//
//	handle, err := binding.BindService("asset", assetModel, transport, signer)
//	...
//	resp, err := handle.Query(ctx, "get_balance", map[string]any{"address": addr})
//
//	transfer, _ := handle.Write("transfer")
//	receipt, err := transfer.SignAndSubmit(ctx, payload, key)
//
// Descriptors default to the canonical shaping: {serviceName, method,
// payload} for reads, composer delegation for writes. They accept custom
// transforms for anything else. Transform failures propagate to the caller
// untouched.
//
// # Account-bound handles
//
// BindServiceToAccount captures a model once and returns a constructor for
// handles fixed to one identity. Through an AccountBinding every write signs
// with the account key and resolves to a receipt; the unsigned branch is not
// reachable.
//
// # Collaborators
//
// The Transport and Signer capabilities are passed in explicitly, never
// ambient, so bindings against different nodes or fake chains coexist freely.
// Handles close over read-only references only; any number of invocations may
// run concurrently.
//
// # Errors
//
// Transform, transport and signing failures surface unwrapped by this layer
// and nothing is retried. The one conversion this package owns: a receipt
// whose response reports an application-level error is returned as a
// *types.ReceiptError (message = the service's raw ret string), never as a
// receipt.
package binding
