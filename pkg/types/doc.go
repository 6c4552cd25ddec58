// Package types defines the chain-facing data model of the SDK: hex scalar
// types in the node's wire convention, raw and signed transactions, service
// query parameters, execution receipts, and the tolerant return-value wrapper
// used for service responses.
//
// These structs mirror the JSON documents exchanged with a node's GraphQL API.
// Quantities travel as 0x-prefixed hex strings on the wire; Uint64 handles the
// conversion transparently during (un)marshaling.
//
// # Transactions
//
// RawTransaction is the unsigned request to mutate chain state. It is composed
// once (usually by client.Client.ComposeTransaction) and treated as immutable
// afterwards:
//
//	type RawTransaction struct {
//		ChainID     Hash    // target chain
//		CyclesLimit Uint64  // execution metering budget
//		CyclesPrice Uint64  // price per cycle
//		Nonce       Hash    // random 32-byte value
//		Timeout     Uint64  // block height after which the tx is invalid
//		ServiceName string  // target service, e.g. "asset"
//		Method      string  // service method, e.g. "transfer"
//		Payload     string  // JSON document, service-defined
//	}
//
// SignedTransaction pairs the raw fields with the signature envelope
// (pubkey, signature, txHash) produced by the signer package. A signed
// transaction is never modified after signing.
//
// # Service responses
//
// ServiceResponse is returned both by read queries and inside receipts. Its
// Ret field holds the service's return payload, which is a raw string until a
// successful JSON decode; services are free to return plain strings, and an
// undecodable Ret is not an error. See Ret.
//
// # Receipts
//
// Receipt is the execution result of a submitted transaction. When
// Response.IsError is set, the service executed but rejected the call;
// the SDK surfaces that as a *ReceiptError instead of returning the receipt.
package types
