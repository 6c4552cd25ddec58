package types

import "errors"

// RawTransaction is an unsigned request to mutate chain state. Composed once,
// then treated as immutable; all fields are value types and nothing in the SDK
// writes to a composed transaction.
type RawTransaction struct {
	ChainID     Hash   `json:"chainId"`
	CyclesLimit Uint64 `json:"cyclesLimit"`
	CyclesPrice Uint64 `json:"cyclesPrice"`
	Nonce       Hash   `json:"nonce"`
	Timeout     Uint64 `json:"timeout"`
	ServiceName string `json:"serviceName"`
	Method      string `json:"method"`
	Payload     string `json:"payload"`
}

// Validate checks the fields every transaction must carry before signing or
// submission.
func (tx RawTransaction) Validate() error {
	if tx.ServiceName == "" {
		return errors.New("transaction: serviceName is required")
	}
	if tx.Method == "" {
		return errors.New("transaction: method is required")
	}
	if err := tx.ChainID.Validate(); err != nil {
		return err
	}
	return tx.Nonce.Validate()
}

// TransactionSignature is the encryption envelope attached to a transaction
// by the signer: the digest that was signed, the compressed public key of the
// signer, and the recoverable secp256k1 signature.
type TransactionSignature struct {
	TxHash    Hash `json:"txHash"`
	Pubkey    Hex  `json:"pubkey"`
	Signature Hex  `json:"signature"`
}

// SignedTransaction is a RawTransaction plus its signature envelope. Produced
// only by signing; never mutated afterwards.
type SignedTransaction struct {
	Raw       RawTransaction       `json:"raw"`
	Signature TransactionSignature `json:"signature"`
}

// ComposeTransactionParam is the input to transaction composition. Only
// ServiceName, Method and Payload are required; zero metering fields are
// filled from the composer's configured defaults, and Timeout is derived from
// the current block height.
type ComposeTransactionParam struct {
	ServiceName string  `json:"serviceName"`
	Method      string  `json:"method"`
	Payload     string  `json:"payload"`
	CyclesLimit *Uint64 `json:"cyclesLimit,omitempty"`
	CyclesPrice *Uint64 `json:"cyclesPrice,omitempty"`
	Timeout     *Uint64 `json:"timeout,omitempty"`
}

// Validate reports whether the parameter carries the required fields.
func (p ComposeTransactionParam) Validate() error {
	if p.ServiceName == "" {
		return errors.New("compose: serviceName is required")
	}
	if p.Method == "" {
		return errors.New("compose: method is required")
	}
	return nil
}

// QueryServiceParam is the canonical request shape for the read path.
// ServiceName and Method are required; the remaining fields tune execution
// (height pins the query to a historical state, caller and cycle pricing are
// forwarded to the service).
type QueryServiceParam struct {
	ServiceName string  `json:"serviceName"`
	Method      string  `json:"method"`
	Payload     string  `json:"payload"`
	Height      *Uint64 `json:"height,omitempty"`
	Caller      Address `json:"caller,omitempty"`
	CyclesLimit *Uint64 `json:"cyclesLimit,omitempty"`
	CyclesPrice *Uint64 `json:"cyclesPrice,omitempty"`
}

// Validate reports whether the parameter carries the required fields.
func (p QueryServiceParam) Validate() error {
	if p.ServiceName == "" {
		return errors.New("query: serviceName is required")
	}
	if p.Method == "" {
		return errors.New("query: method is required")
	}
	return nil
}
