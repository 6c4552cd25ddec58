package types

import "fmt"

// ServiceResponse is what a service execution reports back, both for read
// queries and inside transaction receipts. When IsError is set, Ret carries
// the service's error message rather than a return value.
type ServiceResponse struct {
	ServiceName string `json:"serviceName"`
	Method      string `json:"method"`
	Ret         Ret    `json:"ret"`
	IsError     bool   `json:"isError"`
}

// Event is emitted by a service during transaction execution.
type Event struct {
	Service string `json:"service"`
	Data    string `json:"data"`
}

// Receipt is the execution result of a submitted transaction.
type Receipt struct {
	StateRoot  Hash            `json:"stateRoot"`
	Height     Uint64          `json:"height"`
	TxHash     Hash            `json:"txHash"`
	CyclesUsed Uint64          `json:"cyclesUsed"`
	Events     []Event         `json:"events"`
	Response   ServiceResponse `json:"response"`
}

// BlockHeader carries the chain metadata of a block.
type BlockHeader struct {
	ChainID    Hash    `json:"chainId"`
	Height     Uint64  `json:"height"`
	ExecHeight Uint64  `json:"execHeight"`
	PrevHash   Hash    `json:"prevHash"`
	Timestamp  Uint64  `json:"timestamp"`
	StateRoot  Hash    `json:"stateRoot"`
	Proposer   Address `json:"proposer"`
}

// Block is a block as returned by the node's getBlock query.
type Block struct {
	Header BlockHeader `json:"header"`
	Hash   Hash        `json:"hash"`
}

// ReceiptError reports an application-level execution failure: the
// transaction was mined and the service ran, but its logic rejected the call.
// Ret is the service's raw error message.
type ReceiptError struct {
	ServiceName string
	Method      string
	Ret         string
}

func (e *ReceiptError) Error() string {
	return fmt.Sprintf("service %s.%s failed: %s", e.ServiceName, e.Method, e.Ret)
}
