// Package signer produces signed transaction envelopes. The preimage is the
// RLP encoding of the raw transaction's fields; the digest is its keccak256
// hash; the signature is a recoverable 65-byte secp256k1 signature over the
// digest, with the signer's compressed public key carried alongside it.
package signer

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/muta-dev/muta-sdk-go/pkg/types"
)

// txPreimage fixes the field order of the signing preimage. Changing this
// order breaks signature compatibility with deployed nodes.
type txPreimage struct {
	ChainID     []byte
	CyclesLimit uint64
	CyclesPrice uint64
	Nonce       []byte
	Method      string
	ServiceName string
	Payload     string
	Timeout     uint64
}

// Signer signs raw transactions with secp256k1 keys. The zero value is ready
// to use; it exists as a type so collaborators can be substituted in tests.
type Signer struct{}

// New returns a Signer.
func New() *Signer { return &Signer{} }

// TxHash returns the keccak256 digest of the transaction's RLP preimage.
// This is the value that gets signed and later referenced as the transaction
// hash, so it can also be used for offline signing flows.
func TxHash(tx types.RawTransaction) (types.Hash, []byte, error) {
	chainID, err := tx.ChainID.Bytes()
	if err != nil {
		return "", nil, fmt.Errorf("sign: bad chainId: %w", err)
	}
	nonce, err := tx.Nonce.Bytes()
	if err != nil {
		return "", nil, fmt.Errorf("sign: bad nonce: %w", err)
	}

	encoded, err := rlp.EncodeToBytes(txPreimage{
		ChainID:     chainID,
		CyclesLimit: uint64(tx.CyclesLimit),
		CyclesPrice: uint64(tx.CyclesPrice),
		Nonce:       nonce,
		Method:      tx.Method,
		ServiceName: tx.ServiceName,
		Payload:     tx.Payload,
		Timeout:     uint64(tx.Timeout),
	})
	if err != nil {
		return "", nil, fmt.Errorf("sign: rlp encode: %w", err)
	}

	digest := crypto.Keccak256(encoded)
	return types.NewHashFromBytes(digest), digest, nil
}

// Sign validates the raw transaction, hashes it, and produces the signed
// envelope. The raw fields are carried over untouched.
func (s *Signer) Sign(tx types.RawTransaction, key *ecdsa.PrivateKey) (types.SignedTransaction, error) {
	if key == nil {
		return types.SignedTransaction{}, fmt.Errorf("sign: private key is required")
	}
	if err := tx.Validate(); err != nil {
		return types.SignedTransaction{}, err
	}

	txHash, digest, err := TxHash(tx)
	if err != nil {
		return types.SignedTransaction{}, err
	}

	sig, err := crypto.Sign(digest, key)
	if err != nil {
		return types.SignedTransaction{}, fmt.Errorf("sign: %w", err)
	}

	return types.SignedTransaction{
		Raw: tx,
		Signature: types.TransactionSignature{
			TxHash:    txHash,
			Pubkey:    types.NewHexFromBytes(crypto.CompressPubkey(&key.PublicKey)),
			Signature: types.NewHexFromBytes(sig),
		},
	}, nil
}

// Verify recomputes the digest of the signed transaction's raw fields and
// checks the signature against the envelope's public key. It also rejects
// envelopes whose txHash does not match the recomputed digest.
func Verify(stx types.SignedTransaction) error {
	txHash, digest, err := TxHash(stx.Raw)
	if err != nil {
		return err
	}
	if txHash != stx.Signature.TxHash {
		return fmt.Errorf("verify: txHash mismatch: envelope %s, computed %s", stx.Signature.TxHash, txHash)
	}

	pubkey, err := stx.Signature.Pubkey.Bytes()
	if err != nil {
		return fmt.Errorf("verify: bad pubkey: %w", err)
	}
	sig, err := stx.Signature.Signature.Bytes()
	if err != nil {
		return fmt.Errorf("verify: bad signature: %w", err)
	}
	if len(sig) == 65 {
		// Drop the recovery id; VerifySignature expects R||S.
		sig = sig[:64]
	}

	if !crypto.VerifySignature(pubkey, digest, sig) {
		return fmt.Errorf("verify: signature does not match pubkey")
	}
	return nil
}
