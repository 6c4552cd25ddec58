// Package account wraps a secp256k1 keypair together with the chain address
// derived from it. An Account is immutable after construction and safe to
// share across goroutines.
package account

import (
	"crypto/ecdsa"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/muta-dev/muta-sdk-go/pkg/types"
)

// Account holds a parsed ECDSA private key and its derived identity.
type Account struct {
	key     *ecdsa.PrivateKey
	pubkey  types.Hex
	address types.Address
}

// New builds an Account from an already-parsed private key.
func New(key *ecdsa.PrivateKey) (*Account, error) {
	if key == nil {
		return nil, errors.New("account: private key is required")
	}

	compressed := crypto.CompressPubkey(&key.PublicKey)

	// The chain addresses an account by the first 20 bytes of the keccak256
	// digest of its compressed public key.
	digest := crypto.Keccak256(compressed)

	return &Account{
		key:     key,
		pubkey:  types.NewHexFromBytes(compressed),
		address: types.NewAddressFromBytes(digest[:types.AddressLength]),
	}, nil
}

// FromHex parses a hex-encoded private key (with or without 0x prefix) and
// returns the corresponding Account.
func FromHex(privateKey string) (*Account, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKey, "0x"))
	if err != nil {
		return nil, err
	}
	return New(key)
}

// Address returns the account's chain address.
func (a *Account) Address() types.Address { return a.address }

// PublicKey returns the compressed public key in hex.
func (a *Account) PublicKey() types.Hex { return a.pubkey }

// PrivateKey returns the underlying key for signing. Callers must not mutate it.
func (a *Account) PrivateKey() *ecdsa.PrivateKey { return a.key }
