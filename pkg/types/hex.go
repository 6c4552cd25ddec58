package types

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Hash is a 0x-prefixed, 32-byte hex string (transaction hashes, chain IDs,
// state roots, nonces).
type Hash string

// HashLength is the byte length of a Hash.
const HashLength = 32

// NewHashFromBytes encodes b as a Hash. It does not check the length; use
// Validate on untrusted input.
func NewHashFromBytes(b []byte) Hash {
	return Hash(hexutil.Encode(b))
}

// Bytes decodes the hash into raw bytes.
func (h Hash) Bytes() ([]byte, error) {
	return hexutil.Decode(string(h))
}

// Validate checks the 0x prefix and the 32-byte length.
func (h Hash) Validate() error {
	b, err := h.Bytes()
	if err != nil {
		return fmt.Errorf("invalid hash %q: %w", string(h), err)
	}
	if len(b) != HashLength {
		return fmt.Errorf("invalid hash %q: want %d bytes, got %d", string(h), HashLength, len(b))
	}
	return nil
}

func (h Hash) String() string { return string(h) }

// Address is a 0x-prefixed, 20-byte hex string identifying an account.
type Address string

// AddressLength is the byte length of an Address.
const AddressLength = 20

// NewAddressFromBytes encodes b as an Address.
func NewAddressFromBytes(b []byte) Address {
	return Address(hexutil.Encode(b))
}

// Bytes decodes the address into raw bytes.
func (a Address) Bytes() ([]byte, error) {
	return hexutil.Decode(string(a))
}

// Validate checks the 0x prefix and the 20-byte length.
func (a Address) Validate() error {
	b, err := a.Bytes()
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", string(a), err)
	}
	if len(b) != AddressLength {
		return fmt.Errorf("invalid address %q: want %d bytes, got %d", string(a), AddressLength, len(b))
	}
	return nil
}

func (a Address) String() string { return string(a) }

// Hex is an arbitrary-length 0x-prefixed hex string (public keys, signatures).
type Hex string

// NewHexFromBytes encodes b as Hex.
func NewHexFromBytes(b []byte) Hex {
	return Hex(hexutil.Encode(b))
}

// Bytes decodes the hex string into raw bytes.
func (h Hex) Bytes() ([]byte, error) {
	return hexutil.Decode(string(h))
}

func (h Hex) String() string { return string(h) }

// Uint64 is a uint64 that marshals to and from the node's 0x-prefixed hex
// quantity representation.
type Uint64 uint64

// MarshalJSON encodes the value as a quoted hex quantity, e.g. "0x2a".
func (u Uint64) MarshalJSON() ([]byte, error) {
	return []byte(`"` + hexutil.Uint64(u).String() + `"`), nil
}

// UnmarshalJSON accepts a quoted hex quantity ("0x2a") or, for leniency with
// older nodes, a bare JSON number.
func (u *Uint64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if !strings.HasPrefix(s, "0x") {
		var v uint64
		if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
			return fmt.Errorf("invalid uint64 quantity %q: %w", s, err)
		}
		*u = Uint64(v)
		return nil
	}
	v, err := hexutil.DecodeUint64(s)
	if err != nil {
		return fmt.Errorf("invalid uint64 quantity %q: %w", s, err)
	}
	*u = Uint64(v)
	return nil
}

// Hex returns the 0x-prefixed quantity form used on the wire.
func (u Uint64) Hex() string {
	return hexutil.Uint64(u).String()
}
