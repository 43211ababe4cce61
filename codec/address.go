// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"

	"github.com/mr-tron/base58"
)

const AddressLen = 32

// Address is the 32 byte identity of a ledger account. Wallet addresses are
// ed25519 public keys, program derived addresses are hashes that are
// guaranteed to fall off the curve.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// ToAddress returns the Address made from [b]. [b] must be exactly
// [AddressLen] bytes.
func ToAddress(b []byte) (Address, error) {
	if len(b) != AddressLen {
		return EmptyAddress, ErrInvalidSize
	}
	return Address(b), nil
}

// ParseAddress decodes a base58 encoded address.
func ParseAddress(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return EmptyAddress, err
	}
	return ToAddress(b)
}

// MustParseAddress is like ParseAddress but panics on failure. It should
// only be used for well-known constants.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns a copy of the address bytes.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLen)
	copy(b, a[:])
	return b
}

func (a Address) Compare(o Address) int {
	return bytes.Compare(a[:], o[:])
}

// MarshalText returns the base58 representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a base58-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
