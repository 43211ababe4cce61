// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"fmt"

	"github.com/near/borsh-go"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"
)

// Cell sizes clients allocate for token records. Records are written at the
// front of the cell.
const (
	MintLen    = 82
	AccountLen = 165
)

type Mint struct {
	MintAuthority codec.Address
	Supply        uint64
	Decimals      uint8
	IsInitialized bool
}

// Account holds [Amount] units of [Mint] on behalf of [Owner].
type Account struct {
	Mint          codec.Address
	Owner         codec.Address
	Amount        uint64
	IsInitialized bool
}

func (m Mint) Marshal() []byte {
	b, _ := borsh.Serialize(m)
	return b
}

func (a Account) Marshal() []byte {
	b, _ := borsh.Serialize(a)
	return b
}

func UnmarshalMint(b []byte) (*Mint, error) {
	var m Mint
	if err := borsh.Deserialize(&m, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrInvalidAccountData, err)
	}
	return &m, nil
}

func UnmarshalAccount(b []byte) (*Account, error) {
	var a Account
	if err := borsh.Deserialize(&a, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrInvalidAccountData, err)
	}
	return &a, nil
}
