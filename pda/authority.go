// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pda

import "github.com/kamda-cyrial/marketplace/codec"

// Authority is the capability to sign for a derived address. It is only
// produced by [Find] or [Verify] and can be redeemed once, by the program the
// address was derived for.
type Authority struct {
	program codec.Address
	address codec.Address
	seeds   [][]byte
	bump    uint8

	consumed bool
}

func (a *Authority) Address() codec.Address {
	return a.address
}

func (a *Authority) Bump() uint8 {
	return a.bump
}

func (a *Authority) Program() codec.Address {
	return a.program
}

// Seeds returns a copy of the seeds used for derivation, bump included.
func (a *Authority) Seeds() [][]byte {
	seeds := make([][]byte, len(a.seeds))
	for i, s := range a.seeds {
		seeds[i] = append([]byte(nil), s...)
	}
	return seeds
}

// Redeem spends the capability on behalf of [caller] and returns the address
// [caller] may now sign for.
func (a *Authority) Redeem(caller codec.Address) (codec.Address, error) {
	if a.program != caller {
		return codec.EmptyAddress, ErrWrongProgram
	}
	if a.consumed {
		return codec.EmptyAddress, ErrAuthorityConsumed
	}
	a.consumed = true
	return a.address, nil
}
