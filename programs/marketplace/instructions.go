// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace

import (
	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/programs/metadata"
	"github.com/kamda-cyrial/marketplace/programs/token"
)

func NewCreateCollectionInstruction(program, payer, issuer codec.Address) (*ledger.Instruction, error) {
	state, err := CollectionAddress(program, issuer)
	if err != nil {
		return nil, err
	}
	return &ledger.Instruction{
		ProgramID: program,
		Accounts: []*ledger.AccountMeta{
			ledger.Signer(payer),
			ledger.ReadOnly(issuer),
			ledger.Writable(state),
			ledger.ReadOnly(ledger.SystemProgramID),
		},
		Data: EncodeCommand(CreateCollection{}),
	}, nil
}

// LimitOrder describes an order to place in slot [Index] of the collection
// of [Issuer]. [Index] is the collection's current MaxListed.
type LimitOrder struct {
	Payer        codec.Address
	Issuer       codec.Address
	Index        uint32
	Mint         codec.Address
	PayerAccount codec.Address
	PriceBytes   [PriceLen]byte
}

// NewCreateLimitOrderInstruction lists the [CreateLimitOrderAccounts] accounts
// the program reads, followed by the associated-token and metadata programs so
// that the instruction declares every program it depends on.
func NewCreateLimitOrderInstruction(program codec.Address, o *LimitOrder) (*ledger.Instruction, error) {
	state, err := CollectionAddress(program, o.Issuer)
	if err != nil {
		return nil, err
	}
	slot, err := SlotAddress(program, o.Issuer, o.Index)
	if err != nil {
		return nil, err
	}
	escrow, err := token.AssociatedAddress(slot, o.Mint)
	if err != nil {
		return nil, err
	}
	record, err := metadata.Address(o.Mint)
	if err != nil {
		return nil, err
	}
	return &ledger.Instruction{
		ProgramID: program,
		Accounts: []*ledger.AccountMeta{
			ledger.Signer(o.Payer),
			ledger.ReadOnly(o.Issuer),
			ledger.Writable(state),
			ledger.Writable(slot),
			ledger.ReadOnly(o.Mint),
			ledger.Writable(escrow),
			ledger.ReadOnly(ledger.RentSysvarID),
			ledger.ReadOnly(token.ProgramID),
			ledger.ReadOnly(ledger.SystemProgramID),
			ledger.Writable(o.PayerAccount),
			ledger.ReadOnly(record),
			ledger.ReadOnly(token.AssociatedProgramID),
			ledger.ReadOnly(metadata.ProgramID),
		},
		Data: EncodeCommand(CreateLimitOrder{PriceBytes: o.PriceBytes}),
	}, nil
}

func NewCloseLimitOrderInstruction(program, payer codec.Address) *ledger.Instruction {
	return &ledger.Instruction{
		ProgramID: program,
		Accounts:  []*ledger.AccountMeta{ledger.Signer(payer)},
		Data:      EncodeCommand(CloseLimitOrder{}),
	}
}

func NewFillLimitOrderInstruction(program, payer codec.Address) *ledger.Instruction {
	return &ledger.Instruction{
		ProgramID: program,
		Accounts:  []*ledger.AccountMeta{ledger.Signer(payer)},
		Data:      EncodeCommand(FillLimitOrder{}),
	}
}
