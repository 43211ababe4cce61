// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metadata

import (
	"github.com/near/borsh-go"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"
)

// NewCreateMetadataInstruction registers [data] for [mint]. [mintAuthority]
// and [payer] must sign; [updateAuthority] must sign as well if it lists
// itself as a verified creator.
func NewCreateMetadataInstruction(
	mint codec.Address,
	mintAuthority codec.Address,
	payer codec.Address,
	updateAuthority codec.Address,
	updateAuthoritySigns bool,
	data Data,
	isMutable bool,
) (*ledger.Instruction, error) {
	addr, err := Address(mint)
	if err != nil {
		return nil, err
	}
	b, err := borsh.Serialize(createMetadataArgs{
		Tag:       createMetadataTag,
		Data:      data,
		IsMutable: isMutable,
	})
	if err != nil {
		return nil, err
	}
	return &ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []*ledger.AccountMeta{
			ledger.Writable(addr),
			ledger.ReadOnly(mint),
			ledger.NewAccountMeta(mintAuthority, true, false),
			ledger.Signer(payer),
			ledger.NewAccountMeta(updateAuthority, updateAuthoritySigns, false),
			ledger.ReadOnly(ledger.SystemProgramID),
			ledger.ReadOnly(ledger.RentSysvarID),
		},
		Data: b,
	}, nil
}

// NewSignMetadataInstruction marks [creator] verified on the record of [mint].
func NewSignMetadataInstruction(mint, creator codec.Address) (*ledger.Instruction, error) {
	addr, err := Address(mint)
	if err != nil {
		return nil, err
	}
	return &ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []*ledger.AccountMeta{
			ledger.Writable(addr),
			ledger.NewAccountMeta(creator, true, false),
		},
		Data: []byte{signMetadataTag},
	}, nil
}
