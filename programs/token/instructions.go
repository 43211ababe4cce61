// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"github.com/near/borsh-go"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"
)

func NewInitializeMintInstruction(mint codec.Address, decimals uint8, authority codec.Address) *ledger.Instruction {
	data, _ := borsh.Serialize(initializeMintArgs{
		Tag:           initializeMintTag,
		Decimals:      decimals,
		MintAuthority: authority,
	})
	return &ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []*ledger.AccountMeta{
			ledger.Writable(mint),
			ledger.ReadOnly(ledger.RentSysvarID),
		},
		Data: data,
	}
}

func NewInitializeAccountInstruction(account, mint, owner codec.Address) *ledger.Instruction {
	return &ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []*ledger.AccountMeta{
			ledger.Writable(account),
			ledger.ReadOnly(mint),
			ledger.ReadOnly(owner),
			ledger.ReadOnly(ledger.RentSysvarID),
		},
		Data: []byte{initializeAccountTag},
	}
}

// NewTransferInstruction moves [amount] from [source] to [dest]. [authority]
// must own [source] and sign.
func NewTransferInstruction(source, dest, authority codec.Address, amount uint64) *ledger.Instruction {
	data, _ := borsh.Serialize(amountArgs{Tag: transferTag, Amount: amount})
	return &ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []*ledger.AccountMeta{
			ledger.Writable(source),
			ledger.Writable(dest),
			ledger.NewAccountMeta(authority, true, false),
		},
		Data: data,
	}
}

func NewMintToInstruction(mint, dest, authority codec.Address, amount uint64) *ledger.Instruction {
	data, _ := borsh.Serialize(amountArgs{Tag: mintToTag, Amount: amount})
	return &ledger.Instruction{
		ProgramID: ProgramID,
		Accounts: []*ledger.AccountMeta{
			ledger.Writable(mint),
			ledger.Writable(dest),
			ledger.NewAccountMeta(authority, true, false),
		},
		Data: data,
	}
}

// NewCreateMintInstructions allocates [mint] funded by [payer] and
// initializes it. The mint key must sign.
func NewCreateMintInstructions(rent ledger.Rent, payer, mint, authority codec.Address, decimals uint8) []*ledger.Instruction {
	return []*ledger.Instruction{
		ledger.NewCreateAccountInstruction(payer, mint, rent.MinimumBalance(MintLen), MintLen, ProgramID),
		NewInitializeMintInstruction(mint, decimals, authority),
	}
}
