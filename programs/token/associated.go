// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"fmt"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/pda"
)

var (
	AssociatedProgramID = codec.MustParseAddress("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

	_ ledger.Program = (*AssociatedProgram)(nil)
)

// AssociatedProgram creates the canonical token account of a wallet for a
// mint, at an address derived from both.
type AssociatedProgram struct{}

func (*AssociatedProgram) ID() codec.Address {
	return AssociatedProgramID
}

func associatedSeeds(wallet, mint codec.Address) [][]byte {
	return [][]byte{wallet[:], ProgramID[:], mint[:]}
}

// AssociatedAddress returns the canonical token account of [wallet] for [mint].
func AssociatedAddress(wallet, mint codec.Address) (codec.Address, error) {
	auth, err := pda.Find(AssociatedProgramID, associatedSeeds(wallet, mint)...)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return auth.Address(), nil
}

// Process handles the only instruction of the program: create.
// Accounts: [funder(signer, writable), associated(writable), wallet, mint,
// system-program, token-program, rent-sysvar].
func (*AssociatedProgram) Process(ctx context.Context, ic *ledger.InvokeContext, accounts []*ledger.AccountInfo, _ []byte) error {
	it := ledger.NewAccountIter(accounts)
	infos := make([]*ledger.AccountInfo, 7)
	for i := range infos {
		info, err := it.Next()
		if err != nil {
			return err
		}
		infos[i] = info
	}
	funder, associated, wallet, mint := infos[0], infos[1], infos[2], infos[3]
	if infos[5].Key != ProgramID {
		return fmt.Errorf("%w: expected token program, got %s", ledger.ErrInvalidAccountData, infos[5].Key)
	}
	if infos[6].Key != ledger.RentSysvarID {
		return fmt.Errorf("%w: expected rent sysvar, got %s", ledger.ErrInvalidAccountData, infos[6].Key)
	}

	auth, err := pda.Verify(associated.Key, AssociatedProgramID, associatedSeeds(wallet.Key, mint.Key)...)
	if err != nil {
		return fmt.Errorf("%w: associated account %s: %w", ledger.ErrInvalidSeeds, associated.Key, err)
	}
	create := ledger.NewCreateAccountInstruction(
		funder.Key,
		associated.Key,
		ic.Rent().MinimumBalance(AccountLen),
		AccountLen,
		ProgramID,
	)
	if err := ic.InvokeSigned(ctx, create, auth); err != nil {
		return err
	}
	return ic.Invoke(ctx, NewInitializeAccountInstruction(associated.Key, mint.Key, wallet.Key))
}

// NewCreateAssociatedInstruction creates the associated token account of
// [wallet] for [mint], funded by [funder].
func NewCreateAssociatedInstruction(funder, wallet, mint codec.Address) (*ledger.Instruction, error) {
	associated, err := AssociatedAddress(wallet, mint)
	if err != nil {
		return nil, err
	}
	return &ledger.Instruction{
		ProgramID: AssociatedProgramID,
		Accounts: []*ledger.AccountMeta{
			ledger.Signer(funder),
			ledger.Writable(associated),
			ledger.ReadOnly(wallet),
			ledger.ReadOnly(mint),
			ledger.ReadOnly(ledger.SystemProgramID),
			ledger.ReadOnly(ProgramID),
			ledger.ReadOnly(ledger.RentSysvarID),
		},
	}, nil
}
