// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"fmt"

	"github.com/near/borsh-go"

	"github.com/kamda-cyrial/marketplace/codec"
)

const (
	createAccountTag uint32 = iota
	transferTag
)

var _ Program = (*SystemProgram)(nil)

// SystemProgram owns every wallet. It is the only program that can allocate
// accounts and move lamports.
type SystemProgram struct{}

type createAccountArgs struct {
	Tag      uint32
	Lamports uint64
	Space    uint64
	Owner    codec.Address
}

type transferArgs struct {
	Tag      uint32
	Lamports uint64
}

func (*SystemProgram) ID() codec.Address {
	return SystemProgramID
}

func (s *SystemProgram) Process(ctx context.Context, ic *InvokeContext, accounts []*AccountInfo, data []byte) error {
	var tag uint32
	if err := borsh.Deserialize(&tag, data); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInstructionData, err)
	}
	switch tag {
	case createAccountTag:
		var args createAccountArgs
		if err := borsh.Deserialize(&args, data); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInstructionData, err)
		}
		return s.createAccount(ctx, ic, accounts, &args)
	case transferTag:
		var args transferArgs
		if err := borsh.Deserialize(&args, data); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInstructionData, err)
		}
		return s.transfer(ctx, ic, accounts, &args)
	default:
		return fmt.Errorf("%w: unknown system instruction %d", ErrInvalidInstructionData, tag)
	}
}

func (*SystemProgram) createAccount(ctx context.Context, ic *InvokeContext, accounts []*AccountInfo, args *createAccountArgs) error {
	it := NewAccountIter(accounts)
	fromInfo, err := it.Next()
	if err != nil {
		return err
	}
	toInfo, err := it.Next()
	if err != nil {
		return err
	}
	if !fromInfo.IsSigner || !toInfo.IsSigner {
		return ErrMissingRequiredSignature
	}
	if args.Space > MaxPermittedDataLength {
		return fmt.Errorf("%w: space %d", ErrInvalidInstructionData, args.Space)
	}

	from, err := ic.GetAccount(ctx, fromInfo.Key)
	if err != nil {
		return err
	}
	to, err := ic.GetAccount(ctx, toInfo.Key)
	if err != nil {
		return err
	}
	if !to.Empty() {
		return fmt.Errorf("%w: %s", ErrAccountAlreadyInUse, toInfo.Key)
	}
	if err := debit(fromInfo, from, args.Lamports); err != nil {
		return err
	}
	to.Lamports = args.Lamports
	to.Owner = args.Owner
	to.Data = make([]byte, args.Space)

	if err := ic.writeAccount(ctx, fromInfo, from); err != nil {
		return err
	}
	return ic.writeAccount(ctx, toInfo, to)
}

func (*SystemProgram) transfer(ctx context.Context, ic *InvokeContext, accounts []*AccountInfo, args *transferArgs) error {
	it := NewAccountIter(accounts)
	fromInfo, err := it.Next()
	if err != nil {
		return err
	}
	toInfo, err := it.Next()
	if err != nil {
		return err
	}
	if !fromInfo.IsSigner {
		return ErrMissingRequiredSignature
	}
	from, err := ic.GetAccount(ctx, fromInfo.Key)
	if err != nil {
		return err
	}
	if err := debit(fromInfo, from, args.Lamports); err != nil {
		return err
	}
	if err := ic.writeAccount(ctx, fromInfo, from); err != nil {
		return err
	}

	// Reload in case [from] and [to] are the same account.
	to, err := ic.GetAccount(ctx, toInfo.Key)
	if err != nil {
		return err
	}
	if to.Lamports+args.Lamports < to.Lamports {
		return ErrArithmeticOverflow
	}
	to.Lamports += args.Lamports
	return ic.writeAccount(ctx, toInfo, to)
}

func debit(info *AccountInfo, a *Account, lamports uint64) error {
	if a.Owner != SystemProgramID || len(a.Data) != 0 {
		return fmt.Errorf("%w: %s cannot fund", ErrIllegalOwner, info.Key)
	}
	if a.Lamports < lamports {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, info.Key, a.Lamports, lamports)
	}
	a.Lamports -= lamports
	return nil
}

// NewCreateAccountInstruction allocates [space] bytes at [to], owned by
// [owner] and funded with [lamports] taken from [from].
func NewCreateAccountInstruction(from, to codec.Address, lamports, space uint64, owner codec.Address) *Instruction {
	data, _ := borsh.Serialize(createAccountArgs{
		Tag:      createAccountTag,
		Lamports: lamports,
		Space:    space,
		Owner:    owner,
	})
	return &Instruction{
		ProgramID: SystemProgramID,
		Accounts:  []*AccountMeta{Signer(from), Signer(to)},
		Data:      data,
	}
}

func NewTransferInstruction(from, to codec.Address, lamports uint64) *Instruction {
	data, _ := borsh.Serialize(transferArgs{
		Tag:      transferTag,
		Lamports: lamports,
	})
	return &Instruction{
		ProgramID: SystemProgramID,
		Accounts:  []*AccountMeta{Signer(from), Writable(to)},
		Data:      data,
	}
}
