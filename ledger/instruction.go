// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/consts"
)

// Program is an on-ledger program. [Process] must be deterministic and must
// only touch accounts through [InvokeContext].
type Program interface {
	ID() codec.Address
	Process(ctx context.Context, ic *InvokeContext, accounts []*AccountInfo, data []byte) error
}

type AccountMeta struct {
	Address    codec.Address `json:"address"`
	IsSigner   bool          `json:"isSigner"`
	IsWritable bool          `json:"isWritable"`
}

func NewAccountMeta(addr codec.Address, signer, writable bool) *AccountMeta {
	return &AccountMeta{Address: addr, IsSigner: signer, IsWritable: writable}
}

// ReadOnly returns a meta for an account that is neither signed nor written.
func ReadOnly(addr codec.Address) *AccountMeta {
	return &AccountMeta{Address: addr}
}

// Writable returns a meta for an account that is written but not signed.
func Writable(addr codec.Address) *AccountMeta {
	return &AccountMeta{Address: addr, IsWritable: true}
}

// Signer returns a meta for an account that signs and is written.
func Signer(addr codec.Address) *AccountMeta {
	return &AccountMeta{Address: addr, IsSigner: true, IsWritable: true}
}

// MaxInstructionAccounts bounds the account list of a decoded instruction.
const MaxInstructionAccounts = 64

type Instruction struct {
	ProgramID codec.Address  `json:"programID"`
	Accounts  []*AccountMeta `json:"accounts"`
	Data      []byte         `json:"data"`
}

func (i *Instruction) Size() int {
	return codec.AddressLen + consts.IntLen +
		len(i.Accounts)*(codec.AddressLen+2*consts.BoolLen) +
		codec.BytesLen(i.Data)
}

func (i *Instruction) Marshal(p *codec.Packer) {
	p.PackAddress(i.ProgramID)
	p.PackCount(len(i.Accounts))
	for _, meta := range i.Accounts {
		p.PackAddress(meta.Address)
		p.PackBool(meta.IsSigner)
		p.PackBool(meta.IsWritable)
	}
	p.PackBytes(i.Data)
}

// AccountInfo is the view a program gets of one of its declared accounts.
// Contents are loaded through [InvokeContext.GetAccount].
type AccountInfo struct {
	Key        codec.Address
	IsSigner   bool
	IsWritable bool
}

// AccountIter hands out the accounts of an instruction in declaration order.
type AccountIter struct {
	accounts []*AccountInfo
	next     int
}

func NewAccountIter(accounts []*AccountInfo) *AccountIter {
	return &AccountIter{accounts: accounts}
}

// Next returns the next account or [ErrNotEnoughAccountKeys].
func (it *AccountIter) Next() (*AccountInfo, error) {
	if it.next >= len(it.accounts) {
		return nil, ErrNotEnoughAccountKeys
	}
	a := it.accounts[it.next]
	it.next++
	return a, nil
}

func unmarshalInstruction(p *codec.Packer) *Instruction {
	ix := &Instruction{}
	p.UnpackAddress(false, &ix.ProgramID)
	ix.Accounts = make([]*AccountMeta, p.UnpackCount(MaxInstructionAccounts))
	for i := range ix.Accounts {
		meta := &AccountMeta{}
		p.UnpackAddress(false, &meta.Address)
		meta.IsSigner = p.UnpackBool()
		meta.IsWritable = p.UnpackBool()
		ix.Accounts[i] = meta
	}
	p.UnpackBytes(consts.NetworkLimit, false, &ix.Data)
	return ix
}
