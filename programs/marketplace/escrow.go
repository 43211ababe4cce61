// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace

import (
	"context"
	"fmt"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/programs/token"
)

//go:generate go run go.uber.org/mock/mockgen -package=${GOPACKAGE} -destination=mock_invoker.go . Invoker

var _ Invoker = (*ledger.InvokeContext)(nil)

// Invoker calls other programs on behalf of the marketplace.
type Invoker interface {
	Invoke(ctx context.Context, ix *ledger.Instruction) error
}

// Escrow moves one unit of [Mint] from the payer into the token account
// owned by the slot.
type Escrow struct {
	Payer        codec.Address
	Slot         codec.Address
	Mint         codec.Address
	Account      codec.Address
	PayerAccount codec.Address
}

// Transfer creates the escrow token account and deposits the NFT.
func (e *Escrow) Transfer(ctx context.Context, inv Invoker) error {
	expected, err := token.AssociatedAddress(e.Slot, e.Mint)
	if err != nil {
		return err
	}
	if expected != e.Account {
		return fmt.Errorf("%w: escrow account of slot %s is %s, got %s", ledger.ErrInvalidAccountData, e.Slot, expected, e.Account)
	}
	create, err := token.NewCreateAssociatedInstruction(e.Payer, e.Slot, e.Mint)
	if err != nil {
		return err
	}
	if err := inv.Invoke(ctx, create); err != nil {
		return err
	}
	return inv.Invoke(ctx, token.NewTransferInstruction(e.PayerAccount, e.Account, e.Payer, 1))
}
