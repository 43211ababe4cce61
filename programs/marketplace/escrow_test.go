// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/programs/token"
)

func newEscrow(t *testing.T) *Escrow {
	slot, err := SlotAddress(DefaultProgramID, codec.Address(ids.GenerateTestID()), 0)
	require.NoError(t, err)
	mint := codec.Address(ids.GenerateTestID())
	account, err := token.AssociatedAddress(slot, mint)
	require.NoError(t, err)
	return &Escrow{
		Payer:        codec.Address(ids.GenerateTestID()),
		Slot:         slot,
		Mint:         mint,
		Account:      account,
		PayerAccount: codec.Address(ids.GenerateTestID()),
	}
}

func TestEscrowTransfer(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.TODO()
	e := newEscrow(t)
	create, err := token.NewCreateAssociatedInstruction(e.Payer, e.Slot, e.Mint)
	require.NoError(err)
	transfer := token.NewTransferInstruction(e.PayerAccount, e.Account, e.Payer, 1)

	inv := NewMockInvoker(ctrl)
	gomock.InOrder(
		inv.EXPECT().Invoke(ctx, create).Return(nil),
		inv.EXPECT().Invoke(ctx, transfer).Return(nil),
	)
	require.NoError(e.Transfer(ctx, inv))
}

func TestEscrowTransferStopsOnFailure(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ctx := context.TODO()
	errCreate := errors.New("create failed")
	inv := NewMockInvoker(ctrl)
	inv.EXPECT().Invoke(ctx, gomock.Any()).Return(errCreate).Times(1)
	require.ErrorIs(newEscrow(t).Transfer(ctx, inv), errCreate)
}

func TestEscrowAccountMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	e := newEscrow(t)
	e.Account = codec.Address(ids.GenerateTestID())
	inv := NewMockInvoker(ctrl)
	require.ErrorIs(t, e.Transfer(context.TODO(), inv), ledger.ErrInvalidAccountData)
}
