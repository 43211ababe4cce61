// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/crypto/ed25519"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/ledger/ledgertest"
)

type fixture struct {
	env   *ledgertest.Env
	alice ed25519.PrivateKey
	bob   ed25519.PrivateKey
	mint  codec.Address

	aliceATA codec.Address
	bobATA   codec.Address
}

func aliceHolds(t *testing.T, supply uint64) *fixture {
	require := require.New(t)
	ctx := context.Background()
	env := ledgertest.New(t, &Program{}, &AssociatedProgram{})
	alice := env.Wallet(t, ledgertest.DefaultFunding)
	bob := env.Wallet(t, ledgertest.DefaultFunding)
	mintKey := env.Wallet(t, 0)
	mint := mintKey.PublicKey().Address()

	env.MustExecute(ctx, t, []ed25519.PrivateKey{alice, mintKey},
		NewCreateMintInstructions(ledger.DefaultRent(), alice.PublicKey().Address(), mint, alice.PublicKey().Address(), 0)...)

	createAlice, err := NewCreateAssociatedInstruction(alice.PublicKey().Address(), alice.PublicKey().Address(), mint)
	require.NoError(err)
	createBob, err := NewCreateAssociatedInstruction(alice.PublicKey().Address(), bob.PublicKey().Address(), mint)
	require.NoError(err)
	aliceATA, err := AssociatedAddress(alice.PublicKey().Address(), mint)
	require.NoError(err)
	bobATA, err := AssociatedAddress(bob.PublicKey().Address(), mint)
	require.NoError(err)

	env.MustExecute(ctx, t, []ed25519.PrivateKey{alice},
		createAlice,
		createBob,
		NewMintToInstruction(mint, aliceATA, alice.PublicKey().Address(), supply),
	)
	return &fixture{
		env:      env,
		alice:    alice,
		bob:      bob,
		mint:     mint,
		aliceATA: aliceATA,
		bobATA:   bobATA,
	}
}

func (f *fixture) amount(ctx context.Context, t *testing.T, addr codec.Address) uint64 {
	a, err := UnmarshalAccount(f.env.Account(ctx, t, addr).Data)
	require.NoError(t, err)
	return a.Amount
}

func TestMintAndAssociatedAccounts(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := aliceHolds(t, 1)

	m := f.env.Account(ctx, t, f.mint)
	require.Equal(ProgramID, m.Owner)
	require.Len(m.Data, MintLen)
	mint, err := UnmarshalMint(m.Data)
	require.NoError(err)
	require.True(mint.IsInitialized)
	require.Equal(uint64(1), mint.Supply)
	require.Equal(f.alice.PublicKey().Address(), mint.MintAuthority)

	a := f.env.Account(ctx, t, f.aliceATA)
	require.Equal(ProgramID, a.Owner)
	require.Equal(ledger.DefaultRent().MinimumBalance(AccountLen), a.Lamports)
	holding, err := UnmarshalAccount(a.Data)
	require.NoError(err)
	require.Equal(f.mint, holding.Mint)
	require.Equal(f.alice.PublicKey().Address(), holding.Owner)
	require.Equal(uint64(1), holding.Amount)
	require.Zero(f.amount(ctx, t, f.bobATA))
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name        string
		ix          func(f *fixture) *ledger.Instruction
		signers     func(f *fixture) []ed25519.PrivateKey
		expectedErr error
		alice, bob  uint64
	}{
		{
			name: "owner transfers",
			ix: func(f *fixture) *ledger.Instruction {
				return NewTransferInstruction(f.aliceATA, f.bobATA, f.alice.PublicKey().Address(), 1)
			},
			signers: func(f *fixture) []ed25519.PrivateKey { return []ed25519.PrivateKey{f.alice} },
			alice:   0,
			bob:     1,
		},
		{
			name: "not the owner",
			ix: func(f *fixture) *ledger.Instruction {
				return NewTransferInstruction(f.aliceATA, f.bobATA, f.bob.PublicKey().Address(), 1)
			},
			signers:     func(f *fixture) []ed25519.PrivateKey { return []ed25519.PrivateKey{f.bob} },
			expectedErr: ErrOwnerMismatch,
			alice:       1,
		},
		{
			name: "too much",
			ix: func(f *fixture) *ledger.Instruction {
				return NewTransferInstruction(f.aliceATA, f.bobATA, f.alice.PublicKey().Address(), 2)
			},
			signers:     func(f *fixture) []ed25519.PrivateKey { return []ed25519.PrivateKey{f.alice} },
			expectedErr: ErrInsufficientAmount,
			alice:       1,
		},
		{
			name: "unsigned",
			ix: func(f *fixture) *ledger.Instruction {
				return NewTransferInstruction(f.aliceATA, f.bobATA, f.alice.PublicKey().Address(), 1)
			},
			signers:     func(*fixture) []ed25519.PrivateKey { return nil },
			expectedErr: ledger.ErrMissingRequiredSignature,
			alice:       1,
		},
	}
	for _, tt := range tests {
		f := aliceHolds(t, 1)
		test := &ledgertest.InstructionTest{
			Name:         tt.name,
			Env:          f.env,
			Signers:      tt.signers(f),
			Instructions: []*ledger.Instruction{tt.ix(f)},
			ExpectedErr:  tt.expectedErr,
			Assertion: func(ctx context.Context, t *testing.T, _ *ledgertest.Env) {
				require.Equal(t, tt.alice, f.amount(ctx, t, f.aliceATA))
				require.Equal(t, tt.bob, f.amount(ctx, t, f.bobATA))
			},
		}
		test.Run(ctx, t)
	}
}

func TestMintMismatch(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := aliceHolds(t, 1)

	otherKey := f.env.Wallet(t, 0)
	other := otherKey.PublicKey().Address()
	f.env.MustExecute(ctx, t, []ed25519.PrivateKey{f.alice, otherKey},
		NewCreateMintInstructions(ledger.DefaultRent(), f.alice.PublicKey().Address(), other, f.alice.PublicKey().Address(), 0)...)
	createBob, err := NewCreateAssociatedInstruction(f.alice.PublicKey().Address(), f.bob.PublicKey().Address(), other)
	require.NoError(err)
	bobOther, err := AssociatedAddress(f.bob.PublicKey().Address(), other)
	require.NoError(err)
	f.env.MustExecute(ctx, t, []ed25519.PrivateKey{f.alice}, createBob)

	err = f.env.Execute(ctx, []ed25519.PrivateKey{f.alice},
		NewTransferInstruction(f.aliceATA, bobOther, f.alice.PublicKey().Address(), 1))
	require.ErrorIs(err, ErrMintMismatch)
	require.Equal(uint64(1), f.amount(ctx, t, f.aliceATA))
}

func TestInitializeTwice(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := aliceHolds(t, 1)

	err := f.env.Execute(ctx, nil, NewInitializeMintInstruction(f.mint, 0, f.bob.PublicKey().Address()))
	require.ErrorIs(err, ErrAlreadyInitialized)

	create, err := NewCreateAssociatedInstruction(f.alice.PublicKey().Address(), f.alice.PublicKey().Address(), f.mint)
	require.NoError(err)
	err = f.env.Execute(ctx, []ed25519.PrivateKey{f.alice}, create)
	require.ErrorIs(err, ledger.ErrAccountAlreadyInUse)
}

func TestMintToAuthority(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := aliceHolds(t, 1)

	err := f.env.Execute(ctx, []ed25519.PrivateKey{f.bob},
		NewMintToInstruction(f.mint, f.bobATA, f.bob.PublicKey().Address(), 1))
	require.ErrorIs(err, ErrOwnerMismatch)
	require.Zero(f.amount(ctx, t, f.bobATA))
}

func TestAssociatedAddressMismatch(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := aliceHolds(t, 1)

	ix, err := NewCreateAssociatedInstruction(f.alice.PublicKey().Address(), f.bob.PublicKey().Address(), f.mint)
	require.NoError(err)
	ix.Accounts[1] = ledger.Writable(f.aliceATA)
	require.ErrorIs(f.env.Execute(ctx, []ed25519.PrivateKey{f.alice}, ix), ledger.ErrInvalidSeeds)
}
