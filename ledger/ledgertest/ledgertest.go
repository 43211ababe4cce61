// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledgertest runs programs against an in-memory ledger.
package ledgertest

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/crypto/ed25519"
	"github.com/kamda-cyrial/marketplace/ledger"
)

// DefaultFunding is what [Env.Wallet] credits when asked for a funded wallet.
const DefaultFunding = 100_000_000_000

type Env struct {
	DB      *memdb.Database
	Runtime *ledger.Runtime
}

func New(t require.TestingT, programs ...ledger.Program) *Env {
	db := memdb.New()
	r, err := ledger.New(logging.NoLog{}, trace.Noop, db, ledger.DefaultRent(), prometheus.NewRegistry(), programs...)
	require.NoError(t, err)
	return &Env{DB: db, Runtime: r}
}

// Wallet returns a fresh key whose address holds [lamports].
func (e *Env) Wallet(t require.TestingT, lamports uint64) ed25519.PrivateKey {
	k, err := ed25519.GeneratePrivateKey()
	require.NoError(t, err)
	if lamports > 0 {
		require.NoError(t, ledger.WriteAccount(e.DB, k.PublicKey().Address(), &ledger.Account{Lamports: lamports}))
	}
	return k
}

// Execute signs [ixs] with [signers] and executes them as one transaction.
func (e *Env) Execute(ctx context.Context, signers []ed25519.PrivateKey, ixs ...*ledger.Instruction) error {
	return e.Runtime.Execute(ctx, ledger.NewTransaction(ixs...).Sign(signers...))
}

// MustExecute is [Execute] for setup steps that cannot fail.
func (e *Env) MustExecute(ctx context.Context, t require.TestingT, signers []ed25519.PrivateKey, ixs ...*ledger.Instruction) {
	require.NoError(t, e.Execute(ctx, signers, ixs...))
}

func (e *Env) Account(ctx context.Context, t require.TestingT, addr codec.Address) *ledger.Account {
	a, err := e.Runtime.GetAccount(ctx, addr)
	require.NoError(t, err)
	return a
}

// Snapshot returns the raw persisted bytes of [addr], or nil if the account
// does not exist.
func (e *Env) Snapshot(t require.TestingT, addr codec.Address) []byte {
	ok, err := e.DB.Has(ledger.AccountKey(addr))
	require.NoError(t, err)
	if !ok {
		return nil
	}
	v, err := e.DB.Get(ledger.AccountKey(addr))
	require.NoError(t, err)
	return v
}

// InstructionTest is a single parameterized test. It executes [Instructions]
// in one transaction and checks that all assertions pass.
type InstructionTest struct {
	Name string

	Env          *Env
	Signers      []ed25519.PrivateKey
	Instructions []*ledger.Instruction

	ExpectedErr error

	Assertion func(context.Context, *testing.T, *Env)
}

// Run executes the [InstructionTest] and makes sure all assertions pass.
func (test *InstructionTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		err := test.Env.Execute(ctx, test.Signers, test.Instructions...)
		require.ErrorIs(t, err, test.ExpectedErr)

		if test.Assertion != nil {
			test.Assertion(ctx, t, test.Env)
		}
	})
}
