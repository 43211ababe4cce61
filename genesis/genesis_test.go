// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"math"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

var (
	alice = codec.Address{1}
	bob   = codec.Address{2}
)

func TestLoadRoundTrip(t *testing.T) {
	require := require.New(t)
	g := Default()
	g.CustomAllocation = []*CustomAllocation{{Address: alice, Balance: 5_000_000}}
	b, err := g.Marshal()
	require.NoError(err)

	loaded, err := Load(b)
	require.NoError(err)
	require.Equal(g, loaded)
}

func TestLoadDefaultsRent(t *testing.T) {
	require := require.New(t)
	g, err := Load([]byte(`{"customAllocation":[]}`))
	require.NoError(err)
	require.Equal(ledger.DefaultRent(), g.Rent)
}

func TestVerify(t *testing.T) {
	minimum := ledger.DefaultRent().MinimumBalance(0)
	tests := []struct {
		name        string
		rent        ledger.Rent
		allocations []*CustomAllocation
		expectedErr error
	}{
		{
			name:        "valid",
			rent:        ledger.DefaultRent(),
			allocations: []*CustomAllocation{{Address: alice, Balance: minimum}, {Address: bob, Balance: 1 << 40}},
		},
		{
			name:        "zero rent",
			rent:        ledger.Rent{LamportsPerByteYear: 0, ExemptionYears: 2},
			expectedErr: ErrInvalidRent,
		},
		{
			name:        "duplicate",
			rent:        ledger.DefaultRent(),
			allocations: []*CustomAllocation{{Address: alice, Balance: minimum}, {Address: alice, Balance: minimum}},
			expectedErr: ErrDuplicateAllocation,
		},
		{
			name:        "below rent minimum",
			rent:        ledger.DefaultRent(),
			allocations: []*CustomAllocation{{Address: alice, Balance: minimum - 1}},
			expectedErr: ErrBelowRentMinimum,
		},
		{
			name:        "supply overflow",
			rent:        ledger.DefaultRent(),
			allocations: []*CustomAllocation{{Address: alice, Balance: math.MaxUint64}, {Address: bob, Balance: minimum}},
			expectedErr: safemath.ErrOverflow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Genesis{Rent: tt.rent, CustomAllocation: tt.allocations}
			require.ErrorIs(t, g.Verify(), tt.expectedErr)
		})
	}
}

func TestApply(t *testing.T) {
	require := require.New(t)
	db := memdb.New()
	_, err := ReadRent(db)
	require.ErrorIs(err, ErrNotInitialized)

	g := Default()
	g.Rent.ExemptionYears = 3
	g.CustomAllocation = []*CustomAllocation{{Address: alice, Balance: 1_000_000_000}}
	require.NoError(g.Apply(db))

	a, err := ledger.ReadAccount(db, alice)
	require.NoError(err)
	require.Equal(uint64(1_000_000_000), a.Lamports)
	require.Equal(ledger.SystemProgramID, a.Owner)

	rent, err := ReadRent(db)
	require.NoError(err)
	require.Equal(g.Rent, rent)

	require.ErrorIs(g.Apply(db), ErrAlreadyInitialized)
}

func TestApplyRejectsExistingAccount(t *testing.T) {
	require := require.New(t)
	db := memdb.New()
	require.NoError(ledger.WriteAccount(db, alice, &ledger.Account{Lamports: 1}))

	g := Default()
	g.CustomAllocation = []*CustomAllocation{{Address: alice, Balance: 1_000_000_000}}
	require.ErrorIs(g.Apply(db), ErrAlreadyInitialized)
	_, err := ReadRent(db)
	require.ErrorIs(err, ErrNotInitialized)
}
