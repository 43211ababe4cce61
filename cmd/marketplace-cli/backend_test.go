// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/config"
	"github.com/kamda-cyrial/marketplace/crypto/ed25519"
	"github.com/kamda-cyrial/marketplace/genesis"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/pebble"
	"github.com/kamda-cyrial/marketplace/programs/marketplace"
)

func TestParseAllocation(t *testing.T) {
	addr := codec.Address{1, 2, 3}
	tests := []struct {
		name     string
		arg      string
		expected *genesis.CustomAllocation
		wantErr  bool
	}{
		{
			name:     "whole",
			arg:      addr.String() + "=2",
			expected: &genesis.CustomAllocation{Address: addr, Balance: 2_000_000_000},
		},
		{
			name:     "fraction",
			arg:      addr.String() + "=0.5",
			expected: &genesis.CustomAllocation{Address: addr, Balance: 500_000_000},
		},
		{name: "missing amount", arg: addr.String(), wantErr: true},
		{name: "bad address", arg: "0OIl=1", wantErr: true},
		{name: "bad amount", arg: addr.String() + "=lots", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			alloc, err := parseAllocation(tt.arg)
			if tt.wantErr {
				require.Error(err)
				return
			}
			require.NoError(err)
			require.Equal(tt.expected, alloc)
		})
	}
}

func TestLocalBackend(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	cfg, err := config.New(nil)
	require.NoError(err)
	cfg.DatabaseDir = filepath.Join(t.TempDir(), "db")
	cfg.Database.Sync = false

	_, err = openLocal(cfg, logging.NoLog{}, prometheus.NewRegistry())
	require.ErrorIs(err, genesis.ErrNotInitialized)

	payer, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	g := genesis.Default()
	g.CustomAllocation = []*genesis.CustomAllocation{{Address: payer.PublicKey().Address(), Balance: 10_000_000_000}}
	db, err := pebble.New(cfg.DatabaseDir, cfg.Database, prometheus.NewRegistry())
	require.NoError(err)
	require.NoError(g.Apply(db))
	require.NoError(db.Close())

	b, err := openLocal(cfg, logging.NoLog{}, prometheus.NewRegistry())
	require.NoError(err)
	defer func() { require.NoError(b.Close()) }()

	rent, err := b.Rent(ctx)
	require.NoError(err)
	require.Equal(ledger.DefaultRent(), rent)
	program, err := b.Program(ctx)
	require.NoError(err)
	require.Equal(marketplace.DefaultProgramID, program)

	issuer := payer.PublicKey().Address()
	ix, err := marketplace.NewCreateCollectionInstruction(program, payer.PublicKey().Address(), issuer)
	require.NoError(err)
	txID, err := b.Submit(ctx, newTx([]*ledger.Instruction{ix}, payer))
	require.NoError(err)
	require.NotEmpty(txID)

	_, c, err := readCollection(ctx, b, program, issuer)
	require.NoError(err)
	require.Equal(&marketplace.CollectionData{Address: issuer}, c)

	_, _, err = readCollection(ctx, b, program, codec.Address{9})
	require.Error(err)
}
