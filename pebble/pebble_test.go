// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/kamda-cyrial/marketplace/crypto/ed25519"
	"github.com/kamda-cyrial/marketplace/ledger"
)

func newTestDB(t *testing.T, dir string) *Database {
	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, err := New(dir, cfg, prometheus.NewRegistry())
	require.NoError(t, err)
	return db
}

func TestGetPutDelete(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t, t.TempDir())
	defer func() { require.NoError(db.Close()) }()

	_, err := db.Get([]byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)
	ok, err := db.Has([]byte("missing"))
	require.NoError(err)
	require.False(ok)

	require.NoError(db.Put([]byte("k"), []byte("v")))
	v, err := db.Get([]byte("k"))
	require.NoError(err)
	require.Equal([]byte("v"), v)

	require.NoError(db.Delete([]byte("k")))
	ok, err = db.Has([]byte("k"))
	require.NoError(err)
	require.False(ok)
}

func TestBatchReplay(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t, t.TempDir())
	defer func() { require.NoError(db.Close()) }()

	require.NoError(db.Put([]byte("gone"), []byte{1}))
	b := db.NewBatch()
	require.NoError(b.Put([]byte("a"), []byte{1}))
	require.NoError(b.Put([]byte("b"), []byte{2}))
	require.NoError(b.Delete([]byte("gone")))
	require.Equal(1+1+1+1+4, b.Size())

	// Nothing is visible before Write.
	ok, err := db.Has([]byte("a"))
	require.NoError(err)
	require.False(ok)

	mirror := memdb.New()
	require.NoError(mirror.Put([]byte("gone"), []byte{1}))
	require.NoError(b.Replay(mirror))
	require.NoError(b.Write())

	for _, k := range []string{"a", "b", "gone"} {
		want, wantErr := mirror.Get([]byte(k))
		got, gotErr := db.Get([]byte(k))
		require.Equal(wantErr, gotErr, k)
		require.Equal(want, got, k)
	}

	b.Reset()
	require.Zero(b.Size())
}

func TestAccountsSurviveReopen(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	from, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	to, err := ed25519.GeneratePrivateKey()
	require.NoError(err)
	rent := ledger.DefaultRent()

	db := newTestDB(t, dir)
	require.NoError(ledger.WriteAccount(db, from.PublicKey().Address(), &ledger.Account{Lamports: 10_000_000}))
	r, err := ledger.New(logging.NoLog{}, trace.Noop, db, rent, prometheus.NewRegistry())
	require.NoError(err)
	tx := ledger.NewTransaction(
		ledger.NewTransferInstruction(from.PublicKey().Address(), to.PublicKey().Address(), rent.MinimumBalance(0)),
	).Sign(from)
	require.NoError(r.Execute(ctx, tx))
	require.NoError(db.Close())

	db = newTestDB(t, dir)
	defer func() { require.NoError(db.Close()) }()
	a, err := ledger.ReadAccount(db, to.PublicKey().Address())
	require.NoError(err)
	require.Equal(rent.MinimumBalance(0), a.Lamports)
}

func TestClosed(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t, t.TempDir())
	b := db.NewBatch()
	require.NoError(b.Put([]byte("k"), []byte("v")))
	require.NoError(db.Close())

	_, err := db.Get([]byte("k"))
	require.ErrorIs(err, database.ErrClosed)
	_, err = db.Has([]byte("k"))
	require.ErrorIs(err, database.ErrClosed)
	require.ErrorIs(db.Put([]byte("k"), []byte("v")), database.ErrClosed)
	require.ErrorIs(db.Delete([]byte("k")), database.ErrClosed)
	require.ErrorIs(b.Write(), database.ErrClosed)
	require.ErrorIs(db.Close(), database.ErrClosed)
}

const batchSize = 100_000

func BenchmarkBatchInsertion(b *testing.B) {
	db, err := New(b.TempDir(), NewDefaultConfig(), prometheus.NewRegistry())
	if err != nil {
		b.Fatal(err)
	}
	defer db.Close()

	keys := make([][]byte, batchSize)
	for i := range keys {
		k, err := ed25519.GeneratePrivateKey()
		if err != nil {
			b.Fatal(err)
		}
		keys[i] = ledger.AccountKey(k.PublicKey().Address())
	}
	value := (&ledger.Account{Lamports: 1}).Marshal()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		batch := db.NewBatch()
		for _, k := range keys {
			if err := batch.Put(k, value); err != nil {
				b.Fatal(err)
			}
		}
		if err := batch.Write(); err != nil {
			b.Fatal(err)
		}
	}
}
