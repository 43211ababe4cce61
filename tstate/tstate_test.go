// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/stretchr/testify/require"

	"github.com/kamda-cyrial/marketplace/state"
)

var (
	testKey = []byte("key")
	testVal = []byte("value")

	key2    = []byte("key2")
	key2str = string(key2)
)

func TestScope(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	// No Scope
	tsv := ts.NewView(state.Keys{}, map[string][]byte{})
	val, err := tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, ErrKeyNotSpecified)
	require.Nil(val)
	require.ErrorIs(tsv.Insert(ctx, testKey, testVal), ErrKeyNotSpecified)
	require.ErrorIs(tsv.Remove(ctx, testKey), ErrKeyNotSpecified)

	// Read-only scope
	tsv = ts.NewView(state.Keys{string(testKey): state.Read}, map[string][]byte{string(testKey): testVal})
	val, err = tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, val)
	require.ErrorIs(tsv.Insert(ctx, testKey, []byte("new")), ErrKeyNotWritable)
	require.ErrorIs(tsv.Remove(ctx, testKey), ErrKeyNotWritable)
}

func TestDeleteCommitGet(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{string(testKey): state.All}, map[string][]byte{string(testKey): testVal})
	require.NoError(tsv.Remove(ctx, testKey))
	tsv.Commit()

	// A later view sees the committed delete over its stale storage
	tsv = ts.NewView(state.Keys{string(testKey): state.All}, map[string][]byte{string(testKey): testVal})
	val, err := tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)
	require.Nil(val)
}

func TestInsertUpdate(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{string(testKey): state.All}, map[string][]byte{string(testKey): testVal})
	require.Equal(0, ts.OpIndex())

	newVal := []byte("newVal")
	require.NoError(tsv.Insert(ctx, testKey, newVal))
	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(1, tsv.OpIndex())
	require.Equal(newVal, val)
	require.Equal(testVal, tsv.ops[0].pastV)

	tsv.Commit()
	require.Equal(1, ts.OpIndex())
	tsv = ts.NewView(state.Keys{string(testKey): state.All}, map[string][]byte{string(testKey): testVal})
	val, err = tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(newVal, val)
}

func TestInsertRemoveInsertRollback(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := ts.NewView(state.Keys{key2str: state.All}, map[string][]byte{})

	require.NoError(tsv.Insert(ctx, key2, testVal))
	require.Equal(maybe.Some(testVal), tsv.pendingChangedKeys[key2str])

	require.NoError(tsv.Remove(ctx, key2))
	require.True(tsv.pendingChangedKeys[key2str].IsNothing())

	testVal2 := []byte("blah")
	require.NoError(tsv.Insert(ctx, key2, testVal2))
	require.Equal(maybe.Some(testVal2), tsv.pendingChangedKeys[key2str])

	// Rollback second insert
	tsv.Rollback(ctx, tsv.OpIndex()-1)
	require.True(tsv.pendingChangedKeys[key2str].IsNothing())

	// Rollback remove
	tsv.Rollback(ctx, tsv.OpIndex()-1)
	require.Equal(maybe.Some(testVal), tsv.pendingChangedKeys[key2str])

	// Rollback insert
	tsv.Rollback(ctx, tsv.OpIndex()-1)
	require.NotContains(tsv.pendingChangedKeys, key2str)
	require.Equal(0, tsv.OpIndex())

	// Remove empty should do nothing
	require.NoError(tsv.Remove(ctx, key2))
	require.Equal(0, tsv.OpIndex())
}

func TestRollbackToStart(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	storage := map[string][]byte{string(testKey): testVal}
	tsv := ts.NewView(state.Keys{string(testKey): state.All, key2str: state.All}, storage)
	require.NoError(tsv.Insert(ctx, testKey, []byte("changed")))
	require.NoError(tsv.Insert(ctx, key2, testVal))
	require.NoError(tsv.Remove(ctx, testKey))

	tsv.Rollback(ctx, 0)
	require.Zero(tsv.PendingChanges())

	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, val)
	_, err = tsv.GetValue(ctx, key2)
	require.ErrorIs(err, database.ErrNotFound)
}

func TestWriteChanges(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)
	db := memdb.New()
	require.NoError(db.Put(testKey, testVal))

	tsv := ts.NewView(state.Keys{string(testKey): state.All, key2str: state.All}, map[string][]byte{string(testKey): testVal})
	require.NoError(tsv.Remove(ctx, testKey))
	require.NoError(tsv.Insert(ctx, key2, []byte("two")))
	tsv.Commit()
	require.Equal(2, ts.PendingChanges())

	batch := db.NewBatch()
	require.NoError(ts.WriteChanges(batch))
	require.NoError(batch.Write())

	has, err := db.Has(testKey)
	require.NoError(err)
	require.False(has)
	v, err := db.Get(key2)
	require.NoError(err)
	require.Equal([]byte("two"), v)
}
