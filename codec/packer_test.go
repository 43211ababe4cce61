// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"
)

func TestPackerAddress(t *testing.T) {
	require := require.New(t)
	addr := Address(ids.GenerateTestID())

	wp := NewWriter(AddressLen, AddressLen)
	wp.PackAddress(addr)
	require.NoError(wp.Err())
	require.Len(wp.Bytes(), AddressLen)

	rp := NewReader(wp.Bytes(), AddressLen)
	var unpacked Address
	rp.UnpackAddress(true, &unpacked)
	require.NoError(rp.Err())
	require.Equal(addr, unpacked)
	require.True(rp.Empty())
}

func TestPackerRequiredUnpack(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(AddressLen+8, AddressLen+8)
	wp.PackAddress(EmptyAddress)
	wp.PackUint64(0)

	rp := NewReader(wp.Bytes(), AddressLen+8)
	var unpacked Address
	rp.UnpackAddress(true, &unpacked)
	require.ErrorIs(rp.Err(), ErrFieldNotPopulated)
}

func TestPackerUnpackBytes(t *testing.T) {
	require := require.New(t)
	payload := []byte("hello")

	wp := NewWriter(BytesLen(payload), 1024)
	wp.PackBytes(payload)
	require.NoError(wp.Err())

	var unpacked []byte
	rp := NewReader(wp.Bytes(), 1024)
	rp.UnpackBytes(len(payload), true, &unpacked)
	require.NoError(rp.Err())
	require.Equal(payload, unpacked)

	// Limit smaller than the payload
	rp = NewReader(wp.Bytes(), 1024)
	rp.UnpackBytes(2, true, &unpacked)
	require.Error(rp.Err())
}

func TestPackerIntegers(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(32, 32)
	wp.PackByte(9)
	wp.PackBool(true)
	wp.PackUint16(300)
	wp.PackUint32(70_000)
	wp.PackUint64(1 << 40)
	require.NoError(wp.Err())

	rp := NewReader(wp.Bytes(), 32)
	require.Equal(byte(9), rp.UnpackByte())
	require.True(rp.UnpackBool())
	require.Equal(uint16(300), rp.UnpackUint16())
	require.Equal(uint32(70_000), rp.UnpackUint32(true))
	require.Equal(uint64(1<<40), rp.UnpackUint64(true))
	require.NoError(rp.Err())
	require.True(rp.Empty())
}

func TestPackerCount(t *testing.T) {
	require := require.New(t)

	wp := NewWriter(4, 4)
	wp.PackCount(5)

	rp := NewReader(wp.Bytes(), 4)
	require.Zero(rp.UnpackCount(4))
	require.ErrorIs(rp.Err(), ErrTooManyItems)
}

func TestPackerShortRead(t *testing.T) {
	require := require.New(t)

	rp := NewReader([]byte{1, 2}, 2)
	rp.UnpackUint64(false)
	require.Error(rp.Err())
}
