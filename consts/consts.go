// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	Name = "marketplace"

	ByteLen      = 1
	BoolLen      = 1
	Uint16Len    = 2
	Uint32Len    = 4
	Uint64Len    = 8
	IntLen       = 4
	MaxUint8     = ^uint8(0)
	MaxUint16    = ^uint16(0)
	MaxUint32    = ^uint32(0)
	MaxUint64    = ^uint64(0)
	MaxUint      = ^uint(0)
	MaxInt       = int(MaxUint >> 1)
	NetworkLimit = 2 * 1024 * 1024
)
