// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "github.com/kamda-cyrial/marketplace/codec"

var (
	// SystemProgramID owns every wallet account.
	SystemProgramID = codec.EmptyAddress

	// RentSysvarID identifies the rent parameters. Programs that need rent
	// declare it among their accounts and read [InvokeContext.Rent].
	RentSysvarID = codec.MustParseAddress("SysvarRent111111111111111111111111111111111")
)
