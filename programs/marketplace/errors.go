// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace

import "errors"

// Authenticity failures. Handlers report them wrapped in
// ledger.ErrInvalidAccountData.
var (
	ErrCannotAuthenticate = errors.New("cannot certify authenticity of this NFT")
	ErrNotSignedByIssuer  = errors.New("NFT not signed by collection issuer")
	ErrWrongIssuer        = errors.New("wrong creator in metadata")

	ErrSlotOccupied         = errors.New("slot is not empty")
	ErrUnknownCreatorPolicy = errors.New("unknown creator policy")
)
