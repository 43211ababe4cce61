// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metadata

import "errors"

var (
	ErrFieldTooLong          = errors.New("field too long")
	ErrTooManyCreators       = errors.New("too many creators")
	ErrInvalidShares         = errors.New("creator shares must sum to 100")
	ErrCannotVerifyCreator   = errors.New("creator cannot be verified by this signer")
	ErrCreatorNotFound       = errors.New("creator not found")
	ErrMintAuthorityMismatch = errors.New("mint authority mismatch")
)
