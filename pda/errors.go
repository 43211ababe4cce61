// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pda

import "errors"

var (
	ErrMaxSeedLengthExceeded = errors.New("max seed length exceeded")
	ErrInvalidSeeds          = errors.New("derived address is on the curve")
	ErrNoViableBump          = errors.New("unable to find a viable bump seed")
	ErrAddressMismatch       = errors.New("derived address mismatch")
	ErrWrongProgram          = errors.New("authority derived for another program")
	ErrAuthorityConsumed     = errors.New("authority already consumed")
)
