// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "errors"

// Every failure aborts the whole transaction. Programs wrap these sentinels
// with a short diagnostic, callers match them with errors.Is.
var (
	ErrInvalidInstructionData   = errors.New("invalid instruction data")
	ErrInvalidAccountData       = errors.New("invalid account data")
	ErrInvalidSeeds             = errors.New("invalid seeds")
	ErrNotEnoughAccountKeys     = errors.New("not enough account keys")
	ErrMissingRequiredSignature = errors.New("missing required signature")
	ErrAccountAlreadyInUse      = errors.New("account already in use")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrInsufficientFundsForRent = errors.New("insufficient funds for rent")
	ErrIllegalOwner             = errors.New("illegal owner")
	ErrAccountDataTooSmall      = errors.New("account data too small")
	ErrReadonlyModified         = errors.New("readonly account modified")
	ErrUnknownProgram           = errors.New("unknown program")
	ErrPrivilegeEscalation      = errors.New("privilege escalation")
	ErrCallDepth                = errors.New("call depth exceeded")
	ErrInvalidSignature         = errors.New("invalid signature")
	ErrNoInstructions           = errors.New("no instructions")
	ErrArithmeticOverflow       = errors.New("arithmetic overflow")
)
