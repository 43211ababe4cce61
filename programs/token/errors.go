// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import "errors"

var (
	ErrUninitialized      = errors.New("account not initialized")
	ErrAlreadyInitialized = errors.New("account already initialized")
	ErrMintMismatch       = errors.New("mint mismatch")
	ErrOwnerMismatch      = errors.New("owner does not match")
	ErrInsufficientAmount = errors.New("insufficient token amount")
)
