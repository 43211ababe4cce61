// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrClosed         = errors.New("closed")
	ErrMessageMissing = errors.New("message missing")
	ErrInvalidMessage = errors.New("invalid message")
	ErrInvalidDataLen = errors.New("invalid data length")
)
