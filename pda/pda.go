// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pda derives program addresses: account addresses that are computed
// from a program identity and a list of seeds and that no private key can
// control. Only the program they were derived for may sign for them.
package pda

import (
	"filippo.io/edwards25519"

	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/kamda-cyrial/marketplace/codec"
)

const (
	// MaxSeeds includes the bump seed appended by [Find].
	MaxSeeds   = 16
	MaxSeedLen = 32

	marker = "ProgramDerivedAddress"
)

// Create hashes [seeds] with [program] into an address. It fails with
// [ErrInvalidSeeds] when the hash is a valid ed25519 point, since such an
// address could have a private key.
func Create(program codec.Address, seeds ...[]byte) (codec.Address, error) {
	if len(seeds) > MaxSeeds {
		return codec.EmptyAddress, ErrMaxSeedLengthExceeded
	}
	size := codec.AddressLen + len(marker)
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return codec.EmptyAddress, ErrMaxSeedLengthExceeded
		}
		size += len(seed)
	}
	buf := make([]byte, 0, size)
	for _, seed := range seeds {
		buf = append(buf, seed...)
	}
	buf = append(buf, program[:]...)
	buf = append(buf, marker...)

	addr := codec.Address(hashing.ComputeHash256Array(buf))
	if IsOnCurve(addr) {
		return codec.EmptyAddress, ErrInvalidSeeds
	}
	return addr, nil
}

// Find searches the bump space from 255 down to 0 and returns the first
// address that is off the curve, wrapped in an [Authority].
func Find(program codec.Address, seeds ...[]byte) (*Authority, error) {
	if len(seeds) >= MaxSeeds {
		return nil, ErrMaxSeedLengthExceeded
	}
	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := 255; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{byte(bump)}
		addr, err := Create(program, withBump...)
		switch err {
		case nil:
			return &Authority{
				program: program,
				address: addr,
				seeds:   withBump,
				bump:    byte(bump),
			}, nil
		case ErrInvalidSeeds:
			continue
		default:
			return nil, err
		}
	}
	return nil, ErrNoViableBump
}

// Verify derives the address for [seeds] and checks it equals [candidate].
func Verify(candidate codec.Address, program codec.Address, seeds ...[]byte) (*Authority, error) {
	a, err := Find(program, seeds...)
	if err != nil {
		return nil, err
	}
	if a.address != candidate {
		return nil, ErrAddressMismatch
	}
	return a, nil
}

// IsOnCurve reports whether [a] decodes to a point on the ed25519 curve.
func IsOnCurve(a codec.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err == nil
}
