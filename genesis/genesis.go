// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/set"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"

	safemath "github.com/ava-labs/avalanchego/utils/math"
)

var (
	ErrInvalidRent         = errors.New("rent parameters must be non-zero")
	ErrDuplicateAllocation = errors.New("duplicate allocation")
	ErrBelowRentMinimum    = errors.New("allocation below rent minimum")
	ErrAlreadyInitialized  = errors.New("database already initialized")
	ErrNotInitialized      = errors.New("database not initialized")
)

// State
// 0x1/ (ledger parameters)
//   -> rent => json

var rentKey = []byte{0x1, 'r', 'e', 'n', 't'}

type CustomAllocation struct {
	Address codec.Address `json:"address"` // base58
	Balance uint64        `json:"balance"`
}

type Genesis struct {
	Rent ledger.Rent `json:"rent"`

	// Allocations
	CustomAllocation []*CustomAllocation `json:"customAllocation"`
}

func Default() *Genesis {
	return &Genesis{
		Rent:             ledger.DefaultRent(),
		CustomAllocation: []*CustomAllocation{},
	}
}

func Load(b []byte) (*Genesis, error) {
	g := Default()
	if err := json.Unmarshal(b, g); err != nil {
		return nil, err
	}
	return g, g.Verify()
}

// Verify checks that every allocation would survive the end-of-transaction
// rent check and that the total supply fits in a uint64.
func (g *Genesis) Verify() error {
	if g.Rent.LamportsPerByteYear == 0 || g.Rent.ExemptionYears == 0 {
		return ErrInvalidRent
	}
	var (
		seen   set.Set[codec.Address]
		supply uint64
		err    error
	)
	for _, alloc := range g.CustomAllocation {
		if seen.Contains(alloc.Address) {
			return fmt.Errorf("%w: %s", ErrDuplicateAllocation, alloc.Address)
		}
		seen.Add(alloc.Address)
		if !g.Rent.IsExempt(alloc.Balance, 0) {
			return fmt.Errorf("%w: addr=%s, bal=%d", ErrBelowRentMinimum, alloc.Address, alloc.Balance)
		}
		supply, err = safemath.Add64(supply, alloc.Balance)
		if err != nil {
			return err
		}
	}
	return nil
}

// Apply writes the rent parameters and the allocations into an empty [db] in
// a single batch.
func (g *Genesis) Apply(db interface {
	database.KeyValueReader
	database.Batcher
},
) error {
	ok, err := db.Has(rentKey)
	if err != nil {
		return err
	}
	if ok {
		return ErrAlreadyInitialized
	}
	rent, err := json.Marshal(g.Rent)
	if err != nil {
		return err
	}
	batch := db.NewBatch()
	if err := batch.Put(rentKey, rent); err != nil {
		return err
	}
	for _, alloc := range g.CustomAllocation {
		ok, err := db.Has(ledger.AccountKey(alloc.Address))
		if err != nil {
			return err
		}
		if ok {
			return fmt.Errorf("%w: %s", ErrAlreadyInitialized, alloc.Address)
		}
		if err := ledger.WriteAccount(batch, alloc.Address, &ledger.Account{Lamports: alloc.Balance}); err != nil {
			return err
		}
	}
	return batch.Write()
}

// ReadRent returns the rent parameters stored by [Genesis.Apply].
func ReadRent(db database.KeyValueReader) (ledger.Rent, error) {
	b, err := db.Get(rentKey)
	if errors.Is(err, database.ErrNotFound) {
		return ledger.Rent{}, ErrNotInitialized
	}
	if err != nil {
		return ledger.Rent{}, err
	}
	var r ledger.Rent
	return r, json.Unmarshal(b, &r)
}

func (g *Genesis) Marshal() ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}
