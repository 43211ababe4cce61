// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace

import (
	"fmt"

	"github.com/near/borsh-go"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/consts"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/pda"
)

// Cell sizes. A ContainerData record is 101 bytes once encoded, so slot
// cells are sized to hold it.
const (
	CollectionDataLen = 50
	ContainerDataLen  = 2*codec.AddressLen + consts.Uint32Len + codec.AddressLen + consts.BoolLen
)

// SeedTag prefixes every address derived by the marketplace.
var SeedTag = []byte("Gamestree_seed")

// CollectionData tracks the slots of one collection. MinListed is carried
// for layout compatibility and is not used.
type CollectionData struct {
	Address   codec.Address
	MinListed uint32
	MaxListed uint32
	MaxEver   uint32
}

// ContainerData is one resting limit order. State is true while the slot
// holds an escrowed NFT.
type ContainerData struct {
	CollectionAddress codec.Address
	MintAddress       codec.Address
	Price             uint32
	Owner             codec.Address
	State             bool
}

func (c CollectionData) Marshal() []byte {
	b, _ := borsh.Serialize(c)
	return b
}

func (c ContainerData) Marshal() []byte {
	b, _ := borsh.Serialize(c)
	return b
}

func UnmarshalCollectionData(b []byte) (*CollectionData, error) {
	var c CollectionData
	if err := borsh.Deserialize(&c, b); err != nil {
		return nil, fmt.Errorf("%w: collection data: %w", ledger.ErrInvalidAccountData, err)
	}
	return &c, nil
}

func UnmarshalContainerData(b []byte) (*ContainerData, error) {
	var c ContainerData
	if err := borsh.Deserialize(&c, b); err != nil {
		return nil, fmt.Errorf("%w: container data: %w", ledger.ErrInvalidAccountData, err)
	}
	return &c, nil
}

func collectionSeeds(issuer codec.Address) [][]byte {
	return [][]byte{SeedTag, issuer[:]}
}

func slotSeeds(issuer codec.Address, index uint32) [][]byte {
	p := codec.NewWriter(consts.Uint32Len, consts.Uint32Len)
	p.PackUint32(index)
	return [][]byte{SeedTag, p.Bytes(), issuer[:]}
}

// CollectionAddress derives the collection-state address of [issuer].
func CollectionAddress(program, issuer codec.Address) (codec.Address, error) {
	auth, err := pda.Find(program, collectionSeeds(issuer)...)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return auth.Address(), nil
}

// SlotAddress derives the escrow address of slot [index] of [issuer].
func SlotAddress(program, issuer codec.Address, index uint32) (codec.Address, error) {
	auth, err := pda.Find(program, slotSeeds(issuer, index)...)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return auth.Address(), nil
}
