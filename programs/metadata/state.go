// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metadata

import (
	"fmt"

	"github.com/near/borsh-go"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/consts"
	"github.com/kamda-cyrial/marketplace/ledger"
)

const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200
	MaxCreators     = 5

	// MaxMetadataLen is the cell size of every metadata record.
	MaxMetadataLen = 679

	// KeyMetadataV1 tags metadata records.
	KeyMetadataV1 uint8 = 4

	// Offset of [Data] inside a [Metadata] record: key, update authority, mint.
	dataOffset = consts.ByteLen + 2*codec.AddressLen
)

type Creator struct {
	Address  codec.Address
	Verified bool
	Share    uint8
}

// Data is the part of a record chosen by its update authority.
type Data struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Creators             *[]Creator
}

type Metadata struct {
	Key                 uint8
	UpdateAuthority     codec.Address
	Mint                codec.Address
	Data                Data
	PrimarySaleHappened bool
	IsMutable           bool
}

// Creator returns the entry of [addr] in the creator list, if any.
func (d *Data) Creator(addr codec.Address) (*Creator, bool) {
	if d.Creators == nil {
		return nil, false
	}
	for i := range *d.Creators {
		if (*d.Creators)[i].Address == addr {
			return &(*d.Creators)[i], true
		}
	}
	return nil, false
}

func (d *Data) validate() error {
	switch {
	case len(d.Name) > MaxNameLength:
		return fmt.Errorf("%w: name", ErrFieldTooLong)
	case len(d.Symbol) > MaxSymbolLength:
		return fmt.Errorf("%w: symbol", ErrFieldTooLong)
	case len(d.URI) > MaxURILength:
		return fmt.Errorf("%w: uri", ErrFieldTooLong)
	}
	if d.Creators == nil {
		return nil
	}
	if len(*d.Creators) > MaxCreators {
		return ErrTooManyCreators
	}
	total := 0
	for _, c := range *d.Creators {
		total += int(c.Share)
	}
	if len(*d.Creators) > 0 && total != 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidShares, total)
	}
	return nil
}

// optionOffset is the position of the creators option flag relative to the
// start of the encoded [Data].
func (d *Data) optionOffset() int {
	return codec.StringLen(d.Name) + codec.StringLen(d.Symbol) + codec.StringLen(d.URI) + consts.Uint16Len
}

// normalize restores an absent creator list. borsh-go decodes None as a
// pointer to the zero value, so the flag is read back from [encoded], which
// starts at the encoded [Data].
func (d *Data) normalize(encoded []byte) {
	off := d.optionOffset()
	if off < len(encoded) && encoded[off] == 0 {
		d.Creators = nil
	}
}

func (m Metadata) Marshal() []byte {
	b, _ := borsh.Serialize(m)
	return b
}

func UnmarshalMetadata(b []byte) (*Metadata, error) {
	var m Metadata
	if err := borsh.Deserialize(&m, b); err != nil {
		return nil, fmt.Errorf("%w: %w", ledger.ErrInvalidAccountData, err)
	}
	if m.Key != KeyMetadataV1 {
		return nil, fmt.Errorf("%w: not a metadata record", ledger.ErrInvalidAccountData)
	}
	m.Data.normalize(b[dataOffset:])
	return &m, nil
}
