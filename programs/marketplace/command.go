// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace

import (
	"fmt"
	"math"

	"github.com/kamda-cyrial/marketplace/consts"
	"github.com/kamda-cyrial/marketplace/ledger"
)

const (
	CreateCollectionTag uint8 = iota
	CreateLimitOrderTag
	CloseLimitOrderTag
	FillLimitOrderTag
)

// PriceLen is the number of price bytes following a CreateLimitOrder tag.
const PriceLen = 6

// Command is a decoded marketplace instruction.
type Command interface {
	Tag() uint8
}

type (
	CreateCollection struct{}

	// CreateLimitOrder carries its price in the encoded form wallets send.
	CreateLimitOrder struct {
		PriceBytes [PriceLen]byte
	}

	CloseLimitOrder struct{}
	FillLimitOrder  struct{}
)

func (CreateCollection) Tag() uint8 { return CreateCollectionTag }
func (CreateLimitOrder) Tag() uint8 { return CreateLimitOrderTag }
func (CloseLimitOrder) Tag() uint8  { return CloseLimitOrderTag }
func (FillLimitOrder) Tag() uint8   { return FillLimitOrderTag }

func (c CreateLimitOrder) Price() uint32 {
	return DecodePrice(c.PriceBytes)
}

// ParseCommand decodes [data]. Bytes after the expected payload are ignored.
func ParseCommand(data []byte) (Command, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty instruction", ledger.ErrInvalidInstructionData)
	}
	switch data[0] {
	case CreateCollectionTag:
		return CreateCollection{}, nil
	case CreateLimitOrderTag:
		if len(data) < consts.ByteLen+PriceLen {
			return nil, fmt.Errorf("%w: price needs %d bytes, got %d", ledger.ErrInvalidInstructionData, PriceLen, len(data)-consts.ByteLen)
		}
		var c CreateLimitOrder
		copy(c.PriceBytes[:], data[consts.ByteLen:])
		return c, nil
	case CloseLimitOrderTag:
		return CloseLimitOrder{}, nil
	case FillLimitOrderTag:
		return FillLimitOrder{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag %d", ledger.ErrInvalidInstructionData, data[0])
	}
}

// EncodeCommand returns the wire form of [c].
func EncodeCommand(c Command) []byte {
	if o, ok := c.(CreateLimitOrder); ok {
		return append([]byte{o.Tag()}, o.PriceBytes[:]...)
	}
	return []byte{c.Tag()}
}

// DecodePrice evaluates
//
//	(b1*b2 + b3 + (b4*b5 + b6)/10000) * 1e9
//
// in float32, rounding after every operation, and converts the result to a
// u32 with saturation.
func DecodePrice(b [PriceLen]byte) uint32 {
	b1, b2, b3 := float32(b[0]), float32(b[1]), float32(b[2])
	b4, b5, b6 := float32(b[3]), float32(b[4]), float32(b[5])

	// Explicit conversions keep the compiler from fusing multiply-adds.
	whole := float32(float32(b1*b2) + b3)
	frac := float32(float32(float32(b4*b5)+b6) / 10000)
	return saturateUint32(float32(float32(whole+frac) * 1e9))
}

func saturateUint32(f float32) uint32 {
	switch {
	case math.IsNaN(float64(f)) || f <= 0:
		return 0
	case f >= math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(f)
	}
}
