// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace

import (
	"fmt"

	"github.com/kamda-cyrial/marketplace/codec"
)

// CreatorPolicy selects how an NFT's creator list is checked against the
// collection issuer.
type CreatorPolicy string

const (
	// CreatorPolicyVerified accepts an NFT whose creator list holds the
	// issuer with its verified flag set.
	CreatorPolicyVerified CreatorPolicy = "verified"

	// CreatorPolicyLiteral keeps the scan of the first deployed program:
	// an unverified issuer is rejected, and so is everything else, which
	// means no NFT is ever accepted.
	CreatorPolicyLiteral CreatorPolicy = "literal"
)

// DefaultProgramID is the address the marketplace is deployed at unless
// configured otherwise.
var DefaultProgramID = codec.MustParseAddress("3GVzftTSQKuaLZUFzKUqsaAkgsT9Mep4CKXEGgnLMRH4")

type Config struct {
	ProgramID     codec.Address `json:"programID"`
	CreatorPolicy CreatorPolicy `json:"creatorPolicy"`

	// LegacySlotCounter leaves the collection counters untouched after an
	// order is placed, so every order of a collection targets slot 0.
	LegacySlotCounter bool `json:"legacySlotCounter"`
}

func DefaultConfig() Config {
	return Config{
		ProgramID:     DefaultProgramID,
		CreatorPolicy: CreatorPolicyVerified,
	}
}

func (c Config) Verify() error {
	switch c.CreatorPolicy {
	case CreatorPolicyVerified, CreatorPolicyLiteral:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCreatorPolicy, c.CreatorPolicy)
	}
}
