// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace

import (
	"fmt"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/programs/metadata"
)

// Authenticate checks that [issuer] vouched for the NFT described by [md].
func Authenticate(policy CreatorPolicy, md *metadata.Metadata, issuer codec.Address) error {
	if md.Data.Creators == nil {
		return fmt.Errorf("%w: %w", ledger.ErrInvalidAccountData, ErrCannotAuthenticate)
	}
	for _, c := range *md.Data.Creators {
		if c.Address != issuer {
			continue
		}
		if !c.Verified {
			return fmt.Errorf("%w: %w: %s", ledger.ErrInvalidAccountData, ErrNotSignedByIssuer, issuer)
		}
		if policy == CreatorPolicyVerified {
			return nil
		}
		break
	}
	return fmt.Errorf("%w: %w: %s", ledger.ErrInvalidAccountData, ErrWrongIssuer, issuer)
}
