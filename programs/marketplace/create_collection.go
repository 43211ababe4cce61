// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/pda"
)

// createCollection registers the collection of an issuer.
// Accounts: [payer(signer, writable), issuer, collection-state(writable),
// system-program].
func (p *Program) createCollection(ctx context.Context, ic *ledger.InvokeContext, accounts []*ledger.AccountInfo) error {
	it := ledger.NewAccountIter(accounts)
	payer, err := it.Next()
	if err != nil {
		return err
	}
	issuer, err := it.Next()
	if err != nil {
		return err
	}
	state, err := it.Next()
	if err != nil {
		return err
	}

	auth, err := pda.Find(p.ID(), collectionSeeds(issuer.Key)...)
	if err != nil {
		return err
	}
	if auth.Address() != state.Key {
		return fmt.Errorf("%w: collection state of %s is %s, got %s", ledger.ErrInvalidAccountData, issuer.Key, auth.Address(), state.Key)
	}
	create := ledger.NewCreateAccountInstruction(
		payer.Key,
		state.Key,
		ic.Rent().MinimumBalance(CollectionDataLen),
		CollectionDataLen,
		p.ID(),
	)
	if err := ic.InvokeSigned(ctx, create, auth); err != nil {
		return err
	}
	data := CollectionData{Address: issuer.Key}
	if err := ic.SetData(ctx, state, data.Marshal()); err != nil {
		return err
	}
	p.metrics.collectionsCreated.Inc()
	ic.Log().Info("collection created",
		zap.Stringer("issuer", issuer.Key),
		zap.Stringer("state", state.Key),
	)
	return nil
}
