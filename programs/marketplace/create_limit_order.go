// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/pda"
	"github.com/kamda-cyrial/marketplace/programs/metadata"
)

// CreateLimitOrderAccounts is the number of accounts CreateLimitOrder reads.
const CreateLimitOrderAccounts = 11

// createLimitOrder escrows one NFT in the next slot of a collection.
// Accounts: [payer(signer, writable), issuer, collection-state(writable),
// slot(writable), mint, escrow(writable), rent-sysvar, token-program,
// system-program, payer-token-account(writable), metadata]. Trailing
// accounts are ignored; the associated-token program only has to be
// declared somewhere in the transaction.
func (p *Program) createLimitOrder(ctx context.Context, ic *ledger.InvokeContext, accounts []*ledger.AccountInfo, price uint32) error {
	it := ledger.NewAccountIter(accounts)
	infos := make([]*ledger.AccountInfo, CreateLimitOrderAccounts)
	for i := range infos {
		info, err := it.Next()
		if err != nil {
			return err
		}
		infos[i] = info
	}
	var (
		payer        = infos[0]
		issuer       = infos[1]
		state        = infos[2]
		slot         = infos[3]
		mint         = infos[4]
		escrow       = infos[5]
		payerAccount = infos[9]
		record       = infos[10]
	)

	// The collection state is only trusted once it is known to be the one
	// derived for [issuer] and written by this program.
	collection, err := p.loadCollection(ctx, ic, issuer, state)
	if err != nil {
		return err
	}

	index := collection.MaxListed
	auth, err := pda.Verify(slot.Key, p.ID(), slotSeeds(issuer.Key, index)...)
	if err != nil {
		return fmt.Errorf("%w: slot %d of %s: %w", ledger.ErrInvalidAccountData, index, issuer.Key, err)
	}
	if collection.MaxListed >= collection.MaxEver {
		create := ledger.NewCreateAccountInstruction(
			payer.Key,
			slot.Key,
			ic.Rent().MinimumBalance(ContainerDataLen),
			ContainerDataLen,
			p.ID(),
		)
		if err := ic.InvokeSigned(ctx, create, auth); err != nil {
			return err
		}
		p.metrics.slotsAllocated.Inc()
	} else {
		current, err := p.loadContainer(ctx, ic, slot)
		if err != nil {
			return err
		}
		if current.State {
			ic.Log().Warn("slot is not empty",
				zap.Stringer("issuer", issuer.Key),
				zap.Uint32("index", index),
				zap.Stringer("slot", slot.Key),
			)
			return fmt.Errorf("%w: %w: %s", ledger.ErrInvalidSeeds, ErrSlotOccupied, slot.Key)
		}
		p.metrics.slotsReused.Inc()
	}

	container := ContainerData{
		CollectionAddress: issuer.Key,
		MintAddress:       mint.Key,
		Price:             price,
		Owner:             payer.Key,
		State:             true,
	}
	if err := ic.SetData(ctx, slot, container.Marshal()); err != nil {
		return err
	}

	md, err := p.loadMetadata(ctx, ic, mint, record)
	if err != nil {
		return err
	}
	if err := Authenticate(p.config.CreatorPolicy, md, issuer.Key); err != nil {
		ic.Log().Warn("authenticity check failed",
			zap.Stringer("issuer", issuer.Key),
			zap.Stringer("mint", mint.Key),
			zap.Error(err),
		)
		return err
	}

	e := &Escrow{
		Payer:        payer.Key,
		Slot:         slot.Key,
		Mint:         mint.Key,
		Account:      escrow.Key,
		PayerAccount: payerAccount.Key,
	}
	if err := e.Transfer(ctx, ic); err != nil {
		return err
	}

	if !p.config.LegacySlotCounter {
		collection.MaxListed++
		if collection.MaxListed > collection.MaxEver {
			collection.MaxEver = collection.MaxListed
		}
		if err := ic.SetData(ctx, state, collection.Marshal()); err != nil {
			return err
		}
	}
	p.metrics.ordersCreated.Inc()
	ic.Log().Info("limit order created",
		zap.Stringer("issuer", issuer.Key),
		zap.Stringer("mint", mint.Key),
		zap.Uint32("index", index),
		zap.Stringer("slot", slot.Key),
		zap.Uint32("price", price),
		zap.Stringer("owner", payer.Key),
	)
	return nil
}

func (p *Program) loadCollection(ctx context.Context, ic *ledger.InvokeContext, issuer, state *ledger.AccountInfo) (*CollectionData, error) {
	if _, err := pda.Verify(state.Key, p.ID(), collectionSeeds(issuer.Key)...); err != nil {
		return nil, fmt.Errorf("%w: collection state of %s: %w", ledger.ErrInvalidAccountData, issuer.Key, err)
	}
	a, err := ic.GetAccount(ctx, state.Key)
	if err != nil {
		return nil, err
	}
	if a.Owner != p.ID() {
		return nil, fmt.Errorf("%w: collection state %s is owned by %s", ledger.ErrInvalidAccountData, state.Key, a.Owner)
	}
	return UnmarshalCollectionData(a.Data)
}

func (p *Program) loadContainer(ctx context.Context, ic *ledger.InvokeContext, slot *ledger.AccountInfo) (*ContainerData, error) {
	a, err := ic.GetAccount(ctx, slot.Key)
	if err != nil {
		return nil, err
	}
	if a.Owner != p.ID() {
		return nil, fmt.Errorf("%w: slot %s is owned by %s", ledger.ErrInvalidAccountData, slot.Key, a.Owner)
	}
	return UnmarshalContainerData(a.Data)
}

func (*Program) loadMetadata(ctx context.Context, ic *ledger.InvokeContext, mint, record *ledger.AccountInfo) (*metadata.Metadata, error) {
	expected, err := metadata.Address(mint.Key)
	if err != nil {
		return nil, err
	}
	if expected != record.Key {
		return nil, fmt.Errorf("%w: metadata of %s is %s, got %s", ledger.ErrInvalidAccountData, mint.Key, expected, record.Key)
	}
	a, err := ic.GetAccount(ctx, record.Key)
	if err != nil {
		return nil, err
	}
	if a.Owner != metadata.ProgramID {
		return nil, fmt.Errorf("%w: metadata %s is owned by %s", ledger.ErrInvalidAccountData, record.Key, a.Owner)
	}
	return metadata.UnmarshalMetadata(a.Data)
}
