// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/crypto/ed25519"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/ledger/ledgertest"
	"github.com/kamda-cyrial/marketplace/programs/metadata"
	"github.com/kamda-cyrial/marketplace/programs/token"
)

// oneSOL is the price encoded by [onePrice].
const oneSOL = 1_000_000_000

var onePrice = [PriceLen]byte{0, 0, 1, 0, 0, 0}

type market struct {
	env     *ledgertest.Env
	program *Program
	issuer  ed25519.PrivateKey
	seller  ed25519.PrivateKey
}

func newMarket(t *testing.T, config Config) *market {
	program, err := New(config, prometheus.NewRegistry())
	require.NoError(t, err)
	env := ledgertest.New(t, &token.Program{}, &token.AssociatedProgram{}, &metadata.Program{}, program)
	return &market{
		env:     env,
		program: program,
		issuer:  env.Wallet(t, ledgertest.DefaultFunding),
		seller:  env.Wallet(t, ledgertest.DefaultFunding),
	}
}

func (m *market) issuerAddr() codec.Address {
	return m.issuer.PublicKey().Address()
}

func (m *market) sellerAddr() codec.Address {
	return m.seller.PublicKey().Address()
}

func (m *market) createCollection(ctx context.Context, t *testing.T) codec.Address {
	ix, err := NewCreateCollectionInstruction(m.program.ID(), m.sellerAddr(), m.issuerAddr())
	require.NoError(t, err)
	m.env.MustExecute(ctx, t, []ed25519.PrivateKey{m.seller}, ix)
	return ix.Accounts[2].Address
}

// nft describes an NFT minted for a test.
type nft struct {
	mint    codec.Address
	account codec.Address
}

// mintNFT mints [amount] units of a fresh mint to the seller and registers
// [creators] as its metadata. The issuer signs the record when [verify].
func (m *market) mintNFT(ctx context.Context, t *testing.T, amount uint64, creators *[]metadata.Creator, verify bool) *nft {
	require := require.New(t)
	mintKey := m.env.Wallet(t, 0)
	mint := mintKey.PublicKey().Address()
	seller := m.sellerAddr()

	createATA, err := token.NewCreateAssociatedInstruction(seller, seller, mint)
	require.NoError(err)
	account, err := token.AssociatedAddress(seller, mint)
	require.NoError(err)
	createMetadata, err := metadata.NewCreateMetadataInstruction(mint, seller, seller, seller, false,
		metadata.Data{Name: "Gamestree", Symbol: "GT", Creators: creators}, true)
	require.NoError(err)

	ixs := token.NewCreateMintInstructions(ledger.DefaultRent(), seller, mint, seller, 0)
	ixs = append(ixs,
		createATA,
		token.NewMintToInstruction(mint, account, seller, amount),
		createMetadata,
	)
	m.env.MustExecute(ctx, t, []ed25519.PrivateKey{m.seller, mintKey}, ixs...)

	if verify {
		sign, err := metadata.NewSignMetadataInstruction(mint, m.issuerAddr())
		require.NoError(err)
		m.env.MustExecute(ctx, t, []ed25519.PrivateKey{m.issuer}, sign)
	}
	return &nft{mint: mint, account: account}
}

// issuedBy lists the issuer as the sole creator.
func (m *market) issuedBy() *[]metadata.Creator {
	return &[]metadata.Creator{{Address: m.issuerAddr(), Share: 100}}
}

func (m *market) orderInstruction(t *testing.T, index uint32, n *nft) *ledger.Instruction {
	ix, err := NewCreateLimitOrderInstruction(m.program.ID(), &LimitOrder{
		Payer:        m.sellerAddr(),
		Issuer:       m.issuerAddr(),
		Index:        index,
		Mint:         n.mint,
		PayerAccount: n.account,
		PriceBytes:   onePrice,
	})
	require.NoError(t, err)
	return ix
}

func (m *market) order(ctx context.Context, t *testing.T, index uint32, n *nft) error {
	return m.env.Execute(ctx, []ed25519.PrivateKey{m.seller}, m.orderInstruction(t, index, n))
}

func (m *market) collection(ctx context.Context, t *testing.T) *CollectionData {
	addr, err := CollectionAddress(m.program.ID(), m.issuerAddr())
	require.NoError(t, err)
	a := m.env.Account(ctx, t, addr)
	require.Equal(t, m.program.ID(), a.Owner)
	require.Len(t, a.Data, CollectionDataLen)
	c, err := UnmarshalCollectionData(a.Data)
	require.NoError(t, err)
	return c
}

func (m *market) slot(t *testing.T, index uint32) codec.Address {
	addr, err := SlotAddress(m.program.ID(), m.issuerAddr(), index)
	require.NoError(t, err)
	return addr
}

func (m *market) container(ctx context.Context, t *testing.T, index uint32) *ContainerData {
	a := m.env.Account(ctx, t, m.slot(t, index))
	require.Equal(t, m.program.ID(), a.Owner)
	require.Len(t, a.Data, ContainerDataLen)
	c, err := UnmarshalContainerData(a.Data)
	require.NoError(t, err)
	return c
}

func (m *market) tokens(ctx context.Context, t *testing.T, addr codec.Address) uint64 {
	a := m.env.Account(ctx, t, addr)
	if a.Empty() {
		return 0
	}
	holding, err := token.UnmarshalAccount(a.Data)
	require.NoError(t, err)
	return holding.Amount
}

func (m *market) escrow(t *testing.T, index uint32, n *nft) codec.Address {
	addr, err := token.AssociatedAddress(m.slot(t, index), n.mint)
	require.NoError(t, err)
	return addr
}

// seed writes [data] at [addr] as a program owned cell of [size] bytes.
func (m *market) seed(t *testing.T, addr codec.Address, size int, data []byte) {
	cell := make([]byte, size)
	copy(cell, data)
	require.NoError(t, ledger.WriteAccount(m.env.DB, addr, &ledger.Account{
		Lamports: ledger.DefaultRent().MinimumBalance(size),
		Owner:    m.program.ID(),
		Data:     cell,
	}))
}
