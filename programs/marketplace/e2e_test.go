// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package marketplace_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	ginkgo "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/crypto/ed25519"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/ledger/ledgertest"
	"github.com/kamda-cyrial/marketplace/programs/marketplace"
	"github.com/kamda-cyrial/marketplace/programs/metadata"
	"github.com/kamda-cyrial/marketplace/programs/token"
)

func TestE2e(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "marketplace e2e test suites")
}

var _ = ginkgo.Describe("[Limit orders]", func() {
	var (
		ctx     context.Context
		env     *ledgertest.Env
		program *marketplace.Program
		issuer  ed25519.PrivateKey
		seller  ed25519.PrivateKey
	)

	// mint creates a verified NFT of the collection held by the seller.
	mint := func() (codec.Address, codec.Address) {
		require := require.New(ginkgo.GinkgoT())
		mintKey := env.Wallet(ginkgo.GinkgoT(), 0)
		mintAddr := mintKey.PublicKey().Address()
		sellerAddr := seller.PublicKey().Address()

		createATA, err := token.NewCreateAssociatedInstruction(sellerAddr, sellerAddr, mintAddr)
		require.NoError(err)
		account, err := token.AssociatedAddress(sellerAddr, mintAddr)
		require.NoError(err)
		creators := []metadata.Creator{{Address: issuer.PublicKey().Address(), Share: 100}}
		createMetadata, err := metadata.NewCreateMetadataInstruction(mintAddr, sellerAddr, sellerAddr, sellerAddr, false,
			metadata.Data{Name: "Gamestree", Symbol: "GT", Creators: &creators}, false)
		require.NoError(err)
		sign, err := metadata.NewSignMetadataInstruction(mintAddr, issuer.PublicKey().Address())
		require.NoError(err)

		ixs := token.NewCreateMintInstructions(ledger.DefaultRent(), sellerAddr, mintAddr, sellerAddr, 0)
		ixs = append(ixs, createATA, token.NewMintToInstruction(mintAddr, account, sellerAddr, 1), createMetadata, sign)
		env.MustExecute(ctx, ginkgo.GinkgoT(), []ed25519.PrivateKey{seller, mintKey, issuer}, ixs...)
		return mintAddr, account
	}

	collection := func() *marketplace.CollectionData {
		addr, err := marketplace.CollectionAddress(program.ID(), issuer.PublicKey().Address())
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		c, err := marketplace.UnmarshalCollectionData(env.Account(ctx, ginkgo.GinkgoT(), addr).Data)
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		return c
	}

	ginkgo.BeforeEach(func() {
		var err error
		ctx = context.Background()
		program, err = marketplace.New(marketplace.DefaultConfig(), prometheus.NewRegistry())
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		env = ledgertest.New(ginkgo.GinkgoT(), &token.Program{}, &token.AssociatedProgram{}, &metadata.Program{}, program)
		issuer = env.Wallet(ginkgo.GinkgoT(), ledgertest.DefaultFunding)
		seller = env.Wallet(ginkgo.GinkgoT(), ledgertest.DefaultFunding)

		ix, err := marketplace.NewCreateCollectionInstruction(program.ID(), seller.PublicKey().Address(), issuer.PublicKey().Address())
		gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
		env.MustExecute(ctx, ginkgo.GinkgoT(), []ed25519.PrivateKey{seller}, ix)
	})

	ginkgo.It("starts with empty counters", func() {
		gomega.Expect(*collection()).Should(gomega.Equal(marketplace.CollectionData{Address: issuer.PublicKey().Address()}))
	})

	ginkgo.It("places consecutive orders in consecutive slots", func() {
		prices := [][marketplace.PriceLen]byte{
			{0, 0, 1, 0, 0, 0},
			{0, 0, 0, 50, 1, 0},
			{0, 0, 2, 0, 0, 0},
		}
		mints := make([]codec.Address, len(prices))
		for i, price := range prices {
			mintAddr, account := mint()
			mints[i] = mintAddr
			ix, err := marketplace.NewCreateLimitOrderInstruction(program.ID(), &marketplace.LimitOrder{
				Payer:        seller.PublicKey().Address(),
				Issuer:       issuer.PublicKey().Address(),
				Index:        collection().MaxListed,
				Mint:         mintAddr,
				PayerAccount: account,
				PriceBytes:   price,
			})
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(env.Execute(ctx, []ed25519.PrivateKey{seller}, ix)).Should(gomega.Succeed())
		}

		gomega.Expect(collection().MaxListed).Should(gomega.Equal(uint32(len(prices))))
		gomega.Expect(collection().MaxEver).Should(gomega.Equal(uint32(len(prices))))
		for i, mintAddr := range mints {
			slot, err := marketplace.SlotAddress(program.ID(), issuer.PublicKey().Address(), uint32(i))
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			c, err := marketplace.UnmarshalContainerData(env.Account(ctx, ginkgo.GinkgoT(), slot).Data)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(c.MintAddress).Should(gomega.Equal(mintAddr))
			gomega.Expect(c.Price).Should(gomega.Equal(marketplace.DecodePrice(prices[i])))
			gomega.Expect(c.State).Should(gomega.BeTrue())

			escrow, err := token.AssociatedAddress(slot, mintAddr)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			holding, err := token.UnmarshalAccount(env.Account(ctx, ginkgo.GinkgoT(), escrow).Data)
			gomega.Expect(err).ShouldNot(gomega.HaveOccurred())
			gomega.Expect(holding.Amount).Should(gomega.Equal(uint64(1)))
			gomega.Expect(holding.Owner).Should(gomega.Equal(slot))
		}
	})

	ginkgo.It("accepts close and fill without touching state", func() {
		before := collection()
		sellerAddr := seller.PublicKey().Address()
		gomega.Expect(env.Execute(ctx, []ed25519.PrivateKey{seller},
			marketplace.NewCloseLimitOrderInstruction(program.ID(), sellerAddr),
			marketplace.NewFillLimitOrderInstruction(program.ID(), sellerAddr),
		)).Should(gomega.Succeed())
		gomega.Expect(collection()).Should(gomega.Equal(before))
	})
})
