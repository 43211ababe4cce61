// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/crypto/ed25519"
	"github.com/kamda-cyrial/marketplace/programs/metadata"
	"github.com/kamda-cyrial/marketplace/programs/token"
)

var nftCmd = &cobra.Command{
	Use:   "nft",
	Short: "Mint and verify NFTs",
}

type nftMintCmdResponse struct {
	Mint    codec.Address `json:"mint"`
	Account codec.Address `json:"account"`
	txCmdResponse
}

func (r nftMintCmdResponse) String() string {
	return fmt.Sprintf("%s\n{{yellow}}mint:{{/}} %s\n{{yellow}}account:{{/}} %s", r.txCmdResponse, r.Mint, r.Account)
}

var nftMintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint a single NFT to the wallet, listing the issuer as its creator",
	RunE: func(cmd *cobra.Command, _ []string) error {
		owner, err := loadKey(cmd)
		if err != nil {
			return err
		}
		issuer, err := requiredAddressFlag(cmd, "issuer")
		if err != nil {
			return err
		}
		name, err := cmd.Flags().GetString("name")
		if err != nil {
			return err
		}
		symbol, err := cmd.Flags().GetString("symbol")
		if err != nil {
			return err
		}
		uri, err := cmd.Flags().GetString("uri")
		if err != nil {
			return err
		}
		mintKey, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return err
		}
		var (
			wallet   = owner.PublicKey().Address()
			mint     = mintKey.PublicKey().Address()
			creators = []metadata.Creator{{Address: issuer, Share: 100}}
		)
		account, err := token.AssociatedAddress(wallet, mint)
		if err != nil {
			return err
		}
		createAccount, err := token.NewCreateAssociatedInstruction(wallet, wallet, mint)
		if err != nil {
			return err
		}
		createMetadata, err := metadata.NewCreateMetadataInstruction(mint, wallet, wallet, wallet, false, metadata.Data{
			Name:     name,
			Symbol:   symbol,
			URI:      uri,
			Creators: &creators,
		}, true)
		if err != nil {
			return err
		}
		return withBackend(cmd, func(ctx context.Context, b backend) error {
			rent, err := b.Rent(ctx)
			if err != nil {
				return err
			}
			ixs := token.NewCreateMintInstructions(rent, wallet, mint, wallet, 0)
			ixs = append(ixs,
				createAccount,
				token.NewMintToInstruction(mint, account, wallet, 1),
				createMetadata,
			)
			txID, err := b.Submit(ctx, newTx(ixs, owner, mintKey))
			if err != nil {
				return err
			}
			return printValue(cmd, nftMintCmdResponse{
				Mint:          mint,
				Account:       account,
				txCmdResponse: txCmdResponse{TxID: txID},
			})
		})
	},
}

var nftVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Mark the wallet verified on the creator list of an NFT",
	RunE: func(cmd *cobra.Command, _ []string) error {
		creator, err := loadKey(cmd)
		if err != nil {
			return err
		}
		mint, err := requiredAddressFlag(cmd, "mint")
		if err != nil {
			return err
		}
		ix, err := metadata.NewSignMetadataInstruction(mint, creator.PublicKey().Address())
		if err != nil {
			return err
		}
		return withBackend(cmd, func(ctx context.Context, b backend) error {
			return submit(ctx, cmd, b, []ed25519.PrivateKey{creator}, ix)
		})
	},
}

func init() {
	rootCmd.AddCommand(nftCmd)
	nftCmd.AddCommand(nftMintCmd, nftVerifyCmd)

	nftMintCmd.Flags().String("issuer", "", "Collection issuer listed as creator")
	nftMintCmd.Flags().String("name", "", "NFT name")
	nftMintCmd.Flags().String("symbol", "", "NFT symbol")
	nftMintCmd.Flags().String("uri", "", "NFT metadata URI")
	nftVerifyCmd.Flags().String("mint", "", "Mint of the NFT")
	for _, required := range []struct {
		cmd  *cobra.Command
		flag string
	}{
		{nftMintCmd, "issuer"},
		{nftVerifyCmd, "mint"},
	} {
		if err := required.cmd.MarkFlagRequired(required.flag); err != nil {
			log.Fatalf("failed to mark %s flag as required: %s", required.flag, err)
		}
	}
}
