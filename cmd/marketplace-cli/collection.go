// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kamda-cyrial/marketplace/crypto/ed25519"
	"github.com/kamda-cyrial/marketplace/programs/marketplace"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage collections",
}

var collectionCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the collection of an issuer, paid by the wallet",
	RunE: func(cmd *cobra.Command, _ []string) error {
		payer, err := loadKey(cmd)
		if err != nil {
			return err
		}
		issuer, err := addressFlag(cmd, "issuer", payer.PublicKey().Address())
		if err != nil {
			return err
		}
		return withBackend(cmd, func(ctx context.Context, b backend) error {
			program, err := b.Program(ctx)
			if err != nil {
				return err
			}
			ix, err := marketplace.NewCreateCollectionInstruction(program, payer.PublicKey().Address(), issuer)
			if err != nil {
				return err
			}
			return submit(ctx, cmd, b, []ed25519.PrivateKey{payer}, ix)
		})
	},
}

func init() {
	rootCmd.AddCommand(collectionCmd)
	collectionCmd.AddCommand(collectionCreateCmd)
	collectionCreateCmd.Flags().String("issuer", "", "Issuer of the collection (defaults to the wallet)")
}
