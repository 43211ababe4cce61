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
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/programs/marketplace"
	"github.com/kamda-cyrial/marketplace/programs/token"
)

var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place and manage limit orders",
}

// readCollection loads the collection of [issuer] under [program].
func readCollection(ctx context.Context, b backend, program, issuer codec.Address) (codec.Address, *marketplace.CollectionData, error) {
	addr, err := marketplace.CollectionAddress(program, issuer)
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	a, err := b.Account(ctx, addr)
	if err != nil {
		return codec.EmptyAddress, nil, err
	}
	if a.Owner != program {
		return codec.EmptyAddress, nil, fmt.Errorf("no collection for issuer %s", issuer)
	}
	c, err := marketplace.UnmarshalCollectionData(a.Data)
	return addr, c, err
}

type orderCreateCmdResponse struct {
	Slot  codec.Address `json:"slot"`
	Index uint32        `json:"index"`
	Price uint32        `json:"price"`
	txCmdResponse
}

func (r orderCreateCmdResponse) String() string {
	return fmt.Sprintf("%s\n{{yellow}}slot %d:{{/}} %s\n{{yellow}}price:{{/}} %d", r.txCmdResponse, r.Index, r.Slot, r.Price)
}

var orderCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Escrow an NFT of the wallet in the next slot of a collection",
	RunE: func(cmd *cobra.Command, _ []string) error {
		payer, err := loadKey(cmd)
		if err != nil {
			return err
		}
		issuer, err := requiredAddressFlag(cmd, "issuer")
		if err != nil {
			return err
		}
		mint, err := requiredAddressFlag(cmd, "mint")
		if err != nil {
			return err
		}
		priceHex, err := cmd.Flags().GetString("price")
		if err != nil {
			return err
		}
		priceBytes, err := codec.LoadHex(priceHex, marketplace.PriceLen)
		if err != nil {
			return fmt.Errorf("price must be %d hex encoded bytes: %w", marketplace.PriceLen, err)
		}
		order := &marketplace.LimitOrder{
			Payer:  payer.PublicKey().Address(),
			Issuer: issuer,
			Mint:   mint,
		}
		copy(order.PriceBytes[:], priceBytes)
		order.PayerAccount, err = token.AssociatedAddress(order.Payer, mint)
		if err != nil {
			return err
		}
		return withBackend(cmd, func(ctx context.Context, b backend) error {
			program, err := b.Program(ctx)
			if err != nil {
				return err
			}
			_, c, err := readCollection(ctx, b, program, issuer)
			if err != nil {
				return err
			}
			order.Index = c.MaxListed
			if cmd.Flags().Changed("index") {
				if order.Index, err = cmd.Flags().GetUint32("index"); err != nil {
					return err
				}
			}
			slot, err := marketplace.SlotAddress(program, issuer, order.Index)
			if err != nil {
				return err
			}
			ix, err := marketplace.NewCreateLimitOrderInstruction(program, order)
			if err != nil {
				return err
			}
			txID, err := b.Submit(ctx, newTx([]*ledger.Instruction{ix}, payer))
			if err != nil {
				return err
			}
			return printValue(cmd, orderCreateCmdResponse{
				Slot:          slot,
				Index:         order.Index,
				Price:         marketplace.DecodePrice(order.PriceBytes),
				txCmdResponse: txCmdResponse{TxID: txID},
			})
		})
	},
}

// noopOrderCmd submits a command the marketplace accepts without effect.
func noopOrderCmd(use, short string, build func(program, payer codec.Address) *ledger.Instruction) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			payer, err := loadKey(cmd)
			if err != nil {
				return err
			}
			return withBackend(cmd, func(ctx context.Context, b backend) error {
				program, err := b.Program(ctx)
				if err != nil {
					return err
				}
				return submit(ctx, cmd, b, []ed25519.PrivateKey{payer}, build(program, payer.PublicKey().Address()))
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(orderCmd)
	orderCmd.AddCommand(
		orderCreateCmd,
		noopOrderCmd("close", "Close a limit order (accepted, no effect yet)", marketplace.NewCloseLimitOrderInstruction),
		noopOrderCmd("fill", "Fill a limit order (accepted, no effect yet)", marketplace.NewFillLimitOrderInstruction),
	)

	orderCreateCmd.Flags().String("issuer", "", "Issuer of the collection")
	orderCreateCmd.Flags().String("mint", "", "Mint of the NFT to escrow")
	orderCreateCmd.Flags().String("price", "000000000000", "Encoded price, 6 hex encoded bytes")
	orderCreateCmd.Flags().Uint32("index", 0, "Slot index (defaults to the next free slot)")
	for _, flag := range []string{"issuer", "mint"} {
		if err := orderCreateCmd.MarkFlagRequired(flag); err != nil {
			log.Fatalf("failed to mark %s flag as required: %s", flag, err)
		}
	}
}
