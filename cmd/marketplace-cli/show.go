// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/crypto/ed25519"
	"github.com/kamda-cyrial/marketplace/ledger"
	"github.com/kamda-cyrial/marketplace/programs/marketplace"
	"github.com/kamda-cyrial/marketplace/utils"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Read ledger state",
}

type accountCmdResponse struct {
	Address codec.Address   `json:"address"`
	Account *ledger.Account `json:"account"`
}

func (r accountCmdResponse) String() string {
	return fmt.Sprintf("{{yellow}}%s{{/}}\nbalance: %s SOL\nowner: %s\ndata: %d bytes",
		r.Address, utils.FormatBalance(r.Account.Lamports), r.Account.Owner, len(r.Account.Data))
}

var showAccountCmd = &cobra.Command{
	Use:   "account [address]",
	Short: "Show an account (defaults to the wallet)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			addr codec.Address
			err  error
		)
		if len(args) == 1 {
			addr, err = codec.ParseAddress(args[0])
		} else {
			var k ed25519.PrivateKey
			k, err = loadKey(cmd)
			addr = k.PublicKey().Address()
		}
		if err != nil {
			return err
		}
		return withBackend(cmd, func(ctx context.Context, b backend) error {
			a, err := b.Account(ctx, addr)
			if err != nil {
				return err
			}
			return printValue(cmd, accountCmdResponse{Address: addr, Account: a})
		})
	},
}

type collectionCmdResponse struct {
	Address    codec.Address               `json:"address"`
	Collection *marketplace.CollectionData `json:"collection"`
}

func (r collectionCmdResponse) String() string {
	return fmt.Sprintf("{{yellow}}%s{{/}}\nissuer: %s\nlisted: %d\never: %d",
		r.Address, r.Collection.Address, r.Collection.MaxListed, r.Collection.MaxEver)
}

var showCollectionCmd = &cobra.Command{
	Use:   "collection <issuer>",
	Short: "Show the collection of an issuer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		issuer, err := codec.ParseAddress(args[0])
		if err != nil {
			return err
		}
		return withBackend(cmd, func(ctx context.Context, b backend) error {
			program, err := b.Program(ctx)
			if err != nil {
				return err
			}
			addr, c, err := readCollection(ctx, b, program, issuer)
			if err != nil {
				return err
			}
			return printValue(cmd, collectionCmdResponse{Address: addr, Collection: c})
		})
	},
}

type slotCmdResponse struct {
	Address   codec.Address              `json:"address"`
	Container *marketplace.ContainerData `json:"container"`
}

func (r slotCmdResponse) String() string {
	state := "{{red}}empty{{/}}"
	if r.Container.State {
		state = "{{green}}listed{{/}}"
	}
	return fmt.Sprintf("{{yellow}}%s{{/}} %s\nmint: %s\nprice: %d\nowner: %s",
		r.Address, state, r.Container.MintAddress, r.Container.Price, r.Container.Owner)
}

var showSlotCmd = &cobra.Command{
	Use:   "slot <issuer> <index>",
	Short: "Show a slot of a collection",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		issuer, err := codec.ParseAddress(args[0])
		if err != nil {
			return err
		}
		index, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return err
		}
		return withBackend(cmd, func(ctx context.Context, b backend) error {
			program, err := b.Program(ctx)
			if err != nil {
				return err
			}
			addr, err := marketplace.SlotAddress(program, issuer, uint32(index))
			if err != nil {
				return err
			}
			a, err := b.Account(ctx, addr)
			if err != nil {
				return err
			}
			if a.Owner != program {
				return fmt.Errorf("slot %d of %s was never allocated", index, issuer)
			}
			c, err := marketplace.UnmarshalContainerData(a.Data)
			if err != nil {
				return err
			}
			return printValue(cmd, slotCmdResponse{Address: addr, Container: c})
		})
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.AddCommand(showAccountCmd, showCollectionCmd, showSlotCmd)
}
