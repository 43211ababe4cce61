// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/genesis"
	"github.com/kamda-cyrial/marketplace/pebble"
	"github.com/kamda-cyrial/marketplace/utils"
)

var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Create and apply the initial ledger state",
}

type genesisCmdResponse struct {
	Path        string `json:"path"`
	Allocations int    `json:"allocations"`
}

func (r genesisCmdResponse) String() string {
	return fmt.Sprintf("{{green}}genesis with %d allocations:{{/}} %s", r.Allocations, r.Path)
}

// parseAllocation reads "<address>=<SOL>".
func parseAllocation(s string) (*genesis.CustomAllocation, error) {
	addr, amount, ok := strings.Cut(s, "=")
	if !ok {
		return nil, fmt.Errorf("allocation %q is not <address>=<SOL>", s)
	}
	a, err := codec.ParseAddress(addr)
	if err != nil {
		return nil, err
	}
	bal, err := utils.ParseBalance(amount)
	if err != nil {
		return nil, err
	}
	return &genesis.CustomAllocation{Address: a, Balance: bal}, nil
}

var genesisGenerateCmd = &cobra.Command{
	Use:   "generate <address>=<SOL>...",
	Short: "Write a genesis file funding the given addresses",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := cmd.Flags().GetString("genesis-file")
		if err != nil {
			return err
		}
		g := genesis.Default()
		for _, arg := range args {
			alloc, err := parseAllocation(arg)
			if err != nil {
				return err
			}
			g.CustomAllocation = append(g.CustomAllocation, alloc)
		}
		if err := g.Verify(); err != nil {
			return err
		}
		b, err := g.Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, b, perms.ReadWrite); err != nil {
			return err
		}
		return printValue(cmd, genesisCmdResponse{Path: out, Allocations: len(g.CustomAllocation)})
	},
}

var genesisApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Initialize the local database from a genesis file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		in, err := cmd.Flags().GetString("genesis-file")
		if err != nil {
			return err
		}
		b, err := utils.LoadBytes(in, -1)
		if err != nil {
			return err
		}
		g, err := genesis.Load(b)
		if err != nil {
			return err
		}
		cfg, err := loadNodeConfig(cmd)
		if err != nil {
			return err
		}
		db, err := pebble.New(cfg.DatabaseDir, cfg.Database, prometheus.NewRegistry())
		if err != nil {
			return err
		}
		defer db.Close()
		if err := g.Apply(db); err != nil {
			return err
		}
		return printValue(cmd, genesisCmdResponse{Path: cfg.DatabaseDir, Allocations: len(g.CustomAllocation)})
	},
}

func init() {
	rootCmd.AddCommand(genesisCmd)
	genesisCmd.AddCommand(genesisGenerateCmd, genesisApplyCmd)
	genesisCmd.PersistentFlags().String("genesis-file", "genesis.json", "Genesis file path")
}
