// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "marketplace-cli" manages wallets, NFTs and limit orders on a marketplace
// ledger, either against a local database or a remote node.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

const requestTimeout = 30 * time.Second

var rootCmd = &cobra.Command{
	Use:        "marketplace-cli",
	Short:      "Marketplace CLI",
	Long:       `A CLI for placing NFT limit orders on a marketplace ledger.`,
	SuggestFor: []string{"marketplace-cli", "marketplacecli"},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text, json or yaml)")
	rootCmd.PersistentFlags().String("endpoint", "", "Node to submit to instead of the local database")
	rootCmd.PersistentFlags().String("key", "", "Path of the hex encoded wallet key")
	rootCmd.PersistentFlags().String("config", "", "Path of the node config file")
}

func main() {
	Execute()
}
