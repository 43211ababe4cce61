// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"github.com/spf13/cobra"

	"github.com/kamda-cyrial/marketplace/codec"
)

// addressFlag parses the address flag [name]. An unset flag yields
// [fallback].
func addressFlag(cmd *cobra.Command, name string, fallback codec.Address) (codec.Address, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return codec.EmptyAddress, err
	}
	if s == "" {
		return fallback, nil
	}
	return codec.ParseAddress(s)
}

func requiredAddressFlag(cmd *cobra.Command, name string) (codec.Address, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return codec.EmptyAddress, err
	}
	return codec.ParseAddress(s)
}
