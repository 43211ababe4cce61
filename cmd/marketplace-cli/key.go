// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/kamda-cyrial/marketplace/codec"
	"github.com/kamda-cyrial/marketplace/crypto/ed25519"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the wallet key",
}

type keyAddressCmdResponse struct {
	Path    string        `json:"path,omitempty"`
	Address codec.Address `json:"address"`
}

func (r keyAddressCmdResponse) String() string {
	if r.Path == "" {
		return r.Address.String()
	}
	return fmt.Sprintf("{{yellow}}%s{{/}} saved to %s", r.Address, r.Path)
}

var keyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new wallet key",
	RunE: func(cmd *cobra.Command, _ []string) error {
		p, err := keyPath(cmd)
		if err != nil {
			return err
		}
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return err
		}
		if _, err := os.Stat(p); err == nil && !force {
			prompt := promptui.Prompt{
				Label:     "Overwrite the existing key at " + p,
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				if errors.Is(err, promptui.ErrAbort) {
					return errors.New("key generation aborted")
				}
				return err
			}
		}
		k, err := ed25519.GeneratePrivateKey()
		if err != nil {
			return err
		}
		if err := k.Save(p); err != nil {
			return err
		}
		return printValue(cmd, keyAddressCmdResponse{
			Path:    p,
			Address: k.PublicKey().Address(),
		})
	},
}

var keyAddressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print the wallet address",
	RunE: func(cmd *cobra.Command, _ []string) error {
		k, err := loadKey(cmd)
		if err != nil {
			return err
		}
		return printValue(cmd, keyAddressCmdResponse{Address: k.PublicKey().Address()})
	},
}

func init() {
	rootCmd.AddCommand(keyCmd)
	keyCmd.AddCommand(keyGenerateCmd, keyAddressCmd)
	keyGenerateCmd.Flags().Bool("force", false, "Overwrite an existing key without asking")
}
