// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"github.com/kamda-cyrial/marketplace/config"
	"github.com/kamda-cyrial/marketplace/crypto/ed25519"
	"github.com/kamda-cyrial/marketplace/utils"
)

const (
	configFolder   = ".marketplace-cli"
	defaultKeyFile = "key.hex"
)

var configDir string

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error getting home directory:", err)
		os.Exit(1)
	}

	configDir = filepath.Join(homeDir, configFolder)
	if err := os.MkdirAll(configDir, perms.ReadWriteExecute); err != nil {
		fmt.Fprintln(os.Stderr, "Error creating config directory:", err)
		os.Exit(1)
	}

	configFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := os.WriteFile(configFile, nil, perms.ReadWrite); err != nil {
			fmt.Fprintln(os.Stderr, "Error creating config file:", err)
			os.Exit(1)
		}
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.SetEnvPrefix("MARKETPLACE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "Error reading config:", err)
			os.Exit(1)
		}
	}
}

// getConfigValue prefers the flag, then the CLI config file or environment.
func getConfigValue(cmd *cobra.Command, key string, required bool) (string, error) {
	if value, err := cmd.Flags().GetString(key); err == nil && value != "" {
		return value, nil
	}
	if value := viper.GetString(key); value != "" {
		return value, nil
	}
	if required {
		return "", fmt.Errorf("required value for %s not found", key)
	}
	return "", nil
}

func setConfigValue(key, value string) error {
	viper.Set(key, value)
	return viper.WriteConfig()
}

func keyPath(cmd *cobra.Command) (string, error) {
	p, err := getConfigValue(cmd, "key", false)
	if err != nil {
		return "", err
	}
	if p == "" {
		p = filepath.Join(configDir, defaultKeyFile)
	}
	return p, nil
}

func loadKey(cmd *cobra.Command) (ed25519.PrivateKey, error) {
	p, err := keyPath(cmd)
	if err != nil {
		return ed25519.EmptyPrivateKey, err
	}
	k, err := ed25519.LoadKey(p)
	if err != nil {
		return ed25519.EmptyPrivateKey, fmt.Errorf("failed to load key %s: %w", p, err)
	}
	return k, nil
}

// loadNodeConfig reads the node config, or the defaults when none is set.
func loadNodeConfig(cmd *cobra.Command) (*config.Config, error) {
	p, err := getConfigValue(cmd, "config", false)
	if err != nil {
		return nil, err
	}
	if p == "" {
		return config.New(nil)
	}
	b, err := utils.LoadBytes(p, -1)
	if err != nil {
		return nil, err
	}
	return config.New(b)
}

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var errUnknownOutput = errors.New("unknown output format")

func outputFormat(cmd *cobra.Command) (string, error) {
	output, err := getConfigValue(cmd, "output", false)
	if err != nil {
		return "", fmt.Errorf("failed to get output format: %w", err)
	}
	switch output = strings.ToLower(output); output {
	case "", outputText:
		return outputText, nil
	case outputJSON, outputYAML:
		return output, nil
	default:
		return "", fmt.Errorf("%w: %q", errUnknownOutput, output)
	}
}

func printValue(cmd *cobra.Command, v fmt.Stringer) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	var b []byte
	switch format {
	case outputText:
		utils.Outf("%s\n", v.String())
		return nil
	case outputJSON:
		b, err = json.MarshalIndent(v, "", "  ")
	case outputYAML:
		b, err = yaml.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", format, err)
	}
	fmt.Println(strings.TrimRight(string(b), "\n"))
	return nil
}
