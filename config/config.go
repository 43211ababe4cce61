// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/profiler"

	"github.com/kamda-cyrial/marketplace/pebble"
	"github.com/kamda-cyrial/marketplace/programs/marketplace"
	"github.com/kamda-cyrial/marketplace/trace"
)

const (
	defaultLogLevel                    = logging.Info
	defaultLogMaxSizeMB                = 64
	defaultLogMaxBackups               = 4
	defaultDatabaseDir                 = ".marketplace/db"
	defaultRPCAddress                  = "127.0.0.1:8899"
	defaultContinuousProfilerFrequency = 1 * time.Minute
	defaultContinuousProfilerMaxFiles  = 10
)

type Config struct {
	// Logging
	LogLevel      logging.Level `json:"logLevel"`
	LogFile       string        `json:"logFile"` // empty logs to the console only
	LogMaxSizeMB  int           `json:"logMaxSizeMB"`
	LogMaxBackups int           `json:"logMaxBackups"`

	// Storage
	DatabaseDir string        `json:"databaseDir"`
	Database    pebble.Config `json:"database"`

	// RPC
	RPCAddress     string   `json:"rpcAddress"`
	AllowedOrigins []string `json:"allowedOrigins"`

	// Profiling
	ContinuousProfilerDir string       `json:"continuousProfilerDir"`
	Trace                 trace.Config `json:"trace"`

	Marketplace marketplace.Config `json:"marketplace"`
}

func New(b []byte) (*Config, error) {
	c := &Config{}
	c.setDefault()
	if len(b) > 0 {
		if err := json.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config %s: %w", string(b), err)
		}
	}
	if err := c.Marketplace.Verify(); err != nil {
		return nil, err
	}
	if err := c.Trace.Verify(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) setDefault() {
	c.LogLevel = defaultLogLevel
	c.LogMaxSizeMB = defaultLogMaxSizeMB
	c.LogMaxBackups = defaultLogMaxBackups
	c.DatabaseDir = defaultDatabaseDir
	c.Database = pebble.NewDefaultConfig()
	c.RPCAddress = defaultRPCAddress
	c.AllowedOrigins = []string{"*"}
	c.Trace = trace.NewDefaultConfig()
	c.Marketplace = marketplace.DefaultConfig()
}

func (c *Config) GetContinuousProfilerConfig() *profiler.Config {
	if len(c.ContinuousProfilerDir) == 0 {
		return &profiler.Config{Enabled: false}
	}
	return &profiler.Config{
		Enabled:     true,
		Dir:         c.ContinuousProfilerDir,
		Freq:        defaultContinuousProfilerFrequency,
		MaxNumFiles: defaultContinuousProfilerMaxFiles,
	}
}
