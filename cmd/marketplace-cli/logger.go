// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"os"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/kamda-cyrial/marketplace/config"
)

// newLogger writes to stderr and, if configured, to a rotating log file.
func newLogger(cfg *config.Config) logging.Logger {
	cores := []logging.WrappedCore{
		logging.NewWrappedCore(cfg.LogLevel, os.Stderr, logging.Colors.ConsoleEncoder()),
	}
	if cfg.LogFile != "" {
		rw := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB, // megabytes
			MaxBackups: cfg.LogMaxBackups,
			Compress:   true,
		}
		cores = append(cores, logging.NewWrappedCore(cfg.LogLevel, rw, logging.JSON.FileEncoder()))
	}
	return logging.NewLogger("", cores...)
}
