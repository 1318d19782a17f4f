// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/relabs-tech/drivetrain_computer/internal/config"
	customlog "github.com/relabs-tech/drivetrain_computer/internal/log"
)

// DefaultConfigPath is where the binaries look for their configuration.
const DefaultConfigPath = "./drivetrain_config.yaml"

// Setup loads the configuration into the global singleton and builds the
// logger. A missing file at the default path falls back to defaults. opts are
// applied before validation.
func Setup(configPath, logLevel, name string, opts ...config.Option) (*config.Config, customlog.Logger, error) {
	err := config.InitGlobal(configPath, opts...)
	if errors.Is(err, fs.ErrNotExist) && configPath == DefaultConfigPath {
		log.Printf("no %s, using built-in defaults", configPath)
		var cfg *config.Config
		cfg, err = config.FromDefaults(opts...)
		if err == nil {
			config.Set(cfg)
		}
	}
	if err != nil {
		return nil, nil, err
	}
	cfg := config.Get()

	if logLevel == "" {
		logLevel = cfg.Logging.Level
	}
	logger, err := customlog.NewLogrusLogger(logLevel, cfg.Logging.LogDir, name)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// SignalContext is cancelled on Ctrl+C or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
