// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"
	"os"

	"github.com/relabs-tech/drivetrain_computer/internal/app"
)

func main() {
	configPath := flag.String("config", app.DefaultConfigPath, "path to configuration file")
	flag.Parse()

	log.Println("starting drivetrain (mock console, simulated plant)")

	cfg, logger, err := app.Setup(*configPath, "", "console")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := app.SignalContext()
	defer stop()

	if err := app.RunMockConsole(ctx, cfg, logger, os.Stdout, app.DefaultScript); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
