// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"flag"
	"log"

	"github.com/relabs-tech/drivetrain_computer/internal/app"
)

func main() {
	configPath := flag.String("config", app.DefaultConfigPath, "path to configuration file")
	flag.Parse()

	log.Println("starting drivetrain pose display (MQTT subscriber)")

	cfg, logger, err := app.Setup(*configPath, "", "display")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := app.SignalContext()
	defer stop()

	if err := app.RunDisplay(ctx, cfg, logger); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
