// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"log"

	"github.com/relabs-tech/drivetrain_computer/internal/app"
)

func main() {
	log.Println("starting drivetrain web server (MQTT subscriber)")

	cfg, logger, err := app.Setup(app.DefaultConfigPath, "", "web")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := app.SignalContext()
	defer stop()

	if err := app.RunWeb(ctx, cfg, logger); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
