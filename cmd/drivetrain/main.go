// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package main

import (
	"log"
	"os"

	"github.com/urfave/cli"

	"github.com/relabs-tech/drivetrain_computer/internal/app"
	"github.com/relabs-tech/drivetrain_computer/internal/config"
)

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "drivetrain"
	cliApp.Usage = "run the drivetrain control and odometry loop"
	cliApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Value: app.DefaultConfigPath,
			Usage: "path to configuration file",
		},
		cli.BoolFlag{
			Name:  "sim",
			Usage: "drive the built-in simulated plant instead of the serial link",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "override logging.level (debug, info, warn, error)",
		},
	}
	cliApp.Action = func(c *cli.Context) error {
		var opts []config.Option
		if c.Bool("sim") {
			opts = append(opts, config.WithSim())
		}

		cfg, logger, err := app.Setup(c.String("config"), c.String("log-level"), "drivetrain", opts...)
		if err != nil {
			return err
		}

		ctx, stop := app.SignalContext()
		defer stop()

		return app.RunDrivetrain(ctx, cfg, logger)
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
