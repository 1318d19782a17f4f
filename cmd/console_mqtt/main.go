package main

import (
	"log"
	"os"

	"github.com/relabs-tech/drivetrain_computer/internal/app"
)

func main() {
	log.Println("starting drivetrain console (MQTT subscriber)")

	cfg, logger, err := app.Setup(app.DefaultConfigPath, "", "console_mqtt")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := app.SignalContext()
	defer stop()

	if err := app.RunConsoleMQTT(ctx, cfg, logger, os.Stdout); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
