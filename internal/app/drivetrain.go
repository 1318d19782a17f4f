// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/relabs-tech/drivetrain_computer/internal/config"
	"github.com/relabs-tech/drivetrain_computer/internal/control"
	"github.com/relabs-tech/drivetrain_computer/internal/drive"
	"github.com/relabs-tech/drivetrain_computer/internal/joystick"
	"github.com/relabs-tech/drivetrain_computer/internal/link"
	customlog "github.com/relabs-tech/drivetrain_computer/internal/log"
	"github.com/relabs-tech/drivetrain_computer/internal/sensors"
	"github.com/relabs-tech/drivetrain_computer/internal/sim"
)

// RunDrivetrain runs the control loop until ctx is cancelled: joystick over
// websocket, sensors and motors over the serial link (or the simulated
// plant), ticks published to MQTT.
func RunDrivetrain(ctx context.Context, cfg *config.Config, logger customlog.Logger) error {
	logger.Infof("starting drivetrain control loop")
	logger.Infof("max speed %.3f m/s, max rotation %.3f rad/s, %.6f m per encoder tick",
		cfg.MaxSpeed(), cfg.MaxRotation(), cfg.DistancePerTick())

	// --- joystick websocket ---
	js := joystick.NewServer(logger.WithField("component", "joystick"))
	srv := &http.Server{Addr: cfg.Web.JoystickAddr, Handler: js.Handler()}
	go func() {
		logger.Infof("joystick websocket listening on %s", cfg.Web.JoystickAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("joystick server error: %v", err)
		}
	}()
	defer srv.Close()

	// --- sensors and motors ---
	var (
		src    sensors.Source
		motors control.MotorSink
		plant  control.Advancer
	)
	if cfg.Sim.Enabled {
		logger.Infof("using simulated drivetrain")
		p := sim.New(cfg)
		src, motors, plant = p, p, p
	} else {
		l, err := link.Open(cfg.Serial.Port, cfg.Serial.BaudRate, logger.WithField("component", "link"))
		if err != nil {
			return err
		}
		l.SetMaxAge(cfg.TelemetryTimeout())

		// the port outlives ctx so the final stop command still goes out
		linkCtx, closeLink := context.WithCancel(context.WithoutCancel(ctx))
		defer closeLink()

		go func() {
			if err := l.Run(linkCtx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Errorf("serial link stopped: %v", err)
			}
		}()
		src, motors = l, l
	}

	if cfg.IMU.Enabled {
		gyro, err := sensors.NewIMUGyro(cfg.IMU.SPIDevice, cfg.IMU.CSPin, cfg.IMU.GyroRange, logger.WithField("component", "imu"))
		if err != nil {
			return fmt.Errorf("failed to initialize IMU gyro: %w", err)
		}
		logger.Infof("using IMU gyro for heading")
		src = sensors.WithGyro(src, gyro)
	}

	// --- MQTT ---
	client, err := connectMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientIDDrive, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	runner := &control.Runner{
		Loop:        control.NewLoop(cfg),
		Joystick:    js,
		Sensors:     src,
		Motors:      motors,
		Sinks:       []control.TickSink{newMQTTTickSink(client, cfg.MQTT)},
		Plant:       plant,
		Period:      cfg.NominalPeriod(),
		UseMeasured: cfg.Timing.UseMeasuredPeriod,
		Logger:      logger,
	}
	err = runner.Run(ctx)

	if stopErr := motors.SetWheelVelocities(drive.WheelVelocities{}); stopErr != nil {
		logger.Errorf("failed to stop motors: %v", stopErr)
	}
	return err
}
