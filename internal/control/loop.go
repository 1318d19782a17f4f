// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package control runs the per-tick drive and dead-reckoning pipeline.
package control

import (
	"github.com/relabs-tech/drivetrain_computer/internal/config"
	"github.com/relabs-tech/drivetrain_computer/internal/drive"
	"github.com/relabs-tech/drivetrain_computer/internal/joystick"
	"github.com/relabs-tech/drivetrain_computer/internal/odometry"
	"github.com/relabs-tech/drivetrain_computer/internal/sensors"
)

// Tick is everything the loop produced in one period.
type Tick struct {
	Elapsed  float64               `json:"t"`
	Dt       float64               `json:"dt"`
	Command  drive.DriveCommand    `json:"command"`
	Wheels   drive.WheelVelocities `json:"wheels"`
	SlowMode bool                  `json:"slow_mode"`
	Pose     odometry.Pose2D       `json:"pose"`
}

// Loop owns the drive and odometry state. It is not safe for concurrent use;
// exactly one goroutine calls Step.
type Loop struct {
	shaper          drive.Shaper
	speedAxis       int
	rotationAxis    int
	slowButton      int
	freeSpeed       float64
	distancePerTick float64
	gyroAxis        string

	limiter  *drive.SlewLimiter
	slowMode *drive.SlowMode
	odometry *odometry.Estimator

	elapsed float64
}

// NewLoop builds a loop at the configured start pose.
func NewLoop(cfg *config.Config) *Loop {
	return &Loop{
		shaper:          drive.Shaper{MaxJoy: cfg.Input.MaxJoy, DeadZone: cfg.Input.DeadZone},
		speedAxis:       cfg.Input.SpeedAxis,
		rotationAxis:    cfg.Input.RotationAxis,
		slowButton:      cfg.Input.SlowModeButton,
		freeSpeed:       cfg.FreeSpeedRadPerSec(),
		distancePerTick: cfg.DistancePerTick(),
		gyroAxis:        cfg.Odometry.GyroAxis,

		limiter:  drive.NewSlewLimiter(cfg.MaxSpeed(), cfg.Drivetrain.MaxAccel),
		slowMode: drive.NewSlowMode(cfg.Input.SlowModeFactor),
		odometry: odometry.NewEstimator(odometry.Pose2D{
			X:       cfg.Odometry.StartX,
			Y:       cfg.Odometry.StartY,
			Heading: odometry.WrapDegrees(cfg.Odometry.StartHeading),
		}),
	}
}

// Command runs shaping, mixing, slow mode and limiting for one period of dt
// seconds.
func (l *Loop) Command(js joystick.State, dt float64) drive.DriveCommand {
	speed := l.shaper.Shape(js.Axis(l.speedAxis))
	rotation := l.shaper.Shape(js.Axis(l.rotationAxis))

	l.slowMode.Update(js.Button(l.slowButton))
	cmd := l.slowMode.Apply(drive.ArcadeMix(speed, rotation))

	return l.limiter.Limit(cmd, dt)
}

// Estimate integrates the gyro into a heading and feeds it with the encoder
// distances to the odometry.
func (l *Loop) Estimate(r sensors.Reading, dt float64) odometry.Pose2D {
	omega := sensors.VerticalRate(r.Gyro, l.gyroAxis)
	heading := odometry.IntegrateHeading(l.odometry.Heading(), omega, dt)
	left, right := r.Distances(l.distancePerTick)
	return l.odometry.Update(heading, left, right)
}

// Step runs a whole period. A nil reading leaves the pose unchanged.
func (l *Loop) Step(js joystick.State, r *sensors.Reading, dt float64) Tick {
	l.elapsed += dt

	cmd := l.Command(js, dt)
	pose := l.odometry.Pose()
	if r != nil {
		pose = l.Estimate(*r, dt)
	}

	return Tick{
		Elapsed:  l.elapsed,
		Dt:       dt,
		Command:  cmd,
		Wheels:   cmd.ToWheelVelocities(l.freeSpeed),
		SlowMode: l.slowMode.Active(),
		Pose:     pose,
	}
}

// Pose returns the current estimate.
func (l *Loop) Pose() odometry.Pose2D {
	return l.odometry.Pose()
}

// ResetPose moves the estimate. Encoder distances restart from zero, so the
// caller must also zero the encoders.
func (l *Loop) ResetPose(p odometry.Pose2D) {
	l.odometry.Reset(p.X, p.Y, odometry.WrapDegrees(p.Heading))
}
