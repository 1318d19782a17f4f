// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

// Package sim is a kinematic stand-in for the drivetrain hardware: it accepts
// motor velocities and reports encoder counts and gyro rate as if the robot
// had driven with no wheel slip.
package sim

import (
	"sync"

	"github.com/golang/geo/r3"

	"github.com/relabs-tech/drivetrain_computer/internal/config"
	"github.com/relabs-tech/drivetrain_computer/internal/drive"
	"github.com/relabs-tech/drivetrain_computer/internal/sensors"
)

// Plant is a simulated four-wheel differential drivetrain.
type Plant struct {
	wheelRadius     float64
	gearing         float64
	trackWidth      float64
	distancePerTick float64
	gyroAxis        string

	mu            sync.Mutex
	cmd           drive.WheelVelocities
	leftDistance  float64
	rightDistance float64
	yawRate       float64
	elapsed       float64
}

// New builds a plant from the drivetrain geometry in cfg.
func New(cfg *config.Config) *Plant {
	return &Plant{
		wheelRadius:     cfg.Drivetrain.WheelDiameter / 2,
		gearing:         cfg.Drivetrain.Gearing,
		trackWidth:      cfg.Drivetrain.TrackWidth,
		distancePerTick: cfg.DistancePerTick(),
		gyroAxis:        cfg.Odometry.GyroAxis,
	}
}

// SetWheelVelocities takes motor shaft velocities in rad/s.
func (p *Plant) SetWheelVelocities(w drive.WheelVelocities) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cmd = w
	return nil
}

// Advance moves simulated time forward by dt seconds at the current command.
func (p *Plant) Advance(dt float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	vl := p.linear(0.5 * (p.cmd.FrontLeft + p.cmd.BackLeft))
	vr := p.linear(0.5 * (p.cmd.FrontRight + p.cmd.BackRight))

	p.leftDistance += vl * dt
	p.rightDistance += vr * dt
	// counterclockwise positive
	p.yawRate = (vr - vl) / p.trackWidth
	p.elapsed += dt
}

func (p *Plant) linear(motorRadPerSec float64) float64 {
	return motorRadPerSec / p.gearing * p.wheelRadius
}

// Read implements sensors.Source.
func (p *Plant) Read() (sensors.Reading, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var g r3.Vector
	switch p.gyroAxis {
	case "x":
		g.X = p.yawRate
	case "z":
		g.Z = p.yawRate
	default:
		g.Y = p.yawRate
	}

	return sensors.Reading{
		LeftTicks:  p.leftDistance / p.distancePerTick,
		RightTicks: p.rightDistance / p.distancePerTick,
		Gyro:       g,
	}, nil
}

// Elapsed is the simulated time in seconds.
func (p *Plant) Elapsed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.elapsed
}
